package models

import "time"

const (
	ClickTypePhone      = "phone"
	ClickTypeWebsite    = "website"
	ClickTypeEmail      = "email"
	ClickTypeDirections = "directions"
	ClickTypeMenu       = "menu"
)

// RestaurantView is a single page view of a listing
type RestaurantView struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index:idx_restaurant_views_restaurant_time,priority:1" json:"restaurant_id"`
	UserID       *uint     `gorm:"index" json:"user_id,omitempty"`
	SessionID    string    `gorm:"type:varchar(100);index" json:"session_id"`
	ViewedAt     time.Time `gorm:"autoCreateTime;index:idx_restaurant_views_restaurant_time,priority:2" json:"viewed_at"`
}

// RestaurantClick is an engagement event (phone, website, email, directions, menu)
type RestaurantClick struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index:idx_restaurant_clicks_restaurant_time,priority:1" json:"restaurant_id"`
	ClickType    string    `gorm:"type:varchar(20);not null;index" json:"click_type"`
	UserID       *uint     `gorm:"index" json:"user_id,omitempty"`
	SessionID    string    `gorm:"type:varchar(100);index" json:"session_id"`
	ClickedAt    time.Time `gorm:"autoCreateTime;index:idx_restaurant_clicks_restaurant_time,priority:2" json:"clicked_at"`
}

// IsValidClickType reports whether the given click type is one we track
func IsValidClickType(t string) bool {
	switch t {
	case ClickTypePhone, ClickTypeWebsite, ClickTypeEmail, ClickTypeDirections, ClickTypeMenu:
		return true
	default:
		return false
	}
}
