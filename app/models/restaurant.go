package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ListingTypeFree      = "free"
	ListingTypeFeatured  = "featured"
	ListingTypePremium   = "premium"
	ListingTypeSpotlight = "spotlight"
)

const (
	RestaurantStatusPending  = "pending"
	RestaurantStatusActive   = "active"
	RestaurantStatusInactive = "inactive"
)

// StringList stores an ordered list of strings as a JSON column
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source")
	}
	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Hours holds opening hours per weekday, stored as a JSON column.
// Empty strings mean "not specified" and are omitted from API output.
type Hours struct {
	Monday    string `json:"monday,omitempty"`
	Tuesday   string `json:"tuesday,omitempty"`
	Wednesday string `json:"wednesday,omitempty"`
	Thursday  string `json:"thursday,omitempty"`
	Friday    string `json:"friday,omitempty"`
	Saturday  string `json:"saturday,omitempty"`
	Sunday    string `json:"sunday,omitempty"`
}

// Value implements the driver.Valuer interface
func (h Hours) Value() (driver.Value, error) {
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (h *Hours) Scan(value interface{}) error {
	if value == nil {
		*h = Hours{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("invalid scan source")
	}
	if len(bytes) == 0 {
		*h = Hours{}
		return nil
	}
	return json.Unmarshal(bytes, h)
}

// Restaurant is a directory listing. ListingType is only ever changed by a
// confirmed payment or an admin override, never by the owner directly.
// Rating and ReviewCount mirror the Google aggregate for the stored place
// id and are written only by the review sync job.
type Restaurant struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UUID            string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	Name            string         `gorm:"type:varchar(255);not null;index" json:"name" validate:"required,min=2,max=255"`
	Description     string         `gorm:"type:text" json:"description"`
	CuisineType     string         `gorm:"type:varchar(100);index" json:"cuisine_type"`
	PriceRange      string         `gorm:"type:varchar(4);default:'$$'" json:"price_range" validate:"omitempty,oneof=$ $$ $$$ $$$$"`
	Phone           string         `gorm:"type:varchar(30)" json:"phone"`
	Email           string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Website         string         `gorm:"type:varchar(255)" json:"website" validate:"omitempty,url"`
	Address         string         `gorm:"type:varchar(255);not null" json:"address" validate:"required"`
	City            string         `gorm:"type:varchar(100);not null;index" json:"city" validate:"required"`
	State           string         `gorm:"type:varchar(10);default:'FL'" json:"state"`
	ZipCode         string         `gorm:"type:varchar(12)" json:"zip_code"`
	Latitude        *float64       `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude       *float64       `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`
	Hours           Hours          `gorm:"type:json" json:"hours"`
	Features        StringList     `gorm:"type:json" json:"features"`
	Images          StringList     `gorm:"type:json" json:"images"`
	MenuURL         string         `gorm:"type:varchar(255)" json:"menu_url"`
	FacebookURL     string         `gorm:"type:varchar(255)" json:"facebook_url"`
	InstagramURL    string         `gorm:"type:varchar(255)" json:"instagram_url"`
	TwitterURL      string         `gorm:"type:varchar(255)" json:"twitter_url"`
	GooglePlaceID   string         `gorm:"type:varchar(191)" json:"google_place_id,omitempty"`
	Rating          *float64       `gorm:"type:decimal(3,2)" json:"rating,omitempty"`
	ReviewCount     int            `gorm:"default:0" json:"review_count"`
	ReviewsSyncedAt *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	ViewCount       int64          `gorm:"default:0" json:"view_count"`
	ClickCount      int64          `gorm:"default:0" json:"click_count"`
	ListingType     string         `gorm:"type:varchar(20);not null;default:'free';index" json:"listing_type"`
	Status          string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	OwnerID         *uint          `gorm:"index" json:"owner_id,omitempty"`
	OwnerClaimed    bool           `gorm:"default:false" json:"owner_claimed"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID if none is set
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return nil
}

// IsActive reports whether the listing is publicly visible
func (r *Restaurant) IsActive() bool {
	return r.Status == RestaurantStatusActive
}

// IsClaimedBy reports whether the given user owns this listing
func (r *Restaurant) IsClaimedBy(userID uint) bool {
	return r.OwnerClaimed && r.OwnerID != nil && *r.OwnerID == userID
}

// FindRestaurantByUUID finds a restaurant by its public UUID
func FindRestaurantByUUID(db *gorm.DB, id string) (*Restaurant, error) {
	var restaurant Restaurant
	result := db.Where("uuid = ?", id).First(&restaurant)
	return &restaurant, result.Error
}
