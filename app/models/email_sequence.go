package models

import "time"

const (
	SequenceTypeUpsell = "upsell"

	SequenceStatusActive    = "active"
	SequenceStatusCompleted = "completed"
	SequenceStatusCancelled = "cancelled"
)

// EmailSequence is a scheduled multi-step email campaign attached to a
// restaurant, created when an owner claims a free listing.
type EmailSequence struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	RestaurantID         uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant           Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	SequenceType         string     `gorm:"type:varchar(30);not null;default:'upsell'" json:"sequence_type"`
	CurrentStep          int        `gorm:"default:0" json:"current_step"`
	TotalSteps           int        `gorm:"default:2" json:"total_steps"`
	Status               string     `gorm:"type:varchar(20);not null;default:'active';index:idx_email_sequences_status_due,priority:1" json:"status"`
	LastEmailSentAt      *time.Time `gorm:"type:timestamp;default:null" json:"last_email_sent_at,omitempty"`
	NextEmailScheduledAt *time.Time `gorm:"type:timestamp;default:null;index:idx_email_sequences_status_due,priority:2" json:"next_email_scheduled_at,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
