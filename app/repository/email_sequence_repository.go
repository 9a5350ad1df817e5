package repository

import (
	"time"

	"github.com/thejzagency/swfldines/app/models"
	"gorm.io/gorm"
)

// emailSequenceRepository implements the EmailSequenceRepository interface
type emailSequenceRepository struct {
	db *gorm.DB
}

// NewEmailSequenceRepository creates a new email sequence repository instance
func NewEmailSequenceRepository(db *gorm.DB) EmailSequenceRepository {
	return &emailSequenceRepository{db: db}
}

// Create creates a new email sequence
func (r *emailSequenceRepository) Create(sequence *models.EmailSequence) error {
	return r.db.Create(sequence).Error
}

// GetByID retrieves a sequence by its ID
func (r *emailSequenceRepository) GetByID(id uint) (*models.EmailSequence, error) {
	var sequence models.EmailSequence
	err := r.db.First(&sequence, id).Error
	if err != nil {
		return nil, err
	}
	return &sequence, nil
}

// GetActiveByRestaurant returns the active sequence for a restaurant, if any
func (r *emailSequenceRepository) GetActiveByRestaurant(restaurantID uint) (*models.EmailSequence, error) {
	var sequence models.EmailSequence
	err := r.db.Where("restaurant_id = ? AND status = ?", restaurantID, models.SequenceStatusActive).
		First(&sequence).Error
	if err != nil {
		return nil, err
	}
	return &sequence, nil
}

// ListDue returns active sequences whose next email is scheduled at or
// before now, oldest first.
func (r *emailSequenceRepository) ListDue(now time.Time, limit int) ([]models.EmailSequence, error) {
	var sequences []models.EmailSequence
	err := r.db.Where("status = ? AND next_email_scheduled_at IS NOT NULL AND next_email_scheduled_at <= ?",
		models.SequenceStatusActive, now).
		Order("next_email_scheduled_at ASC").Limit(limit).Find(&sequences).Error
	return sequences, err
}

// Update updates an existing sequence
func (r *emailSequenceRepository) Update(sequence *models.EmailSequence) error {
	return r.db.Save(sequence).Error
}

// CancelActiveByRestaurant cancels the active sequence for a restaurant.
// Called when the owner upgrades so they stop receiving upsell mail.
func (r *emailSequenceRepository) CancelActiveByRestaurant(restaurantID uint) error {
	return r.db.Model(&models.EmailSequence{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, models.SequenceStatusActive).
		Update("status", models.SequenceStatusCancelled).Error
}
