package repository

import (
	"fmt"
	"strings"

	"github.com/thejzagency/swfldines/app/models"
	"gorm.io/gorm"
)

// restaurantRepository implements the RestaurantRepository interface
type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository instance
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// Create creates a new restaurant in the database
func (r *restaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}

// GetByID retrieves a restaurant by its ID
func (r *restaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.First(&restaurant, id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// GetByUUID retrieves a restaurant by its public UUID
func (r *restaurantRepository) GetByUUID(uuid string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.Where("uuid = ?", uuid).First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// Update saves all fields of an existing restaurant
func (r *restaurantRepository) Update(restaurant *models.Restaurant) error {
	return r.db.Save(restaurant).Error
}

// UpdateFields applies a partial column update. Callers pass only the
// columns that survived the field gate.
func (r *restaurantRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Restaurant{}).Where("id = ?", id).Updates(fields).Error
}

// Delete soft deletes a restaurant by its ID
func (r *restaurantRepository) Delete(id uint) error {
	return r.db.Delete(&models.Restaurant{}, id).Error
}

// ListActive returns every publicly visible listing. Ordering is applied
// afterwards by the ranker, not by the query.
func (r *restaurantRepository) ListActive() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Where("status = ?", models.RestaurantStatusActive).
		Order("created_at ASC").Find(&restaurants).Error
	return restaurants, err
}

// ListByStatus retrieves a paginated list of restaurants in a given status
func (r *restaurantRepository) ListByStatus(status string, offset, limit int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&restaurants).Error
	return restaurants, err
}

// ListByOwner returns all listings claimed by the given user
func (r *restaurantRepository) ListByOwner(ownerID uint) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.Where("owner_id = ? AND owner_claimed = ?", ownerID, true).
		Order("created_at DESC").Find(&restaurants).Error
	return restaurants, err
}

// Count returns the total number of restaurants
func (r *restaurantRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Restaurant{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of restaurants in a given status
func (r *restaurantRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Restaurant{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountActiveByListingType returns the number of active listings on a tier
func (r *restaurantRepository) CountActiveByListingType(listingType string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Restaurant{}).
		Where("status = ? AND listing_type = ?", models.RestaurantStatusActive, listingType).
		Count(&count).Error
	return count, err
}

// DistinctActiveCities lists the cities that have at least one active listing
func (r *restaurantRepository) DistinctActiveCities() ([]string, error) {
	var cities []string
	err := r.db.Model(&models.Restaurant{}).
		Where("status = ?", models.RestaurantStatusActive).
		Distinct("city").Order("city").Pluck("city", &cities).Error
	return cities, err
}

// DistinctActiveCuisines lists the cuisine types of active listings
func (r *restaurantRepository) DistinctActiveCuisines() ([]string, error) {
	var cuisines []string
	err := r.db.Model(&models.Restaurant{}).
		Where("status = ? AND cuisine_type <> ''", models.RestaurantStatusActive).
		Distinct("cuisine_type").Order("cuisine_type").Pluck("cuisine_type", &cuisines).Error
	return cuisines, err
}

// SetStatus updates the moderation status of a listing
func (r *restaurantRepository) SetStatus(id uint, status string) error {
	return r.db.Model(&models.Restaurant{}).Where("id = ?", id).
		Update("status", status).Error
}

// SetListingType writes the listing tier. Only the billing sync and the
// admin override call this.
func (r *restaurantRepository) SetListingType(id uint, listingType string) error {
	return r.db.Model(&models.Restaurant{}).Where("id = ?", id).
		Update("listing_type", listingType).Error
}

// Claim assigns an owner to an unclaimed listing
func (r *restaurantRepository) Claim(id uint, ownerID uint) error {
	result := r.db.Model(&models.Restaurant{}).
		Where("id = ? AND owner_claimed = ?", id, false).
		Updates(map[string]interface{}{
			"owner_id":      ownerID,
			"owner_claimed": true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("restaurant %d is already claimed", id)
	}
	return nil
}

// BulkCreate inserts imported restaurants one by one so a single bad row
// does not abort the whole import. It returns the number created.
func (r *restaurantRepository) BulkCreate(restaurants []models.Restaurant) (int, error) {
	created := 0
	var firstErr error
	for i := range restaurants {
		restaurant := restaurants[i]
		if strings.TrimSpace(restaurant.Name) == "" {
			continue
		}
		if err := r.db.Create(&restaurant).Error; err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("import row %d (%s): %w", i, restaurant.Name, err)
			}
			continue
		}
		created++
	}
	return created, firstErr
}
