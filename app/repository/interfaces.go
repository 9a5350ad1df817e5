package repository

import (
	"time"

	"github.com/thejzagency/swfldines/app/models"
	"gorm.io/gorm"
)

// RestaurantRepository defines the interface for restaurant-related database operations
type RestaurantRepository interface {
	Create(restaurant *models.Restaurant) error
	GetByID(id uint) (*models.Restaurant, error)
	GetByUUID(uuid string) (*models.Restaurant, error)
	Update(restaurant *models.Restaurant) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	ListActive() ([]models.Restaurant, error)
	ListByStatus(status string, offset, limit int) ([]models.Restaurant, error)
	ListByOwner(ownerID uint) ([]models.Restaurant, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	CountActiveByListingType(listingType string) (int64, error)
	DistinctActiveCities() ([]string, error)
	DistinctActiveCuisines() ([]string, error)
	SetStatus(id uint, status string) error
	SetListingType(id uint, listingType string) error
	Claim(id uint, ownerID uint) error
	BulkCreate(restaurants []models.Restaurant) (int, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// BlogRepository defines the interface for blog post operations
type BlogRepository interface {
	Create(post *models.BlogPost) error
	GetByID(id uint) (*models.BlogPost, error)
	GetBySlug(slug string) (*models.BlogPost, error)
	GetPublished(offset, limit int) ([]models.BlogPost, error)
	GetAll(offset, limit int) ([]models.BlogPost, error)
	Update(post *models.BlogPost) error
	Delete(id uint) error
	Count() (int64, error)
	SlugExists(slug string) (bool, error)
}

// EmailSequenceRepository defines the interface for upsell email sequences
type EmailSequenceRepository interface {
	Create(sequence *models.EmailSequence) error
	GetByID(id uint) (*models.EmailSequence, error)
	GetActiveByRestaurant(restaurantID uint) (*models.EmailSequence, error)
	ListDue(now time.Time, limit int) ([]models.EmailSequence, error)
	Update(sequence *models.EmailSequence) error
	CancelActiveByRestaurant(restaurantID uint) error
}

// AnalyticsRepository defines the interface for view and click tracking
type AnalyticsRepository interface {
	RecordView(view *models.RestaurantView) error
	RecordClick(click *models.RestaurantClick) error
	CountViewsSince(restaurantID uint, since time.Time) (int64, error)
	CountClicksSince(restaurantID uint, since time.Time) (int64, error)
	ClicksByTypeSince(restaurantID uint, since time.Time) (map[string]int64, error)
	DailyViews(restaurantID uint, start, end time.Time) ([]DailyCount, error)
}

// DailyCount is one day of aggregated analytics events
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	Restaurant    RestaurantRepository
	User          UserRepository
	Blog          BlogRepository
	EmailSequence EmailSequenceRepository
	Analytics     AnalyticsRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Restaurant:    NewRestaurantRepository(db),
		User:          NewUserRepository(db),
		Blog:          NewBlogRepository(db),
		EmailSequence: NewEmailSequenceRepository(db),
		Analytics:     NewAnalyticsRepository(db),
	}
}
