package repository

import (
	"fmt"
	"time"

	"github.com/thejzagency/swfldines/app/models"
	"gorm.io/gorm"
)

// analyticsRepository implements the AnalyticsRepository interface
type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository instance
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// RecordView stores a single listing page view
func (r *analyticsRepository) RecordView(view *models.RestaurantView) error {
	return r.db.Create(view).Error
}

// RecordClick stores a single engagement click
func (r *analyticsRepository) RecordClick(click *models.RestaurantClick) error {
	return r.db.Create(click).Error
}

// CountViewsSince returns the number of views for a restaurant since a date
func (r *analyticsRepository) CountViewsSince(restaurantID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.RestaurantView{}).
		Where("restaurant_id = ? AND viewed_at >= ?", restaurantID, since).
		Count(&count).Error
	return count, err
}

// CountClicksSince returns the number of clicks for a restaurant since a date
func (r *analyticsRepository) CountClicksSince(restaurantID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.RestaurantClick{}).
		Where("restaurant_id = ? AND clicked_at >= ?", restaurantID, since).
		Count(&count).Error
	return count, err
}

// ClicksByTypeSince returns per-type click counts for a restaurant since a date
func (r *analyticsRepository) ClicksByTypeSince(restaurantID uint, since time.Time) (map[string]int64, error) {
	var results []struct {
		ClickType string `json:"click_type"`
		Count     int64  `json:"count"`
	}
	err := r.db.Model(&models.RestaurantClick{}).
		Select("click_type, COUNT(*) as count").
		Where("restaurant_id = ? AND clicked_at >= ?", restaurantID, since).
		Group("click_type").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get click breakdown: %w", err)
	}

	breakdown := make(map[string]int64, len(results))
	for _, result := range results {
		breakdown[result.ClickType] = result.Count
	}
	return breakdown, nil
}

// DailyViews returns daily view counts for a restaurant within a date range
func (r *analyticsRepository) DailyViews(restaurantID uint, start, end time.Time) ([]DailyCount, error) {
	var results []struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}

	// DATE_FORMAT for MySQL compatibility and proper date formatting
	err := r.db.Model(&models.RestaurantView{}).
		Select("DATE_FORMAT(viewed_at, '%Y-%m-%d') as date, COUNT(*) as count").
		Where("restaurant_id = ? AND viewed_at BETWEEN ? AND ?", restaurantID, start, end).
		Group("DATE_FORMAT(viewed_at, '%Y-%m-%d')").
		Order("date").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily view stats: %w", err)
	}

	daily := make([]DailyCount, len(results))
	for i, result := range results {
		daily[i] = DailyCount{Date: result.Date, Count: result.Count}
	}
	return daily, nil
}
