package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/internal/pkg/cache"
	"github.com/thejzagency/swfldines/internal/pkg/database"
)

const (
	CacheKeyRestaurantsTotal  = "statistics:restaurants:total"
	CacheKeyRestaurantsActive = "statistics:restaurants:active"
	CacheKeyCitiesTotal       = "statistics:cities:total"
	CacheKeyUsersTotal        = "statistics:users:total"
	CacheExpiration           = 30 * time.Minute
)

// StatisticsData holds the directory totals shown on public pages
type StatisticsData struct {
	TotalRestaurants  int
	ActiveRestaurants int
	TotalCities       int
	TotalUsers        int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cache is stale
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the statistics cache when it is stale
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next check to refresh the cache
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recomputes all directory totals and stores them in the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalRestaurants int64
	if err := db.Model(&models.Restaurant{}).Count(&totalRestaurants).Error; err != nil {
		return err
	}

	var activeRestaurants int64
	if err := db.Model(&models.Restaurant{}).
		Where("status = ?", models.RestaurantStatusActive).
		Count(&activeRestaurants).Error; err != nil {
		return err
	}

	var totalCities int64
	if err := db.Model(&models.Restaurant{}).
		Where("status = ?", models.RestaurantStatusActive).
		Distinct("city").Count(&totalCities).Error; err != nil {
		return err
	}

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	if err := cache.Set(CacheKeyRestaurantsTotal, strconv.FormatInt(totalRestaurants, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyRestaurantsActive, strconv.FormatInt(activeRestaurants, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyCitiesTotal, strconv.FormatInt(totalCities, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		return err
	}

	return nil
}

// GetStatistics returns the cached directory totals, refreshing the cache if needed
func GetStatistics() StatisticsData {
	UpdateCacheIfNeeded()

	totalRestaurants, _ := cache.GetInt(CacheKeyRestaurantsTotal)
	activeRestaurants, _ := cache.GetInt(CacheKeyRestaurantsActive)
	totalCities, _ := cache.GetInt(CacheKeyCitiesTotal)
	totalUsers, _ := cache.GetInt(CacheKeyUsersTotal)

	return StatisticsData{
		TotalRestaurants:  totalRestaurants,
		ActiveRestaurants: activeRestaurants,
		TotalCities:       totalCities,
		TotalUsers:        totalUsers,
	}
}
