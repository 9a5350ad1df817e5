package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/thejzagency/swfldines/internal/pkg/cache"
)

// Cache keys for the public directory listing
const (
	RankedListingCacheKey        = "restaurants:active_ranked"
	RankedListingCachePattern    = "restaurants:*"
	RankedListingCacheExpiration = 5
)

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

// parsePagination reads offset/limit query params with sane bounds
func parsePagination(c *fiber.Ctx, defaultLimit, maxLimit int) (offset, limit int) {
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return offset, limit
}

// parseCSV splits a comma-separated query parameter into trimmed values
func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// invalidateListingCache drops all cached directory pages after a write
func invalidateListingCache() {
	_ = cache.DeleteByPattern(RankedListingCachePattern)
}
