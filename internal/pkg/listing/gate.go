package listing

import (
	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
)

// UpdateRequest is a partial restaurant update. Nil pointers and nil slices
// mean "field not present in the request".
type UpdateRequest struct {
	Name        *string       `json:"name,omitempty"`
	CuisineType *string       `json:"cuisine_type,omitempty"`
	PriceRange  *string       `json:"price_range,omitempty"`
	Phone       *string       `json:"phone,omitempty"`
	Email       *string       `json:"email,omitempty"`
	Address     *string       `json:"address,omitempty"`
	City        *string       `json:"city,omitempty"`
	State       *string       `json:"state,omitempty"`
	ZipCode     *string       `json:"zip_code,omitempty"`
	Hours       *models.Hours `json:"hours,omitempty"`

	Description  *string  `json:"description,omitempty"`
	Website      *string  `json:"website,omitempty"`
	FacebookURL  *string  `json:"facebook_url,omitempty"`
	InstagramURL *string  `json:"instagram_url,omitempty"`
	TwitterURL   *string  `json:"twitter_url,omitempty"`
	MenuURL      *string  `json:"menu_url,omitempty"`
	Features     []string `json:"features,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// UpdateResult reports what the gate refused, as data for user-facing
// messaging ("Upgrade to Featured to edit your website link").
type UpdateResult struct {
	RejectedFields []string `json:"rejected_fields"`
	DroppedImages  int      `json:"dropped_images"`
}

// ApplyUpdate filters a proposed update down to the fields the listing's
// tier may change. It is pure: nothing is persisted, the caller writes
// `accepted` back to the store. Gating depends only on the tier, not on the
// listing status; status transitions are a separate admin concern.
func ApplyUpdate(current *models.Restaurant, proposed UpdateRequest, tier entitlements.Tier) (UpdateRequest, UpdateResult) {
	ent := entitlements.For(tier)

	var accepted UpdateRequest
	var result UpdateResult

	// Always-editable basics, regardless of tier.
	accepted.Name = proposed.Name
	accepted.CuisineType = proposed.CuisineType
	accepted.PriceRange = proposed.PriceRange
	accepted.Phone = proposed.Phone
	accepted.Email = proposed.Email
	accepted.Address = proposed.Address
	accepted.City = proposed.City
	accepted.State = proposed.State
	accepted.ZipCode = proposed.ZipCode
	accepted.Hours = proposed.Hours

	reject := func(name string) {
		result.RejectedFields = append(result.RejectedFields, name)
	}

	if proposed.Description != nil {
		if ent.CanEditDescription {
			accepted.Description = proposed.Description
		} else {
			reject("description")
		}
	}
	if proposed.Website != nil {
		if ent.CanEditWebsite {
			accepted.Website = proposed.Website
		} else {
			reject("website")
		}
	}
	if proposed.FacebookURL != nil {
		if ent.CanEditSocialLinks {
			accepted.FacebookURL = proposed.FacebookURL
		} else {
			reject("facebook_url")
		}
	}
	if proposed.InstagramURL != nil {
		if ent.CanEditSocialLinks {
			accepted.InstagramURL = proposed.InstagramURL
		} else {
			reject("instagram_url")
		}
	}
	if proposed.TwitterURL != nil {
		if ent.CanEditSocialLinks {
			accepted.TwitterURL = proposed.TwitterURL
		} else {
			reject("twitter_url")
		}
	}
	if proposed.MenuURL != nil {
		if ent.CanEditMenuURL {
			accepted.MenuURL = proposed.MenuURL
		} else {
			reject("menu_url")
		}
	}

	// Feature tags are all-or-nothing: either the whole proposed set is
	// taken, or the existing set stays untouched. Never merged.
	if proposed.Features != nil {
		if ent.CanEditFeatureTags {
			accepted.Features = proposed.Features
		} else {
			reject("features")
		}
	}

	if proposed.Images != nil {
		accepted.Images, result.DroppedImages = gateImages(current, proposed.Images, ent.MaxImages)
		if accepted.Images == nil {
			reject("images")
		} else if result.DroppedImages > 0 {
			reject("images")
		}
	}

	return accepted, result
}

// ApplyTo writes the accepted fields onto a restaurant record. Only fields
// present in the request are touched.
func (u UpdateRequest) ApplyTo(r *models.Restaurant) {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.CuisineType != nil {
		r.CuisineType = *u.CuisineType
	}
	if u.PriceRange != nil {
		r.PriceRange = *u.PriceRange
	}
	if u.Phone != nil {
		r.Phone = *u.Phone
	}
	if u.Email != nil {
		r.Email = *u.Email
	}
	if u.Address != nil {
		r.Address = *u.Address
	}
	if u.City != nil {
		r.City = *u.City
	}
	if u.State != nil {
		r.State = *u.State
	}
	if u.ZipCode != nil {
		r.ZipCode = *u.ZipCode
	}
	if u.Hours != nil {
		r.Hours = *u.Hours
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Website != nil {
		r.Website = *u.Website
	}
	if u.FacebookURL != nil {
		r.FacebookURL = *u.FacebookURL
	}
	if u.InstagramURL != nil {
		r.InstagramURL = *u.InstagramURL
	}
	if u.TwitterURL != nil {
		r.TwitterURL = *u.TwitterURL
	}
	if u.MenuURL != nil {
		r.MenuURL = *u.MenuURL
	}
	if u.Features != nil {
		r.Features = models.StringList(u.Features)
	}
	if u.Images != nil {
		r.Images = models.StringList(u.Images)
	}
}

// gateImages applies the tier image quota. After a downgrade a listing may
// hold more images than the new quota allows; that content is frozen, not
// deleted: the whole field is locked until the list fits the quota again.
// Otherwise the proposed list is accepted up to the quota and the excess is
// rejected as a batch with an explicit count.
func gateImages(current *models.Restaurant, proposed []string, quota int) ([]string, int) {
	if current != nil && len(current.Images) > quota {
		return nil, len(proposed)
	}
	if len(proposed) <= quota {
		return proposed, 0
	}
	return proposed[:quota], len(proposed) - quota
}
