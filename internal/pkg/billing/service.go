package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
)

// Service provides provider-neutral billing synchronization. The listing
// tier is only ever written here (payment confirmation) or by an admin
// override, never by the owner directly.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// SyncSubscription upserts provider subscription data and reconciles the
// restaurant's listing tier from all of its subscriptions.
func (s *Service) SyncSubscription(ctx context.Context, in NormalizedSubscription) (*models.BillingSubscription, string, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if in.RestaurantID == 0 || provider == "" || strings.TrimSpace(in.ProviderSubscriptionID) == "" {
		return nil, "", errors.New("restaurant_id, provider and provider_subscription_id are required")
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.BillingStatusActive
	}

	tier := TierForPriceID(in.ProviderPriceRef)

	sub := &models.BillingSubscription{
		UserID:                 in.UserID,
		RestaurantID:           in.RestaurantID,
		Provider:               provider,
		ProviderSubscriptionID: strings.TrimSpace(in.ProviderSubscriptionID),
		ProviderCustomerID:     strings.TrimSpace(in.ProviderCustomerID),
		ProviderPriceRef:       strings.TrimSpace(in.ProviderPriceRef),
		ListingTier:            string(tier),
		Status:                 status,
		CurrentPeriodStart:     in.CurrentPeriodStart,
		CurrentPeriodEnd:       in.CurrentPeriodEnd,
		CancelAtPeriodEnd:      in.CancelAtPeriodEnd,
		RawPayloadJSON:         in.RawPayloadJSON,
	}
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return nil, "", err
	}

	effectiveTier, err := s.ReconcileRestaurantTier(ctx, in.RestaurantID)
	if err != nil {
		return sub, "", err
	}
	return sub, effectiveTier, nil
}

// ReconcileRestaurantTier computes the best entitling tier across all of a
// restaurant's subscriptions and writes it when it differs from the stored
// listing type. A lapsed subscription therefore downgrades to free; listing
// content beyond the new quota stays in place and is frozen by the field
// gate, not deleted.
func (s *Service) ReconcileRestaurantTier(ctx context.Context, restaurantID uint) (string, error) {
	_ = ctx
	if restaurantID == 0 {
		return "", errors.New("restaurant_id is required")
	}

	subs, err := s.repo.ListSubscriptionsByRestaurant(restaurantID)
	if err != nil {
		return "", err
	}

	best := string(entitlements.TierFree)
	for _, sub := range subs {
		if !isEntitlingStatus(sub.Status) {
			continue
		}
		candidate := normalizeTier(sub.ListingTier)
		if tierRank(candidate) > tierRank(best) {
			best = candidate
		}
	}

	restaurant, err := s.repo.GetRestaurantByID(restaurantID)
	if err != nil {
		return "", err
	}
	if normalizeTier(restaurant.ListingType) == best {
		return best, nil
	}
	if err := s.repo.UpdateRestaurantListingType(restaurantID, best); err != nil {
		return "", err
	}
	return best, nil
}

// SyncSubscriptionStatus updates a known subscription from a provider-side
// change event and reconciles the affected restaurant.
func (s *Service) SyncSubscriptionStatus(ctx context.Context, provider, providerSubscriptionID string, changed *SubscriptionChanged, rawPayload string) (string, error) {
	sub, err := s.repo.GetSubscriptionByProviderID(strings.ToLower(strings.TrimSpace(provider)), strings.TrimSpace(providerSubscriptionID))
	if err != nil {
		return "", err
	}

	in := NormalizedSubscription{
		UserID:                 sub.UserID,
		RestaurantID:           sub.RestaurantID,
		Provider:               sub.Provider,
		ProviderSubscriptionID: sub.ProviderSubscriptionID,
		ProviderCustomerID:     changed.Customer,
		ProviderPriceRef:       changed.PriceID(),
		Status:                 changed.Status,
		CancelAtPeriodEnd:      changed.CancelAtPeriodEnd,
		CurrentPeriodStart:     unixTimePtr(changed.CurrentPeriodStart),
		CurrentPeriodEnd:       unixTimePtr(changed.CurrentPeriodEnd),
		RawPayloadJSON:         rawPayload,
	}
	if in.ProviderPriceRef == "" {
		in.ProviderPriceRef = sub.ProviderPriceRef
	}
	if in.ProviderCustomerID == "" {
		in.ProviderCustomerID = sub.ProviderCustomerID
	}

	_, effectiveTier, err := s.SyncSubscription(ctx, in)
	return effectiveTier, err
}

func unixTimePtr(ts int64) *time.Time {
	if ts <= 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
