package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thejzagency/swfldines/app/models"
)

// fakeRepository keeps billing state in memory so the service can be
// tested without a database.
type fakeRepository struct {
	subs        map[string]*models.BillingSubscription
	restaurants map[uint]*models.Restaurant
	events      map[string]*models.BillingWebhookEvent
	nextID      uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		subs:        make(map[string]*models.BillingSubscription),
		restaurants: make(map[uint]*models.Restaurant),
		events:      make(map[string]*models.BillingWebhookEvent),
	}
}

func (f *fakeRepository) key(provider, subID string) string {
	return provider + "|" + subID
}

func (f *fakeRepository) UpsertSubscription(sub *models.BillingSubscription) error {
	key := f.key(sub.Provider, sub.ProviderSubscriptionID)
	if existing, ok := f.subs[key]; ok {
		sub.ID = existing.ID
	} else {
		f.nextID++
		sub.ID = f.nextID
	}
	stored := *sub
	f.subs[key] = &stored
	return nil
}

func (f *fakeRepository) GetSubscriptionByProviderID(provider, providerSubscriptionID string) (*models.BillingSubscription, error) {
	sub, ok := f.subs[f.key(provider, providerSubscriptionID)]
	if !ok {
		return nil, errors.New("subscription not found")
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeRepository) ListSubscriptionsByRestaurant(restaurantID uint) ([]models.BillingSubscription, error) {
	var out []models.BillingSubscription
	for _, sub := range f.subs {
		if sub.RestaurantID == restaurantID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetRestaurantByID(id uint) (*models.Restaurant, error) {
	restaurant, ok := f.restaurants[id]
	if !ok {
		return nil, errors.New("restaurant not found")
	}
	copied := *restaurant
	return &copied, nil
}

func (f *fakeRepository) UpdateRestaurantListingType(restaurantID uint, listingType string) error {
	restaurant, ok := f.restaurants[restaurantID]
	if !ok {
		return errors.New("restaurant not found")
	}
	restaurant.ListingType = listingType
	return nil
}

func (f *fakeRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	key := f.key(event.Provider, event.ProviderEventID)
	if existing, ok := f.events[key]; ok {
		copied := *existing
		return false, &copied, nil
	}
	f.nextID++
	event.ID = f.nextID
	stored := *event
	f.events[key] = &stored
	copied := stored
	return true, &copied, nil
}

func (f *fakeRepository) MarkWebhookProcessed(id uint, processingError string) error {
	for _, event := range f.events {
		if event.ID == id {
			event.ProcessingError = processingError
			return nil
		}
	}
	return errors.New("event not found")
}

func TestSyncSubscriptionUpgradesTier(t *testing.T) {
	t.Setenv("STRIPE_PRICE_PREMIUM", "price_prem")

	repo := newFakeRepository()
	repo.restaurants[7] = &models.Restaurant{ID: 7, ListingType: models.ListingTypeFree}
	svc := NewService(repo)

	sub, tier, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		UserID:                 3,
		RestaurantID:           7,
		Provider:               "Stripe",
		ProviderSubscriptionID: "sub_abc",
		ProviderCustomerID:     "cus_abc",
		ProviderPriceRef:       "price_prem",
		Status:                 models.BillingStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ListingTypePremium, tier)
	assert.Equal(t, "stripe", sub.Provider)
	assert.Equal(t, models.ListingTypePremium, sub.ListingTier)
	assert.Equal(t, models.ListingTypePremium, repo.restaurants[7].ListingType)
}

func TestSyncSubscriptionUnknownPriceStaysFree(t *testing.T) {
	repo := newFakeRepository()
	repo.restaurants[7] = &models.Restaurant{ID: 7, ListingType: models.ListingTypeFree}
	svc := NewService(repo)

	_, tier, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		RestaurantID:           7,
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_abc",
		ProviderPriceRef:       "price_not_configured",
		Status:                 models.BillingStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ListingTypeFree, tier)
	assert.Equal(t, models.ListingTypeFree, repo.restaurants[7].ListingType)
}

func TestSyncSubscriptionRequiresIdentity(t *testing.T) {
	svc := NewService(newFakeRepository())

	_, _, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_abc",
	})
	assert.Error(t, err)

	_, _, err = svc.SyncSubscription(context.Background(), NormalizedSubscription{
		RestaurantID: 7,
		Provider:     "stripe",
	})
	assert.Error(t, err)
}

func TestReconcilePicksBestEntitlingTier(t *testing.T) {
	repo := newFakeRepository()
	repo.restaurants[7] = &models.Restaurant{ID: 7, ListingType: models.ListingTypeFree}
	repo.subs["stripe|sub_old"] = &models.BillingSubscription{
		ID: 1, RestaurantID: 7, Provider: "stripe", ProviderSubscriptionID: "sub_old",
		ListingTier: models.ListingTypeSpotlight, Status: models.BillingStatusCanceled,
	}
	repo.subs["stripe|sub_new"] = &models.BillingSubscription{
		ID: 2, RestaurantID: 7, Provider: "stripe", ProviderSubscriptionID: "sub_new",
		ListingTier: models.ListingTypeFeatured, Status: models.BillingStatusActive,
	}
	svc := NewService(repo)

	tier, err := svc.ReconcileRestaurantTier(context.Background(), 7)
	require.NoError(t, err)
	// The canceled spotlight no longer entitles; the active featured wins.
	assert.Equal(t, models.ListingTypeFeatured, tier)
	assert.Equal(t, models.ListingTypeFeatured, repo.restaurants[7].ListingType)
}

func TestReconcileDowngradesOnLapse(t *testing.T) {
	repo := newFakeRepository()
	repo.restaurants[7] = &models.Restaurant{ID: 7, ListingType: models.ListingTypePremium}
	repo.subs["stripe|sub_abc"] = &models.BillingSubscription{
		ID: 1, RestaurantID: 7, Provider: "stripe", ProviderSubscriptionID: "sub_abc",
		ListingTier: models.ListingTypePremium, Status: models.BillingStatusCanceled,
	}
	svc := NewService(repo)

	tier, err := svc.ReconcileRestaurantTier(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.ListingTypeFree, tier)
	assert.Equal(t, models.ListingTypeFree, repo.restaurants[7].ListingType)
}

func TestSyncSubscriptionStatusLapseDowngrades(t *testing.T) {
	t.Setenv("STRIPE_PRICE_PREMIUM", "price_prem")

	repo := newFakeRepository()
	repo.restaurants[7] = &models.Restaurant{ID: 7, ListingType: models.ListingTypePremium}
	repo.subs["stripe|sub_abc"] = &models.BillingSubscription{
		ID: 1, UserID: 3, RestaurantID: 7,
		Provider: "stripe", ProviderSubscriptionID: "sub_abc",
		ProviderCustomerID: "cus_abc", ProviderPriceRef: "price_prem",
		ListingTier: models.ListingTypePremium, Status: models.BillingStatusActive,
	}
	svc := NewService(repo)

	tier, err := svc.SyncSubscriptionStatus(context.Background(), "stripe", "sub_abc", &SubscriptionChanged{
		ID:       "sub_abc",
		Customer: "cus_abc",
		Status:   models.BillingStatusCanceled,
	}, `{"id":"sub_abc"}`)
	require.NoError(t, err)
	assert.Equal(t, models.ListingTypeFree, tier)
	assert.Equal(t, models.ListingTypeFree, repo.restaurants[7].ListingType)

	stored := repo.subs["stripe|sub_abc"]
	assert.Equal(t, models.BillingStatusCanceled, stored.Status)
	// Price and customer survive an event that omits them.
	assert.Equal(t, "price_prem", stored.ProviderPriceRef)
	assert.Equal(t, "cus_abc", stored.ProviderCustomerID)
}

func TestRecordWebhookEventIdempotent(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	created, event, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "checkout.session.completed",
		PayloadJSON:     `{"id":"evt_1"}`,
		SignatureValid:  true,
	})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, event)

	created, again, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "checkout.session.completed",
		PayloadJSON:     `{"id":"evt_1"}`,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, event.ID, again.ID)
}

func TestRecordWebhookEventHashFallback(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	created, event, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "stripe",
		PayloadJSON: `{"type":"unknown"}`,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, event.ProviderEventID, "hash:")
}

func TestUnixTimePtr(t *testing.T) {
	assert.Nil(t, unixTimePtr(0))
	assert.Nil(t, unixTimePtr(-5))
	ts := unixTimePtr(1700000000)
	require.NotNil(t, ts)
	assert.Equal(t, int64(1700000000), ts.Unix())
}
