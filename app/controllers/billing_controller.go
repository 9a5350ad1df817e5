package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/thejzagency/swfldines/app/models"
	"github.com/thejzagency/swfldines/app/repository"
	"github.com/thejzagency/swfldines/internal/pkg/billing"
	"github.com/thejzagency/swfldines/internal/pkg/database"
	"github.com/thejzagency/swfldines/internal/pkg/entitlements"
	"github.com/thejzagency/swfldines/internal/pkg/env"
	"github.com/thejzagency/swfldines/internal/pkg/usercontext"
)

type checkoutRequest struct {
	Tier string `json:"tier"`
}

// HandleListTiers returns the sellable tiers with their entitlements, for
// the public pricing page.
func HandleListTiers(c *fiber.Ctx) error {
	tiers := []entitlements.Tier{
		entitlements.TierFree,
		entitlements.TierFeatured,
		entitlements.TierPremium,
		entitlements.TierSpotlight,
	}

	out := make([]fiber.Map, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, fiber.Map{
			"tier":        tier,
			"entitlement": entitlements.For(tier),
			"purchasable": billing.PriceIDForTier(tier) != "",
		})
	}
	return c.JSON(fiber.Map{"tiers": out})
}

// HandleCreateCheckout opens a Stripe Checkout session for upgrading a
// listing. The tier is only applied when the webhook confirms payment.
func HandleCreateCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	restaurant, err := repos.GetRestaurantRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Restaurant not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load restaurant")
	}
	if !restaurant.IsClaimedBy(userCtx.UserID) {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "You do not manage this listing")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	tier := entitlements.ParseTier(req.Tier)
	priceID := billing.PriceIDForTier(tier)
	if priceID == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", "This tier cannot be purchased")
	}

	if tier == entitlements.TierSpotlight {
		if capStr := env.GetEnv("SPOTLIGHT_MAX_ACTIVE", "0"); capStr != "0" {
			maxActive, _ := strconv.ParseInt(capStr, 10, 64)
			count, err := repos.GetRestaurantRepository().CountActiveByListingType(models.ListingTypeSpotlight)
			if err != nil {
				return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count spotlight listings")
			}
			if maxActive > 0 && count >= maxActive {
				return jsonError(c, fiber.StatusConflict, "conflict", "All spotlight slots are taken")
			}
		}
	}

	publicDomain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:3000")
	session, err := billing.NewStripeClientFromEnv().CreateCheckoutSession(c.Context(), billing.CheckoutParams{
		PriceID:       priceID,
		CustomerEmail: userCtx.Email,
		SuccessURL:    publicDomain + "/owner/billing/success",
		CancelURL:     publicDomain + "/owner/billing/cancel",
		Metadata: map[string]string{
			"restaurant_id": strconv.FormatUint(uint64(restaurant.ID), 10),
			"user_id":       strconv.FormatUint(uint64(userCtx.UserID), 10),
			"tier":          string(tier),
		},
	})
	if err != nil {
		log.Errorf("Failed to create checkout session for restaurant %d: %v", restaurant.ID, err)
		return jsonError(c, fiber.StatusBadGateway, "payment_provider_error", "Failed to start checkout")
	}

	return c.JSON(fiber.Map{
		"checkout_session_id": session.ID,
		"checkout_url":        session.URL,
	})
}

// HandleStripeWebhook receives Stripe events. Signature is verified against
// the raw body, events are stored idempotently, and the listing tier only
// ever changes here or via the admin override.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	signatureValid := billing.VerifyStripeWebhookSignature(payload, c.Get("Stripe-Signature"), secret)

	service := billing.NewServiceFromDB(database.GetDB())

	event, parseErr := billing.ParseWebhookEvent(payload)
	eventID := ""
	eventType := ""
	if parseErr == nil {
		eventID = event.ID
		eventType = event.Type
	}

	created, stored, err := service.RecordWebhookEvent(c.Context(), billing.WebhookEventInput{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(payload),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		log.Errorf("Failed to record stripe webhook event: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to record event")
	}

	if !signatureValid {
		return jsonError(c, fiber.StatusBadRequest, "invalid_signature", "Webhook signature verification failed")
	}
	if parseErr != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid webhook payload")
	}
	if !created && stored.ProcessedAt != nil {
		// Stripe retries delivery; a processed event is acknowledged as-is.
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	processErr := processStripeEvent(c, service, event)
	if err := service.MarkWebhookProcessed(c.Context(), stored.ID, processErr); err != nil {
		log.Errorf("Failed to mark webhook event %d processed: %v", stored.ID, err)
	}
	if processErr != nil {
		log.Errorf("Stripe webhook %s (%s) failed: %v", eventID, eventType, processErr)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to process event")
	}

	return c.JSON(fiber.Map{"received": true})
}

func processStripeEvent(c *fiber.Ctx, service *billing.Service, event *billing.WebhookEvent) error {
	switch event.Type {
	case "checkout.session.completed":
		session, err := billing.DecodeCheckoutCompleted(event)
		if err != nil {
			return err
		}
		restaurantID, err := strconv.ParseUint(session.Metadata["restaurant_id"], 10, 64)
		if err != nil || restaurantID == 0 {
			return fmt.Errorf("checkout session %s has no restaurant_id metadata", session.ID)
		}
		userID, _ := strconv.ParseUint(session.Metadata["user_id"], 10, 64)

		tier := entitlements.ParseTier(session.Metadata["tier"])
		_, _, err = service.SyncSubscription(c.Context(), billing.NormalizedSubscription{
			UserID:                 uint(userID),
			RestaurantID:           uint(restaurantID),
			Provider:               models.BillingProviderStripe,
			ProviderSubscriptionID: session.Subscription,
			ProviderCustomerID:     session.Customer,
			ProviderPriceRef:       billing.PriceIDForTier(tier),
			Status:                 models.BillingStatusActive,
			RawPayloadJSON:         string(event.Data.Object),
		})
		if err != nil {
			return err
		}

		// Paying owners stop receiving upsell mail.
		sequences := repository.GetGlobalFactory().GetEmailSequenceRepository()
		if err := sequences.CancelActiveByRestaurant(uint(restaurantID)); err != nil {
			log.Errorf("Failed to cancel upsell sequence for restaurant %d: %v", restaurantID, err)
		}

		invalidateListingCache()
		return nil

	case "customer.subscription.updated", "customer.subscription.deleted":
		sub, err := billing.DecodeSubscriptionChanged(event)
		if err != nil {
			return err
		}
		if event.Type == "customer.subscription.deleted" && sub.Status == "" {
			sub.Status = models.BillingStatusCanceled
		}
		_, err = service.SyncSubscriptionStatus(c.Context(), models.BillingProviderStripe, sub.ID, sub, string(event.Data.Object))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Subscription was never linked to a listing; nothing to sync.
				log.Warnf("Stripe subscription %s is unknown, ignoring %s", sub.ID, event.Type)
				return nil
			}
			return err
		}
		invalidateListingCache()
		return nil

	default:
		// Unhandled event types are acknowledged so Stripe stops retrying.
		return nil
	}
}
