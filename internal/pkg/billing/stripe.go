package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thejzagency/swfldines/internal/pkg/env"
)

const defaultStripeBaseURL = "https://api.stripe.com"

// StripeClient is a minimal REST client for the two Stripe calls this
// service makes. Configuration is injected, never hardcoded.
type StripeClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewStripeClientFromEnv builds a client from STRIPE_SECRET_KEY and an
// optional STRIPE_API_BASE override (used in tests).
func NewStripeClientFromEnv() *StripeClient {
	return &StripeClient{
		secretKey:  env.GetEnv("STRIPE_SECRET_KEY", ""),
		baseURL:    env.GetEnv("STRIPE_API_BASE", defaultStripeBaseURL),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// CheckoutParams describes a subscription checkout for one listing tier.
type CheckoutParams struct {
	PriceID       string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the subset of the Stripe response the app uses.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession opens a Stripe Checkout session in subscription mode.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is not configured")
	}
	if params.PriceID == "" {
		return nil, fmt.Errorf("price id is required")
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stripe checkout session failed: status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("stripe checkout session: invalid response: %w", err)
	}
	return &session, nil
}

// WebhookEvent is the envelope of a Stripe webhook payload.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ParseWebhookEvent decodes the webhook envelope.
func ParseWebhookEvent(raw []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("invalid webhook payload: missing type")
	}
	return &event, nil
}

// CheckoutCompleted is the checkout.session.completed object subset.
type CheckoutCompleted struct {
	ID           string            `json:"id"`
	Customer     string            `json:"customer"`
	Subscription string            `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

// SubscriptionChanged is the customer.subscription.* object subset.
type SubscriptionChanged struct {
	ID                 string `json:"id"`
	Customer           string `json:"customer"`
	Status             string `json:"status"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Items              struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// PriceID returns the price of the first subscription item, if any.
func (s *SubscriptionChanged) PriceID() string {
	if len(s.Items.Data) == 0 {
		return ""
	}
	return s.Items.Data[0].Price.ID
}

// DecodeCheckoutCompleted extracts the session object from an event.
func DecodeCheckoutCompleted(event *WebhookEvent) (*CheckoutCompleted, error) {
	var session CheckoutCompleted
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return nil, fmt.Errorf("invalid checkout.session payload: %w", err)
	}
	return &session, nil
}

// DecodeSubscriptionChanged extracts the subscription object from an event.
func DecodeSubscriptionChanged(event *WebhookEvent) (*SubscriptionChanged, error) {
	var sub SubscriptionChanged
	if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
		return nil, fmt.Errorf("invalid subscription payload: %w", err)
	}
	return &sub, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
