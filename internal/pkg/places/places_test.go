package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		apiKey:     "test-key",
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

func TestFetchDetailsParsesRating(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/maps/api/place/details/json" {
			t.Errorf("unexpected path %q", got)
		}
		if got := r.URL.Query().Get("place_id"); got != "ChIJtest123" {
			t.Errorf("place_id = %q, want ChIJtest123", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"result": {"place_id": "ChIJtest123", "rating": 4.5, "user_ratings_total": 231}
		}`))
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).FetchDetails(context.Background(), "ChIJtest123")
	if err != nil {
		t.Fatalf("FetchDetails returned error: %v", err)
	}
	if details.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5", details.Rating)
	}
	if details.UserRatingsTotal != 231 {
		t.Errorf("UserRatingsTotal = %d, want 231", details.UserRatingsTotal)
	}
}

func TestFetchDetailsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "INVALID_REQUEST", "error_message": "place_id is invalid"}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchDetails(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for non-OK api status")
	}
}

func TestFetchDetailsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).FetchDetails(context.Background(), "ChIJtest123"); err == nil {
		t.Fatal("expected error for HTTP 403")
	}
}

func TestFetchDetailsRequiresConfiguration(t *testing.T) {
	c := &Client{httpClient: http.DefaultClient}
	if c.IsConfigured() {
		t.Error("IsConfigured() = true for a client without an api key")
	}
	if _, err := c.FetchDetails(context.Background(), "ChIJtest123"); err == nil {
		t.Fatal("expected error without an api key")
	}

	c = newTestClient(defaultPlacesBaseURL)
	if _, err := c.FetchDetails(context.Background(), ""); err == nil {
		t.Fatal("expected error for an empty place id")
	}
}
