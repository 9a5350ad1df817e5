package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"
)

func signPayload(t *testing.T, payload []byte, secret string, ts int64) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyStripeSignatureValid(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Unix(1700000000, 0)
	sig := signPayload(t, payload, secret, now.Unix())

	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig)
	if !verifyStripeSignatureAt(payload, header, secret, now, DefaultSignatureTolerance) {
		t.Fatal("expected valid signature to verify")
	}
}

func TestVerifyStripeSignatureMultipleCandidates(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{}`)
	now := time.Unix(1700000000, 0)
	good := signPayload(t, payload, secret, now.Unix())

	// Stripe sends extra v1 entries during secret rotation.
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), hex.EncodeToString(make([]byte, 32)), good)
	if !verifyStripeSignatureAt(payload, header, secret, now, DefaultSignatureTolerance) {
		t.Fatal("expected any matching v1 candidate to verify")
	}
}

func TestVerifyStripeSignatureRejections(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Unix(1700000000, 0)
	sig := signPayload(t, payload, secret, now.Unix())

	tests := []struct {
		name   string
		header string
		now    time.Time
		secret string
	}{
		{"empty header", "", now, secret},
		{"missing timestamp", "v1=" + sig, now, secret},
		{"missing signature", fmt.Sprintf("t=%d", now.Unix()), now, secret},
		{"malformed timestamp", "t=abc,v1=" + sig, now, secret},
		{"wrong secret", fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig), now, "whsec_other"},
		{"tampered body hmac", fmt.Sprintf("t=%d,v1=%s", now.Unix(), signPayload(t, []byte(`{"id":"evt_2"}`), secret, now.Unix())), now, secret},
		{"too old", fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig), now.Add(6 * time.Minute), secret},
		{"from the future", fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig), now.Add(-6 * time.Minute), secret},
		{"no secret configured", fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig), now, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if verifyStripeSignatureAt(payload, tt.header, tt.secret, tt.now, DefaultSignatureTolerance) {
				t.Error("expected signature verification to fail")
			}
		})
	}
}

func TestVerifyStripeSignatureWithinTolerance(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{}`)
	signed := time.Unix(1700000000, 0)
	sig := signPayload(t, payload, secret, signed.Unix())
	header := fmt.Sprintf("t=%d,v1=%s", signed.Unix(), sig)

	if !verifyStripeSignatureAt(payload, header, secret, signed.Add(4*time.Minute), DefaultSignatureTolerance) {
		t.Error("4 minutes old should be within tolerance")
	}
	if verifyStripeSignatureAt(payload, header, secret, signed.Add(5*time.Minute+time.Second), DefaultSignatureTolerance) {
		t.Error("past tolerance should be rejected")
	}
}
