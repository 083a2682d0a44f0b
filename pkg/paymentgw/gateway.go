package paymentgw

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roomvista/decor-services/visualizer/pkg/httpclient"
)

const CheckoutEndpoint = "/v1/checkout/sessions"

// Gateway models the hosted payment platform contract: session creation over
// HTTP and HMAC-signed webhook delivery. The concrete vendor scheme is out of
// scope; signatures here are hex HMAC-SHA256 over the raw payload.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, request CheckoutRequest) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (SessionStatus, error)
	VerifyWebhook(payload []byte, signature string) (Event, error)
}

type gateway struct {
	client httpclient.HTTPClient
	config Config
}

func NewGateway(cfg Config, client httpclient.HTTPClient) Gateway {
	return &gateway{config: cfg, client: client}
}

func (g *gateway) CreateCheckoutSession(ctx context.Context, request CheckoutRequest) (CheckoutSession, error) {
	if request.SuccessURL == "" {
		request.SuccessURL = g.config.SuccessURL
	}
	if request.CancelURL == "" {
		request.CancelURL = g.config.CancelURL
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return CheckoutSession{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + g.config.APIKey,
	}

	resp, err := g.client.Post(ctx, g.config.BaseURL+CheckoutEndpoint, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return CheckoutSession{}, ErrTimeout
		}

		return CheckoutSession{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return CheckoutSession{}, MapStatusToError(resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return CheckoutSession{}, fmt.Errorf("decoding error: %w", err)
	}

	return session, nil
}

func (g *gateway) GetCheckoutSession(ctx context.Context, sessionID string) (SessionStatus, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + g.config.APIKey,
	}

	resp, err := g.client.Get(ctx, g.config.BaseURL+CheckoutEndpoint+"/"+sessionID, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return SessionStatus{}, ErrTimeout
		}

		return SessionStatus{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return SessionStatus{}, MapStatusToError(resp.StatusCode)
	}

	var status SessionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return SessionStatus{}, fmt.Errorf("decoding error: %w", err)
	}

	return status, nil
}

func (g *gateway) VerifyWebhook(payload []byte, signature string) (Event, error) {
	mac := hmac.New(sha256.New, []byte(g.config.WebhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return Event{}, ErrVerificationFailed
	}

	expectedRaw, _ := hex.DecodeString(expected)
	if !hmac.Equal(provided, expectedRaw) {
		return Event{}, ErrVerificationFailed
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("decoding error: %w", err)
	}

	return event, nil
}

// Sign produces the signature VerifyWebhook expects; exported for tests and
// local gateway emulation.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
