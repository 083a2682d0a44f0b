package paymentgw

import "time"

type Config struct {
	Enable        bool          `mapstructure:"enable"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	APIKey        string        `mapstructure:"api_key"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	SuccessURL    string        `mapstructure:"success_url"`
	CancelURL     string        `mapstructure:"cancel_url"`
}

type CheckoutRequest struct {
	UserID     string            `json:"user_id"`
	PriceRef   string            `json:"price_ref"`
	SuccessURL string            `json:"success_url,omitempty"`
	CancelURL  string            `json:"cancel_url,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// SessionStatus is the platform's answer when a session is looked up after
// the fact, for callers that cannot wait on the webhook.
type SessionStatus struct {
	SessionID     string            `json:"session_id"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

const EventCheckoutCompleted = "checkout.session.completed"

// Event is the verified webhook envelope. SessionID doubles as the
// idempotency key for everything the event triggers downstream.
type Event struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id"`
	Metadata  map[string]string `json:"metadata"`
}
