package imagejob

import "time"

type Config struct {
	Enable     bool          `mapstructure:"enable"`
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetry   int           `mapstructure:"max_retry"`
	WebhookURL string        `mapstructure:"webhook_url"`
}

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusSucceeded  JobStatus = "succeeded"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether the provider will never change this status again.
func (s JobStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

type SubmitRequest struct {
	Prompt         string `json:"prompt"`
	SourceImageURL string `json:"source_image_url"`
	TransformMode  string `json:"transform_mode"`
	WebhookURL     string `json:"webhook_url,omitempty"`
}

type SubmitResponse struct {
	JobID string `json:"job_id"`
}

// Result is the normalized terminal (or in-flight) shape delivered by both
// the poll endpoint and the provider webhook.
type Result struct {
	JobID     string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	OutputURL string    `json:"output_url,omitempty"`
	Reason    string    `json:"error,omitempty"`
}
