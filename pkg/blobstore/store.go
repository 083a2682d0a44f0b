package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/roomvista/decor-services/visualizer/pkg/httpclient"
)

const (
	ErrCodeTimeout     = "TIMEOUT"
	ErrCodeTooLarge    = "OBJECT_TOO_LARGE"
	ErrCodeServerError = "SERVER_ERROR"
)

var (
	ErrTimeout     = errors.New(ErrCodeTimeout)
	ErrTooLarge    = errors.New(ErrCodeTooLarge)
	ErrServerError = errors.New(ErrCodeServerError)
)

type Config struct {
	BaseURL       string        `mapstructure:"base_url"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	Bucket        string        `mapstructure:"bucket"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Store persists image bytes on the hosted storage platform. The returned
// URL is durable: once Put succeeds the object is readable at that URL.
type Store interface {
	Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
}

type store struct {
	client httpclient.HTTPClient
	config Config
}

func NewStore(cfg Config, client httpclient.HTTPClient) Store {
	return &store{config: cfg, client: client}
}

type uploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *store) Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/buckets/%s/objects/%s", s.config.BaseURL, s.config.Bucket, objectKey)

	headers := map[string]string{
		"Content-Type":  contentType,
		"Authorization": "Bearer " + s.config.APIKey,
	}

	resp, err := s.client.Post(ctx, url, bytes.NewReader(data), headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", ErrTimeout
		}

		return "", err
	}

	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusRequestEntityTooLarge:
		return "", ErrTooLarge
	default:
		return "", ErrServerError
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("decoding error: %w", err)
	}

	if uploaded.URL != "" {
		return uploaded.URL, nil
	}

	return fmt.Sprintf("%s/%s/%s", s.config.PublicBaseURL, s.config.Bucket, objectKey), nil
}
