package imagejob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/roomvista/decor-services/visualizer/pkg/httpclient"
)

const (
	SubmitEndpoint = "/v1/predictions"
	StatusEndpoint = "/v1/predictions/"
	CancelSuffix   = "/cancel"
)

// Client is the hosted image-generation API. PollStatus is idempotent and
// side-effect free; Cancel is best effort, the provider offers no reliable
// cancellation.
type Client interface {
	Submit(ctx context.Context, request SubmitRequest) (SubmitResponse, error)
	PollStatus(ctx context.Context, jobID string) (Result, error)
	FetchOutput(ctx context.Context, outputURL string) ([]byte, error)
	Cancel(ctx context.Context, jobID string) error
}

type client struct {
	http   httpclient.HTTPClient
	config Config
}

func NewClient(cfg Config, http httpclient.HTTPClient) Client {
	return &client{config: cfg, http: http}
}

func (c *client) headers() map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + c.config.APIKey,
	}
}

func (c *client) Submit(ctx context.Context, request SubmitRequest) (SubmitResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return SubmitResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	resp, err := c.http.Post(ctx, c.config.BaseURL+SubmitEndpoint, &buf, c.headers())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return SubmitResponse{}, ErrTimeout
		}

		return SubmitResponse{}, ErrNetworkError
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return SubmitResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return SubmitResponse{}, fmt.Errorf("decoding error: %w", err)
	}

	return response, nil
}

func (c *client) PollStatus(ctx context.Context, jobID string) (Result, error) {
	resp, err := c.http.Get(ctx, c.config.BaseURL+StatusEndpoint+jobID, c.headers())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Result{}, ErrTimeout
		}

		return Result{}, ErrNetworkError
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, MapStatusToError(resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decoding error: %w", err)
	}

	return result, nil
}

func (c *client) FetchOutput(ctx context.Context, outputURL string) ([]byte, error) {
	resp, err := c.http.Get(ctx, outputURL, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}

		return nil, ErrNetworkError
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, MapStatusToError(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrNetworkError
	}

	return data, nil
}

func (c *client) Cancel(ctx context.Context, jobID string) error {
	resp, err := c.http.Post(ctx, c.config.BaseURL+StatusEndpoint+jobID+CancelSuffix, nil, c.headers())
	if err != nil {
		return ErrNetworkError
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return MapStatusToError(resp.StatusCode)
	}

	return nil
}
