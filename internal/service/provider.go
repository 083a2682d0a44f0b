package service

import (
	"context"
	"errors"
	"time"

	"github.com/roomvista/decor-services/visualizer/internal/config"
	"github.com/roomvista/decor-services/visualizer/internal/metrics"
	"github.com/roomvista/decor-services/visualizer/pkg/imagejob"
	"go.uber.org/zap"
)

type ProviderService interface {
	SubmitWithRetry(ctx context.Context, request imagejob.SubmitRequest) (imagejob.SubmitResponse, error)
	Poll(ctx context.Context, jobID string) (imagejob.Result, error)
	FetchOutput(ctx context.Context, outputURL string) ([]byte, error)
	Cancel(ctx context.Context, jobID string) error
}

type Provider struct {
	client  imagejob.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  imagejob.Config
}

func NewProviderService(client imagejob.Client, logger *zap.Logger, m *metrics.Metrics, config *config.Config) ProviderService {
	return &Provider{client: client, logger: logger, metrics: m, config: config.Provider}
}

// SubmitWithRetry retries transient submission failures. Invalid input fails
// fast: the provider rejected the request itself and will keep rejecting it.
func (p *Provider) SubmitWithRetry(ctx context.Context, request imagejob.SubmitRequest) (imagejob.SubmitResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= p.config.MaxRetry; attempt++ {
		providerCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)

		response, err := p.client.Submit(providerCtx, request)
		cancel()

		if err == nil {
			p.logger.Info("Generation job submitted",
				zap.String("jobID", response.JobID),
				zap.Int("attempt", attempt))
			p.metrics.RecordProviderCall("submit", "success")
			return response, nil
		}

		lastErr = err
		p.logger.Warn("Provider submission attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt))

		if errors.Is(err, imagejob.ErrInvalidInput) {
			p.logger.Error("Provider rejected input, not retrying", zap.Error(err))
			p.metrics.RecordProviderCall("submit", "invalid_input")
			return imagejob.SubmitResponse{}, err
		}

		if attempt < p.config.MaxRetry {
			delay := time.Duration(attempt) * 100 * time.Millisecond

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return imagejob.SubmitResponse{}, ctx.Err()
			}
		}
	}

	p.logger.Error("All submission attempts exhausted",
		zap.Error(lastErr),
		zap.Int("maxRetries", p.config.MaxRetry))

	p.metrics.RecordProviderCall("submit", "error")

	return imagejob.SubmitResponse{}, lastErr
}

func (p *Provider) Poll(ctx context.Context, jobID string) (imagejob.Result, error) {
	providerCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	result, err := p.client.PollStatus(providerCtx, jobID)
	if err != nil {
		p.metrics.RecordProviderCall("poll", "error")
		return imagejob.Result{}, err
	}

	p.metrics.RecordProviderCall("poll", "success")

	return result, nil
}

func (p *Provider) FetchOutput(ctx context.Context, outputURL string) ([]byte, error) {
	providerCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	data, err := p.client.FetchOutput(providerCtx, outputURL)
	if err != nil {
		p.metrics.RecordProviderCall("fetch_output", "error")
		return nil, err
	}

	p.metrics.RecordProviderCall("fetch_output", "success")

	return data, nil
}

// Cancel is best effort. The provider offers no cancellation guarantee, so a
// failure here is logged and swallowed; reconciliation settles the final
// state either way.
func (p *Provider) Cancel(ctx context.Context, jobID string) error {
	providerCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	if err := p.client.Cancel(providerCtx, jobID); err != nil {
		p.logger.Warn("Provider cancel failed", zap.String("jobID", jobID), zap.Error(err))
		p.metrics.RecordProviderCall("cancel", "error")
		return err
	}

	p.metrics.RecordProviderCall("cancel", "success")

	return nil
}
