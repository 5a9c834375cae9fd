package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/summitline/summitline/internal/dataset"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	refreshJob       *RefreshJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	RefreshJob       *RefreshJob
	Logger           zerolog.Logger
}

// JobMessage represents a worker job message published by the scheduler
// (or by the analyzer after it publishes a new bundle).
type JobMessage struct {
	JobType string `json:"job_type"`

	// ExpectedVersion, when set on a dataset_refresh job, logs a warning
	// if the fetched bundle carries a different version. The refresh still
	// proceeds; the analyzer's published bundle is authoritative.
	ExpectedVersion string `json:"expected_version,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// A refresh holds its message for the whole fetch/persist/swap cycle.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 1
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		refreshJob:       cfg.RefreshJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var job JobMessage
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch job.JobType {
	case "dataset_refresh":
		err = h.handleDatasetRefresh(ctx, job)
	case "health_check":
		err = h.handleHealthCheck(ctx)
	default:
		logger.Warn().Str("job_type", job.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", job.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleDatasetRefresh(ctx context.Context, job JobMessage) error {
	result, err := h.refreshJob.Run(ctx)
	if err != nil {
		return err
	}

	if job.ExpectedVersion != "" && job.ExpectedVersion != result.DatasetVersion {
		h.logger.Warn().
			Str("expected", job.ExpectedVersion).
			Str("fetched", result.DatasetVersion).
			Msg("fetched bundle version differs from trigger message")
	}

	return nil
}

// handleHealthCheck verifies the bundle store is reachable. It does not
// fetch from the analyzer; a store that cannot be read means a worker
// restart would come up without a dataset.
func (h *PubSubHandler) handleHealthCheck(ctx context.Context) error {
	h.logger.Debug().Msg("running health check")

	// An empty store is healthy; the first refresh has just not run yet.
	if _, err := h.refreshJob.repo.LatestBundle(ctx); err != nil && !errors.Is(err, dataset.ErrNoSnapshot) {
		return fmt.Errorf("health check: bundle store unreadable: %w", err)
	}

	h.logger.Debug().Msg("health check passed")
	return nil
}
