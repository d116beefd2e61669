package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
)

const defaultPublishTimeout = 15 * time.Second

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// Publisher delivers control-tower alerts to the alerts topic.
type Publisher interface {
	Publish(ctx context.Context, alert Alert) error
	PublishBatch(ctx context.Context, alerts []Alert) error
}

type alertsTopicClient interface {
	AlertsPublisher() *gcppubsub.Publisher
}

type pubsubPublisher struct {
	pub     publisher
	logg    *logger.Logger
	timeout time.Duration
}

// NewPublisher wires the alerts topic publisher.
func NewPublisher(client alertsTopicClient, logg *logger.Logger) (Publisher, error) {
	if client == nil {
		return nil, errors.New("pubsub client is required")
	}
	pub := newGCPPublisher(client.AlertsPublisher())
	if pub == nil {
		return nil, errors.New("alerts topic not configured")
	}
	return &pubsubPublisher{
		pub:     pub,
		logg:    logg,
		timeout: defaultPublishTimeout,
	}, nil
}

func (p *pubsubPublisher) Publish(ctx context.Context, alert Alert) error {
	if alert.CompanyID == uuid.Nil {
		return errors.New("alert company id required")
	}
	if alert.Type == "" || alert.Severity == "" {
		return errors.New("alert type and severity required")
	}
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.OccurredAt.IsZero() {
		alert.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encoding alert: %w", err)
	}

	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"alert_id":    alert.ID.String(),
			"alert_type":  alert.Type.String(),
			"severity":    alert.Severity.String(),
			"company_id":  alert.CompanyID.String(),
			"occurred_at": alert.OccurredAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result := p.pub.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("alerts publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publishing alert %s: %w", alert.ID, err)
	}

	if p.logg != nil {
		fields := map[string]any{
			"alert_id":   alert.ID.String(),
			"alert_type": alert.Type.String(),
			"severity":   alert.Severity.String(),
		}
		logCtx := p.logg.WithFields(p.logg.WithCompanyID(ctx, alert.CompanyID.String()), fields)
		p.logg.Info(logCtx, "alert published")
	}
	return nil
}

func (p *pubsubPublisher) PublishBatch(ctx context.Context, alerts []Alert) error {
	var firstErr error
	for _, alert := range alerts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Publish(ctx, alert); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func newGCPPublisher(raw *gcppubsub.Publisher) publisher {
	if raw == nil {
		return nil
	}
	return &gcpPublisher{Publisher: raw}
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
