package events

import (
	"context"
	"time"

	"trade-alerts-be/internal/pkg/logger"
	pkgEvents "trade-alerts-be/pkg/events"
	pktNats "trade-alerts-be/pkg/nats"

	"github.com/google/uuid"
)

// Publisher abstracts event publishing for admin operations
type Publisher interface {
	PublishUserRegistered(ctx context.Context, userId uuid.UUID, email, fullName, source string)
	PublishBroadcast(ctx context.Context, title, message string)
	PublishCancellationProcessed(ctx context.Context, cancellationId, subscriptionId, userId uuid.UUID, status string)
}

// NatsPublisher implements Publisher using NATS
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishUserRegistered emits USER_REGISTERED for admin-created users
func (p *NatsPublisher) PublishUserRegistered(ctx context.Context, userId uuid.UUID, email, fullName, source string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeUserRegistered,
		Data: map[string]interface{}{
			"user_id":   userId.String(),
			"email":     email,
			"full_name": fullName,
			"source":    source,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish USER_REGISTERED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishBroadcast emits SYSTEM_BROADCAST to every connected client
func (p *NatsPublisher) PublishBroadcast(ctx context.Context, title, message string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeSystemBroadcast,
		Data: map[string]interface{}{
			"title":   title,
			"message": message,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish SYSTEM_BROADCAST event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishCancellationProcessed emits SUBSCRIPTION_CANCELED when an admin
// finalizes a cancellation record.
func (p *NatsPublisher) PublishCancellationProcessed(ctx context.Context, cancellationId, subscriptionId, userId uuid.UUID, status string) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeSubscriptionCanceled,
		Data: map[string]interface{}{
			"cancellation_id": cancellationId.String(),
			"subscription_id": subscriptionId.String(),
			"user_id":         userId.String(),
			"status":          status,
			"occurred_at":     now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish SUBSCRIPTION_CANCELED event", map[string]interface{}{"error": err.Error()})
	}
}
