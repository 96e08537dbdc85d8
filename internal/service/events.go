package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/queue"
)

// EventPublisher delivers notification events. *queue.Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.NotificationEvent) error
}

// NopPublisher drops every event; it is used when notifications are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.NotificationEvent) error { return nil }

const publishTimeout = 3 * time.Second

// notify publishes ev after the write that produced it has committed. The
// request context may already be done by then, so only its values are kept.
// Failures are logged and never reach the caller.
func notify(ctx context.Context, pub EventPublisher, log *zap.SugaredLogger, ev queue.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warnw("notification not published", "type", ev.Type, "session_id", ev.GuidanceSessionID, "err", err)
	}
}
