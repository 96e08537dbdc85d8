package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/metrics"
)

const notificationsFile = "notifications.log"

// Consumer drains the notification queue into a line-oriented log file.
type Consumer struct {
	url    string
	queue  string
	logDir string
	log    *zap.SugaredLogger
}

func NewConsumer(url, queue, logDir string, log *zap.SugaredLogger) *Consumer {
	return &Consumer{url: url, queue: queue, logDir: logDir, log: log}
}

// Run keeps a consumer attached to the broker until ctx is cancelled,
// reconnecting with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warnw("notification-consumer: dial failed", "err", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warnw("notification-consumer: loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "channel open")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warnw("notification-consumer: set QoS failed", "err", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "queue declare")
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "queue consume")
	}

	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		return errors.Wrap(err, "mkdir logs")
	}
	f, err := os.OpenFile(filepath.Join(c.logDir, notificationsFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open notifications log")
	}
	defer f.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(f, d.Body); err != nil {
				c.log.Errorw("notification-consumer: handle message failed", "err", err)
				metrics.EventsConsumed.WithLabelValues("rejected").Inc()
				// no requeue so a poison message cannot spin
				_ = d.Nack(false, false)
				continue
			}
			metrics.EventsConsumed.WithLabelValues("ok").Inc()
			_ = d.Ack(false)
		}
	}
}

// handleMessage decodes one event and appends a single human-readable line to w.
func handleMessage(w io.Writer, body []byte) error {
	var ev NotificationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return errors.Wrap(err, "unmarshal")
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}
	line := fmt.Sprintf("[%s] %s | session_id=%d | thesis_id=%d | actor_id=%d",
		ev.OccurredAt, ev.Type, ev.GuidanceSessionID, ev.ThesisID, ev.ActorID)
	if ev.RecipientID != nil {
		line += fmt.Sprintf(" | recipient_id=%d", *ev.RecipientID)
	}
	if ev.SubmissionID != nil {
		line += fmt.Sprintf(" | submission_id=%d", *ev.SubmissionID)
	}
	if ev.CommentID != nil {
		line += fmt.Sprintf(" | comment_id=%d", *ev.CommentID)
	}
	line += fmt.Sprintf(" | %q\n", ev.Summary)
	_, err := io.WriteString(w, line)
	return errors.Wrap(err, "write log")
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
