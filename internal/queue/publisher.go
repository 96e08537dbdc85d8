package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/metrics"
)

// defaultDialTimeout bounds dial and handshake when ctx has no deadline.
const defaultDialTimeout = 5 * time.Second

// Publisher sends notification events to a durable queue on the default
// exchange. The broker connection is opened lazily and re-dialed after it
// drops. Every step, including waiting for another publish to finish, is
// bounded by the caller's context.
type Publisher struct {
	url   string
	queue string
	log   *zap.SugaredLogger

	sem  chan struct{} // one holder at a time; guards conn and ch
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, queue string, log *zap.SugaredLogger) *Publisher {
	return &Publisher{url: url, queue: queue, log: log, sem: make(chan struct{}, 1)}
}

func (p *Publisher) lock(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "wait for publisher")
	}
}

func (p *Publisher) unlock() { <-p.sem }

// Publish marshals ev and sends it as a persistent message. Errors are logged
// and returned; callers on the request path ignore them.
func (p *Publisher) Publish(ctx context.Context, ev NotificationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	if err := p.lock(ctx); err != nil {
		p.log.Warnw("rabbitmq: publisher busy", "err", err, "type", ev.Type)
		metrics.ObservePublish(ev.Type, err)
		return err
	}
	defer p.unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		p.log.Warnw("rabbitmq: channel unavailable", "err", err, "type", ev.Type)
		metrics.ObservePublish(ev.Type, err)
		return err
	}
	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	})
	metrics.ObservePublish(ev.Type, err)
	if err != nil {
		p.log.Warnw("rabbitmq: publish failed", "err", err, "type", ev.Type)
		p.reset()
		return errors.Wrap(err, "publish event")
	}
	return nil
}

// channel returns an open channel, dialing and declaring the queue when
// needed. The lock must be held.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	timeout := defaultDialTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	if timeout <= 0 {
		return nil, errors.Wrap(context.DeadlineExceeded, "dial broker")
	}
	// DefaultDial's deadline covers the TCP connect and the AMQP handshake.
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, errors.Wrap(err, "dial broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrap(err, "declare queue")
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.sem <- struct{}{}
	defer p.unlock()
	p.reset()
	return nil
}
