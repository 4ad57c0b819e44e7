package sideeffect

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingAccepted  = "booking.accepted"
	EventBookingDeclined  = "booking.declined"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)

const defaultDialTimeout = 10 * time.Second

// Event is a booking lifecycle fact published for downstream consumers.
type Event struct {
	Type        string    `json:"type"`
	BookingID   int64     `json:"booking_id"`
	BookingCode string    `json:"booking_code"`
	OwnerID     int64     `json:"owner_id"`
	SitterID    int64     `json:"sitter_id"`
	ServiceID   int64     `json:"service_id,omitempty"`
	TotalPrice  float64   `json:"total_price,omitempty"`
	Rating      int       `json:"rating,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// AMQPPublisher publishes persistent JSON messages to a durable queue on the
// default exchange. The connection is opened lazily and reopened after loss.
type AMQPPublisher struct {
	url   string
	queue string
	log   *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPPublisher(url, queue string, log *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue, log: log}
}

func (p *AMQPPublisher) current() *amqp.Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn
	}
	return nil
}

// connection returns the shared connection, dialing a new one when needed.
// The dial and the AMQP handshake are bounded by ctx and run without the lock
// held; when two callers race, the loser closes its connection.
func (p *AMQPPublisher) connection(ctx context.Context) (*amqp.Connection, error) {
	if conn := p.current(); conn != nil {
		return conn, nil
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: contextDialer(ctx)})
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		_ = conn.Close()
		return p.conn, nil
	}
	p.conn = conn
	return conn, nil
}

// contextDialer connects under ctx and sets the socket deadline to ctx's
// deadline so a broker that accepts but never answers cannot stall the
// handshake. amqp clears the deadline once the connection is open.
func contextDialer(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(defaultDialTimeout)
		}
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	conn, err := p.connection(ctx)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	})
	if err != nil {
		return err
	}
	p.log.Debug("event published", zap.String("type", ev.Type), zap.Int64("booking_id", ev.BookingID))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
