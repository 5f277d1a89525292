package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Errors surfaced to callers of QueueChannel.
var (
	ErrBrokerUnavailable = errors.New("broker unavailable")
	ErrQueueConflict     = errors.New("queue declared with conflicting properties")
	ErrPublishFailed     = errors.New("publish failed")
)

// Connection is the subset of the AMQP connection used by QueueChannel.
type Connection interface {
	Channel() (Channel, error)
	IsClosed() bool
	Close() error
}

// Channel is the subset of the AMQP channel used by QueueChannel.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	IsClosed() bool
}

// DialFunc opens a broker connection. Swappable in tests.
type DialFunc func(url string) (Connection, error)

// Dial connects to the broker over AMQP.
func Dial(url string) (Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return &amqpConnection{conn}, nil
}

type amqpConnection struct {
	*amqp.Connection
}

func (c *amqpConnection) Channel() (Channel, error) {
	return c.Connection.Channel()
}

// QueueChannel provides a ready-to-use publish/consume channel over a durable
// queue. The connection and channel are built lazily and rebuilt whenever
// either has been closed, so broker restarts heal on the next call.
type QueueChannel struct {
	url    string
	name   string
	dial   DialFunc
	logger zerolog.Logger

	mu   sync.Mutex
	conn Connection
	ch   Channel
}

// New creates a QueueChannel for the named durable queue. No connection is
// opened until the first Connect.
func New(url, name string, logger zerolog.Logger) *QueueChannel {
	return &QueueChannel{
		url:    url,
		name:   name,
		dial:   Dial,
		logger: logger,
	}
}

// Connect returns a live channel, dialing the broker and re-declaring the
// durable queue only when the held connection or channel is missing or
// closed. Calling it again on a healthy channel is a no-op.
func (q *QueueChannel) Connect(ctx context.Context) (Channel, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.connectLocked(ctx)
}

func (q *QueueChannel) connectLocked(ctx context.Context) (Channel, error) {
	if q.conn == nil || q.conn.IsClosed() {
		q.logger.Info().Str("queue", q.name).Msg("connecting to broker")
		conn, err := q.dial(q.url)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
		}
		q.conn = conn
		q.ch = nil
	}

	if q.ch == nil || q.ch.IsClosed() {
		ch, err := q.conn.Channel()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
		}
		if _, err := ch.QueueDeclare(q.name, true, false, false, false, nil); err != nil {
			var amqpErr *amqp.Error
			if errors.As(err, &amqpErr) && amqpErr.Code == amqp.PreconditionFailed {
				return nil, fmt.Errorf("%w: %v", ErrQueueConflict, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
		}
		q.ch = ch
		q.logger.Info().Str("queue", q.name).Msg("channel open, queue declared")
	}

	return q.ch, nil
}

// Publish puts the payload on the queue with persistent delivery mode, so an
// acknowledged message survives a broker restart. Failures are returned to
// the caller; nothing is retried here.
func (q *QueueChannel) Publish(ctx context.Context, body []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch, err := q.connectLocked(ctx)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	return nil
}

// Consume registers as the queue's consumer and returns the delivery stream.
// Messages are not auto-acked; the handler decides per delivery.
func (q *QueueChannel) Consume(ctx context.Context) (<-chan amqp.Delivery, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch, err := q.connectLocked(ctx)
	if err != nil {
		return nil, err
	}

	return ch.Consume(q.name, "", false, false, false, false, nil)
}

// Ping verifies a live channel can be obtained, dialing the broker first if
// none is held. Used by the health endpoint.
func (q *QueueChannel) Ping(ctx context.Context) error {
	_, err := q.Connect(ctx)
	return err
}

// Close closes the broker connection if one is open, otherwise does nothing.
func (q *QueueChannel) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.conn == nil || q.conn.IsClosed() {
		return nil
	}
	q.logger.Info().Msg("closing broker connection")
	err := q.conn.Close()
	q.conn = nil
	q.ch = nil
	return err
}
