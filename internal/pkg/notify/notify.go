// Package notify delivers post-commit notifications about relationship changes.
// Delivery is best effort: a failed notification is logged and dropped, never
// reported to the operation that produced it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawpals/pawpals-api/internal/pkg/logger"
	"github.com/pawpals/pawpals-api/internal/pkg/metrics"
)

// Event types
const (
	TypeMembershipAccepted = "membership.accepted"
	TypeMatchMutual        = "match.mutual"
	TypeModerationResolved = "moderation.resolved"
	TypeModerationRejected = "moderation.rejected"
)

const channelPrefix = "notify:user:"

// Event is a notification addressed to one user.
type Event struct {
	Type   string                 `json:"type"`
	UserID int64                  `json:"user_id"`
	Data   map[string]interface{} `json:"data,omitempty"`
	At     time.Time              `json:"at"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType string, userID int64, data map[string]interface{}) Event {
	return Event{Type: eventType, UserID: userID, Data: data, At: time.Now().UTC()}
}

// Notifier delivers a single event.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, event Event) error

func (f Func) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// Channel returns the pub/sub channel for userID.
func Channel(userID int64) string {
	return channelPrefix + strconv.FormatInt(userID, 10)
}

// RedisPublisher publishes events as JSON on the recipient's channel.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher over client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Notify(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.client.Publish(ctx, Channel(event.UserID), payload).Err()
}

// Dispatcher sends events in the background after the producing transaction commits.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A nil notifier drops everything.
func NewDispatcher(notifier Notifier, timeout time.Duration) *Dispatcher {
	if notifier == nil {
		notifier = Nop{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{notifier: notifier, timeout: timeout}
}

// Dispatch delivers events without blocking the caller. ctx only contributes its
// values; cancellation of the request does not stop delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...Event) {
	if d == nil || len(events) == 0 {
		return
	}
	base := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				metrics.NotificationDropped()
				logger.LogError(base, fmt.Errorf("panic: %v", r), "Notifier panicked")
			}
		}()

		for _, event := range events {
			ctx, cancel := context.WithTimeout(base, d.timeout)
			err := d.notifier.Notify(ctx, event)
			cancel()
			if err != nil {
				metrics.NotificationDropped()
				logger.LogWarn(base, "Notification dropped",
					"event_type", event.Type,
					"user_id", event.UserID,
					"error", err.Error(),
				)
			}
		}
	}()
}

// Wait blocks until every dispatched delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
