package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	redisclient "github.com/zatekoja/goldenhour/internal/infrastructure/clients/redis"
)

// subscriberBuffer is the per-subscriber queue; a full queue drops events for that subscriber only
const subscriberBuffer = 100

// RedisEventBus implements the EventBus interface using Redis Pub/Sub.
// One Redis subscription per channel is fanned out to every local subscriber.
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	subscribers   map[string]map[chan *entities.DispatchEvent]struct{}
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string]map[chan *entities.DispatchEvent]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.DispatchEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", channel, err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Str("request_id", event.RequestID).Msg("published dispatch event")
	return nil
}

// Subscribe subscribes to events on a channel until ctx is cancelled
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DispatchEvent, error) {
	b.mu.Lock()
	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}
	eventChan, count := b.addSubscriberLocked(channel)
	b.mu.Unlock()

	log.Info().Str("channel", channel).Int("subscribers", count).Msg("subscribed to dispatch channel")

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *RedisEventBus) addSubscriberLocked(channel string) (chan *entities.DispatchEvent, int) {
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.DispatchEvent]struct{})
	}
	eventChan := make(chan *entities.DispatchEvent, subscriberBuffer)
	b.subscribers[channel][eventChan] = struct{}{}
	return eventChan, len(b.subscribers[channel])
}

// receiveMessages receives messages from Redis and broadcasts them to subscribers
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event entities.DispatchEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("dropping malformed dispatch event")
				continue
			}
			b.broadcast(channel, &event)
		}
	}
}

// broadcast delivers an event to every local subscriber without blocking
func (b *RedisEventBus) broadcast(channel string, event *entities.DispatchEvent) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- event:
			delivered++
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber queue full, skipping event")
		}
	}
	return delivered
}

func (b *RedisEventBus) removeSubscriber(channel string, eventChan chan *entities.DispatchEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if !exists {
		return
	}
	if _, ok := subscribers[eventChan]; !ok {
		return
	}

	delete(subscribers, eventChan)
	close(eventChan)

	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
		b.closeSubscriptionLocked(channel)
	}
}

func (b *RedisEventBus) closeSubscriptionLocked(channel string) error {
	pubsub, ok := b.subscriptions[channel]
	if !ok {
		return nil
	}
	delete(b.subscriptions, channel)
	if err := pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription %s: %w", channel, err)
	}
	log.Debug().Str("channel", channel).Msg("closed dispatch channel subscription")
	return nil
}

func (b *RedisEventBus) cleanupChannel(channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)

	return b.closeSubscriptionLocked(channel)
}

// Unsubscribe drops every local subscriber of a channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	return b.cleanupChannel(channel)
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.RLock()
	channels := make([]string, 0, len(b.subscribers))
	for channel := range b.subscribers {
		channels = append(channels, channel)
	}
	for channel := range b.subscriptions {
		channels = append(channels, channel)
	}
	b.mu.RUnlock()

	var errs []error
	for _, channel := range channels {
		if err := b.cleanupChannel(channel); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SubscriberCount returns the number of local subscribers on a channel
func (b *RedisEventBus) SubscriberCount(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[channel])
}
