package providers

import (
	"context"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to dispatch events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.DispatchEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DispatchEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelDispatches carries every dispatch event
	EventChannelDispatches = "dispatch:all"

	// EventChannelFacilityPrefix is the prefix for facility-specific channels
	EventChannelFacilityPrefix = "dispatch:facility:"
)

// GetFacilityChannel returns the channel name for a specific facility
func GetFacilityChannel(facilityID string) string {
	return EventChannelFacilityPrefix + facilityID
}
