package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
)

func TestRedisEventBus_BroadcastFansOut(t *testing.T) {
	bus := NewRedisEventBus(nil)
	defer bus.cancel()

	bus.mu.Lock()
	first, _ := bus.addSubscriberLocked("dispatch:facility:aiims")
	second, count := bus.addSubscriberLocked("dispatch:facility:aiims")
	other, _ := bus.addSubscriberLocked("dispatch:facility:safdarjung")
	bus.mu.Unlock()
	assert.Equal(t, 2, count)

	event := &entities.DispatchEvent{ID: "evt-1", FacilityID: "aiims"}
	delivered := bus.broadcast("dispatch:facility:aiims", event)

	assert.Equal(t, 2, delivered)
	assert.Same(t, event, <-first)
	assert.Same(t, event, <-second)
	assert.Empty(t, other)
}

func TestRedisEventBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewRedisEventBus(nil)
	defer bus.cancel()

	bus.mu.Lock()
	slow, _ := bus.addSubscriberLocked("dispatch:all")
	bus.mu.Unlock()

	for i := 0; i < subscriberBuffer; i++ {
		bus.broadcast("dispatch:all", &entities.DispatchEvent{ID: "fill"})
	}

	assert.Equal(t, 0, bus.broadcast("dispatch:all", &entities.DispatchEvent{ID: "overflow"}))
	assert.Len(t, slow, subscriberBuffer)
}

func TestRedisEventBus_RemoveSubscriberClosesChannel(t *testing.T) {
	bus := NewRedisEventBus(nil)
	defer bus.cancel()

	bus.mu.Lock()
	sub, _ := bus.addSubscriberLocked("dispatch:all")
	bus.mu.Unlock()

	bus.removeSubscriber("dispatch:all", sub)
	bus.removeSubscriber("dispatch:all", sub)

	_, open := <-sub
	assert.False(t, open)
	assert.Zero(t, bus.SubscriberCount("dispatch:all"))
}
