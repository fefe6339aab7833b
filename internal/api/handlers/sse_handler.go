package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/domain/providers"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	"github.com/zatekoja/goldenhour/pkg/geo"
)

const (
	sseHeartbeatInterval = 30 * time.Second
	defaultRegionRadius  = 25.0
)

// SSEHandler streams dispatch events to hospital dashboards over Server-Sent Events
type SSEHandler struct {
	eventBus          providers.EventBus
	clients           map[string]map[chan *entities.DispatchEvent]bool // channel -> clients
	mu                sync.RWMutex
	heartbeatInterval time.Duration
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus:          eventBus,
		clients:           make(map[string]map[chan *entities.DispatchEvent]bool),
		heartbeatInterval: sseHeartbeatInterval,
	}
}

// StreamFacilityDispatches handles GET /api/stream/facilities/{id}.
// The facility's dashboard receives an incoming_patient event for every patient routed to it.
func (h *SSEHandler) StreamFacilityDispatches(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	h.stream(w, r, providers.GetFacilityChannel(facilityID), map[string]interface{}{
		"facility_id": facilityID,
	}, nil)
}

// StreamRegionalDispatches handles GET /api/stream/dispatches/region?lat=X&lng=Y&radius=Z
func (h *SSEHandler) StreamRegionalDispatches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid latitude parameter")
		return
	}

	lng, err := strconv.ParseFloat(query.Get("lng"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid longitude parameter")
		return
	}

	center := entities.Location{Latitude: lat, Longitude: lng}
	if err := center.Validate(); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	radius := defaultRegionRadius
	if raw := query.Get("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(parsed > 0) || math.IsInf(parsed, 1) {
			respondWithError(w, http.StatusBadRequest, "invalid radius parameter")
			return
		}
		radius = parsed
	}

	inRegion := func(event *entities.DispatchEvent) bool {
		return geo.HaversineKm(center.Latitude, center.Longitude, event.Location.Latitude, event.Location.Longitude) <= radius
	}

	h.stream(w, r, providers.EventChannelDispatches, map[string]interface{}{
		"lat":       lat,
		"lng":       lng,
		"radius_km": radius,
	}, inRegion)
}

// GetStats handles GET /api/stream/stats
func (h *SSEHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	channels := make(map[string]int, len(h.clients))
	for channel, clients := range h.clients {
		channels[channel] = len(clients)
	}
	h.mu.RUnlock()

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"connected_clients": h.GetClientCount(),
		"channels":          channels,
	})
}

func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel string, hello map[string]interface{}, filter func(*entities.DispatchEvent) bool) {
	logger := observability.LoggerFromContext(r.Context()).With().Str("channel", channel).Logger()

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan *entities.DispatchEvent, 10)
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		logger.Error().Err(err).Msg("failed to subscribe to dispatch channel")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	hello["timestamp"] = time.Now().UTC()
	h.sendEvent(w, "connected", hello)
	flusher.Flush()

	forwarding := make(chan struct{})
	go func() {
		defer close(forwarding)
		h.forwardEvents(r.Context(), eventChan, clientChan, filter)
	}()

	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Msg("client disconnected from dispatch stream")
			return
		case <-forwarding:
			logger.Info().Msg("event bus closed, ending dispatch stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// forwardEvents copies bus events to the client, dropping them when the client falls behind
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.DispatchEvent, clientChan chan<- *entities.DispatchEvent, filter func(*entities.DispatchEvent) bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if filter != nil && !filter(event) {
				continue
			}
			select {
			case clientChan <- event:
			default:
			}
		}
	}
}

func (h *SSEHandler) registerClient(channel string, clientChan chan *entities.DispatchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.DispatchEvent]bool)
	}
	h.clients[channel][clientChan] = true
}

func (h *SSEHandler) unregisterClient(channel string, clientChan chan *entities.DispatchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// GetClientCount returns the number of connected clients
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
