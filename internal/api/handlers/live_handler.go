package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zatekoja/goldenhour/internal/domain/entities"
	"github.com/zatekoja/goldenhour/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/goldenhour/pkg/errors"
)

const (
	liveWriteWait      = 10 * time.Second
	livePongWait       = 60 * time.Second
	livePingPeriod     = (livePongWait * 9) / 10
	liveMaxMessageSize = 64 << 10
	liveSendBuffer     = 32
)

// LiveHandler serves the live-update WebSocket channel. Every inbound frame starts an
// independent dispatch run whose progress is pushed back on the same session.
type LiveHandler struct {
	dispatcher EmergencyDispatcher
	upgrader   websocket.Upgrader

	// runs tracks in-flight dispatch runs across all sessions
	runs sync.WaitGroup
}

// NewLiveHandler creates a new live-update handler
func NewLiveHandler(dispatcher EmergencyDispatcher, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

type liveSession struct {
	emergencyID string
	conn        *websocket.Conn
	send        chan entities.LiveMessage
	done        chan struct{}
}

// deliver queues a frame unless the session has closed, in which case it is dropped
func (s *liveSession) deliver(msg entities.LiveMessage) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case <-s.done:
		return false
	case s.send <- msg:
		return true
	}
}

// StreamEmergency handles GET /ws/emergency/{emergency_id}
func (h *LiveHandler) StreamEmergency(w http.ResponseWriter, r *http.Request) {
	emergencyID := r.PathValue("emergency_id")
	if emergencyID == "" {
		respondWithError(w, http.StatusBadRequest, "emergency ID is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an error response
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := &liveSession{
		emergencyID: emergencyID,
		conn:        conn,
		send:        make(chan entities.LiveMessage, liveSendBuffer),
		done:        make(chan struct{}),
	}

	logger := observability.LoggerFromContext(r.Context()).With().Str("emergency_id", emergencyID).Logger()
	logger.Info().Msg("live session opened")

	go h.writePump(session)
	h.readPump(context.WithoutCancel(r.Context()), session)

	logger.Info().Msg("live session closed")
}

func (h *LiveHandler) readPump(ctx context.Context, s *liveSession) {
	defer func() {
		close(s.done)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(liveMaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(livePongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				observability.LoggerFromContext(ctx).Warn().Err(err).Str("emergency_id", s.emergencyID).Msg("live session read failed")
			}
			return
		}

		var payload entities.ReportPayload
		if err := json.Unmarshal(frame, &payload); err != nil {
			s.deliver(entities.LiveMessage{
				Status:      entities.LiveStatusError,
				EmergencyID: s.emergencyID,
				Message:     fmt.Sprintf("invalid report frame: %v", err),
			})
			continue
		}

		report, err := entities.NewReport(payload)
		if err != nil {
			s.deliver(entities.LiveMessage{
				Status:      entities.LiveStatusError,
				EmergencyID: s.emergencyID,
				Message:     errorMessage(err),
			})
			continue
		}

		h.runs.Add(1)
		go h.run(ctx, s, report)
	}
}

// run executes one dispatch. It always completes; delivery is skipped once the session is gone.
func (h *LiveHandler) run(ctx context.Context, s *liveSession, report entities.Report) {
	defer h.runs.Done()

	logger := observability.LoggerFromContext(ctx).With().Str("emergency_id", s.emergencyID).Logger()
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Str("panic", fmt.Sprint(rec)).Msg("live dispatch run panicked")
			s.deliver(entities.LiveMessage{
				Status:      entities.LiveStatusFailed,
				EmergencyID: s.emergencyID,
				Message:     "internal server error",
			})
		}
	}()

	s.deliver(entities.LiveMessage{
		Status:      entities.LiveStatusReceived,
		EmergencyID: s.emergencyID,
		Message:     fmt.Sprintf("Emergency request received for %s", s.emergencyID),
	})

	var requestID string
	decision, err := h.dispatcher.Dispatch(ctx, report, func(id string, state entities.DispatchState) {
		requestID = id
		s.deliver(entities.LiveMessage{
			Status:      entities.LiveStatusPhase,
			EmergencyID: s.emergencyID,
			RequestID:   id,
			Phase:       state,
		})
	})

	if err != nil {
		msg := entities.LiveMessage{
			Status:      entities.LiveStatusFailed,
			EmergencyID: s.emergencyID,
			RequestID:   requestID,
			Message:     errorMessage(err),
		}
		if appErr, ok := apperrors.AsAppError(err); ok {
			msg.Reason = appErr.Reason
		}
		if !s.deliver(msg) {
			logger.Debug().Str("request_id", requestID).Msg("live session closed, dropping failure")
		}
		return
	}

	delivered := s.deliver(entities.LiveMessage{
		Status:      entities.LiveStatusCompleted,
		EmergencyID: s.emergencyID,
		RequestID:   decision.RequestID,
		Data:        decision,
	})
	if !delivered {
		logger.Info().Str("request_id", decision.RequestID).Msg("live session closed, dropping decision")
	}
}

func (h *LiveHandler) writePump(s *liveSession) {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Wait blocks until every started dispatch run has finished
func (h *LiveHandler) Wait() {
	h.runs.Wait()
}

// errorMessage hides internal details from clients
func errorMessage(err error) string {
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Type == apperrors.ErrorTypeInternal {
		return "internal server error"
	}
	return appErr.Message
}
