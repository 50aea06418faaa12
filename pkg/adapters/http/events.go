package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jmwilson/ollie/pkg/domain"
)

// Event is the SSE payload for one dispatched intent.
type Event struct {
	Timestamp  time.Time      `json:"timestamp"`
	Intent     string         `json:"intent"`
	SessionID  string         `json:"session_id,omitempty"`
	Outcome    domain.Outcome `json:"outcome"`
	DurationMs float64        `json:"duration_ms"`
	Error      string         `json:"error,omitempty"`
}

// StreamManager handles active SSE connections.
// Subscribers with an empty session ID receive every event.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends msg to the subscribers of sessionID and to the global subscribers.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.send("", msg)
	if sessionID != "" {
		sm.send(sessionID, msg)
	}
}

func (sm *StreamManager) send(key, msg string) {
	for ch := range sm.subscribers[key] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", key)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every dispatched intent.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnIntentDispatched: func(_ context.Context, e *domain.DispatchEvent) {
			ev := Event{
				Timestamp:  e.Timestamp,
				Intent:     e.Intent,
				SessionID:  e.SessionID,
				Outcome:    e.Outcome,
				DurationMs: float64(e.Duration) / float64(time.Millisecond),
			}
			if e.Err != nil {
				ev.Error = e.Err.Error()
			}
			data, err := json.Marshal(ev)
			if err != nil {
				sm.logger.Error("SSE: failed to encode event", "error", err)
				return
			}
			sm.Broadcast(e.SessionID, string(data))
		},
	}
}

// ServeHTTP handles GET /events. The optional session_id query parameter
// narrows the stream to one dialogue session.
func (sm *StreamManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		sm.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionID := r.URL.Query().Get("session_id")
	ch, cancel := sm.Subscribe(sessionID)
	defer cancel()
	sm.logger.Info("SSE: client subscribed", "session_id", sessionID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			sm.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: dispatch\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
