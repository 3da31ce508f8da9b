package audit

import (
	"context"
	"sync"
	"time"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Event is one append-only record of an engine state change. The engine
// emits events after the change commits; it does not own their storage.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	EventType  string         `json:"event_type"`
	EntityType string         `json:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Event types emitted by the engine.
const (
	EventAuctionCreated = "auction_created"
	EventBidAccepted    = "bid_accepted"
	EventBidRejected    = "bid_rejected"
	EventAuctionClosed  = "auction_closed"
)

// Sink receives audit events fire-and-forget. Implementations log their own
// failures; a sink error never rolls back or blocks the state change that
// produced the event.
type Sink interface {
	Record(ctx context.Context, ev Event)
}

// ZapSink writes events to the structured log. Default sink when no
// external store is configured.
type ZapSink struct{}

func NewZapSink() ZapSink { return ZapSink{} }

func (ZapSink) Record(_ context.Context, ev Event) {
	log.Info("audit event",
		zap.String("eventID", ev.ID.String()),
		zap.String("eventType", ev.EventType),
		zap.String("entityType", ev.EntityType),
		zap.String("entityID", ev.EntityID.String()),
		zap.String("userID", ev.UserID),
		zap.String("action", ev.Action),
		zap.Any("details", ev.Details),
		zap.Time("timestamp", ev.Timestamp),
	)
}

// MemorySink buffers events in memory. Test use only.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (m *MemorySink) Record(_ context.Context, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Events returns a copy of everything recorded so far.
func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
