package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresSink appends audit events to the audit_events table. Writes run
// on their own short deadline detached from the request context, so a slow
// database cannot hold up a committed state change.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

func (s *PostgresSink) Record(_ context.Context, ev Event) {
	go s.insert(ev)
}

func (s *PostgresSink) insert(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	details, err := json.Marshal(ev.Details)
	if err != nil {
		log.Error("audit: failed to marshal event details",
			zap.String("eventID", ev.ID.String()),
			zap.Error(err),
		)
		details = []byte("{}")
	}
	query := `
        INSERT INTO audit_events (id, event_type, entity_type, entity_id, user_id, action, details, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err = s.pool.Exec(ctx, query,
		ev.ID,
		ev.EventType,
		ev.EntityType,
		ev.EntityID,
		ev.UserID,
		ev.Action,
		details,
		ev.Timestamp,
	)
	if err != nil {
		// Best effort: the state change already committed, only log.
		log.Error("audit: failed to insert event",
			zap.String("eventID", ev.ID.String()),
			zap.String("eventType", ev.EventType),
			zap.Error(err),
		)
	}
}
