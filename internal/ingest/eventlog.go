// Package ingest persists raw achievement-event batches. Ingestion is the
// side effect that happens before any scoring: once a batch is appended it
// stays appended, whatever scoring later says about it.
package ingest

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID        string // assigned on append
	Actor     string
	Type      string // e.g. "xapi.statements"
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Append writes one event batch to the log and returns its assigned id.
func (r *EventRepo) Append(ctx context.Context, e Event) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (id, actor, typ, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		id, e.Actor, e.Type, e.DataJSON, time.Now().Unix())
	if err != nil {
		return "", err
	}
	return id, nil
}
