package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	ActionOrderCreated       = "order.created"
	ActionOrderStatusChanged = "order.status.changed"
	ActionOrderUpdated       = "order.updated"

	EntityTypeOrder = "order"
)

// Record is one audit trail entry. Metadata is free-form and stored as JSON.
type Record struct {
	ActorID    *uint
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
}

type MySQLRecorder struct {
	db *sql.DB
}

func NewMySQLRecorder(db *sql.DB) *MySQLRecorder {
	return &MySQLRecorder{db: db}
}

func (r *MySQLRecorder) Record(ctx context.Context, record Record) error {
	var metadata []byte
	if record.Metadata != nil {
		var err error
		metadata, err = json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling audit metadata: %w", err)
		}
	}

	query := `
		INSERT INTO AuditLog (id, actorId, action, entityType, entityId, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), record.ActorID, record.Action,
		record.EntityType, record.EntityID, metadata,
	)
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}

	return nil
}
