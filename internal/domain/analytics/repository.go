package analytics

import (
	"context"

	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// Repository persists analytics records.  The engine holds exactly one
// record per entity; Upsert must replace atomically, never merge.
type Repository interface {
	// Upsert creates the record for rec.EntityID or replaces the existing
	// one in a single atomic statement.  On success rec.CreatedAt and
	// rec.ComputedAt are populated from the stored row.
	Upsert(ctx context.Context, rec *Record) error

	// GetByEntityID loads the current record for an entity.  Returns an
	// AppError with code ANA_001 when none exists.
	GetByEntityID(ctx context.Context, entityID common.ID) (*Record, error)

	// DeleteByEntityID removes the record for an entity.  Deleting a
	// record that does not exist is a no-op, not an error; records are
	// only deleted alongside their entity.
	DeleteByEntityID(ctx context.Context, entityID common.ID) error
}
