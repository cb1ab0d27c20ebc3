package entity

import (
	"context"

	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// Repository is the read-only persistence contract for entities.  The
// analytics engine never creates, updates, or deletes entities; upstream
// record-management flows own the write path.
type Repository interface {
	// FindByID loads a single entity.  Returns an AppError with code
	// ENT_001 when no entity exists for id.
	FindByID(ctx context.Context, id common.ID) (*Entity, error)

	// ListPage returns one page of entities ordered by creation time, for
	// batch sweeps.  offset is a row offset, limit the page size.
	ListPage(ctx context.Context, offset, limit int) ([]*Entity, error)

	// Count returns the total number of entities in the store.
	Count(ctx context.Context) (int64, error)
}
