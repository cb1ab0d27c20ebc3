package caserecord

import (
	"context"

	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// Repository is the read-only persistence contract for case records.
type Repository interface {
	// FindByID loads a single case record.  Returns an AppError with code
	// COMMON_003 when no case exists for id.
	FindByID(ctx context.Context, id common.ID) (*CaseRecord, error)

	// SearchTitle returns every case whose title contains at least one of
	// terms as a case-insensitive substring.  terms are literal strings,
	// not patterns; implementations must escape them.  An empty terms
	// slice yields an empty result, not an error.
	SearchTitle(ctx context.Context, terms []string) ([]*CaseRecord, error)
}
