// Package repositories contains the PostgreSQL implementations of the domain
// repository contracts.  Every repository borrows a pgx pool from
// postgres.Connection and reports query latency through the shared
// application metrics.
package repositories

import (
	"strings"
	"time"

	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// scanner abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

// escapeLike escapes LIKE/ILIKE metacharacters in a literal search term so
// user-supplied entity names cannot act as patterns.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// containsPattern wraps an escaped literal term into a substring ILIKE
// pattern.
func containsPattern(term string) string {
	return "%" + escapeLike(term) + "%"
}

// observeQuery records one query's duration and error outcome.  Safe with a
// nil metrics handle, which the unit tests use.
func observeQuery(m *prometheus.AppMetrics, repo, operation string, started time.Time, err error) {
	prometheus.RecordDBQuery(m, repo, operation, time.Since(started), err)
}
