// Package entity models the legal-subject entities (persons, banks, insurers,
// companies) whose litigation exposure the CaseRisk-Intelligence platform
// analyses.  Entities are created and maintained by upstream record-management
// flows; this platform only reads them, so the package carries no mutation
// logic beyond validation of values arriving from the store.
package entity

import (
	"strings"
	"time"

	"github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// Kind discriminates the category of legal subject an Entity represents.
type Kind string

const (
	KindPerson  Kind = "person"
	KindBank    Kind = "bank"
	KindInsurer Kind = "insurer"
	KindCompany Kind = "company"
)

// validKinds is the closed set of entity kinds accepted from the store.
var validKinds = map[Kind]bool{
	KindPerson:  true,
	KindBank:    true,
	KindInsurer: true,
	KindCompany: true,
}

// IsValid reports whether k is a known entity kind.
func (k Kind) IsValid() bool { return validKinds[k] }

// Entity is a subject of legal interest.  Name is the matching key used by
// the case-corpus locator, so an entity with an empty name can never be
// analysed and is rejected by Validate.
type Entity struct {
	ID        common.ID `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the invariants an entity loaded from the store must hold
// before analytics can be computed for it.
func (e *Entity) Validate() error {
	if err := e.ID.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid entity id")
	}
	if strings.TrimSpace(e.Name) == "" {
		return errors.New(errors.ErrCodeEntityNameInvalid, "entity name must not be empty")
	}
	if e.Kind != "" && !e.Kind.IsValid() {
		return errors.New(errors.ErrCodeValidation, "unknown entity kind: "+string(e.Kind))
	}
	return nil
}

// DisplayName returns the name trimmed of surrounding whitespace.  The
// locator normalises further; this only guards against sloppy source data.
func (e *Entity) DisplayName() string {
	return strings.TrimSpace(e.Name)
}
