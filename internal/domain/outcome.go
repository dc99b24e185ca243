package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is a learning outcome authored on a working record. Mappings
// link it to external standard outcomes (curricula frameworks); the
// predicate builder resolves standard-outcome filters through them.
type Outcome struct {
	ID        uuid.UUID   `json:"id"`
	ObjectID  uuid.UUID   `json:"objectId"`
	Cuid      string      `json:"cuid"`
	Verb      string      `json:"verb"`
	Text      string      `json:"text"`
	Mappings  []uuid.UUID `json:"mappings,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ChangelogEntry is one append-only bookkeeping line for a cuid.
type ChangelogEntry struct {
	ID       uuid.UUID `json:"id"`
	Cuid     string    `json:"cuid"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	LoggedAt time.Time `json:"loggedAt"`
}

// Collection is one editorial grouping from the collection registry.
type Collection struct {
	Tag  string `json:"tag" yaml:"tag"`
	Name string `json:"name" yaml:"name"`
}
