package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a working copy.
// A released snapshot is always Released by definition.
type Status string

const (
	StatusUnreleased Status = "unreleased"
	StatusWaiting    Status = "waiting"
	StatusReview     Status = "review"
	StatusProofing   Status = "proofing"
	StatusReleased   Status = "released"
)

// AllStatuses lists every valid working-copy status.
var AllStatuses = []Status{
	StatusUnreleased,
	StatusWaiting,
	StatusReview,
	StatusProofing,
	StatusReleased,
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, bool) {
	for _, st := range AllStatuses {
		if Status(s) == st {
			return st, true
		}
	}
	return "", false
}

// InReview reports whether the status is part of the editorial pipeline
// (submitted but not yet public).
func (s Status) InReview() bool {
	return s == StatusWaiting || s == StatusReview || s == StatusProofing
}

// Author identifies a contributor of learning objects.
type Author struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name,omitempty"`
}

// Material is a named attachment reference on a learning object.
// Binary content lives behind the file-storage boundary; only the
// reference is kept here.
type Material struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	FileType string `json:"fileType,omitempty"`
}

// WorkingRecord is the mutable, in-progress copy of a learning object.
// At most one working record exists per cuid at any time.
type WorkingRecord struct {
	ID                 uuid.UUID  `json:"id"`
	Cuid               string     `json:"cuid"`
	Author             Author     `json:"author"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	Status             Status     `json:"status"`
	Collection         string     `json:"collection,omitempty"`
	Length             string     `json:"length,omitempty"`
	Levels             []string   `json:"levels,omitempty"`
	Materials          []Material `json:"materials,omitempty"`
	DownloadRestricted bool       `json:"downloadRestricted,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ReleasedRecord is the immutable snapshot written once per publication
// event. A new release replaces the previous snapshot for the same cuid;
// it is never mutated in place.
type ReleasedRecord struct {
	ID                 uuid.UUID  `json:"id"`
	Cuid               string     `json:"cuid"`
	Author             Author     `json:"author"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	Collection         string     `json:"collection,omitempty"`
	Length             string     `json:"length,omitempty"`
	Levels             []string   `json:"levels,omitempty"`
	Materials          []Material `json:"materials,omitempty"`
	DownloadRestricted bool       `json:"downloadRestricted,omitempty"`
	ReleasedAt         time.Time  `json:"releasedAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Summary is the reconciled, public-facing view of one cuid: a projection
// of either the working or the released record, never both. RevisionURI is
// only populated when the revision-disclosure policy permits the requester
// to learn that a newer edit exists.
type Summary struct {
	ID          uuid.UUID  `json:"id"`
	Cuid        string     `json:"cuid"`
	Author      Author     `json:"author"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Collection  string     `json:"collection,omitempty"`
	Length      string     `json:"length,omitempty"`
	Levels      []string   `json:"levels,omitempty"`
	Materials   []Material `json:"materials,omitempty"`
	Outcomes    []Outcome  `json:"outcomes,omitempty"`
	HasRevision bool       `json:"hasRevision"`
	RevisionURI string     `json:"revisionUri,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SummaryFromWorking projects a working record into a summary.
func SummaryFromWorking(w WorkingRecord) Summary {
	return Summary{
		ID:          w.ID,
		Cuid:        w.Cuid,
		Author:      w.Author,
		Name:        w.Name,
		Description: w.Description,
		Status:      w.Status,
		Collection:  w.Collection,
		Length:      w.Length,
		Levels:      w.Levels,
		Materials:   w.Materials,
		UpdatedAt:   w.UpdatedAt,
	}
}

// SummaryFromReleased projects a released snapshot into a summary.
func SummaryFromReleased(r ReleasedRecord) Summary {
	return Summary{
		ID:          r.ID,
		Cuid:        r.Cuid,
		Author:      r.Author,
		Name:        r.Name,
		Description: r.Description,
		Status:      StatusReleased,
		Collection:  r.Collection,
		Length:      r.Length,
		Levels:      r.Levels,
		Materials:   r.Materials,
		UpdatedAt:   r.UpdatedAt,
	}
}
