package es

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/domain"
)

// objectDocument is the index document shared by the working and
// released indices. Working documents carry status and created_at;
// released documents carry released_at instead.
type objectDocument struct {
	ID                 string            `json:"id"`
	Cuid               string            `json:"cuid"`
	AuthorID           string            `json:"author_id"`
	AuthorUsername     string            `json:"author_username"`
	AuthorName         string            `json:"author_name"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	Status             string            `json:"status,omitempty"`
	Collection         string            `json:"collection"`
	Length             string            `json:"length"`
	Levels             []string          `json:"levels"`
	Materials          []domain.Material `json:"materials"`
	DownloadRestricted bool              `json:"download_restricted"`
	CreatedAt          time.Time         `json:"created_at,omitempty"`
	ReleasedAt         time.Time         `json:"released_at,omitempty"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func (d objectDocument) toWorking() (domain.WorkingRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.WorkingRecord{}, fmt.Errorf("failed to parse document id: %w", err)
	}
	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return domain.WorkingRecord{}, fmt.Errorf("failed to parse author id: %w", err)
	}
	return domain.WorkingRecord{
		ID:   id,
		Cuid: d.Cuid,
		Author: domain.Author{
			ID:       authorID,
			Username: d.AuthorUsername,
			Name:     d.AuthorName,
		},
		Name:               d.Name,
		Description:        d.Description,
		Status:             domain.Status(d.Status),
		Collection:         d.Collection,
		Length:             d.Length,
		Levels:             d.Levels,
		Materials:          d.Materials,
		DownloadRestricted: d.DownloadRestricted,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}

func (d objectDocument) toReleased() (domain.ReleasedRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.ReleasedRecord{}, fmt.Errorf("failed to parse document id: %w", err)
	}
	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return domain.ReleasedRecord{}, fmt.Errorf("failed to parse author id: %w", err)
	}
	return domain.ReleasedRecord{
		ID:   id,
		Cuid: d.Cuid,
		Author: domain.Author{
			ID:       authorID,
			Username: d.AuthorUsername,
			Name:     d.AuthorName,
		},
		Name:               d.Name,
		Description:        d.Description,
		Collection:         d.Collection,
		Length:             d.Length,
		Levels:             d.Levels,
		Materials:          d.Materials,
		DownloadRestricted: d.DownloadRestricted,
		ReleasedAt:         d.ReleasedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}
