package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/domain"
)

// Dataset column names. Levels is multi-valued and separated by
// semicolons within the cell.
const (
	columnCuid               = "cuid"
	columnName               = "name"
	columnDescription        = "description"
	columnAuthorID           = "author_id"
	columnAuthorUsername     = "author_username"
	columnAuthorName         = "author_name"
	columnStatus             = "status"
	columnCollection         = "collection"
	columnLength             = "length"
	columnLevels             = "levels"
	columnDownloadRestricted = "download_restricted"
)

// RecordMapper converts one dataset row into a working record.
type RecordMapper struct {
	now func() time.Time
}

func NewRecordMapper() *RecordMapper {
	return &RecordMapper{now: time.Now}
}

func (m *RecordMapper) Map(row map[string]string) (domain.WorkingRecord, error) {
	cuid := strings.TrimSpace(row[columnCuid])
	if cuid == "" {
		return domain.WorkingRecord{}, fmt.Errorf("row has no cuid")
	}
	name := strings.TrimSpace(row[columnName])
	if name == "" {
		return domain.WorkingRecord{}, fmt.Errorf("row %q has no name", cuid)
	}
	username := strings.TrimSpace(row[columnAuthorUsername])
	if username == "" {
		return domain.WorkingRecord{}, fmt.Errorf("row %q has no author username", cuid)
	}

	authorID := uuid.Nil
	if raw := strings.TrimSpace(row[columnAuthorID]); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return domain.WorkingRecord{}, fmt.Errorf("row %q has invalid author id: %w", cuid, err)
		}
		authorID = parsed
	}

	status := domain.StatusUnreleased
	if raw := strings.TrimSpace(row[columnStatus]); raw != "" {
		parsed, ok := domain.ParseStatus(raw)
		if !ok {
			return domain.WorkingRecord{}, fmt.Errorf("row %q has invalid status %q", cuid, raw)
		}
		status = parsed
	}

	now := m.now()
	return domain.WorkingRecord{
		ID:   uuid.New(),
		Cuid: cuid,
		Author: domain.Author{
			ID:       authorID,
			Username: username,
			Name:     strings.TrimSpace(row[columnAuthorName]),
		},
		Name:               name,
		Description:        row[columnDescription],
		Status:             status,
		Collection:         strings.TrimSpace(row[columnCollection]),
		Length:             strings.TrimSpace(row[columnLength]),
		Levels:             splitLevels(row[columnLevels]),
		DownloadRestricted: strings.EqualFold(strings.TrimSpace(row[columnDownloadRestricted]), "true"),
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func splitLevels(raw string) []string {
	var levels []string
	for _, v := range strings.Split(raw, ";") {
		if v = strings.TrimSpace(v); v != "" {
			levels = append(levels, v)
		}
	}
	return levels
}
