package pg

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/domain"
)

type OutcomeStore struct {
	db *Store
}

func NewOutcomeStore(store *Store) *OutcomeStore {
	return &OutcomeStore{db: store}
}

// CuidsForStandardOutcomes maps standard outcome ids to the cuids of
// objects whose outcomes reference any of them. An empty result is a
// valid answer, not an error.
func (s *OutcomeStore) CuidsForStandardOutcomes(ctx context.Context, ids []uuid.UUID) ([]string, error) {
	mapped := make([]string, len(ids))
	for i, id := range ids {
		mapped[i] = id.String()
	}

	const sql = `SELECT DISTINCT cuid FROM outcomes WHERE mappings && $1::text[]`

	rows, err := s.db.db.Query(ctx, sql, mapped)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcome mappings: %w", err)
	}
	defer rows.Close()

	var cuids []string
	for rows.Next() {
		var cuid string
		if err := rows.Scan(&cuid); err != nil {
			return nil, fmt.Errorf("failed to scan cuid: %w", err)
		}
		cuids = append(cuids, cuid)
	}
	return cuids, rows.Err()
}

func (s *OutcomeStore) OutcomesForCuid(ctx context.Context, cuid string) ([]domain.Outcome, error) {
	sql, args, err := psql.Select("id", "object_id", "cuid", "verb", "text", "mappings", "updated_at").
		From("outcomes").
		Where(squirrel.Eq{"cuid": cuid}).
		OrderBy("updated_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build outcomes query: %w", err)
	}

	rows, err := s.db.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.Outcome
	for rows.Next() {
		var (
			o        domain.Outcome
			mappings []string
		)
		if err := rows.Scan(&o.ID, &o.ObjectID, &o.Cuid, &o.Verb, &o.Text, &mappings, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Mappings, err = parseMappings(mappings)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

func (s *OutcomeStore) SaveOutcome(ctx context.Context, o domain.Outcome) error {
	mapped := make([]string, len(o.Mappings))
	for i, id := range o.Mappings {
		mapped[i] = id.String()
	}

	sql, args, err := psql.Insert("outcomes").
		Columns("id", "object_id", "cuid", "verb", "text", "mappings", "updated_at").
		Values(o.ID, o.ObjectID, o.Cuid, o.Verb, o.Text, mapped, o.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			verb = EXCLUDED.verb,
			text = EXCLUDED.text,
			mappings = EXCLUDED.mappings,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build outcome upsert: %w", err)
	}

	if _, err := s.db.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}
	return nil
}

func (s *OutcomeStore) DeleteOutcomesForObject(ctx context.Context, objectID uuid.UUID) error {
	sql, args, err := psql.Delete("outcomes").
		Where(squirrel.Eq{"object_id": objectID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build outcome delete: %w", err)
	}

	if _, err := s.db.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to delete outcomes: %w", err)
	}
	return nil
}

func parseMappings(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	mappings := make([]uuid.UUID, len(raw))
	for i, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("failed to parse outcome mapping: %w", err)
		}
		mappings[i] = id
	}
	return mappings, nil
}
