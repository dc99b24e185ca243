package pg

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lumenlearn/objecthub/internal/domain"
)

type ChangelogStore struct {
	db *Store
}

func NewChangelogStore(store *Store) *ChangelogStore {
	return &ChangelogStore{db: store}
}

func (s *ChangelogStore) Append(ctx context.Context, entry domain.ChangelogEntry) error {
	sql, args, err := psql.Insert("changelog").
		Columns("id", "cuid", "author", "text", "logged_at").
		Values(entry.ID, entry.Cuid, entry.Author, entry.Text, entry.LoggedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build changelog insert: %w", err)
	}

	if _, err := s.db.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to append changelog entry: %w", err)
	}
	return nil
}

func (s *ChangelogStore) ForCuid(ctx context.Context, cuid string) ([]domain.ChangelogEntry, error) {
	sql, args, err := psql.Select("id", "cuid", "author", "text", "logged_at").
		From("changelog").
		Where(squirrel.Eq{"cuid": cuid}).
		OrderBy("logged_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build changelog query: %w", err)
	}

	rows, err := s.db.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query changelog: %w", err)
	}
	defer rows.Close()

	var entries []domain.ChangelogEntry
	for rows.Next() {
		var e domain.ChangelogEntry
		if err := rows.Scan(&e.ID, &e.Cuid, &e.Author, &e.Text, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan changelog entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *ChangelogStore) DeleteForCuid(ctx context.Context, cuid string) error {
	sql, args, err := psql.Delete("changelog").
		Where(squirrel.Eq{"cuid": cuid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build changelog delete: %w", err)
	}

	if _, err := s.db.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to delete changelog: %w", err)
	}
	return nil
}
