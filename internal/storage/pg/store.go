// Package pg implements the stores on PostgreSQL. Predicates are
// translated to SQL with squirrel; full-text relevance uses the
// generated search_vector column and ts_rank.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/query"
	"github.com/lumenlearn/objecthub/internal/storage"
)

var recordColumns = []string{
	"id", "cuid", "author_id", "author_username", "author_name",
	"name", "description", "collection", "length", "levels",
	"materials", "download_restricted", "created_at", "updated_at",
}

var releasedColumns = []string{
	"id", "cuid", "author_id", "author_username", "author_name",
	"name", "description", "collection", "length", "levels",
	"materials", "download_restricted", "released_at", "updated_at",
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{db: pool.conn}
}

func (s *Store) FindWorking(ctx context.Context, p query.Predicate, opts storage.FindOptions) ([]storage.WorkingHit, error) {
	builder := psql.Select(recordColumns...).
		Column("status").
		From("working_objects").
		Where(buildConditions(p, false))
	builder = applyScore(builder, p)
	builder = applyFindOptions(builder, p, opts)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build working query: %w", err)
	}
	slog.Debug("Executing working find", "sql", sql)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query working records: %w", err)
	}
	defer rows.Close()

	var hits []storage.WorkingHit
	for rows.Next() {
		var (
			rec           domain.WorkingRecord
			status        string
			materialsJSON []byte
			score         float64
		)
		if err := rows.Scan(
			&rec.ID, &rec.Cuid, &rec.Author.ID, &rec.Author.Username, &rec.Author.Name,
			&rec.Name, &rec.Description, &rec.Collection, &rec.Length, &rec.Levels,
			&materialsJSON, &rec.DownloadRestricted, &rec.CreatedAt, &rec.UpdatedAt,
			&status, &score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan working record: %w", err)
		}
		rec.Status = domain.Status(status)
		if err := json.Unmarshal(materialsJSON, &rec.Materials); err != nil {
			return nil, fmt.Errorf("failed to unmarshal materials: %w", err)
		}
		hits = append(hits, storage.WorkingHit{Record: rec, Score: score})
	}
	return hits, rows.Err()
}

func (s *Store) FindReleased(ctx context.Context, p query.Predicate, opts storage.FindOptions) ([]storage.ReleasedHit, error) {
	builder := psql.Select(releasedColumns...).
		From("released_objects").
		Where(buildConditions(p, true))
	builder = applyScore(builder, p)
	builder = applyFindOptions(builder, p, opts)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build released query: %w", err)
	}
	slog.Debug("Executing released find", "sql", sql)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query released records: %w", err)
	}
	defer rows.Close()

	var hits []storage.ReleasedHit
	for rows.Next() {
		var (
			rec           domain.ReleasedRecord
			materialsJSON []byte
			score         float64
		)
		if err := rows.Scan(
			&rec.ID, &rec.Cuid, &rec.Author.ID, &rec.Author.Username, &rec.Author.Name,
			&rec.Name, &rec.Description, &rec.Collection, &rec.Length, &rec.Levels,
			&materialsJSON, &rec.DownloadRestricted, &rec.ReleasedAt, &rec.UpdatedAt,
			&score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan released record: %w", err)
		}
		if err := json.Unmarshal(materialsJSON, &rec.Materials); err != nil {
			return nil, fmt.Errorf("failed to unmarshal materials: %w", err)
		}
		hits = append(hits, storage.ReleasedHit{Record: rec, Score: score})
	}
	return hits, rows.Err()
}

// applyScore appends the relevance column; squirrel keeps its
// placeholder ordered with the rest of the statement.
func applyScore(b squirrel.SelectBuilder, p query.Predicate) squirrel.SelectBuilder {
	expr, args := scoreColumn(p)
	if len(args) > 0 {
		return b.Column(squirrel.Expr(expr, args...))
	}
	return b.Column(expr)
}

func applyFindOptions(b squirrel.SelectBuilder, p query.Predicate, opts storage.FindOptions) squirrel.SelectBuilder {
	switch {
	case opts.SortBy != "":
		col, ok := sortColumns[opts.SortBy]
		if !ok {
			col = "name"
		}
		dir := "ASC"
		if opts.SortDesc {
			dir = "DESC"
		}
		b = b.OrderBy(col + " " + dir)
	case p.Mode == query.ModeText && p.Term != "":
		b = b.OrderBy("score DESC, id DESC")
	}
	if opts.Skip > 0 {
		b = b.Offset(uint64(opts.Skip))
	}
	if opts.Limit > 0 {
		b = b.Limit(uint64(opts.Limit))
	}
	return b
}

// FindAuthors resolves a term to the distinct contributors across both
// record sets, matching username or display name as a literal
// substring.
func (s *Store) FindAuthors(ctx context.Context, term string) ([]domain.Author, error) {
	pattern := query.EscapeTerm(term)
	const sql = `
		SELECT DISTINCT author_id, author_username, author_name FROM (
			SELECT author_id, author_username, author_name FROM working_objects
			UNION ALL
			SELECT author_id, author_username, author_name FROM released_objects
		) authors
		WHERE author_username ~* $1 OR author_name ~* $1
		ORDER BY author_username
	`

	rows, err := s.db.Query(ctx, sql, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []domain.Author
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.ID, &a.Username, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *Store) GetWorking(ctx context.Context, cuid string) (*domain.WorkingRecord, error) {
	sql, args, err := psql.Select(recordColumns...).Column("status").
		From("working_objects").
		Where(squirrel.Eq{"cuid": cuid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get query: %w", err)
	}

	var (
		rec           domain.WorkingRecord
		status        string
		materialsJSON []byte
	)
	err = s.db.QueryRow(ctx, sql, args...).Scan(
		&rec.ID, &rec.Cuid, &rec.Author.ID, &rec.Author.Username, &rec.Author.Name,
		&rec.Name, &rec.Description, &rec.Collection, &rec.Length, &rec.Levels,
		&materialsJSON, &rec.DownloadRestricted, &rec.CreatedAt, &rec.UpdatedAt,
		&status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get working record: %w", err)
	}
	rec.Status = domain.Status(status)
	if err := json.Unmarshal(materialsJSON, &rec.Materials); err != nil {
		return nil, fmt.Errorf("failed to unmarshal materials: %w", err)
	}
	return &rec, nil
}

func (s *Store) GetReleased(ctx context.Context, cuid string) (*domain.ReleasedRecord, error) {
	sql, args, err := psql.Select(releasedColumns...).
		From("released_objects").
		Where(squirrel.Eq{"cuid": cuid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get query: %w", err)
	}

	var (
		rec           domain.ReleasedRecord
		materialsJSON []byte
	)
	err = s.db.QueryRow(ctx, sql, args...).Scan(
		&rec.ID, &rec.Cuid, &rec.Author.ID, &rec.Author.Username, &rec.Author.Name,
		&rec.Name, &rec.Description, &rec.Collection, &rec.Length, &rec.Levels,
		&materialsJSON, &rec.DownloadRestricted, &rec.ReleasedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get released record: %w", err)
	}
	if err := json.Unmarshal(materialsJSON, &rec.Materials); err != nil {
		return nil, fmt.Errorf("failed to unmarshal materials: %w", err)
	}
	return &rec, nil
}

// GetWorkingMeta fetches only the authz projection, keyed by record id
// when the key parses as one, otherwise by cuid or name.
func (s *Store) GetWorkingMeta(ctx context.Context, key string) (*storage.WorkingMeta, error) {
	var where squirrel.Sqlizer
	if id, err := uuid.Parse(key); err == nil {
		where = squirrel.Eq{"id": id}
	} else {
		where = squirrel.Or{squirrel.Eq{"cuid": key}, squirrel.Eq{"name": key}}
	}

	sql, args, err := psql.Select("id", "cuid", "author_id", "author_username", "collection").
		From("working_objects").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build meta query: %w", err)
	}

	var meta storage.WorkingMeta
	err = s.db.QueryRow(ctx, sql, args...).Scan(
		&meta.ID, &meta.Cuid, &meta.AuthorID, &meta.AuthorUsername, &meta.Collection,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record projection: %w", err)
	}
	return &meta, nil
}

func (s *Store) CreateWorking(ctx context.Context, rec domain.WorkingRecord) error {
	materialsJSON, err := json.Marshal(materialsOrEmpty(rec.Materials))
	if err != nil {
		return fmt.Errorf("failed to marshal materials: %w", err)
	}

	sql, args, err := psql.Insert("working_objects").
		Columns(append(recordColumns, "status")...).
		Values(
			rec.ID, rec.Cuid, rec.Author.ID, rec.Author.Username, rec.Author.Name,
			rec.Name, rec.Description, rec.Collection, rec.Length, levelsOrEmpty(rec.Levels),
			materialsJSON, rec.DownloadRestricted, rec.CreatedAt, rec.UpdatedAt,
			string(rec.Status),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert working record: %w", err)
	}
	return nil
}

func (s *Store) UpdateWorking(ctx context.Context, rec domain.WorkingRecord) error {
	materialsJSON, err := json.Marshal(materialsOrEmpty(rec.Materials))
	if err != nil {
		return fmt.Errorf("failed to marshal materials: %w", err)
	}

	sql, args, err := psql.Update("working_objects").
		Set("name", rec.Name).
		Set("description", rec.Description).
		Set("status", string(rec.Status)).
		Set("collection", rec.Collection).
		Set("length", rec.Length).
		Set("levels", levelsOrEmpty(rec.Levels)).
		Set("materials", materialsJSON).
		Set("download_restricted", rec.DownloadRestricted).
		Set("updated_at", rec.UpdatedAt).
		Where(squirrel.Eq{"cuid": rec.Cuid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update working record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteWorking(ctx context.Context, id uuid.UUID) error {
	sql, args, err := psql.Delete("working_objects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to delete working record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SeedReleased writes a released snapshot. Release publication is
// driven by editorial tooling outside the API, so this is exposed for
// that tooling and for tests.
func (s *Store) SeedReleased(ctx context.Context, rec domain.ReleasedRecord) error {
	materialsJSON, err := json.Marshal(materialsOrEmpty(rec.Materials))
	if err != nil {
		return fmt.Errorf("failed to marshal materials: %w", err)
	}

	sql, args, err := psql.Insert("released_objects").
		Columns(releasedColumns...).
		Values(
			rec.ID, rec.Cuid, rec.Author.ID, rec.Author.Username, rec.Author.Name,
			rec.Name, rec.Description, rec.Collection, rec.Length, levelsOrEmpty(rec.Levels),
			materialsJSON, rec.DownloadRestricted, rec.ReleasedAt, rec.UpdatedAt,
		).
		Suffix(`ON CONFLICT (cuid) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			collection = EXCLUDED.collection,
			length = EXCLUDED.length,
			levels = EXCLUDED.levels,
			materials = EXCLUDED.materials,
			download_restricted = EXCLUDED.download_restricted,
			released_at = EXCLUDED.released_at,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build released insert: %w", err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert released record: %w", err)
	}
	return nil
}

func materialsOrEmpty(m []domain.Material) []domain.Material {
	if m == nil {
		return []domain.Material{}
	}
	return m
}

func levelsOrEmpty(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
