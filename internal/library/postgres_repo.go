package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	entryColumns       = `id, user_id, card_id, issues, version, created_at, updated_at`
	uniqueViolationSQL = "23505"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	if err := row.Scan(&e.ID, &e.UserID, &e.CardID, &e.Issues, &e.Version, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entry{}, err
	}
	if e.Issues == nil {
		e.Issues = []Issue{}
	}
	return e, nil
}

func (r *PostgresRepo) list(ctx context.Context, query string, args ...any) ([]Entry, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM library_entries WHERE user_id = $1 ORDER BY updated_at DESC", userID)
}

func (r *PostgresRepo) ListRecent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM library_entries WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2", userID, limit)
}

func (r *PostgresRepo) get(ctx context.Context, notFound string, query string, args ...any) (Entry, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	e, err := scanEntry(r.db.QueryRow(timeoutCtx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, notFound)
	}
	return e, err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Entry, error) {
	return r.get(ctx, id, "SELECT "+entryColumns+" FROM library_entries WHERE id = $1", id)
}

func (r *PostgresRepo) GetByUserAndCard(ctx context.Context, userID, cardID string) (Entry, error) {
	return r.get(ctx, cardID,
		"SELECT "+entryColumns+" FROM library_entries WHERE user_id = $1 AND card_id = $2", userID, cardID)
}

// Create inserts a new entry at version 1. A concurrent insert for the same
// user and card surfaces as ErrVersionConflict.
func (r *PostgresRepo) Create(ctx context.Context, e *Entry) error {
	const query = `
		INSERT INTO library_entries (user_id, card_id, issues, version)
		VALUES ($1, $2, $3, 1)
		RETURNING id, version, created_at, updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, e.UserID, e.CardID, e.Issues).
		Scan(&e.ID, &e.Version, &e.CreatedAt, &e.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL {
		return fmt.Errorf("%w: %s", ErrVersionConflict, e.CardID)
	}
	return err
}

// UpdateIssues replaces the issue array when e.Version is still current and
// bumps the version on success.
func (r *PostgresRepo) UpdateIssues(ctx context.Context, e *Entry) error {
	const query = `
		UPDATE library_entries
		SET issues = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, e.ID, e.Version, e.Issues).Scan(&e.Version, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrVersionConflict, e.ID)
	}
	return err
}

// SetTradeable flags every issue of the listed entries and stamps their updatedAt.
func (r *PostgresRepo) SetTradeable(ctx context.Context, userID string, ids []string, tradeable bool, now time.Time) (int64, error) {
	const query = `
		UPDATE library_entries
		SET issues = (
				SELECT COALESCE(jsonb_agg(
					jsonb_set(jsonb_set(i, '{tradeable}', to_jsonb($3::boolean)), '{updatedAt}', to_jsonb($4::text))
				), '[]'::jsonb)
				FROM jsonb_array_elements(issues) AS i
			),
			version = version + 1,
			updated_at = NOW()
		WHERE user_id = $1 AND id = ANY($2::uuid[])`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, userID, ids, tradeable, issueTimestamp(now))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string, version int) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM library_entries WHERE id = $1 AND version = $2", id, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrVersionConflict, id)
	}
	return nil
}

func (r *PostgresRepo) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM library_entries WHERE user_id = $1 AND id = ANY($2::uuid[])", userID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// issueTimestamp renders t the way encoding/json writes Issue.UpdatedAt.
func issueTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
