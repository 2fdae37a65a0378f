package ingest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (string, error) {
	const sql = `
		INSERT INTO ingest_runs (started_at, status)
		VALUES ($1, $2)
		RETURNING id`

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	var id string
	err := r.db.QueryRow(timeoutCtx, sql, run.StartedAt, run.Status).Scan(&id)
	return id, err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE ingest_runs SET
			finished_at = $1,
			status = $2,
			cards_fetched = $3,
			cards_skipped = $4,
			cards_upserted = $5,
			error = NULLIF($6, '')
		WHERE id = $7`

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, run.FinishedAt, run.Status, run.Fetched, run.Skipped, run.Upserted, run.Error, run.ID)
	return err
}
