package deck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const deckColumns = `id, user_id, title, slug, description, type, valid, main, extra, side, created_at, updated_at`

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

func scanDeck(row pgx.Row) (Deck, error) {
	var (
		d           Deck
		description *string
		deckType    string
	)
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Slug, &description, &deckType, &d.Valid,
		&d.Main, &d.Extra, &d.Side, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Deck{}, err
	}
	d.Type = DeckType(deckType)
	if description != nil {
		d.Description = *description
	}
	return d, nil
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]Deck, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		"SELECT "+deckColumns+" FROM decks WHERE user_id = $1 ORDER BY updated_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Deck{}
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Deck, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	d, err := scanDeck(r.db.QueryRow(timeoutCtx, "SELECT "+deckColumns+" FROM decks WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deck{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Deck{}, err
	}
	return d, nil
}

func (r *PostgresRepo) Create(ctx context.Context, d *Deck) error {
	const query = `
		INSERT INTO decks (user_id, title, slug, description, type, valid, main, extra, side)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		d.UserID, d.Title, d.Slug, nullIfEmpty(d.Description), string(d.Type), d.Valid,
		nonNil(d.Main), nonNil(d.Extra), nonNil(d.Side),
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, d *Deck) error {
	const query = `
		UPDATE decks SET
			title = $3,
			slug = $4,
			description = $5,
			type = $6,
			valid = $7,
			main = $8,
			extra = $9,
			side = $10,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		d.ID, d.UserID, d.Title, d.Slug, nullIfEmpty(d.Description), string(d.Type), d.Valid,
		nonNil(d.Main), nonNil(d.Extra), nonNil(d.Side),
	).Scan(&d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, d.ID)
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM decks WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func nonNil(list []CardRef) []CardRef {
	if list == nil {
		return []CardRef{}
	}
	return list
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
