package card

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cardColumns = `id, name, slug, type, frame_type, description, atk, def, level, scale, linkval,
		link_markers, race, attribute, archetype, image_url, sets, prices, banlist, updated_at`

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

func scanCard(row pgx.Row) (Card, error) {
	var (
		c                   Card
		cardType, frameType string
		race, attribute     *string
		archetype, imageURL *string
		markers             []LinkMarker
		sets                []Set
		prices              []Price
		banlist             *BanlistInfo
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &cardType, &frameType, &c.Desc,
		&c.Atk, &c.Def, &c.Level, &c.Scale, &c.LinkVal,
		&markers, &race, &attribute, &archetype, &imageURL,
		&sets, &prices, &banlist, &c.UpdatedAt,
	)
	if err != nil {
		return Card{}, err
	}
	c.Type = CardType(cardType)
	c.FrameType = FrameType(frameType)
	c.LinkMarkers = markers
	c.Sets = sets
	c.Prices = prices
	c.Banlist = banlist
	if race != nil {
		v := Race(*race)
		c.Race = &v
	}
	if attribute != nil {
		v := Attribute(*attribute)
		c.Attribute = &v
	}
	if archetype != nil {
		c.Archetype = *archetype
	}
	if imageURL != nil {
		c.ImageURL = *imageURL
	}
	return c, nil
}

func (r *PostgresRepo) All(ctx context.Context) ([]Card, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, "SELECT "+cardColumns+" FROM cards ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Card, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	c, err := scanCard(r.db.QueryRow(timeoutCtx, "SELECT "+cardColumns+" FROM cards WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Card{}, err
	}
	return c, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Card, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argn, argn+1))
		pattern := "%" + q.Q + "%"
		args = append(args, pattern, pattern)
		argn += 2
	}

	if q.Type != "" {
		clauses = append(clauses, fmt.Sprintf("type = $%d", argn))
		args = append(args, string(q.Type))
		argn++
	}

	if q.FrameType != "" {
		clauses = append(clauses, fmt.Sprintf("frame_type = $%d", argn))
		args = append(args, string(q.FrameType))
		argn++
	}

	if q.Archetype != "" {
		clauses = append(clauses, fmt.Sprintf("archetype = $%d", argn))
		args = append(args, q.Archetype)
		argn++
	}

	if q.Ban != "" {
		clauses = append(clauses, fmt.Sprintf("banlist->>'ban_tcg' = $%d", argn))
		args = append(args, string(q.Ban))
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	var total int
	countCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(countCtx, "SELECT COUNT(*) FROM cards "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf("SELECT %s FROM cards %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		cardColumns, where, argn, argn+1)
	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)

	dataCtx, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(dataCtx, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

const upsertCardSQL = `
	INSERT INTO cards (id, name, slug, type, frame_type, description, atk, def, level, scale, linkval,
	                   link_markers, race, attribute, archetype, image_url, sets, prices, banlist, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW())
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		slug = EXCLUDED.slug,
		type = EXCLUDED.type,
		frame_type = EXCLUDED.frame_type,
		description = EXCLUDED.description,
		atk = EXCLUDED.atk,
		def = EXCLUDED.def,
		level = EXCLUDED.level,
		scale = EXCLUDED.scale,
		linkval = EXCLUDED.linkval,
		link_markers = EXCLUDED.link_markers,
		race = EXCLUDED.race,
		attribute = EXCLUDED.attribute,
		archetype = EXCLUDED.archetype,
		image_url = EXCLUDED.image_url,
		sets = EXCLUDED.sets,
		prices = EXCLUDED.prices,
		banlist = EXCLUDED.banlist,
		updated_at = NOW()`

// UpsertMany writes cards in a single batch and returns how many were written.
func (r *PostgresRepo) UpsertMany(ctx context.Context, cards []Card) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, c := range cards {
		batch.Queue(upsertCardSQL,
			c.ID, c.Name, c.Slug, string(c.Type), string(c.FrameType), c.Desc,
			c.Atk, c.Def, c.Level, c.Scale, c.LinkVal,
			nonNil(c.LinkMarkers), nullableString((*string)(c.Race)), nullableString((*string)(c.Attribute)),
			nullIfEmpty(c.Archetype), nullIfEmpty(c.ImageURL),
			nonNil(c.Sets), nonNil(c.Prices), c.Banlist,
		)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	br := r.db.SendBatch(timeoutCtx, batch)
	defer br.Close()

	written := 0
	for _, c := range cards {
		if _, err := br.Exec(); err != nil {
			return written, fmt.Errorf("upsert card %s: %w", c.ID, err)
		}
		written++
	}
	return written, nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM cards").Scan(&n)
	return n, err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
