// Package pgstore keeps the vocabulary source pool in PostgreSQL for users
// who share one word list across machines.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhisek/lingoz/internal/vocab"
)

type PoolConfig struct {
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// NewPool opens a pgx connection pool.
func NewPool(ctx context.Context, dsn string, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS vocab_items (
	word           TEXT PRIMARY KEY,
	definitions    JSONB NOT NULL DEFAULT '[]',
	pronunciation  TEXT NOT NULL DEFAULT '',
	sentences      JSONB NOT NULL DEFAULT '[]',
	familiarity    INTEGER NOT NULL DEFAULT 0,
	starred        BOOLEAN NOT NULL DEFAULT FALSE,
	last_viewed_at TIMESTAMPTZ
)`

// VocabRepository implements vocab.Repository on PostgreSQL.
type VocabRepository struct {
	db *pgxpool.Pool
}

var _ vocab.Repository = (*VocabRepository)(nil)

func NewVocabRepository(db *pgxpool.Pool) *VocabRepository {
	return &VocabRepository{db: db}
}

// EnsureSchema creates the vocab_items table if missing.
func (r *VocabRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const columns = `word, definitions, pronunciation, sentences, familiarity, starred, last_viewed_at`

func (r *VocabRepository) Fetch(ctx context.Context, f vocab.Filter, limit int) ([]vocab.Item, error) {
	where, args := buildWhere(f)
	query := `SELECT ` + columns + ` FROM vocab_items` + where + orderBy(f.SortBy)
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer rows.Close()

	var items []vocab.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}
	return items, nil
}

// Get returns vocab.ErrNotFound if the word doesn't exist.
func (r *VocabRepository) Get(ctx context.Context, word string) (*vocab.Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx, `SELECT `+columns+` FROM vocab_items WHERE word = $1`, word))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vocab.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *VocabRepository) Save(ctx context.Context, it vocab.Item) error {
	if strings.TrimSpace(it.Word) == "" {
		return fmt.Errorf("save: empty word")
	}
	defs, err := json.Marshal(orEmpty(it.Definitions))
	if err != nil {
		return fmt.Errorf("marshal definitions: %w", err)
	}
	sents, err := json.Marshal(orEmpty(it.Sentences))
	if err != nil {
		return fmt.Errorf("marshal sentences: %w", err)
	}

	var viewed *time.Time
	if !it.LastViewedAt.IsZero() {
		viewed = &it.LastViewedAt
	}

	query := `
		INSERT INTO vocab_items (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (word)
		DO UPDATE SET
			definitions = excluded.definitions,
			pronunciation = excluded.pronunciation,
			sentences = excluded.sentences,
			familiarity = excluded.familiarity,
			starred = excluded.starred,
			last_viewed_at = excluded.last_viewed_at
	`
	_, err = r.db.Exec(ctx, query,
		it.Word, defs, it.Pronunciation, sents, it.Familiarity, it.Starred, viewed)
	if err != nil {
		return fmt.Errorf("save %q: %w", it.Word, err)
	}
	return nil
}

func (r *VocabRepository) Count(ctx context.Context, f vocab.Filter) (int, error) {
	where, args := buildWhere(f)
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vocab_items`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Delete removes a word. Missing words are not an error.
func (r *VocabRepository) Delete(ctx context.Context, word string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM vocab_items WHERE word = $1`, word); err != nil {
		return fmt.Errorf("delete %q: %w", word, err)
	}
	return nil
}

func buildWhere(f vocab.Filter) (string, []any) {
	var conds []string
	var args []any
	if f.LetterPrefix != "" {
		args = append(args, escapeLike(f.LetterPrefix)+"%")
		conds = append(conds, fmt.Sprintf(`word ILIKE $%d`, len(args)))
	}
	if f.StarredOnly {
		conds = append(conds, `starred`)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(s vocab.SortBy) string {
	switch s {
	case vocab.SortRecent:
		return ` ORDER BY last_viewed_at DESC NULLS LAST, word ASC`
	case vocab.SortFamiliarity:
		return ` ORDER BY familiarity ASC, word ASC`
	default:
		return ` ORDER BY lower(word) ASC`
	}
}

// escapeLike escapes ILIKE wildcards; backslash is Postgres' default escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanItem(row pgx.Row) (vocab.Item, error) {
	var (
		it         vocab.Item
		defs, sent []byte
		viewed     *time.Time
	)
	if err := row.Scan(&it.Word, &defs, &it.Pronunciation, &sent, &it.Familiarity, &it.Starred, &viewed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return it, err
		}
		return it, fmt.Errorf("scan: %w", err)
	}
	if err := json.Unmarshal(defs, &it.Definitions); err != nil {
		return it, fmt.Errorf("decode definitions of %q: %w", it.Word, err)
	}
	if err := json.Unmarshal(sent, &it.Sentences); err != nil {
		return it, fmt.Errorf("decode sentences of %q: %w", it.Word, err)
	}
	if viewed != nil {
		it.LastViewedAt = viewed.UTC()
	}
	return it, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
