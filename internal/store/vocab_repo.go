package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/lingoz/internal/vocab"
)

// VocabRepo implements vocab.Repository on SQLite. Definitions and sentences
// are stored as JSON columns.
type VocabRepo struct {
	db *sql.DB
}

var _ vocab.Repository = (*VocabRepo)(nil)

const vocabColumns = `word, definitions, pronunciation, sentences, familiarity, starred, last_viewed_at`

func (r *VocabRepo) Fetch(ctx context.Context, f vocab.Filter, limit int) ([]vocab.Item, error) {
	where, args := vocabWhere(f)
	q := `SELECT ` + vocabColumns + ` FROM vocab_items` + where + vocabOrder(f.SortBy)
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query vocab items: %w", err)
	}
	defer rows.Close()

	var items []vocab.Item
	for rows.Next() {
		it, err := scanVocabItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *VocabRepo) Get(ctx context.Context, word string) (*vocab.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+vocabColumns+` FROM vocab_items WHERE word = ?`, word)
	it, err := scanVocabItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, vocab.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *VocabRepo) Save(ctx context.Context, it vocab.Item) error {
	if strings.TrimSpace(it.Word) == "" {
		return fmt.Errorf("save vocab item: empty word")
	}
	defs, err := json.Marshal(nonNil(it.Definitions))
	if err != nil {
		return fmt.Errorf("marshal definitions: %w", err)
	}
	sents, err := json.Marshal(nonNil(it.Sentences))
	if err != nil {
		return fmt.Errorf("marshal sentences: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO vocab_items (`+vocabColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (word) DO UPDATE SET
			definitions = excluded.definitions,
			pronunciation = excluded.pronunciation,
			sentences = excluded.sentences,
			familiarity = excluded.familiarity,
			starred = excluded.starred,
			last_viewed_at = excluded.last_viewed_at`,
		it.Word, string(defs), it.Pronunciation, string(sents),
		it.Familiarity, it.Starred, toMillis(it.LastViewedAt))
	if err != nil {
		return fmt.Errorf("save vocab item %q: %w", it.Word, err)
	}
	return nil
}

func (r *VocabRepo) Count(ctx context.Context, f vocab.Filter) (int, error) {
	where, args := vocabWhere(f)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vocab_items`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vocab items: %w", err)
	}
	return n, nil
}

// Delete removes a word. Missing words are not an error.
func (r *VocabRepo) Delete(ctx context.Context, word string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vocab_items WHERE word = ?`, word); err != nil {
		return fmt.Errorf("delete vocab item %q: %w", word, err)
	}
	return nil
}

func vocabWhere(f vocab.Filter) (string, []any) {
	var conds []string
	var args []any
	if f.LetterPrefix != "" {
		conds = append(conds, `word LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(f.LetterPrefix)+"%")
	}
	if f.StarredOnly {
		conds = append(conds, `starred = 1`)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func vocabOrder(s vocab.SortBy) string {
	switch s {
	case vocab.SortRecent:
		return ` ORDER BY last_viewed_at DESC, word ASC`
	case vocab.SortFamiliarity:
		return ` ORDER BY familiarity ASC, word ASC`
	default:
		return ` ORDER BY word COLLATE NOCASE ASC`
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVocabItem(s rowScanner) (vocab.Item, error) {
	var (
		it         vocab.Item
		defs, sent string
		viewed     int64
	)
	if err := s.Scan(&it.Word, &defs, &it.Pronunciation, &sent, &it.Familiarity, &it.Starred, &viewed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return it, err
		}
		return it, fmt.Errorf("scan vocab item: %w", err)
	}
	if err := json.Unmarshal([]byte(defs), &it.Definitions); err != nil {
		return it, fmt.Errorf("decode definitions of %q: %w", it.Word, err)
	}
	if err := json.Unmarshal([]byte(sent), &it.Sentences); err != nil {
		return it, fmt.Errorf("decode sentences of %q: %w", it.Word, err)
	}
	it.LastViewedAt = fromMillis(viewed)
	return it, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
