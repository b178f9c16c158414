package vocab

import "context"

// SortBy selects the ordering of fetched items.
type SortBy string

const (
	SortWord        SortBy = "word"
	SortRecent      SortBy = "recent"
	SortFamiliarity SortBy = "familiarity"
)

// Filter narrows a fetch or count.
type Filter struct {
	// LetterPrefix keeps words starting with this prefix (case-insensitive).
	LetterPrefix string

	// StarredOnly keeps starred words only.
	StarredOnly bool

	// SortBy orders the results. Empty means SortWord.
	SortBy SortBy
}

// Repository is the vocabulary source pool.
type Repository interface {
	// Fetch returns items matching f. limit <= 0 means no limit.
	Fetch(ctx context.Context, f Filter, limit int) ([]Item, error)

	// Get returns a single item or ErrNotFound.
	Get(ctx context.Context, word string) (*Item, error)

	// Save inserts or replaces the item keyed by Word.
	Save(ctx context.Context, it Item) error

	// Count returns how many items match f.
	Count(ctx context.Context, f Filter) (int, error)
}
