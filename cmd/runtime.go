package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/lingoz/internal/config"
	"github.com/abhisek/lingoz/internal/enrich"
	"github.com/abhisek/lingoz/internal/familiarity"
	"github.com/abhisek/lingoz/internal/llm"
	"github.com/abhisek/lingoz/internal/logger"
	"github.com/abhisek/lingoz/internal/question"
	"github.com/abhisek/lingoz/internal/screen"
	examscreen "github.com/abhisek/lingoz/internal/screens/exam"
	"github.com/abhisek/lingoz/internal/screens/history"
	"github.com/abhisek/lingoz/internal/screens/home"
	"github.com/abhisek/lingoz/internal/screens/words"
	"github.com/abhisek/lingoz/internal/store"
	"github.com/abhisek/lingoz/internal/store/pgstore"
	"github.com/abhisek/lingoz/internal/vocab"
)

// vocabStore is the vocabulary backend as the CLI sees it.
type vocabStore interface {
	vocab.Repository
	Delete(ctx context.Context, word string) error
}

// runtime holds everything a command needs, opened from config and flags.
type runtime struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
	vocab vocabStore

	// provider is nil when no API key is configured.
	provider llm.Provider

	// writer serializes every edit of stored words.
	writer  *vocab.Writer
	scorer  *familiarity.Scorer
	closers []func()
}

// openRuntime loads config, opens the event store and the vocabulary
// backend, and builds the generator chain when a key is available.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	if cfg.Log.File == "" {
		// The terminal belongs to the TUI.
		cfg.Log.File = filepath.Join(filepath.Dir(dbPath), "lingoz.log")
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	rt := &runtime{cfg: cfg, log: log}
	rt.closers = append(rt.closers, func() { _ = log.Sync() })

	st, err := store.Open(dbPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	rt.store = st
	rt.closers = append(rt.closers, func() { st.Close() })

	if err := rt.openVocab(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	if err := cfg.LLM.Validate(); err != nil {
		log.Info("remote generation disabled", zap.Error(err))
	} else {
		p, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("build generator: %w", err)
		}
		rt.provider = p
	}

	rt.writer = vocab.NewWriter(context.WithoutCancel(ctx), rt.vocab, log)
	rt.closers = append(rt.closers, rt.writer.Close)
	rt.scorer = familiarity.NewScorer(rt.writer)

	log.Debug("runtime ready",
		zap.String("db_driver", cfg.DB.Driver),
		zap.String("db_path", dbPath),
		zap.Bool("remote", rt.provider != nil))
	return rt, nil
}

func (rt *runtime) openVocab(ctx context.Context) error {
	if rt.cfg.DB.Driver != "postgres" {
		rt.vocab = rt.store.VocabRepo()
		return nil
	}

	pool, err := pgstore.NewPool(ctx, rt.cfg.DB.URL, pgstore.PoolConfig{
		MaxConns:        int32(rt.cfg.DB.MaxConnections),
		MaxConnLifetime: rt.cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	rt.closers = append(rt.closers, pool.Close)

	repo := pgstore.NewVocabRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	rt.vocab = repo
	return nil
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

// pipeline returns the enrichment pipeline, or nil without a provider.
// Results are persisted through the shared writer.
func (rt *runtime) pipeline() *enrich.Pipeline {
	if rt.provider == nil {
		return nil
	}
	e := enrich.NewLLMEnricher(rt.provider, enrich.DefaultConfig())
	return enrich.NewPipeline(e, rt.writer.Update, rt.log)
}

// examOptions narrows the pool an exam draws from.
type examOptions struct {
	filter vocab.Filter
	limit  int
}

func (rt *runtime) examScreen(kind question.Kind, opts examOptions) (screen.Screen, error) {
	src, err := question.NewSource(kind, rt.provider, question.DefaultRemoteConfig(), rt.log)
	if err != nil {
		return nil, err
	}
	limit := opts.limit
	if limit <= 0 {
		limit = rt.cfg.Exam.DefaultLimit
	}
	repo, filter := rt.vocab, opts.filter
	return examscreen.New(examscreen.Deps{
		Kind:   kind,
		Source: src,
		Pool: func(ctx context.Context) ([]vocab.Item, error) {
			return repo.Fetch(ctx, filter, 0)
		},
		Limit:    limit,
		Tick:     rt.cfg.Exam.Tick,
		Recorder: rt.store.EventRepo(),
		Scorer:   rt.scorer,
		Log:      rt.log,
	}), nil
}

func (rt *runtime) wordsScreen(filter vocab.Filter) screen.Screen {
	return words.New(words.Deps{
		Repo:     rt.vocab,
		Filter:   filter,
		Writer:   rt.writer,
		Pipeline: rt.pipeline(),
		Window:   rt.cfg.Enrich.Window,
		Log:      rt.log,
	})
}

func (rt *runtime) homeScreen(opts examOptions) screen.Screen {
	return home.New(home.Deps{
		Repo:          rt.vocab,
		RemoteEnabled: rt.provider != nil,
		NewExam: func(kind question.Kind) (screen.Screen, error) {
			return rt.examScreen(kind, opts)
		},
		NewWords:   func() screen.Screen { return rt.wordsScreen(opts.filter) },
		NewHistory: func() screen.Screen { return history.New(rt.store.EventRepo()) },
	})
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then db.path from config, then LINGOZ_DB and the default XDG
// path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}
