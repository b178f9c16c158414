package question

import (
	"go.uber.org/zap"

	"github.com/abhisek/lingoz/internal/llm"
)

// NewSource returns the question source for kind. Vocabulary questions are
// built locally and need no provider.
func NewSource(kind Kind, provider llm.Provider, cfg RemoteConfig, log *zap.Logger) (Source, error) {
	if !kind.Remote() {
		return NewLocalGenerator(nil), nil
	}
	return NewRemoteGenerator(provider, kind, cfg, log)
}
