package llm

import (
	"context"
	"testing"
)

func TestDiscoverConfig_PriorityOrder(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "oa")
	t.Setenv("ANTHROPIC_API_KEY", "an")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected a provider to be discovered")
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "oa" {
		t.Fatalf("expected openai to win, got %+v", cfg)
	}
}

func TestDiscoverConfig_None(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Validate() == nil {
		t.Fatal("default config has no key and should not validate")
	}
	cfg.Anthropic.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.HasKey() {
		t.Fatal("expected HasKey")
	}

	cfg.Provider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("mock needs no key: %v", err)
	}

	cfg.Provider = "carrier-pigeon"
	if cfg.Validate() == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock provider, got %q", p.ModelID())
	}
}

func TestNewProvider_WrapsChain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.OpenAI.APIKey = "k"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tp, ok := p.(*timeoutProvider)
	if !ok {
		t.Fatalf("expected timeout wrapper outermost, got %T", p)
	}
	if _, ok := tp.inner.(*RetryProvider); !ok {
		t.Fatalf("expected retry inside timeout, got %T", tp.inner)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("unexpected model %q", p.ModelID())
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"
	if _, err := NewProvider(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}
