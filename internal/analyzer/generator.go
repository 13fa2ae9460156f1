// Package analyzer turns project pages into structured analyses and
// generates follow-up ideas through a text-generation provider.
package analyzer

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"hackinsight/internal/config"
)

// Generator sends a prompt to a text-generation provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Closer is implemented by generators holding a connection.
type Closer interface {
	Close() error
}

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// ErrNoGenerator is returned when generation is disabled or unconfigured.
var ErrNoGenerator = eris.New("analyzer: no generator configured")

// NewGenerator builds the configured provider. It returns (nil, nil) when
// analysis is disabled or the provider has no API key, so callers can run
// without generation.
func NewGenerator(ctx context.Context, cfg config.AnalyzerConfig) (Generator, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			zap.L().Warn("no Anthropic API key found, analysis disabled")
			return nil, nil
		}
		return NewAnthropic(cfg.AnthropicKey, cfg.AnthropicModel, cfg.MaxTokens), nil
	case ProviderGemini, "":
		if cfg.GeminiKey == "" {
			zap.L().Warn("no Google API key found, analysis disabled")
			return nil, nil
		}
		return NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel)
	default:
		return nil, eris.Errorf("analyzer: unknown provider %q", cfg.Provider)
	}
}

// CloseGenerator releases g if it holds resources.
func CloseGenerator(g Generator) {
	if c, ok := g.(Closer); ok {
		if err := c.Close(); err != nil {
			zap.L().Warn("close generator failed", zap.Error(err))
		}
	}
}
