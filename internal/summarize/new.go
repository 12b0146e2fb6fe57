package summarize

import (
	"fmt"

	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
)

// New creates the Summarizer selected by the configuration.
func New(cfg *config.Config, log logger.Logger) (Summarizer, error) {
	switch cfg.Summary.Backend {
	case "ollama":
		return NewOllama(cfg, log), nil
	case "gemini":
		return NewGemini(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown summary backend %q", cfg.Summary.Backend)
	}
}
