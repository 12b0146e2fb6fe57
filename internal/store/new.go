package store

import (
	"os"

	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
)

type implStore struct {
	cfg    *config.Config
	logger logger.Logger
}

// New creates a Store and ensures the data directories exist.
func New(cfg *config.Config, log logger.Logger) (Store, error) {
	for _, dir := range []string{cfg.Paths.Uploads, cfg.Paths.Transcripts, cfg.Paths.Temp} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &implStore{cfg: cfg, logger: log}, nil
}
