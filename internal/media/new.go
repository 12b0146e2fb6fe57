package media

import (
	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
	"github.com/audioscribe/audioscribe/pkg/executor"
)

type implNormalizer struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Normalizer that shells out to ffmpeg/ffprobe.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Normalizer {
	return &implNormalizer{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
