package segment

import (
	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
	"github.com/audioscribe/audioscribe/pkg/executor"
)

type implSegmenter struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Segmenter that detects silence natively on the WAV samples
// and cuts chunks with ffmpeg.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Segmenter {
	return &implSegmenter{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
