package processor

import (
	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
	"github.com/audioscribe/audioscribe/internal/media"
	"github.com/audioscribe/audioscribe/internal/store"
	"github.com/audioscribe/audioscribe/internal/summarize"
	"github.com/audioscribe/audioscribe/internal/transcribe"
)

type implProcessor struct {
	cfg         *config.Config
	normalizer  media.Normalizer
	transcriber transcribe.Transcriber
	summarizer  summarize.Summarizer
	store       store.Store
	logger      logger.Logger
}

// New wires the pipeline stages into a Processor.
func New(
	cfg *config.Config,
	norm media.Normalizer,
	tr transcribe.Transcriber,
	sum summarize.Summarizer,
	st store.Store,
	log logger.Logger,
) Processor {
	return &implProcessor{
		cfg:         cfg,
		normalizer:  norm,
		transcriber: tr,
		summarizer:  sum,
		store:       st,
		logger:      log,
	}
}
