package processor

import (
	"context"

	"github.com/audioscribe/audioscribe/internal/store"
	"github.com/audioscribe/audioscribe/internal/summarize"
)

// cacheOperation keys transcription results in the content-hash cache.
const cacheOperation = "transcription"

// Options shape one pipeline run.
type Options struct {
	Model       string         // whisper model size override
	Language    string         // target language, empty auto-detects
	Formats     []store.Format // outputs to write, defaults to JSON
	Summarize   bool           // generate a summary after transcription
	SummaryKind summarize.Kind // summary style when Summarize is set
	UseFallback bool           // try the configured model ladder on low quality
}

// Outcome reports one processed file.
type Outcome struct {
	Record    *store.Record
	Outputs   []string // written output paths
	FromCache bool
}

// Processor runs the full pipeline for one media file: validation, hashing,
// cache lookup, normalization, transcription, persistence and optional
// summarization.
type Processor interface {
	Process(ctx context.Context, path string, opts Options) (*Outcome, error)
}
