package transcribe

import (
	"context"
	"errors"
	"fmt"

	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
	"github.com/audioscribe/audioscribe/internal/segment"
)

// ErrAllModelsFailed is returned by TranscribeWithFallback when every
// configured model size errored.
var ErrAllModelsFailed = errors.New("all models failed to transcribe")

// scoreGoodEnough stops the model fallback early.
const scoreGoodEnough = 0.85

// Transcriber orchestrates segmentation, recognition and stitching for a
// normalized WAV file.
type Transcriber interface {
	// Transcribe produces a cleaned, scored transcript. Inputs shorter
	// than the long-audio threshold are recognized in one pass; longer
	// ones are chunked and stitched.
	Transcribe(ctx context.Context, wavPath string, duration float64, opts Options) (*Result, error)

	// TranscribeWithFallback tries the configured model sizes in order,
	// keeping the best-scoring result and stopping early once a result
	// scores above the quality bar.
	TranscribeWithFallback(ctx context.Context, wavPath string, duration float64, opts Options) (*Result, error)
}

type implTranscriber struct {
	cfg       *config.Config
	rec       Recognizer
	segmenter segment.Segmenter
	logger    logger.Logger
}

// New creates a Transcriber from its collaborators.
func New(cfg *config.Config, rec Recognizer, seg segment.Segmenter, log logger.Logger) Transcriber {
	return &implTranscriber{
		cfg:       cfg,
		rec:       rec,
		segmenter: seg,
		logger:    log,
	}
}

func (t *implTranscriber) Transcribe(ctx context.Context, wavPath string, duration float64, opts Options) (*Result, error) {
	var (
		res *Result
		err error
	)

	if duration < t.cfg.Audio.LongThreshold {
		res, err = t.transcribeSingle(ctx, wavPath, opts)
	} else {
		t.logger.Info(ctx, "Long audio detected (%.1fs), transcribing in chunks", duration)
		res, err = t.transcribeChunked(ctx, wavPath, duration, opts)
	}
	if err != nil {
		return nil, err
	}

	postProcess(res)
	return res, nil
}

func (t *implTranscriber) transcribeSingle(ctx context.Context, wavPath string, opts Options) (*Result, error) {
	res, err := t.rec.Recognize(ctx, wavPath, opts)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	res.Method = MethodSingle
	return res, nil
}

// transcribeChunked recognizes chunks strictly in order: each chunk's call
// is primed with a hint from the text accumulated so far, so recognition
// and stitching interleave. A failing chunk fails the whole operation.
func (t *implTranscriber) transcribeChunked(ctx context.Context, wavPath string, duration float64, opts Options) (*Result, error) {
	chunks, err := t.segmenter.Split(ctx, wavPath, duration)
	if err != nil {
		return nil, fmt.Errorf("segment audio: %w", err)
	}
	defer t.segmenter.Cleanup(ctx, chunks)

	st := newStitcher()
	language := opts.Language
	model := opts.Model

	for i, ch := range chunks {
		t.logger.Info(ctx, "Transcribing %s (%d/%d)", ch, i+1, len(chunks))

		chunkOpts := opts
		if i > 0 {
			if h := st.hint(); h != "" {
				chunkOpts.Prompt = "..." + h
			}
		}

		res, err := t.rec.Recognize(ctx, ch.Path, chunkOpts)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}

		st.add(res)
		if language == "" && res.Language != "" {
			language = res.Language
		}
		if model == "" && res.Model != "" {
			model = res.Model
		}
	}

	res := st.finalize(language, len(chunks))
	res.Model = model
	return res, nil
}

func (t *implTranscriber) TranscribeWithFallback(ctx context.Context, wavPath string, duration float64, opts Options) (*Result, error) {
	var (
		best      *Result
		bestScore float64
		lastErr   error
	)

	for _, model := range t.cfg.Whisper.Fallback {
		modelOpts := opts
		modelOpts.Model = model

		res, err := t.Transcribe(ctx, wavPath, duration, modelOpts)
		if err != nil {
			t.logger.Warn(ctx, "Model %s failed: %v", model, err)
			lastErr = err
			continue
		}

		score := qualityScore(*res.Metrics)
		t.logger.Info(ctx, "Model %s quality score: %.2f", model, score)

		if score > bestScore {
			best = res
			bestScore = score
		}
		if score > scoreGoodEnough {
			break
		}
	}

	if best == nil {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrAllModelsFailed, lastErr)
		}
		return nil, ErrAllModelsFailed
	}

	return best, nil
}
