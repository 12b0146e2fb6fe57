package processor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/audioscribe/audioscribe/internal/media"
	"github.com/audioscribe/audioscribe/internal/store"
	"github.com/audioscribe/audioscribe/internal/summarize"
	"github.com/audioscribe/audioscribe/internal/transcribe"
)

// Process runs the pipeline for one file. Stages run strictly in sequence;
// a failing stage aborts the run except for summarization, whose errors are
// captured in the record.
func (p *implProcessor) Process(ctx context.Context, path string, opts Options) (*Outcome, error) {
	start := time.Now()
	p.logger.Info(ctx, "Processing: %s", path)

	if err := media.Validate(path, p.cfg.Audio.MaxFileSize); err != nil {
		return nil, err
	}

	fileHash, err := p.store.Hash(path)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}

	rec := &store.Record{}
	fromCache := p.store.CheckCache(ctx, fileHash, cacheOperation, rec)
	if fromCache && rec.Result == nil {
		// A decodable cache entry without a transcription is still unusable.
		p.logger.Warn(ctx, "Cached record for %s has no transcription, ignoring it", path)
		rec = &store.Record{}
		fromCache = false
	}
	if !fromCache {
		result, err := p.transcribeFile(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		rec = &store.Record{
			SourceFile:     path,
			CreatedAt:      time.Now(),
			ProcessingTime: time.Since(start).Seconds(),
			Result:         result,
		}
	}

	if opts.Summarize && p.summarizer != nil && rec.Summary == nil {
		rec.Summary = p.summarizer.Summarize(ctx, rec.Result.Text, summarize.Options{
			Kind:     opts.SummaryKind,
			Language: rec.Result.Language,
			Context:  fmt.Sprintf("Transcript of %s (%.1fs)", path, rec.Result.Duration),
		})
		if rec.Summary.Failed() {
			p.logger.Warn(ctx, "Summarization failed: %s", rec.Summary.Err)
		}
	}

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []store.Format{store.FormatJSON}
	}
	var outputs []string
	for _, f := range formats {
		out, err := p.store.Save(ctx, rec, f)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	p.store.SaveCache(ctx, fileHash, cacheOperation, rec)

	p.logger.Info(ctx, "Done in %.1fs: %s", time.Since(start).Seconds(), path)
	return &Outcome{Record: rec, Outputs: outputs, FromCache: fromCache}, nil
}

// transcribeFile normalizes the input and runs recognition, cleaning up any
// intermediate WAV afterwards.
func (p *implProcessor) transcribeFile(ctx context.Context, path string, opts Options) (*transcribe.Result, error) {
	wavPath, err := p.normalizer.Normalize(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("normalize audio: %w", err)
	}
	if wavPath != path {
		defer p.cleanupTempFile(ctx, wavPath)
	}

	info, err := p.normalizer.Probe(ctx, wavPath)
	if err != nil {
		return nil, fmt.Errorf("probe audio: %w", err)
	}

	tOpts := transcribe.Options{Model: opts.Model, Language: opts.Language}
	if opts.UseFallback {
		return p.transcriber.TranscribeWithFallback(ctx, wavPath, info.Duration, tOpts)
	}
	return p.transcriber.Transcribe(ctx, wavPath, info.Duration, tOpts)
}

func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
