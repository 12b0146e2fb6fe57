package segment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// span is a planned chunk boundary before extraction.
type span struct {
	Start float64
	End   float64
}

// Split plans chunk boundaries by silence first, falls back to fixed
// windows when the content has too little silence to cut on, then extracts
// each span into its own WAV file.
func (s *implSegmenter) Split(ctx context.Context, wavPath string, totalDuration float64) ([]Chunk, error) {
	audio := s.cfg.Audio

	silences, err := findSilences(wavPath, audio.SilenceThreshold, audio.MinSilence)
	if err != nil {
		return nil, fmt.Errorf("detect silences: %w", err)
	}

	spans := planSilenceSpans(silences, totalDuration, audio.SilencePadding)
	if len(spans) < 2 {
		s.logger.Info(ctx, "Insufficient silence detected, splitting by duration (%.0fs windows)", audio.LongChunk)
		spans = planDurationSpans(totalDuration, audio.LongChunk)
	} else {
		s.logger.Info(ctx, "Silence split: %d chunks from %d silences", len(spans), len(silences))
	}

	workDir := filepath.Join(s.cfg.Paths.Temp, "chunks-"+uuid.NewString()[:8])
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("create chunk dir: %w", err)
	}

	chunks := make([]Chunk, 0, len(spans))
	for i, sp := range spans {
		chunkPath := filepath.Join(workDir, fmt.Sprintf("chunk_%03d.wav", i))
		if err := s.extract(ctx, wavPath, chunkPath, sp); err != nil {
			s.Cleanup(ctx, chunks)
			return nil, err
		}
		chunks = append(chunks, Chunk{
			Index: i,
			Path:  chunkPath,
			Start: sp.Start,
			End:   sp.End,
		})
	}

	return chunks, nil
}

// extract cuts one span out of the source WAV with ffmpeg.
func (s *implSegmenter) extract(ctx context.Context, src, dst string, sp span) error {
	args := []string{
		"-ss", formatSeconds(sp.Start),
		"-t", formatSeconds(sp.End - sp.Start),
		"-i", src,
		"-c:a", "pcm_s16le",
		"-y",
		dst,
	}
	if _, err := s.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("extract chunk %.2f-%.2f: %w", sp.Start, sp.End, err)
	}
	return nil
}

// Cleanup removes chunk files and their directory.
func (s *implSegmenter) Cleanup(ctx context.Context, chunks []Chunk) {
	for _, c := range chunks {
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn(ctx, "Failed to remove chunk %s: %v", c.Path, err)
		}
	}
	if len(chunks) > 0 {
		if err := os.Remove(filepath.Dir(chunks[0].Path)); err != nil && !os.IsNotExist(err) {
			s.logger.Debug(ctx, "Chunk dir not removed: %v", err)
		}
	}
}

// planSilenceSpans cuts at the midpoint of every qualifying silence run,
// keeping padding seconds of silence on each side of a cut so boundary
// words retain their natural context. The padding overlap lies entirely
// inside silence.
func planSilenceSpans(silences []silenceRun, total, padding float64) []span {
	var cuts []float64
	for _, r := range silences {
		m := r.mid()
		if m > 0 && m < total {
			cuts = append(cuts, m)
		}
	}
	if len(cuts) == 0 {
		return []span{{Start: 0, End: total}}
	}

	spans := make([]span, 0, len(cuts)+1)
	prev := 0.0
	for _, c := range cuts {
		spans = append(spans, span{Start: prev, End: clamp(c+padding, 0, total)})
		prev = clamp(c-padding, 0, total)
	}
	spans = append(spans, span{Start: prev, End: total})
	return spans
}

// planDurationSpans covers [0,total) with fixed windows, the last one
// shortened to fit. No gaps, no overlap.
func planDurationSpans(total, window float64) []span {
	if window <= 0 || total <= 0 {
		return []span{{Start: 0, End: total}}
	}
	var spans []span
	for start := 0.0; start < total; start += window {
		end := start + window
		if end > total {
			end = total
		}
		spans = append(spans, span{Start: start, End: end})
	}
	return spans
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
