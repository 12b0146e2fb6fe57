package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
	"github.com/audioscribe/audioscribe/internal/media"
	"github.com/audioscribe/audioscribe/internal/store"
	"github.com/audioscribe/audioscribe/internal/summarize"
	"github.com/audioscribe/audioscribe/internal/transcribe"
)

type fakeNormalizer struct {
	normalized int
}

func (f *fakeNormalizer) Normalize(ctx context.Context, path string) (string, error) {
	f.normalized++
	return path, nil
}

func (f *fakeNormalizer) Probe(ctx context.Context, path string) (media.Info, error) {
	return media.Info{Path: path, Duration: 42, SampleRate: 16000, Channels: 1}, nil
}

type fakeTranscriber struct {
	calls    int
	fallback int
}

func (f *fakeTranscriber) result() *transcribe.Result {
	return &transcribe.Result{
		Text:     "Recognized speech from the test file.",
		Language: "en",
		Duration: 42,
		Model:    "small",
		Method:   transcribe.MethodSingle,
		Segments: []transcribe.Segment{
			{ID: 0, Start: 0, End: 42, Text: "Recognized speech from the test file.", AvgConfidence: 0.9},
		},
	}
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, wavPath string, duration float64, opts transcribe.Options) (*transcribe.Result, error) {
	f.calls++
	return f.result(), nil
}

func (f *fakeTranscriber) TranscribeWithFallback(ctx context.Context, wavPath string, duration float64, opts transcribe.Options) (*transcribe.Result, error) {
	f.fallback++
	return f.result(), nil
}

type fakeSummarizer struct {
	calls int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string, opts summarize.Options) *summarize.Summary {
	f.calls++
	return &summarize.Summary{Text: "Short summary.", Kind: opts.Kind}
}

func testPipeline(t *testing.T) (*implProcessor, *fakeTranscriber, *fakeSummarizer, string) {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	cfg.Paths.Uploads = filepath.Join(dir, "uploads")
	cfg.Paths.Transcripts = filepath.Join(dir, "transcripts")
	cfg.Paths.Temp = filepath.Join(dir, "temp")
	cfg.Cache.Enabled = true
	cfg.Cache.TTL = time.Hour

	log := logger.New("error")
	st, err := store.New(cfg, log)
	if err != nil {
		t.Fatal(err)
	}

	tr := &fakeTranscriber{}
	sum := &fakeSummarizer{}
	p := New(cfg, &fakeNormalizer{}, tr, sum, st, log).(*implProcessor)

	input := filepath.Join(dir, "clip.mp3")
	// ID3 header so validation passes.
	if err := os.WriteFile(input, append([]byte("ID3"), make([]byte, 64)...), 0o644); err != nil {
		t.Fatal(err)
	}
	return p, tr, sum, input
}

func TestProcess(t *testing.T) {
	p, tr, sum, input := testPipeline(t)
	ctx := context.Background()

	out, err := p.Process(ctx, input, Options{
		Formats:     []store.Format{store.FormatJSON, store.FormatSRT},
		Summarize:   true,
		SummaryKind: summarize.KindExecutive,
	})
	if err != nil {
		t.Fatal(err)
	}

	if out.FromCache {
		t.Error("first run reported cache hit")
	}
	if tr.calls != 1 {
		t.Errorf("transcribe calls = %d, want 1", tr.calls)
	}
	if sum.calls != 1 {
		t.Errorf("summarize calls = %d, want 1", sum.calls)
	}
	if len(out.Outputs) != 2 {
		t.Fatalf("outputs = %d, want 2", len(out.Outputs))
	}
	for _, path := range out.Outputs {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("output missing: %s", path)
		}
	}
	if out.Record.Summary == nil || out.Record.Summary.Text != "Short summary." {
		t.Error("summary not attached to record")
	}
}

func TestProcessCacheHit(t *testing.T) {
	p, tr, _, input := testPipeline(t)
	ctx := context.Background()

	if _, err := p.Process(ctx, input, Options{}); err != nil {
		t.Fatal(err)
	}

	out, err := p.Process(ctx, input, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !out.FromCache {
		t.Error("second run missed the cache")
	}
	if tr.calls != 1 {
		t.Errorf("transcribe calls = %d, want 1 (cached)", tr.calls)
	}
	if out.Record.Result.Text != "Recognized speech from the test file." {
		t.Errorf("cached text = %q", out.Record.Result.Text)
	}
}

func TestProcessIgnoresCacheWithoutResult(t *testing.T) {
	p, tr, _, input := testPipeline(t)
	ctx := context.Background()

	hash, err := p.store.Hash(input)
	if err != nil {
		t.Fatal(err)
	}
	p.store.SaveCache(ctx, hash, cacheOperation, &store.Record{
		SourceFile: input,
		CreatedAt:  time.Now(),
	})

	out, err := p.Process(ctx, input, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out.FromCache {
		t.Error("record without transcription reported as cache hit")
	}
	if tr.calls != 1 {
		t.Errorf("transcribe calls = %d, want 1", tr.calls)
	}
	if out.Record.Result == nil {
		t.Fatal("outcome carries no transcription")
	}
}

func TestProcessFallback(t *testing.T) {
	p, tr, _, input := testPipeline(t)

	if _, err := p.Process(context.Background(), input, Options{UseFallback: true}); err != nil {
		t.Fatal(err)
	}
	if tr.fallback != 1 || tr.calls != 0 {
		t.Errorf("fallback/direct = %d/%d, want 1/0", tr.fallback, tr.calls)
	}
}

func TestProcessRejectsInvalidInput(t *testing.T) {
	p, _, _, _ := testPipeline(t)
	ctx := context.Background()

	if _, err := p.Process(ctx, "/nope/missing.mp3", Options{}); err == nil {
		t.Error("missing file accepted")
	}

	bad := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(bad, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Process(ctx, bad, Options{}); err == nil {
		t.Error("unsupported extension accepted")
	}
}
