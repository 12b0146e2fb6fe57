package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
	"github.com/audioscribe/audioscribe/internal/summarize"
	"github.com/audioscribe/audioscribe/internal/transcribe"
)

func testStore(t *testing.T) (*implStore, *config.Config) {
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

	st, err := New(cfg, logger.New("error"))
	if err != nil {
		t.Fatal(err)
	}
	return st.(*implStore), cfg
}

func testRecord() *Record {
	return &Record{
		SourceFile: "/media/interview.mp3",
		CreatedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Result: &transcribe.Result{
			Text:     "Hello there. General Kenobi.",
			Language: "en",
			Duration: 4.0,
			Model:    "small",
			Method:   transcribe.MethodSingle,
			Segments: []transcribe.Segment{
				{ID: 0, Start: 0, End: 2.5, Text: "Hello there."},
				{ID: 1, Start: 2.5, End: 4.0, Text: "General Kenobi."},
			},
		},
	}
}

func TestHash(t *testing.T) {
	st, cfg := testStore(t)
	path := filepath.Join(cfg.Paths.Uploads, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := st.Hash(path)
	if err != nil {
		t.Fatal(err)
	}
	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("hash = %s, want %s", got, want)
	}

	if _, err := st.Hash(filepath.Join(cfg.Paths.Uploads, "missing")); err == nil {
		t.Error("hashing a missing file succeeded")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	st, _ := testStore(t)
	ctx := context.Background()
	rec := testRecord()

	st.SaveCache(ctx, "abc123", "transcription", rec)

	var got Record
	if !st.CheckCache(ctx, "abc123", "transcription", &got) {
		t.Fatal("cache miss after save")
	}
	if got.Result.Text != rec.Result.Text {
		t.Errorf("cached text = %q", got.Result.Text)
	}

	// Different operation is a separate key.
	if st.CheckCache(ctx, "abc123", "summary", &got) {
		t.Error("hit for different operation")
	}
}

func TestCacheTTL(t *testing.T) {
	st, cfg := testStore(t)
	ctx := context.Background()
	st.SaveCache(ctx, "abc123", "transcription", testRecord())

	path := st.cachePath("abc123", "transcription")
	old := time.Now().Add(-cfg.Cache.TTL - time.Minute)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	var got Record
	if st.CheckCache(ctx, "abc123", "transcription", &got) {
		t.Fatal("expired entry returned")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expired entry not deleted")
	}
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	st, _ := testStore(t)
	ctx := context.Background()

	path := st.cachePath("abc123", "transcription")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var got Record
	if st.CheckCache(ctx, "abc123", "transcription", &got) {
		t.Error("corrupt entry treated as hit")
	}
}

func TestCacheDisabled(t *testing.T) {
	st, cfg := testStore(t)
	cfg.Cache.Enabled = false
	ctx := context.Background()

	st.SaveCache(ctx, "abc123", "transcription", testRecord())
	var got Record
	if st.CheckCache(ctx, "abc123", "transcription", &got) {
		t.Error("disabled cache returned a hit")
	}
}

func TestSaveSRT(t *testing.T) {
	st, _ := testStore(t)
	path, err := st.Save(context.Background(), testRecord(), FormatSRT)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	want := "1\n00:00:00,000 --> 00:00:02,500\nHello there.\n\n" +
		"2\n00:00:02,500 --> 00:00:04,000\nGeneral Kenobi.\n\n"
	if got != want {
		t.Errorf("srt content:\n%q\nwant:\n%q", got, want)
	}
	if filepath.Ext(path) != ".srt" {
		t.Errorf("path = %s, want .srt", path)
	}
}

func TestSaveVTT(t *testing.T) {
	st, _ := testStore(t)
	path, err := st.Save(context.Background(), testRecord(), FormatVTT)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "WEBVTT\n\n") {
		t.Error("missing WEBVTT header")
	}
	if !strings.Contains(got, "00:00:00.000 --> 00:00:02.500") {
		t.Errorf("vtt timestamps wrong:\n%s", got)
	}
}

func TestSaveTextAndMarkdown(t *testing.T) {
	st, _ := testStore(t)
	rec := testRecord()
	rec.Summary = &summarize.Summary{Kind: summarize.KindExecutive, Text: "Two greetings exchanged."}

	txtPath, err := st.Save(context.Background(), rec, FormatText)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(txtPath)
	if string(data) != rec.Result.Text+"\n" {
		t.Errorf("txt content = %q", string(data))
	}

	mdPath, err := st.Save(context.Background(), rec, FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	md, _ := os.ReadFile(mdPath)
	for _, want := range []string{"# Transcription", "Hello there.", "## Summary (executive)", "Two greetings exchanged."} {
		if !strings.Contains(string(md), want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestSaveJSONAndList(t *testing.T) {
	st, _ := testStore(t)
	ctx := context.Background()

	if _, err := st.Save(ctx, testRecord(), FormatJSON); err != nil {
		t.Fatal(err)
	}
	// Cache entries must not appear in listings.
	st.SaveCache(ctx, "abc123", "transcription", testRecord())

	entries, err := st.ListTranscriptions(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Source != "/media/interview.mp3" || e.Language != "en" || e.Model != "small" {
		t.Errorf("entry = %+v", e)
	}
	if e.Duration != 4.0 {
		t.Errorf("duration = %v, want 4.0", e.Duration)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" SRT "); err != nil || f != FormatSRT {
		t.Errorf("ParseFormat(SRT) = %v, %v", f, err)
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("pdf accepted")
	}
}

func TestCleanOldFiles(t *testing.T) {
	st, cfg := testStore(t)
	ctx := context.Background()

	oldTime := time.Now().AddDate(0, 0, -10)
	files := map[string]string{
		filepath.Join(cfg.Paths.Uploads, "old.mp3"):                 "old",
		filepath.Join(cfg.Paths.Transcripts, "old.json"):            "old",
		filepath.Join(cfg.Paths.Transcripts, ".cache_t_aaaa.json"):  "old",
		filepath.Join(cfg.Paths.Temp, "scratch.wav"):                "fresh",
	}
	for path, age := range files {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if age == "old" {
			if err := os.Chtimes(path, oldTime, oldTime); err != nil {
				t.Fatal(err)
			}
		}
	}
	fresh := filepath.Join(cfg.Paths.Transcripts, "fresh.json")
	if err := os.WriteFile(fresh, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Dry run counts without removing.
	stats, err := st.CleanOldFiles(ctx, 7, true)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total() != 4 {
		t.Errorf("dry-run total = %d, want 4", stats.Total())
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Uploads, "old.mp3")); err != nil {
		t.Error("dry run removed a file")
	}

	stats, err = st.CleanOldFiles(ctx, 7, false)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Uploads != 1 || stats.Transcripts != 1 || stats.Cache != 1 || stats.Temp != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh transcript removed")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Temp, "scratch.wav")); !os.IsNotExist(err) {
		t.Error("temp file survived cleanup")
	}
}
