package store

import (
	"context"
	"time"

	"github.com/audioscribe/audioscribe/internal/summarize"
	"github.com/audioscribe/audioscribe/internal/transcribe"
)

// Record is the unit of persistence: one transcription with its metadata
// and optional summary. This is what the JSON output and the cache hold.
type Record struct {
	SourceFile     string              `json:"source_file"`
	CreatedAt      time.Time           `json:"created_at"`
	ProcessingTime float64             `json:"processing_time,omitempty"` // seconds
	Result         *transcribe.Result  `json:"result"`
	Summary        *summarize.Summary  `json:"summary,omitempty"`
}

// Entry describes one stored transcription for listings.
type Entry struct {
	File     string
	Path     string
	Source   string
	Duration float64
	Language string
	Model    string
	Created  time.Time
	SizeKB   float64
}

// CleanStats counts files removed (or that would be removed) per directory.
type CleanStats struct {
	Uploads     int
	Transcripts int
	Cache       int
	Temp        int
}

// Total returns the overall file count.
func (c CleanStats) Total() int {
	return c.Uploads + c.Transcripts + c.Cache + c.Temp
}

// Store owns the on-disk layout: content-hash cache, transcript outputs in
// several formats, and housekeeping over the data directories.
type Store interface {
	// Hash returns the hex SHA-256 of the file contents.
	Hash(path string) (string, error)

	// CheckCache loads a cached result for (fileHash, operation) into out.
	// Expired entries are deleted; read or decode failures are logged and
	// treated as a miss.
	CheckCache(ctx context.Context, fileHash, operation string, out interface{}) bool

	// SaveCache writes the cache entry, overwriting any previous one.
	// Write failures are logged, never returned.
	SaveCache(ctx context.Context, fileHash, operation string, data interface{})

	// Save writes the record in the given format into the transcript
	// directory and returns the written path.
	Save(ctx context.Context, rec *Record, format Format) (string, error)

	// ListTranscriptions returns the newest stored transcriptions,
	// newest first, excluding cache files.
	ListTranscriptions(ctx context.Context, limit int) ([]Entry, error)

	// CleanOldFiles removes uploads, transcripts and cache entries older
	// than the cutoff, and all temp files regardless of age. With dryRun
	// it only counts.
	CleanOldFiles(ctx context.Context, days int, dryRun bool) (CleanStats, error)
}
