package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

func (s *implStore) ListTranscriptions(ctx context.Context, limit int) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.cfg.Paths.Transcripts)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		path string
		info os.FileInfo
	}
	var found []candidate
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".cache_") || filepath.Ext(name) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{filepath.Join(s.cfg.Paths.Transcripts, name), info})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].info.ModTime().After(found[j].info.ModTime())
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	var entries []Entry
	for _, c := range found {
		entry := Entry{
			File:    filepath.Base(c.path),
			Path:    c.path,
			Created: c.info.ModTime(),
			SizeKB:  float64(c.info.Size()) / 1024,
		}

		data, err := os.ReadFile(c.path)
		if err != nil {
			s.logger.Warn(ctx, "Failed to read %s: %v", c.path, err)
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			s.logger.Warn(ctx, "Skipping unreadable transcription %s: %v", c.path, err)
			continue
		}
		entry.Source = rec.SourceFile
		if rec.Result != nil {
			entry.Duration = rec.Result.Duration
			entry.Language = rec.Result.Language
			entry.Model = rec.Result.Model
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *implStore) CleanOldFiles(ctx context.Context, days int, dryRun bool) (CleanStats, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var stats CleanStats

	stats.Uploads = s.removeMatching(ctx, s.cfg.Paths.Uploads, func(string) bool { return true }, cutoff, dryRun)
	stats.Transcripts = s.removeMatching(ctx, s.cfg.Paths.Transcripts, func(name string) bool {
		return !strings.HasPrefix(name, ".cache_") && filepath.Ext(name) == ".json"
	}, cutoff, dryRun)
	stats.Cache = s.removeMatching(ctx, s.cfg.Paths.Transcripts, func(name string) bool {
		return strings.HasPrefix(name, ".cache_")
	}, cutoff, dryRun)

	// Temp files go regardless of age.
	stats.Temp = s.removeMatching(ctx, s.cfg.Paths.Temp, func(string) bool { return true },
		time.Now().Add(time.Hour), dryRun)

	return stats, nil
}

func (s *implStore) removeMatching(ctx context.Context, dir string, match func(string) bool, cutoff time.Time, dryRun bool) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Warn(ctx, "Failed to scan %s: %v", dir, err)
		return 0
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() || !match(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if !dryRun {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				s.logger.Warn(ctx, "Failed to remove %s: %v", e.Name(), err)
				continue
			}
		}
		count++
	}
	return count
}
