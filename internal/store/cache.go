package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func (s *implStore) cachePath(fileHash, operation string) string {
	return filepath.Join(s.cfg.Paths.Transcripts,
		fmt.Sprintf(".cache_%s_%s.json", operation, fileHash))
}

func (s *implStore) CheckCache(ctx context.Context, fileHash, operation string, out interface{}) bool {
	if !s.cfg.Cache.Enabled {
		return false
	}

	path := s.cachePath(fileHash, operation)
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	if time.Since(info.ModTime()) > s.cfg.Cache.TTL {
		s.logger.Info(ctx, "Cache expired for %s", operation)
		if err := os.Remove(path); err != nil {
			s.logger.Warn(ctx, "Failed to remove expired cache %s: %v", path, err)
		}
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn(ctx, "Failed to read cache %s: %v", path, err)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn(ctx, "Corrupt cache entry %s: %v", path, err)
		return false
	}

	s.logger.Info(ctx, "Using cached %s result", operation)
	return true
}

func (s *implStore) SaveCache(ctx context.Context, fileHash, operation string, data interface{}) {
	if !s.cfg.Cache.Enabled {
		return
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		s.logger.Warn(ctx, "Failed to encode cache entry: %v", err)
		return
	}

	path := s.cachePath(fileHash, operation)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		s.logger.Warn(ctx, "Failed to write cache %s: %v", path, err)
	}
}
