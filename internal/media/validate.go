package media

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound means the source file does not exist.
	ErrNotFound = errors.New("media file not found")

	// ErrUnsupportedFormat means the file extension is not in SupportedExtensions.
	ErrUnsupportedFormat = errors.New("unsupported media format")

	// ErrInvalidFile means the file exists but cannot be media (empty,
	// oversized, or its header contradicts the extension).
	ErrInvalidFile = errors.New("invalid media file")
)

// SupportedExtensions lists every container the pipeline accepts.
var SupportedExtensions = []string{
	".wav", ".mp3", ".mp4", ".m4a", ".flac", ".ogg",
	".wma", ".aac", ".opus", ".webm", ".mkv", ".avi", ".mov",
}

// videoExtensions are containers that get their audio stripped before
// transcription.
var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".webm": true, ".mov": true,
}

// IsSupported reports whether the file extension is one we accept.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// IsVideo reports whether the path looks like a video container.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// Validate rejects files that cannot be transcribed: missing, empty,
// oversized, unsupported extension, or a header that contradicts the
// extension.
func Validate(path string, maxSize int64) error {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidFile, path)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidFile, path)
	}
	if maxSize > 0 && fi.Size() > maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrInvalidFile, path, fi.Size(), maxSize)
	}
	if !IsSupported(path) {
		return fmt.Errorf("%w: %s (supported: %s)",
			ErrUnsupportedFormat, filepath.Ext(path), strings.Join(SupportedExtensions, ", "))
	}
	return checkHeader(path)
}

// checkHeader reads the first bytes and verifies known magic numbers for
// the extensions where a cheap check exists.
func checkHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := f.Read(header)
	if err != nil || n < 12 {
		return fmt.Errorf("%w: %s is too small to be media", ErrInvalidFile, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		if !bytes.HasPrefix(header, []byte("RIFF")) {
			return fmt.Errorf("%w: %s has no RIFF header", ErrInvalidFile, path)
		}
	case ".mp3":
		if !bytes.HasPrefix(header, []byte("ID3")) && !(header[0] == 0xff && header[1]&0xe0 == 0xe0) {
			return fmt.Errorf("%w: %s has no MP3 frame sync or ID3 tag", ErrInvalidFile, path)
		}
	case ".mp4", ".m4a", ".mov":
		if !bytes.Contains(header, []byte("ftyp")) && !bytes.Contains(header, []byte("moov")) {
			return fmt.Errorf("%w: %s has no MP4 box header", ErrInvalidFile, path)
		}
	}
	return nil
}
