package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Normalize converts the input into mono 16kHz PCM WAV. Video containers
// get their audio stream extracted in the same pass.
func (m *implNormalizer) Normalize(ctx context.Context, path string) (string, error) {
	info, err := m.Probe(ctx, path)
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", path, err)
	}

	target := m.cfg.Audio
	if strings.EqualFold(filepath.Ext(path), ".wav") &&
		info.SampleRate == target.SampleRate &&
		info.Channels == target.Channels {
		return path, nil
	}

	if err := os.MkdirAll(m.cfg.Paths.Temp, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(m.cfg.Paths.Temp,
		fmt.Sprintf("%s_%s_normalized.wav", stem, uuid.NewString()[:8]))

	if IsVideo(path) {
		m.logger.Info(ctx, "Extracting audio track from video: %s", path)
	}
	m.logger.Info(ctx, "Normalizing audio: %s -> %s", path, outPath)

	// -vn drops any video stream; pcm_s16le mono 16kHz is what whisper.cpp wants.
	args := []string{
		"-i", path,
		"-vn",
		"-ar", strconv.Itoa(target.SampleRate),
		"-ac", strconv.Itoa(target.Channels),
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	}

	if _, err := m.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg normalize: %w", err)
	}

	return outPath, nil
}

// ffprobe JSON shapes; only the fields we read.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// Probe runs ffprobe and returns the audio stream information.
func (m *implNormalizer) Probe(ctx context.Context, path string) (Info, error) {
	out, err := m.executor.Execute(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe: %w", err)
	}

	var probed probeOutput
	if err := json.Unmarshal([]byte(out), &probed); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := Info{
		Path:   path,
		Format: probed.Format.FormatName,
	}
	info.Duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)
	info.Size, _ = strconv.ParseInt(probed.Format.Size, 10, 64)

	for _, s := range probed.Streams {
		if s.CodecType == "audio" {
			info.Codec = s.CodecName
			info.Channels = s.Channels
			info.SampleRate, _ = strconv.Atoi(s.SampleRate)
			break
		}
	}
	if info.Codec == "" {
		return Info{}, fmt.Errorf("%w: %s has no audio stream", ErrInvalidFile, path)
	}

	return info, nil
}
