package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/audioscribe/audioscribe/internal/transcribe"
	"github.com/audioscribe/audioscribe/pkg/timefmt"
)

// Format is an output serialization for a stored Record.
type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "txt"
	FormatSRT      Format = "srt"
	FormatVTT      Format = "vtt"
	FormatMarkdown Format = "md"
	FormatDocx     Format = "docx"
)

// Formats lists every supported output format.
var Formats = []Format{FormatJSON, FormatText, FormatSRT, FormatVTT, FormatMarkdown, FormatDocx}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Formats {
		if f == valid {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, v := range Formats {
		names[i] = string(v)
	}
	return "", fmt.Errorf("unsupported format %q (valid: %s)", s, strings.Join(names, ", "))
}

func (s *implStore) Save(ctx context.Context, rec *Record, format Format) (string, error) {
	base := strings.TrimSuffix(filepath.Base(rec.SourceFile), filepath.Ext(rec.SourceFile))
	path := filepath.Join(s.cfg.Paths.Transcripts, base+"."+string(format))

	var err error
	switch format {
	case FormatJSON:
		err = writeJSON(rec, path)
	case FormatText:
		err = writeText(rec, path)
	case FormatSRT:
		err = writeSRT(rec.Result, path)
	case FormatVTT:
		err = writeVTT(rec.Result, path)
	case FormatMarkdown:
		err = writeMarkdown(rec, path)
	case FormatDocx:
		err = writeDocx(rec, path)
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", format, err)
	}

	s.logger.Info(ctx, "Saved %s output: %s", format, path)
	return path, nil
}

func writeJSON(rec *Record, path string) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeText(rec *Record, path string) error {
	return os.WriteFile(path, []byte(rec.Result.Text+"\n"), 0644)
}

func writeSRT(res *transcribe.Result, path string) error {
	var b strings.Builder
	for i, seg := range res.Segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, timefmt.SRT(seg.Start), timefmt.SRT(seg.End), seg.Text)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeVTT(res *transcribe.Result, path string) error {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, seg := range res.Segments {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
			timefmt.VTT(seg.Start), timefmt.VTT(seg.End), seg.Text)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeMarkdown(rec *Record, path string) error {
	var b strings.Builder
	b.WriteString("# Transcription\n\n")
	b.WriteString("## Details\n\n")
	fmt.Fprintf(&b, "- **File**: %s\n", rec.SourceFile)
	fmt.Fprintf(&b, "- **Duration**: %.1f seconds\n", rec.Result.Duration)
	fmt.Fprintf(&b, "- **Language**: %s\n", rec.Result.Language)
	fmt.Fprintf(&b, "- **Model**: %s\n", rec.Result.Model)
	if rec.ProcessingTime > 0 {
		fmt.Fprintf(&b, "- **Processing time**: %.1f seconds\n", rec.ProcessingTime)
	}
	b.WriteString("\n## Text\n\n")
	b.WriteString(rec.Result.Text)
	b.WriteString("\n")

	if len(rec.Result.Segments) > 1 {
		b.WriteString("\n## Timestamped Segments\n\n")
		for _, seg := range rec.Result.Segments {
			fmt.Fprintf(&b, "- `%s` %s\n", timefmt.VTT(seg.Start), seg.Text)
		}
	}

	if rec.Summary != nil && !rec.Summary.Failed() {
		fmt.Fprintf(&b, "\n## Summary (%s)\n\n%s\n", rec.Summary.Kind, rec.Summary.Text)
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}
