package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
	"github.com/audioscribe/audioscribe/pkg/executor"
)

// Recognizer runs the external speech-to-text model on one audio file.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string, opts Options) (*Result, error)
}

type whisperRecognizer struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// NewRecognizer creates a Recognizer backed by the whisper.cpp CLI.
func NewRecognizer(cfg *config.Config, exec executor.Executor, log logger.Logger) Recognizer {
	return &whisperRecognizer{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

// Recognize runs whisper-cli with full-JSON output and maps it to a Result.
func (w *whisperRecognizer) Recognize(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	model := opts.Model
	if model == "" {
		model = w.cfg.Whisper.Model
	}
	language := opts.Language
	if language == "" {
		language = w.cfg.Whisper.Language
	}
	if language == "" {
		language = "auto"
	}

	modelPath := filepath.Join(w.cfg.Whisper.ModelsDir, "ggml-"+model+".bin")
	// The JSON lands in the temp dir so the source directory is never touched.
	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	outputPrefix := filepath.Join(w.cfg.Paths.Temp,
		fmt.Sprintf("%s_%s", stem, uuid.NewString()[:8]))

	args := []string{
		"-m", modelPath,
		"-f", audioPath,
		"-ojf", // full JSON: segments plus token probabilities
		"-l", language,
		"-t", strconv.Itoa(w.cfg.Whisper.Threads),
		"-bs", strconv.Itoa(w.cfg.Whisper.BeamSize),
		"-bo", "5",
		"--entropy-thold", formatFloat(w.cfg.Whisper.EntropyThreshold),
		"--logprob-thold", formatFloat(w.cfg.Whisper.LogprobThreshold),
		"--no-speech-thold", formatFloat(w.cfg.Whisper.NoSpeechThreshold),
		"--output-file", outputPrefix,
	}
	if opts.Prompt != "" {
		args = append(args, "--prompt", opts.Prompt)
	}

	w.logger.Debug(ctx, "whisper-cli model=%s lang=%s file=%s", model, language, audioPath)

	if _, err := w.executor.Execute(ctx, w.cfg.Whisper.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper recognition: %w", err)
	}

	jsonPath := outputPrefix + ".json"
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	defer os.Remove(jsonPath)

	res, err := parseWhisperJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}
	res.Model = model
	return res, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// whisper.cpp full-JSON output shapes; only the fields we consume.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []whisperSegment `json:"transcription"`
}

type whisperSegment struct {
	Offsets whisperOffsets `json:"offsets"`
	Text    string         `json:"text"`
	Tokens  []whisperToken `json:"tokens"`
}

type whisperToken struct {
	Text    string         `json:"text"`
	Offsets whisperOffsets `json:"offsets"`
	P       float64        `json:"p"`
}

type whisperOffsets struct {
	From int64 `json:"from"` // milliseconds
	To   int64 `json:"to"`
}

func parseWhisperJSON(data []byte) (*Result, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	res := &Result{
		Language: out.Result.Language,
		Method:   MethodSingle,
	}

	var parts []string
	for i, ws := range out.Transcription {
		seg := Segment{
			ID:    i,
			Start: float64(ws.Offsets.From) / 1000,
			End:   float64(ws.Offsets.To) / 1000,
			Text:  strings.TrimSpace(ws.Text),
			Words: groupTokens(ws.Tokens),
		}
		res.Segments = append(res.Segments, seg)
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
		res.Duration = seg.End
	}
	res.Text = strings.Join(parts, " ")

	return res, nil
}

// groupTokens merges whisper's sub-word tokens into words. A token whose
// text begins with a space starts a new word; special tokens like
// [_BEG_] are skipped.
func groupTokens(tokens []whisperToken) []Word {
	var (
		words []Word
		cur   *Word
		pSum  float64
		pN    int
	)

	flush := func() {
		if cur == nil {
			return
		}
		if pN > 0 {
			cur.Confidence = pSum / float64(pN)
		} else {
			cur.Confidence = 1.0
		}
		words = append(words, *cur)
		cur, pSum, pN = nil, 0, 0
	}

	for _, t := range tokens {
		if strings.HasPrefix(t.Text, "[_") {
			continue
		}
		startsWord := strings.HasPrefix(t.Text, " ") || cur == nil
		if startsWord {
			flush()
			cur = &Word{
				Text:  strings.TrimSpace(t.Text),
				Start: float64(t.Offsets.From) / 1000,
				End:   float64(t.Offsets.To) / 1000,
			}
		} else {
			cur.Text += t.Text
			cur.End = float64(t.Offsets.To) / 1000
		}
		pSum += t.P
		pN++
	}
	flush()

	return words
}
