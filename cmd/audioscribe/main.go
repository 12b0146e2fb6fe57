package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
	"github.com/audioscribe/audioscribe/internal/media"
	"github.com/audioscribe/audioscribe/internal/processor"
	"github.com/audioscribe/audioscribe/internal/segment"
	"github.com/audioscribe/audioscribe/internal/store"
	"github.com/audioscribe/audioscribe/internal/summarize"
	"github.com/audioscribe/audioscribe/internal/transcribe"
	"github.com/audioscribe/audioscribe/internal/watcher"
	"github.com/audioscribe/audioscribe/pkg/executor"
)

const banner = `
    _             _ _       ____            _ _
   / \  _   _  __| (_) ___ / ___|  ___ _ __(_) |__   ___
  / _ \| | | |/ _` + "`" + ` | |/ _ \___ \ / __| '__| | '_ \ / _ \
 / ___ \ |_| | (_| | | (_) |__) | (__| |  | | |_) |  __/
/_/   \_\__,_|\__,_|_|\___/____/ \___|_|  |_|_.__/ \___|
`

func main() {
	var (
		configPath  string
		model       string
		language    string
		formatsFlag []string
		doSummarize bool
		summaryKind string
		useFallback bool
		watchMode   bool
		detectLang  bool
		listModels  bool
		listFormats bool
		listRecent  int
		cleanDays   int
		dryRun      bool
	)

	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	pflag.StringVarP(&model, "model", "m", "", "whisper model size (overrides config)")
	pflag.StringVarP(&language, "language", "l", "", "transcription language, empty auto-detects")
	pflag.StringSliceVarP(&formatsFlag, "format", "f", []string{"json"}, "output formats (json,txt,srt,vtt,md,docx)")
	pflag.BoolVar(&doSummarize, "summarize", false, "generate an LLM summary of the transcript")
	pflag.StringVar(&summaryKind, "summary-kind", "executive", "summary style")
	pflag.BoolVar(&useFallback, "fallback", false, "try the configured model ladder until quality is acceptable")
	pflag.BoolVar(&watchMode, "watch", false, "watch the input directory and process new files")
	pflag.BoolVar(&detectLang, "detect-language", false, "detect the spoken language and exit")
	pflag.BoolVar(&listModels, "list-models", false, "print the available model sizes and exit")
	pflag.BoolVar(&listFormats, "formats", false, "print the available output formats and exit")
	pflag.IntVar(&listRecent, "list", 0, "print the N most recent transcriptions and exit")
	pflag.IntVar(&cleanDays, "clean", 0, "remove stored files older than N days and exit")
	pflag.BoolVar(&dryRun, "dry-run", false, "with --clean, only count what would be removed")
	pflag.Parse()

	if listModels {
		printModels()
		return
	}
	if listFormats {
		printFormats()
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if model != "" {
		cfg.Whisper.Model = model
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	log := logger.New(cfg.Logging.Level)

	st, err := store.New(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to prepare data directories: %v", err)
		os.Exit(1)
	}

	if listRecent > 0 {
		if err := printRecent(ctx, st, listRecent); err != nil {
			log.Error(ctx, "Failed to list transcriptions: %v", err)
			os.Exit(1)
		}
		return
	}
	if cleanDays > 0 {
		stats, err := st.CleanOldFiles(ctx, cleanDays, dryRun)
		if err != nil {
			log.Error(ctx, "Cleanup failed: %v", err)
			os.Exit(1)
		}
		mode := ""
		if dryRun {
			mode = " (dry run)"
		}
		fmt.Printf("Removed%s: %d uploads, %d transcripts, %d cache, %d temp (%d total)\n",
			mode, stats.Uploads, stats.Transcripts, stats.Cache, stats.Temp, stats.Total())
		return
	}

	opts, err := buildOptions(formatsFlag, model, language, doSummarize, summaryKind, useFallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	proc, err := buildPipeline(cfg, st, log)
	if err != nil {
		log.Error(ctx, "Failed to build pipeline: %v", err)
		os.Exit(1)
	}

	fmt.Print(banner)

	if watchMode {
		runWatch(ctx, cfg, proc, opts, log)
		return
	}

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: audioscribe [flags] <media-file>")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	if detectLang {
		if err := runDetectLanguage(ctx, cfg, pflag.Arg(0), log); err != nil {
			log.Error(ctx, "Language detection failed: %v", err)
			os.Exit(1)
		}
		return
	}

	outcome, err := proc.Process(ctx, pflag.Arg(0), opts)
	if err != nil {
		log.Error(ctx, "Processing failed: %v", err)
		os.Exit(1)
	}
	printOutcome(outcome)
}

// loadConfig reads the config file when present and falls back to defaults
// (still honoring environment overrides) when it is not.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default()
	}
	return config.Load(path)
}

func buildPipeline(cfg *config.Config, st store.Store, log logger.Logger) (processor.Processor, error) {
	exec := executor.New()
	norm := media.New(cfg, exec, log)
	rec := transcribe.NewRecognizer(cfg, exec, log)
	seg := segment.New(cfg, exec, log)
	tr := transcribe.New(cfg, rec, seg, log)

	sum, err := summarize.New(cfg, log)
	if err != nil {
		return nil, err
	}

	return processor.New(cfg, norm, tr, sum, st, log), nil
}

func buildOptions(formatsFlag []string, model, language string, doSummarize bool, summaryKind string, useFallback bool) (processor.Options, error) {
	var formats []store.Format
	for _, f := range formatsFlag {
		parsed, err := store.ParseFormat(f)
		if err != nil {
			return processor.Options{}, err
		}
		formats = append(formats, parsed)
	}

	opts := processor.Options{
		Model:       model,
		Language:    language,
		Formats:     formats,
		Summarize:   doSummarize,
		UseFallback: useFallback,
	}
	if doSummarize {
		kind, err := summarize.ParseKind(summaryKind)
		if err != nil {
			return processor.Options{}, err
		}
		opts.SummaryKind = kind
	}
	return opts, nil
}

// runDetectLanguage normalizes the input and runs one recognizer pass with
// automatic language detection, reporting only the detected language.
func runDetectLanguage(ctx context.Context, cfg *config.Config, path string, log logger.Logger) error {
	if err := media.Validate(path, cfg.Audio.MaxFileSize); err != nil {
		return err
	}

	exec := executor.New()
	norm := media.New(cfg, exec, log)
	rec := transcribe.NewRecognizer(cfg, exec, log)

	wavPath, err := norm.Normalize(ctx, path)
	if err != nil {
		return err
	}
	if wavPath != path {
		defer os.Remove(wavPath)
	}

	res, err := rec.Recognize(ctx, wavPath, transcribe.Options{Language: "auto"})
	if err != nil {
		return err
	}

	fmt.Printf("Detected language: %s\n", res.Language)
	return nil
}

func runWatch(ctx context.Context, cfg *config.Config, proc processor.Processor, opts processor.Options, log logger.Logger) {
	if err := os.MkdirAll(cfg.Watch.InputDir, 0755); err != nil {
		log.Error(ctx, "Failed to create input directory: %v", err)
		os.Exit(1)
	}

	handler := func(ctx context.Context, path string) error {
		outcome, err := proc.Process(ctx, path, opts)
		if err != nil {
			return err
		}
		printOutcome(outcome)
		return nil
	}

	w, err := watcher.New(cfg.Watch.InputDir, handler, log, cfg.Watch.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Monitoring %s (max concurrent: %d). Press Ctrl+C to stop.",
		cfg.Watch.InputDir, cfg.Watch.MaxConcurrent)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()
}

func printModels() {
	fmt.Println("Available models:")
	fmt.Printf("  %-10s %-8s %-8s %s\n", "MODEL", "SIZE", "VRAM", "SPEED")
	for _, m := range config.ValidModels {
		info := config.GetModelInfo(m)
		fmt.Printf("  %-10s %-8s %-8s %dx\n", m, info.Size, info.VRAM, info.RelativeSpeed)
	}
}

func printFormats() {
	names := make([]string, len(store.Formats))
	for i, f := range store.Formats {
		names[i] = string(f)
	}
	fmt.Printf("Available output formats: %s\n", strings.Join(names, ", "))
}

func printRecent(ctx context.Context, st store.Store, limit int) error {
	entries, err := st.ListTranscriptions(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No transcriptions found.")
		return nil
	}
	fmt.Printf("%-30s %-10s %-6s %-8s %s\n", "FILE", "DURATION", "LANG", "MODEL", "CREATED")
	for _, e := range entries {
		fmt.Printf("%-30s %-10s %-6s %-8s %s\n",
			e.File, fmt.Sprintf("%.1fs", e.Duration), e.Language, e.Model,
			e.Created.Format("2006-01-02 15:04"))
	}
	return nil
}

func printOutcome(out *processor.Outcome) {
	res := out.Record.Result
	fmt.Println()
	if out.FromCache {
		fmt.Println("Result served from cache.")
	}
	fmt.Printf("Language: %s | Model: %s | Duration: %.1fs | Method: %s\n",
		res.Language, res.Model, res.Duration, res.Method)
	if res.Metrics != nil {
		fmt.Printf("Segments: %d | Words: %d | Avg confidence: %.2f\n",
			res.Metrics.TotalSegments, res.Metrics.TotalWords, res.Metrics.AvgSegmentConfidence)
	}
	if out.Record.Summary != nil && !out.Record.Summary.Failed() {
		fmt.Printf("\nSummary (%s):\n%s\n", out.Record.Summary.Kind, out.Record.Summary.Text)
	}
	fmt.Println("\nOutputs:")
	for _, p := range out.Outputs {
		fmt.Printf("  %s\n", p)
	}
}
