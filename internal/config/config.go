package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the transcription pipeline. It is built
// once in main and handed to each constructor; packages never reach for
// environment state themselves.
type Config struct {
	Whisper Whisper `yaml:"whisper"`
	Audio   Audio   `yaml:"audio"`
	Paths   Paths   `yaml:"paths"`
	Cache   Cache   `yaml:"cache"`
	Summary Summary `yaml:"summary"`
	Logging Logging `yaml:"logging"`
	Watch   Watch   `yaml:"watch"`
}

type Whisper struct {
	BinaryPath string   `yaml:"binary_path"`
	ModelsDir  string   `yaml:"models_dir"`
	Model      string   `yaml:"model"`
	Language   string   `yaml:"language"`
	Threads    int      `yaml:"threads"`
	BeamSize   int      `yaml:"beam_size"`
	Fallback   []string `yaml:"fallback_models"`

	// Decoding thresholds forwarded to whisper-cli.
	EntropyThreshold  float64 `yaml:"entropy_threshold"`
	LogprobThreshold  float64 `yaml:"logprob_threshold"`
	NoSpeechThreshold float64 `yaml:"no_speech_threshold"`
}

type Audio struct {
	SampleRate    int     `yaml:"sample_rate"`
	Channels      int     `yaml:"channels"`
	MaxFileSize   int64   `yaml:"max_file_size"`
	LongChunk     float64 `yaml:"long_chunk_duration"` // window for long-form recognition, seconds
	LongThreshold float64 `yaml:"long_threshold"`      // below this the file is transcribed whole, seconds

	// Silence-based splitting.
	SilenceThreshold float64 `yaml:"silence_threshold"` // dBFS
	MinSilence       float64 `yaml:"min_silence"`       // seconds
	SilencePadding   float64 `yaml:"silence_padding"`   // seconds kept around each cut
}

type Paths struct {
	Uploads     string `yaml:"uploads"`
	Transcripts string `yaml:"transcripts"`
	Temp        string `yaml:"temp"`
}

type Cache struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// UnmarshalYAML accepts "1h"-style strings for the TTL.
func (c *Cache) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Enabled bool   `yaml:"enabled"`
		TTL     string `yaml:"ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.Enabled = raw.Enabled
	if raw.TTL != "" {
		d, err := time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("cache.ttl: %w", err)
		}
		c.TTL = d
	}
	return nil
}

type Summary struct {
	Backend     string        `yaml:"backend"` // ollama or gemini
	OllamaURL   string        `yaml:"ollama_url"`
	OllamaModel string        `yaml:"ollama_model"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
	GeminiKeys  []string      `yaml:"gemini_api_keys"`
	GeminiModel string        `yaml:"gemini_model"`
}

// UnmarshalYAML accepts "120s"-style strings for the timeout.
func (s *Summary) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Backend     string   `yaml:"backend"`
		OllamaURL   string   `yaml:"ollama_url"`
		OllamaModel string   `yaml:"ollama_model"`
		Timeout     string   `yaml:"timeout"`
		Temperature float64  `yaml:"temperature"`
		GeminiKeys  []string `yaml:"gemini_api_keys"`
		GeminiModel string   `yaml:"gemini_model"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	s.Backend = raw.Backend
	s.OllamaURL = raw.OllamaURL
	s.OllamaModel = raw.OllamaModel
	s.Temperature = raw.Temperature
	s.GeminiKeys = raw.GeminiKeys
	s.GeminiModel = raw.GeminiModel
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("summary.timeout: %w", err)
		}
		s.Timeout = d
	}
	return nil
}

type Logging struct {
	Level string `yaml:"level"`
}

type Watch struct {
	InputDir      string `yaml:"input_dir"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// Load reads the YAML config file, then applies .env and environment
// overrides on top. A missing .env is not an error; a missing config file is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a ready-to-use configuration without a config file,
// still honoring .env and environment overrides.
func Default() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WHISPER_BINARY"); v != "" {
		c.Whisper.BinaryPath = v
	}
	if v := os.Getenv("WHISPER_MODEL"); v != "" {
		c.Whisper.Model = v
	}
	if v := os.Getenv("WHISPER_MODELS_DIR"); v != "" {
		c.Whisper.ModelsDir = v
	}
	if v := os.Getenv("WHISPER_LANGUAGE"); v != "" {
		c.Whisper.Language = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		c.Summary.OllamaURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		c.Summary.OllamaModel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Summary.GeminiKeys = append(c.Summary.GeminiKeys, v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		c.Cache.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Cache.TTL = time.Duration(secs) * time.Second
		}
	}
}

// ValidModels are the whisper.cpp model sizes the pipeline accepts.
var ValidModels = []string{"tiny", "base", "small", "medium", "large", "large-v2", "large-v3"}

// Validate fills defaults and rejects impossible settings.
func (c *Config) Validate() error {
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.ModelsDir == "" {
		c.Whisper.ModelsDir = "models"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "small"
	}
	if !validModel(c.Whisper.Model) {
		return fmt.Errorf("whisper.model %q is not a known model size", c.Whisper.Model)
	}
	for _, m := range c.Whisper.Fallback {
		if !validModel(m) {
			return fmt.Errorf("whisper.fallback_models contains unknown model %q", m)
		}
	}
	if len(c.Whisper.Fallback) == 0 {
		c.Whisper.Fallback = []string{"small", "medium", "large"}
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Whisper.BeamSize == 0 {
		c.Whisper.BeamSize = 5
	}
	if c.Whisper.EntropyThreshold == 0 {
		c.Whisper.EntropyThreshold = 2.4
	}
	if c.Whisper.LogprobThreshold == 0 {
		c.Whisper.LogprobThreshold = -1.0
	}
	if c.Whisper.NoSpeechThreshold == 0 {
		c.Whisper.NoSpeechThreshold = 0.6
	}

	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = 1
	}
	if c.Audio.MaxFileSize == 0 {
		c.Audio.MaxFileSize = 2 << 30 // 2 GiB
	}
	if c.Audio.LongChunk == 0 {
		c.Audio.LongChunk = 240
	}
	if c.Audio.LongThreshold == 0 {
		c.Audio.LongThreshold = 300
	}
	if c.Audio.SilenceThreshold == 0 {
		c.Audio.SilenceThreshold = -35
	}
	if c.Audio.MinSilence == 0 {
		c.Audio.MinSilence = 0.5
	}
	if c.Audio.SilencePadding == 0 {
		c.Audio.SilencePadding = 0.25
	}

	if c.Paths.Uploads == "" {
		c.Paths.Uploads = "data/uploads"
	}
	if c.Paths.Transcripts == "" {
		c.Paths.Transcripts = "data/transcripts"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}

	if c.Summary.Backend == "" {
		c.Summary.Backend = "ollama"
	}
	if c.Summary.Backend != "ollama" && c.Summary.Backend != "gemini" {
		return fmt.Errorf("summary.backend %q must be ollama or gemini", c.Summary.Backend)
	}
	if c.Summary.OllamaURL == "" {
		c.Summary.OllamaURL = "http://localhost:11434"
	}
	if c.Summary.OllamaModel == "" {
		c.Summary.OllamaModel = "llama3.2:3b"
	}
	if c.Summary.Timeout == 0 {
		c.Summary.Timeout = 120 * time.Second
	}
	if c.Summary.Temperature == 0 {
		c.Summary.Temperature = 0.3
	}
	if c.Summary.GeminiModel == "" {
		c.Summary.GeminiModel = "gemini-2.5-flash"
	}
	if c.Summary.Backend == "gemini" && len(c.Summary.GeminiKeys) == 0 {
		return fmt.Errorf("summary.backend gemini requires at least one API key")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Watch.InputDir == "" {
		c.Watch.InputDir = "data/input"
	}
	if c.Watch.MaxConcurrent == 0 {
		c.Watch.MaxConcurrent = 2
	}

	return nil
}

func validModel(m string) bool {
	for _, v := range ValidModels {
		if v == m {
			return true
		}
	}
	return false
}

// ModelInfo describes a whisper.cpp model size for display purposes.
type ModelInfo struct {
	Size          string
	VRAM          string
	RelativeSpeed int
}

var modelInfo = map[string]ModelInfo{
	"tiny":   {Size: "39M", VRAM: "~1GB", RelativeSpeed: 32},
	"base":   {Size: "74M", VRAM: "~1GB", RelativeSpeed: 16},
	"small":  {Size: "244M", VRAM: "~2GB", RelativeSpeed: 8},
	"medium": {Size: "769M", VRAM: "~5GB", RelativeSpeed: 4},
	"large":  {Size: "1550M", VRAM: "~10GB", RelativeSpeed: 1},
}

// GetModelInfo returns display information for a model size. The
// large-v2/v3 variants share the large entry; unknown names get small.
func GetModelInfo(model string) ModelInfo {
	if info, ok := modelInfo[model]; ok {
		return info
	}
	if strings.HasPrefix(model, "large") {
		return modelInfo["large"]
	}
	return modelInfo["small"]
}
