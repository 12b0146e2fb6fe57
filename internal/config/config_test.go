package config

import (
	"os"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "unknown model size",
			config: Config{
				Whisper: Whisper{Model: "gigantic"},
			},
			wantErr: true,
		},
		{
			name: "unknown fallback model",
			config: Config{
				Whisper: Whisper{Fallback: []string{"small", "huge"}},
			},
			wantErr: true,
		},
		{
			name: "invalid summary backend",
			config: Config{
				Summary: Summary{Backend: "chatgpt"},
			},
			wantErr: true,
		},
		{
			name: "gemini backend without keys",
			config: Config{
				Summary: Summary{Backend: "gemini"},
			},
			wantErr: true,
		},
		{
			name: "gemini backend with key",
			config: Config{
				Summary: Summary{Backend: "gemini", GeminiKeys: []string{"k1"}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Whisper.Model != "small" {
		t.Errorf("Model = %q, want small", cfg.Whisper.Model)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", cfg.Audio.SampleRate)
	}
	if cfg.Audio.LongThreshold != 300 {
		t.Errorf("LongThreshold = %v, want 300", cfg.Audio.LongThreshold)
	}
	if cfg.Audio.LongChunk != 240 {
		t.Errorf("LongChunk = %v, want 240", cfg.Audio.LongChunk)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.Summary.Timeout != 120*time.Second {
		t.Errorf("Summary.Timeout = %v, want 120s", cfg.Summary.Timeout)
	}
	if len(cfg.Whisper.Fallback) != 3 || cfg.Whisper.Fallback[0] != "small" {
		t.Errorf("Fallback = %v, want [small medium large]", cfg.Whisper.Fallback)
	}
	if cfg.Watch.InputDir != "data/input" {
		t.Errorf("Watch.InputDir = %q, want data/input", cfg.Watch.InputDir)
	}
}

func TestLoad(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
whisper:
  binary_path: "./whisper-cli"
  models_dir: "models"
  model: "medium"
  language: "pt"
  threads: 8

audio:
  long_threshold: 600

paths:
  transcripts: "out/transcripts"

cache:
  enabled: true
  ttl: 2h

summary:
  backend: "ollama"
  ollama_model: "mistral"

logging:
  level: "debug"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Whisper.Model != "medium" {
		t.Errorf("Model = %v, want medium", cfg.Whisper.Model)
	}
	if cfg.Audio.LongThreshold != 600 {
		t.Errorf("LongThreshold = %v, want 600", cfg.Audio.LongThreshold)
	}
	if cfg.Paths.Transcripts != "out/transcripts" {
		t.Errorf("Transcripts = %v, want out/transcripts", cfg.Paths.Transcripts)
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("Cache.TTL = %v, want 2h", cfg.Cache.TTL)
	}
	// Unset fields still get defaults.
	if cfg.Summary.OllamaURL != "http://localhost:11434" {
		t.Errorf("OllamaURL = %v, want default", cfg.Summary.OllamaURL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte("whisper:\n  model: small\n")); err != nil {
		t.Fatal(err)
	}
	tmpfile.Close()

	t.Setenv("WHISPER_MODEL", "base")
	t.Setenv("CACHE_TTL", "90")

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Whisper.Model != "base" {
		t.Errorf("Model = %v, want env override base", cfg.Whisper.Model)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache.TTL = %v, want 90s", cfg.Cache.TTL)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	if _, err := Load("nonexistent.yaml"); err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}
