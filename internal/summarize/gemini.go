package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
)

type implGemini struct {
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger
}

// NewGemini creates a Summarizer that rotates through the supplied Gemini
// API keys on quota errors.
func NewGemini(cfg *config.Config, log logger.Logger) Summarizer {
	return &implGemini{
		apiKeys: cfg.Summary.GeminiKeys,
		model:   cfg.Summary.GeminiModel,
		logger:  log,
	}
}

func (g *implGemini) Summarize(ctx context.Context, text string, opts Options) *Summary {
	if len(strings.TrimSpace(text)) < minTextChars {
		return insufficientContent(opts)
	}

	kind := effectiveKind(opts.Kind)
	summary := &Summary{
		Kind:     kind,
		Model:    g.model,
		Language: opts.Language,
	}

	g.logger.Info(ctx, "Generating %s summary with %s", kind, g.model)

	start := time.Now()
	out, err := g.callGemini(ctx, buildPrompt(text, opts))
	if err != nil {
		g.logger.Error(ctx, "Summarization failed: %v", err)
		summary.Text = fmt.Sprintf("Summarization failed: %v", err)
		summary.Err = err.Error()
		return summary
	}

	summary.Text = strings.TrimSpace(out)
	summary.ProcessingTime = time.Since(start).Seconds()
	return summary
}

// callGemini sends the prompt to Gemini and returns the generated text,
// rotating API keys on 429 / quota errors.
func (g *implGemini) callGemini(ctx context.Context, prompt string) (string, error) {
	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key := g.apiKeys[g.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", g.currentKey+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *implGemini) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}
