package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/audioscribe/audioscribe/internal/config"
	"github.com/audioscribe/audioscribe/internal/logger"
)

// defaultNumPredict bounds the Ollama response when no word budget is set.
const defaultNumPredict = 1000

type implOllama struct {
	cfg    *config.Config
	client *http.Client
	logger logger.Logger
}

// NewOllama creates a Summarizer backed by a local Ollama server.
func NewOllama(cfg *config.Config, log logger.Logger) Summarizer {
	return &implOllama{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Summary.Timeout},
		logger: log,
	}
}

type generateRequest struct {
	Model       string          `json:"model"`
	Prompt      string          `json:"prompt"`
	Temperature float64         `json:"temperature"`
	Stream      bool            `json:"stream"`
	Options     generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict int      `json:"num_predict"`
	Stop       []string `json:"stop"`
}

type generateResponse struct {
	Response  string `json:"response"`
	EvalCount int    `json:"eval_count"`
}

func (o *implOllama) Summarize(ctx context.Context, text string, opts Options) *Summary {
	if len(strings.TrimSpace(text)) < minTextChars {
		return insufficientContent(opts)
	}

	kind := effectiveKind(opts.Kind)
	summary := &Summary{
		Kind:     kind,
		Model:    o.cfg.Summary.OllamaModel,
		Language: opts.Language,
	}

	numPredict := defaultNumPredict
	if opts.MaxWords > 0 {
		numPredict = opts.MaxWords * 2
	}

	reqBody := generateRequest{
		Model:       o.cfg.Summary.OllamaModel,
		Prompt:      buildPrompt(text, opts),
		Temperature: o.cfg.Summary.Temperature,
		Stream:      false,
		Options: generateOptions{
			NumPredict: numPredict,
			Stop:       []string{"</summary>", "---", "###"},
		},
	}

	o.logger.Info(ctx, "Generating %s summary with %s", kind, reqBody.Model)

	start := time.Now()
	resp, err := o.generate(ctx, reqBody)
	if err != nil {
		o.logger.Error(ctx, "Summarization failed: %v", err)
		summary.Text = fmt.Sprintf("Summarization failed: %v", err)
		summary.Err = err.Error()
		return summary
	}

	summary.Text = strings.TrimSpace(resp.Response)
	summary.Tokens = resp.EvalCount
	summary.ProcessingTime = time.Since(start).Seconds()
	return summary
}

func (o *implOllama) generate(ctx context.Context, reqBody generateRequest) (*generateResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(o.cfg.Summary.OllamaURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
