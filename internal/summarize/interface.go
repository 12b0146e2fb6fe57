package summarize

import "context"

// Summary is the result of one summarization call. Backend failures are
// captured in Err instead of aborting the caller, so a transcription still
// succeeds when the LLM is unreachable.
type Summary struct {
	Text           string  `json:"summary"`
	Kind           Kind    `json:"type"`
	Model          string  `json:"model,omitempty"`
	Language       string  `json:"language,omitempty"`
	ProcessingTime float64 `json:"processing_time,omitempty"` // seconds
	Tokens         int     `json:"tokens,omitempty"`
	Err            string  `json:"error,omitempty"`
}

// Failed reports whether the summarization produced an error payload.
func (s *Summary) Failed() bool {
	return s.Err != ""
}

// Options shape one summarization request.
type Options struct {
	Kind     Kind   // summary style; zero value means executive
	Language string // ISO 639-1 code for the summary language
	MaxWords int    // soft word budget, 0 means unbounded
	Context  string // extra context prepended to the prompt
}

// Summarizer generates an LLM summary of transcript text. Implementations
// never return an error through the payload path; see Summary.Err.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts Options) *Summary
}
