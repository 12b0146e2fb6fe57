package transcribe

// Word is a single recognized word with model confidence.
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Segment is a time-bounded span of recognized speech. Words may be empty
// when the backend returns no token-level data.
type Segment struct {
	ID            int     `json:"id"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	Text          string  `json:"text"`
	Words         []Word  `json:"words,omitempty"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Result is a full transcription: either a single recognizer pass
// (Method "single") or stitched chunks (Method "chunks").
type Result struct {
	Text      string   `json:"text"`
	Segments  []Segment `json:"segments"`
	Language  string   `json:"language"`
	Duration  float64  `json:"duration"`
	Method    string   `json:"method"`
	NumChunks int      `json:"num_chunks,omitempty"`
	Model     string   `json:"model,omitempty"`
	Metrics   *Metrics `json:"quality_metrics,omitempty"`
}

// Metrics are aggregate quality figures derived from a Result.
type Metrics struct {
	TotalSegments         int     `json:"total_segments"`
	TotalWords            int     `json:"total_words"`
	AvgSegmentConfidence  float64 `json:"avg_segment_confidence"`
	LowConfidenceSegments int     `json:"low_confidence_segments"`
	SilenceRatio          float64 `json:"silence_ratio"`
}

// Options select model, language and continuity hint for a recognizer call.
type Options struct {
	Model    string // whisper model size; empty uses the configured default
	Language string // ISO 639-1 code; empty means auto-detect
	Prompt   string // continuity hint carried across chunk boundaries
}

const (
	// MethodSingle marks a transcript produced in one recognizer pass.
	MethodSingle = "single"
	// MethodChunks marks a transcript stitched from per-chunk results.
	MethodChunks = "chunks"
)
