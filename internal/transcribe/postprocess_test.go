package transcribe

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitespace runs", "hello   world\t\nagain", "hello world again"},
		{"stutter loop collapsed", "go go go home", "go home"},
		{"two repeats kept", "that that was fine", "that that was fine"},
		{"long dot runs", "wait a.....", "wait a..."},
		{"three dots kept", "wait...", "wait..."},
		{"combined", "no  no no no   stop.....", "no stop..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeText(tt.in); got != tt.want {
				t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanSegmentText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "Hello world."},
		{"already done.", "Already done."},
		{"a question?", "A question?"},
		{"shout!", "Shout!"},
		{"  spaced   out  ", "Spaced out."},
	}

	for _, tt := range tests {
		if got := cleanSegmentText(tt.in); got != tt.want {
			t.Errorf("cleanSegmentText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPostProcessFiltersShortSegments(t *testing.T) {
	res := &Result{
		Text:     "ok hello there",
		Duration: 4,
		Segments: []Segment{
			{ID: 0, Start: 0, End: 1, Text: "ok"},
			{ID: 1, Start: 1, End: 4, Text: "hello there",
				Words: []Word{
					{Text: "hello", Confidence: 0.9},
					{Text: "there", Confidence: 0.7},
				},
			},
		},
	}

	postProcess(res)

	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1 (short segment dropped)", len(res.Segments))
	}
	seg := res.Segments[0]
	if seg.Text != "Hello there." {
		t.Errorf("text = %q, want %q", seg.Text, "Hello there.")
	}
	if got, want := seg.AvgConfidence, 0.8; got != want {
		t.Errorf("avg confidence = %v, want %v", got, want)
	}
	if res.Metrics == nil {
		t.Fatal("metrics not attached")
	}
	if res.Metrics.TotalSegments != 1 {
		t.Errorf("metrics segments = %d, want 1", res.Metrics.TotalSegments)
	}
}

func TestSegmentConfidenceWithoutWords(t *testing.T) {
	seg := Segment{Text: "no token data here"}
	if got := segmentConfidence(seg); got != 1.0 {
		t.Errorf("confidence without words = %v, want 1.0", got)
	}
}
