package transcribe

import "strings"

// hintWords is how many trailing words of accumulated text are carried
// into the next chunk's recognition call as a continuity hint.
const hintWords = 10

// stitcher merges per-chunk recognition results into one global timeline.
// Chunk-local timestamps are shifted by the end time of the last segment
// already accumulated, so boundaries never split a segment and the timeline
// stays monotonic.
type stitcher struct {
	segments  []Segment
	textParts []string
	duration  float64
}

func newStitcher() *stitcher {
	return &stitcher{}
}

// hint returns the last hintWords words of the accumulated text, or ""
// before any text exists. It must be consulted before recognizing the next
// chunk; the hint is what ties the chunks into an interleaved sequential
// pipeline rather than an independent map.
func (s *stitcher) hint() string {
	if len(s.textParts) == 0 {
		return ""
	}
	words := strings.Fields(strings.Join(s.textParts, " "))
	if len(words) > hintWords {
		words = words[len(words)-hintWords:]
	}
	return strings.Join(words, " ")
}

// add appends one chunk's result: every segment (and its words) is shifted
// by the current offset, IDs continue the running sequence, and the chunk
// text joins the accumulated text.
func (s *stitcher) add(res *Result) {
	offset := 0.0
	if n := len(s.segments); n > 0 {
		offset = s.segments[n-1].End
	}
	base := len(s.segments)

	for _, seg := range res.Segments {
		seg.ID = base + seg.ID
		seg.Start += offset
		seg.End += offset
		// The chunk result stays untouched; shift a copy of its words.
		words := append([]Word(nil), seg.Words...)
		for i := range words {
			words[i].Start += offset
			words[i].End += offset
		}
		seg.Words = words
		s.segments = append(s.segments, seg)
		s.duration = seg.End
	}

	if t := strings.TrimSpace(res.Text); t != "" {
		s.textParts = append(s.textParts, t)
	}
}

// finalize builds the stitched Result for numChunks processed chunks.
func (s *stitcher) finalize(language string, numChunks int) *Result {
	return &Result{
		Text:      strings.Join(s.textParts, " "),
		Segments:  s.segments,
		Language:  language,
		Duration:  s.duration,
		Method:    MethodChunks,
		NumChunks: numChunks,
	}
}
