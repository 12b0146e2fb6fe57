package transcribe

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reSpaces = regexp.MustCompile(`\s+`)
	reDots   = regexp.MustCompile(`\.{4,}`)
)

// minSegmentChars is the shortest trimmed segment text kept; anything
// shorter is recognition noise.
const minSegmentChars = 3

// postProcess cleans the transcript text and segments in place, then
// attaches quality metrics. Order matters: text normalization first,
// then segment filtering, then per-segment confidence.
func postProcess(res *Result) {
	res.Text = normalizeText(res.Text)

	kept := res.Segments[:0]
	for _, seg := range res.Segments {
		if len(strings.TrimSpace(seg.Text)) < minSegmentChars {
			continue
		}
		seg.Text = cleanSegmentText(seg.Text)
		seg.AvgConfidence = segmentConfidence(seg)
		kept = append(kept, seg)
	}
	res.Segments = kept

	m := computeMetrics(res)
	res.Metrics = &m
}

// normalizeText collapses whitespace runs, stutter-loop word repetitions
// (3+ consecutive identical words become one) and 4+ periods to an
// ellipsis.
func normalizeText(text string) string {
	text = reSpaces.ReplaceAllString(text, " ")
	text = collapseRepeats(text)
	text = reDots.ReplaceAllString(text, "...")
	return strings.TrimSpace(text)
}

func collapseRepeats(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))

	for i := 0; i < len(words); {
		j := i
		for j < len(words) && words[j] == words[i] {
			j++
		}
		if run := j - i; run >= 3 {
			out = append(out, words[i])
		} else {
			for k := 0; k < run; k++ {
				out = append(out, words[i])
			}
		}
		i = j
	}

	return strings.Join(out, " ")
}

// cleanSegmentText tidies one segment: single spaces, leading capital,
// terminal punctuation.
func cleanSegmentText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return text
	}

	r, size := utf8.DecodeRuneInString(text)
	if unicode.IsLower(r) {
		text = string(unicode.ToUpper(r)) + text[size:]
	}

	last, _ := utf8.DecodeLastRuneInString(text)
	if last != '.' && last != '!' && last != '?' {
		text += "."
	}

	return text
}

// segmentConfidence is the mean word confidence, defaulting to 1.0 when
// the backend returned no word-level data.
func segmentConfidence(seg Segment) float64 {
	if len(seg.Words) == 0 {
		return 1.0
	}
	var sum float64
	for _, w := range seg.Words {
		sum += w.Confidence
	}
	return sum / float64(len(seg.Words))
}
