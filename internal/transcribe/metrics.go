package transcribe

import "strings"

// lowConfidenceCutoff marks a segment as low confidence.
const lowConfidenceCutoff = 0.8

// computeMetrics derives aggregate quality figures from a cleaned Result.
//
// SilenceRatio is deliberately not clamped: when padded chunk boundaries
// produce overlapping segments the speech duration can exceed the total and
// the ratio goes slightly negative. Callers treat it as a raw signal.
func computeMetrics(res *Result) Metrics {
	m := Metrics{
		TotalSegments: len(res.Segments),
		TotalWords:    len(strings.Fields(res.Text)),
	}

	if len(res.Segments) == 0 {
		return m
	}

	var confSum, speech float64
	for _, seg := range res.Segments {
		confSum += seg.AvgConfidence
		if seg.AvgConfidence < lowConfidenceCutoff {
			m.LowConfidenceSegments++
		}
		speech += seg.Duration()
	}
	m.AvgSegmentConfidence = confSum / float64(len(res.Segments))

	if res.Duration > 0 {
		m.SilenceRatio = 1 - speech/res.Duration
	}

	return m
}

// qualityScore folds metrics into the composite used by model fallback:
// confidence dominates, silence and low-confidence fraction correct it.
func qualityScore(m Metrics) float64 {
	total := m.TotalSegments
	if total < 1 {
		total = 1
	}
	lowFrac := float64(m.LowConfidenceSegments) / float64(total)
	return 0.5*m.AvgSegmentConfidence + 0.3*(1-m.SilenceRatio) + 0.2*(1-lowFrac)
}
