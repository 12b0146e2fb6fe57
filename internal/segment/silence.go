package segment

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// windowDur is the RMS analysis window. 20ms is short enough to catch
// pauses between words without reacting to single samples.
const windowDur = 0.02

// silenceRun is a span of audio whose RMS level stayed below the threshold.
type silenceRun struct {
	Start float64 // seconds
	End   float64
}

func (r silenceRun) length() float64 { return r.End - r.Start }

func (r silenceRun) mid() float64 { return (r.Start + r.End) / 2 }

// findSilences decodes the WAV and returns every silence run of at least
// minLen seconds below thresholdDB (dBFS).
func findSilences(path string, thresholdDB, minLen float64) ([]silenceRun, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", path)
	}

	sampleRate := int(dec.SampleRate)
	channels := int(dec.NumChans)
	if sampleRate == 0 || channels == 0 {
		return nil, fmt.Errorf("%s has no format information", path)
	}
	fullScale := float64(int(1) << (dec.BitDepth - 1))

	windowFrames := int(float64(sampleRate) * windowDur)
	if windowFrames < 1 {
		windowFrames = 1
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:   make([]int, windowFrames*channels),
	}

	var (
		runs    []silenceRun
		inRun   bool
		runFrom float64
		pos     float64
	)

	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("read wav samples: %w", err)
		}
		if n == 0 {
			break
		}

		frames := n / channels
		dur := float64(frames) / float64(sampleRate)
		silent := windowDB(buf.Data[:n], fullScale) < thresholdDB

		switch {
		case silent && !inRun:
			inRun = true
			runFrom = pos
		case !silent && inRun:
			inRun = false
			if pos-runFrom >= minLen {
				runs = append(runs, silenceRun{Start: runFrom, End: pos})
			}
		}
		pos += dur
	}

	if inRun && pos-runFrom >= minLen {
		runs = append(runs, silenceRun{Start: runFrom, End: pos})
	}

	return runs, nil
}

// windowDB computes the RMS level of one window in dBFS.
func windowDB(samples []int, fullScale float64) float64 {
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range samples {
		v := float64(s) / fullScale
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}
