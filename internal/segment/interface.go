package segment

import (
	"context"
	"fmt"
)

// Chunk is one bounded slice of the source audio, written to its own file.
// Chunks are ephemeral: the pipeline deletes them after recognition.
type Chunk struct {
	Index int
	Path  string
	Start float64 // offset into the source recording, seconds
	End   float64
}

// Duration returns the chunk length in seconds.
func (c Chunk) Duration() float64 {
	return c.End - c.Start
}

func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %.2fs-%.2fs", c.Index, c.Start, c.End)
}

// Segmenter splits a normalized WAV into chunks covering the whole input
// with no gaps, silence-delimited when possible and fixed-duration otherwise.
type Segmenter interface {
	// Split returns the ordered chunks. The caller owns cleanup of the
	// chunk files (see Cleanup).
	Split(ctx context.Context, wavPath string, totalDuration float64) ([]Chunk, error)

	// Cleanup removes chunk files, logging failures instead of returning them.
	Cleanup(ctx context.Context, chunks []Chunk)
}
