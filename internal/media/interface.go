package media

import "context"

// Info describes a probed media file.
type Info struct {
	Path       string
	Format     string
	Codec      string
	Duration   float64 // seconds
	SampleRate int
	Channels   int
	Size       int64 // bytes
}

// Normalizer converts arbitrary audio/video input into the canonical
// mono 16kHz PCM WAV the recognition backend expects.
type Normalizer interface {
	// Normalize returns a path to a canonical WAV. When the input already
	// satisfies the target format the input path is returned unchanged;
	// otherwise a converted copy is written under the temp work dir and
	// the caller owns its cleanup.
	Normalize(ctx context.Context, path string) (string, error)

	// Probe returns stream information for the file.
	Probe(ctx context.Context, path string) (Info, error)
}
