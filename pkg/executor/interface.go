package executor

import "context"

// Executor runs external commands (ffmpeg, ffprobe, whisper-cli) and returns
// their stdout. Implementations must respect context cancellation.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}
