package watcher

import "context"

// Watcher monitors a directory for new media files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one newly detected file.
type EventHandler func(ctx context.Context, filePath string) error
