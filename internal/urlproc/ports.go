package urlproc

import "context"

// Repository persists the processing log.
type Repository interface {
	Record(ctx context.Context, e *LogEntry) error
	Stats(ctx context.Context) (Stats, error)
}
