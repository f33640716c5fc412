package urlproc

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.Mutex
	entries []LogEntry
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryRepo) Record(_ context.Context, e *LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = int64(len(r.entries) + 1)
	e.CreatedAt = r.now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *MemoryRepo) Stats(_ context.Context) (Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Stats{TotalRequests: int64(len(r.entries)), ByOperation: map[string]int64{}}
	for _, e := range r.entries {
		st.ByOperation[e.Operation]++
	}
	return st, nil
}
