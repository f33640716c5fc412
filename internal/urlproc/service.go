package urlproc

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Service struct {
	repo         Repository
	redirectHost string
	logger       *zap.Logger
}

func NewService(repo Repository, redirectHost string, logger *zap.Logger) *Service {
	if redirectHost == "" {
		redirectHost = DefaultRedirectHost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, redirectHost: redirectHost, logger: logger}
}

// Process cleans up req.URL and logs the result. A failure to write the log
// does not fail the request.
func (s *Service) Process(ctx context.Context, req Request, clientIP, userAgent string) (Response, error) {
	processed, err := Process(req.URL, Operation(req.Operation), s.redirectHost)
	if err != nil {
		return Response{}, err
	}

	entry := LogEntry{
		OriginalURL:  req.URL,
		ProcessedURL: processed,
		Operation:    req.Operation,
		IPAddress:    clientIP,
		UserAgent:    userAgent,
	}
	if err := s.repo.Record(ctx, &entry); err != nil {
		s.logger.Warn("failed to log URL processing", zap.String("operation", req.Operation), zap.Error(err))
	}

	return Response{
		Success:      true,
		ProcessedURL: processed,
		Original:     req.URL,
		Operation:    req.Operation,
		LogID:        entry.ID,
	}, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("url stats: %w", err)
	}
	if st.ByOperation == nil {
		st.ByOperation = map[string]int64{}
	}
	return st, nil
}
