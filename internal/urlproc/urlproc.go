// Package urlproc cleans up URLs (canonical form, host redirection) and keeps
// a log of every processed request.
package urlproc

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Operation string

const (
	OpCanonical   Operation = "canonical"
	OpRedirection Operation = "redirection"
	OpAll         Operation = "all"
)

// DefaultRedirectHost is the host redirection cleanup rewrites to.
const DefaultRedirectHost = "www.byfood.com"

var (
	ErrInvalidURL       = errors.New("invalid URL format")
	ErrInvalidOperation = errors.New("invalid operation")
)

type Request struct {
	URL       string `json:"url" validate:"required,url"`
	Operation string `json:"operation" validate:"required,oneof=redirection canonical all"`
}

type Response struct {
	Success      bool   `json:"success"`
	ProcessedURL string `json:"processed_url"`
	Original     string `json:"original_url"`
	Operation    string `json:"operation"`
	LogID        int64  `json:"log_id,omitempty"`
}

// LogEntry records one processed URL.
type LogEntry struct {
	ID           int64     `json:"id"`
	OriginalURL  string    `json:"original_url"`
	ProcessedURL string    `json:"processed_url"`
	Operation    string    `json:"operation"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Stats struct {
	TotalRequests int64            `json:"total_requests"`
	ByOperation   map[string]int64 `json:"by_operation"`
}

// Process applies op to raw.
func Process(raw string, op Operation, redirectHost string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch op {
	case OpCanonical:
		return Canonical(u), nil
	case OpRedirection:
		return Redirect(u, redirectHost), nil
	case OpAll:
		canonical, err := url.Parse(Canonical(u))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
		return Redirect(canonical, redirectHost), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
}

// Canonical drops the query string and any trailing slash of the path.
func Canonical(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	c.ForceQuery = false
	c.Path = strings.TrimSuffix(c.Path, "/")
	c.RawPath = strings.TrimSuffix(c.RawPath, "/")
	return c.String()
}

// Redirect moves u to host and lowercases the result.
func Redirect(u *url.URL, host string) string {
	c := *u
	c.Host = host
	return strings.ToLower(c.String())
}
