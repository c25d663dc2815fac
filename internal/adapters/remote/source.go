// Package remote fetches candidate pools from another CrewMatch instance.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
)

const (
	defaultTimeout = 5 * time.Second
	matchesPath    = "/api/matches"
	maxBodyBytes   = 1 << 20
)

// HTTPSource implements matching.CandidateSource over GET /api/matches.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource creates a source for the instance at baseURL.
func NewHTTPSource(baseURL string, opts ...Option) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}

	s := &HTTPSource{
		base:   u,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Candidates returns the remote instance's ranked candidates, both pages
// concatenated in rank order.
func (s *HTTPSource) Candidates(ctx context.Context, email string) ([]model.Profile, error) {
	u := *s.base
	u.Path += matchesPath
	u.RawQuery = url.Values{"email": []string{email}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var page types.MatchPage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	out := make([]model.Profile, 0, page.Total())
	for _, r := range page.Top {
		out = append(out, r.Candidate)
	}
	for _, r := range page.Remainder {
		out = append(out, r.Candidate)
	}
	return out, nil
}
