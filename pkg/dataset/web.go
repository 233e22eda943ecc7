package dataset

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"context"

	"golang.org/x/sync/singleflight"
)

// WebSource fetches the artifact over HTTP. Concurrent fetches of the same URL
// are collapsed via singleflight and the result is cached for the lifetime of
// the source, so repeated loads do not re-download the artifact.
type WebSource struct {
	URL    string
	Client *http.Client

	cache   []byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewWebSource creates a web source using the default HTTP client.
func NewWebSource(url string) *WebSource {
	return &WebSource{URL: url}
}

func (s *WebSource) Name() string {
	return s.URL
}

func (s *WebSource) Fetch(ctx context.Context) ([]byte, error) {
	s.cacheMu.RLock()
	if s.cache != nil {
		cached := s.cache
		s.cacheMu.RUnlock()
		return cached, nil
	}
	s.cacheMu.RUnlock()

	result, err, _ := s.group.Do(s.URL, func() (any, error) {
		s.cacheMu.RLock()
		if s.cache != nil {
			cached := s.cache
			s.cacheMu.RUnlock()
			return cached, nil
		}
		s.cacheMu.RUnlock()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		client := s.Client
		if client == nil {
			client = http.DefaultClient
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch url: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		s.cacheMu.Lock()
		s.cache = data
		s.cacheMu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
