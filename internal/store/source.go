package store

import (
	"context"
	"fmt"
)

// Source serves a stored dataset through the loader interface, so the viewer
// can boot from the database the same way it boots from a file or URL.
type Source struct {
	Store   *Store
	Dataset string
}

func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	return s.Store.RawDocument(ctx, s.Dataset)
}

func (s *Source) Name() string {
	return fmt.Sprintf("store:%s", s.Dataset)
}
