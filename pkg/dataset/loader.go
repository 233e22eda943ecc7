package dataset

import (
	"context"
	"fmt"

	"github.com/semspace/semspace/pkg/logger"
)

// Source retrieves the raw bytes of a dataset artifact.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// LoadError reports an unreachable or malformed input artifact. It is fatal to
// startup: callers surface it instead of entering an indefinite loading state.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("dataset: loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load fetches the artifact from the source and parses it. Any transport or
// schema failure is returned as a *LoadError wrapping the cause.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}

	d, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}

	logger.Info("[Dataset] Loaded", "source", src.Name(), "words", len(d.Nodes))
	return d, nil
}
