package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable means the embedding backend is unreachable or erroring.
// Callers must propagate it; substituting a zero vector would poison
// similarity rankings.
var ErrUnavailable = errors.New("embedding provider unavailable")

type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
