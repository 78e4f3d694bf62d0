package llm

import "context"

// GenOptions tune a single generation call.
type GenOptions struct {
	Temperature     float32
	MaxOutputTokens int32
}

type Provider interface {
	// StreamAnswer returns a stream of text chunks (incremental).
	// Both channels are closed when the stream ends.
	StreamAnswer(ctx context.Context, prompt string, opts GenOptions) (chunks <-chan string, errs <-chan error)
	Close() error
}
