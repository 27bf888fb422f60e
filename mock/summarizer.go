package mock

import (
	"context"

	"github.com/fwojciec/minerva"
)

// Interface compliance check.
var _ minerva.Summarizer = (*Summarizer)(nil)

// Summarizer is a test double for minerva.Summarizer.
// Set SummarizeFn before calling Summarize.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, text string) (string, error)
}

// Summarize delegates to SummarizeFn.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.SummarizeFn(ctx, text)
}
