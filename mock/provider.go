// Package mock provides test doubles for minerva interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/fwojciec/minerva"
)

// Interface compliance check.
var _ minerva.Provider = (*Provider)(nil)

// Provider is a test double for minerva.Provider.
// Set StreamFn before calling Stream.
type Provider struct {
	StreamFn func(ctx context.Context, req minerva.Request) (minerva.ChunkStream, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req minerva.Request) (minerva.ChunkStream, error) {
	return p.StreamFn(ctx, req)
}
