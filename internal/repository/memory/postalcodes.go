// Package memory keeps the marketplace in process memory. It backs the
// service when no DATABASE_URL is configured, and the tests.
package memory

import (
	"context"
	"sync"

	"github.com/thomhuang/happycamper/internal/model"
	"github.com/thomhuang/happycamper/internal/postalcode"
)

type PostalCodes struct {
	mu    sync.RWMutex
	codes map[string]model.PostalCodeLocation
}

func NewPostalCodes(seed ...model.PostalCodeLocation) *PostalCodes {
	p := &PostalCodes{codes: make(map[string]model.PostalCodeLocation, len(seed))}
	for _, loc := range seed {
		p.codes[loc.Code] = loc
	}
	return p
}

func (p *PostalCodes) Get(_ context.Context, code string) (model.PostalCodeLocation, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	loc, ok := p.codes[code]
	if !ok {
		return model.PostalCodeLocation{}, postalcode.ErrNotFound
	}
	return loc, nil
}

// Save keeps the first location stored for a code.
func (p *PostalCodes) Save(_ context.Context, loc model.PostalCodeLocation) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.codes[loc.Code]; !ok {
		p.codes[loc.Code] = loc
	}
	return nil
}
