package testfixtures

import (
	"fmt"
	"sync"
)

// TokenGenerator produces deterministic identifiers for tests that need to
// observe the exact session ids and tokens a service would issue.
type TokenGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
}

// NewTokenGenerator constructs a generator that yields identifiers with the
// given prefix. When prefix is empty, "token" is used.
func NewTokenGenerator(prefix string) *TokenGenerator {
	if prefix == "" {
		prefix = "token"
	}
	return &TokenGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *TokenGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%03d", g.prefix, g.counter)
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *TokenGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}
