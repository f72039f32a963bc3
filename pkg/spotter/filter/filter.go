package filter

import (
	"fmt"

	"github.com/cognicore/spotter/pkg/spotter/internalerr"
)

// Filter decides whether a cleaned spot is garbage and should be dropped.
// Filters see the space-joined token text, never the raw input.
type Filter interface {
	Name() string
	IsGarbage(spot string) bool
}

// Func adapts a plain predicate to the Filter interface.
type Func struct {
	name string
	fn   func(string) bool
}

// New wraps fn as a named Filter.
func New(name string, fn func(string) bool) Func {
	return Func{name: name, fn: fn}
}

func (f Func) Name() string { return f.name }

func (f Func) IsGarbage(spot string) bool { return f.fn(spot) }

// Chain is an ordered list of filters. Order is part of the contract: it is
// the order in which verdicts are evaluated and reported.
type Chain []Filter

// Default returns the standard chain: Number, Symbol, Template, Image.
func Default() Chain {
	return Chain{Number(), Symbol(), Template(), Image()}
}

// Reject returns the first filter that marks spot as garbage.
func (c Chain) Reject(spot string) (Filter, bool) {
	for _, f := range c {
		if f.IsGarbage(spot) {
			return f, true
		}
	}
	return nil, false
}

// Names lists filter names in chain order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, f := range c {
		names[i] = f.Name()
	}
	return names
}

var registry = map[string]func() Filter{
	"number":   Number,
	"symbol":   Symbol,
	"template": Template,
	"image":    Image,
}

// Lookup builds a chain from registered filter names, keeping their order.
func Lookup(names ...string) (Chain, error) {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		ctor, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown filter %q: %w", name, internalerr.ErrInvalidConfig)
		}
		chain = append(chain, ctor())
	}
	return chain, nil
}
