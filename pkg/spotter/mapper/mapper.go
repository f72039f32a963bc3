package mapper

import (
	"fmt"

	"github.com/cognicore/spotter/pkg/spotter/internalerr"
)

// Mapper expands a spot into alternate surface forms. Implementations never
// fail: input they do not recognise yields no variants.
type Mapper interface {
	Name() string
	Map(spot string) []string
}

// Func adapts a plain expansion function to the Mapper interface.
type Func struct {
	name string
	fn   func(string) []string
}

// New wraps fn as a named Mapper.
func New(name string, fn func(string) []string) Func {
	return Func{name: name, fn: fn}
}

func (f Func) Name() string { return f.name }

func (f Func) Map(spot string) []string { return f.fn(spot) }

// Chain is an ordered list of mappers.
type Chain []Mapper

// Default returns the standard chain: City, Quotes.
func Default() Chain {
	return Chain{City(), Quotes()}
}

// Names lists mapper names in chain order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, m := range c {
		names[i] = m.Name()
	}
	return names
}

var registry = map[string]func() Mapper{
	"city":   City,
	"quotes": Quotes,
}

// Lookup builds a chain from registered mapper names, keeping their order.
func Lookup(names ...string) (Chain, error) {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		ctor, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown mapper %q: %w", name, internalerr.ErrInvalidConfig)
		}
		chain = append(chain, ctor())
	}
	return chain, nil
}
