package rangecheck

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolvable is returned when a name leads to neither a literal nor
	// a recognized parameter.
	ErrUnresolvable = errors.New("unresolvable dependency")

	// ErrCycle is returned when a dependency chain does not terminate. It
	// wraps ErrUnresolvable.
	ErrCycle = fmt.Errorf("%w: dependency cycle", ErrUnresolvable)
)

// UnresolvableError describes a failed resolution.
type UnresolvableError struct {
	// Name is the variable resolution started from.
	Name string
	// Chain lists the names visited, Chain[0] == Name.
	Chain []string
	Err   error
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("resolve %s: %v (%s)", e.Name, e.Err, strings.Join(e.Chain, " -> "))
}

func (e *UnresolvableError) Unwrap() error {
	return e.Err
}

// Resolve follows the dependency chain starting at name until it reaches a
// concrete range. Locals shadow parameters, opaque ones included. The number of hops is bounded by
// the size of the local table so self-referencing chains terminate.
func Resolve(name string, locals Locals, params Params) (Range, error) {
	current := name
	chain := []string{name}
	maxHops := len(locals) + 1

	for hops := 0; hops <= maxHops; hops++ {
		if b, ok := locals[current]; ok {
			if b.Unknown {
				return Range{}, &UnresolvableError{Name: name, Chain: chain, Err: ErrUnresolvable}
			}
			if !b.IsDependency() {
				return b.Range, nil
			}
			current = b.Dependency
			chain = append(chain, current)
			continue
		}
		if r, ok := params[current]; ok {
			return r, nil
		}
		return Range{}, &UnresolvableError{Name: name, Chain: chain, Err: ErrUnresolvable}
	}

	return Range{}, &UnresolvableError{Name: name, Chain: chain, Err: ErrCycle}
}

// Resolve resolves name against both tables of t.
func (t Tables) Resolve(name string) (Range, error) {
	return Resolve(name, t.Locals, t.Params)
}
