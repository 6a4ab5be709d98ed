package bind

import (
	"strings"

	"github.com/wippyai/script-runtime/vm"
)

// FunctionOptions selects the executable shape of a bound operation.
type FunctionOptions uint8

const (
	Default FunctionOptions = 0
	Cache   FunctionOptions = 1 << 0 // read places through bind-time caches
	Jump    FunctionOptions = 1 << 1 // feed the result into a jump table
)

// Has reports whether every flag in f is set.
func (o FunctionOptions) Has(f FunctionOptions) bool {
	return o&f == f
}

func (o FunctionOptions) String() string {
	if o == Default {
		return "default"
	}
	var parts []string
	if o.Has(Cache) {
		parts = append(parts, "cache")
	}
	if o.Has(Jump) {
		parts = append(parts, "jump")
	}
	return strings.Join(parts, "|")
}

// FunctionContext is one bind request: which operation, against which
// places of which code block.
type FunctionContext struct {
	Name    string
	Options FunctionOptions
	Return  vm.Place
	Args    []vm.Place
	Jumps   []int
	Code    *vm.CodeBlock
}
