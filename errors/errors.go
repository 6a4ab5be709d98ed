package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the script lifecycle the error occurred
type Phase string

const (
	PhaseDeclare Phase = "declare" // slot declaration
	PhaseBind    Phase = "bind"    // operation binding
	PhaseExecute Phase = "execute" // instruction execution
	PhaseCast    Phase = "cast"    // typed access to an erased holder
	PhaseLoad    Phase = "load"    // foreign module loading
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch   Kind = "type_mismatch"
	KindInvalidCast    Kind = "invalid_cast"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindNotFound       Kind = "not_found"
	KindNoOverload     Kind = "no_overload"
	KindArity          Kind = "arity"
	KindJumpTable      Kind = "jump_table"
	KindInvalidInput   Kind = "invalid_input"
	KindNotInitialized Kind = "not_initialized"
	KindUnsupported    Kind = "unsupported"
	KindInvalidData    Kind = "invalid_data"
	KindTrap           Kind = "trap"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Op       string
	Place    string
	GoType   string
	SlotType string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Place != "" {
		b.WriteString(" at ")
		b.WriteString(e.Place)
	}

	if e.GoType != "" || e.SlotType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.SlotType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", slot type ")
			b.WriteString(e.SlotType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("slot type ")
			b.WriteString(e.SlotType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.SlotType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(name string) *Builder {
	b.err.Op = name
	return b
}

// Place sets the slot address
func (b *Builder) Place(place string) *Builder {
	b.err.Place = place
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// SlotType sets the declared slot type name
func (b *Builder) SlotType(t string) *Builder {
	b.err.SlotType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error for a slot
func TypeMismatch(phase Phase, place, goType, slotType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Place:    place,
		GoType:   goType,
		SlotType: slotType,
	}
}

// InvalidCast creates an error for reading a holder as a foreign type
func InvalidCast(from, to string) *Error {
	return &Error{
		Phase:    PhaseCast,
		Kind:     KindInvalidCast,
		GoType:   to,
		SlotType: from,
		Detail:   fmt.Sprintf("cannot access %s as %s", from, to),
	}
}

// NoOverload creates an error for an operation without a matching definition
func NoOverload(op string, argTypes []string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindNoOverload,
		Op:     op,
		Detail: fmt.Sprintf("no matching operation for (%s)", strings.Join(argTypes, ", ")),
		Value:  argTypes,
	}
}

// Arity creates an argument count error
func Arity(phase Phase, op string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArity,
		Op:     op,
		Detail: fmt.Sprintf("got %d arguments, want %d", got, want),
		Value:  got,
	}
}

// JumpTable creates an error for a jump offset list of the wrong size
func JumpTable(resultType string, got, want int) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindJumpTable,
		GoType: resultType,
		Detail: fmt.Sprintf("%d jump offsets for %d outcomes", got, want),
		Value:  got,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, place string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Place:  place,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Op:     name,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Load creates a foreign module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Trap wraps a failure raised inside a foreign function
func Trap(op string, cause error) *Error {
	return &Error{
		Phase: PhaseExecute,
		Kind:  KindTrap,
		Op:    op,
		Cause: cause,
	}
}

// Unresolved describes one bind request that produced no instruction
type Unresolved struct {
	Cause error
	Op    string
	Index int // position of the request in the assembled sequence
}

// UnresolvedError is returned when assembling a code block leaves operations unbound
type UnresolvedError struct {
	Requests []Unresolved
}

// NewUnresolvedError creates an error from the failed requests
func NewUnresolvedError(requests []Unresolved) *UnresolvedError {
	return &UnresolvedError{Requests: requests}
}

func (e *UnresolvedError) Error() string {
	if len(e.Requests) == 0 {
		return "[bind] no_overload: no requests specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("unresolved %d operation(s):\n", len(e.Requests)))

	// Group by operation for cleaner output
	byOp := make(map[string][]Unresolved)
	var opOrder []string
	for _, r := range e.Requests {
		if _, exists := byOp[r.Op]; !exists {
			opOrder = append(opOrder, r.Op)
		}
		byOp[r.Op] = append(byOp[r.Op], r)
	}

	for _, op := range opOrder {
		b.WriteString("\n  ")
		b.WriteString(op)
		b.WriteString(":\n")
		for _, r := range byOp[op] {
			b.WriteString(fmt.Sprintf("    - #%d", r.Index))
			if r.Cause != nil {
				b.WriteString(" ")
				b.WriteString(r.Cause.Error())
			}
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Unwrap returns the individual causes
func (e *UnresolvedError) Unwrap() []error {
	causes := make([]error, 0, len(e.Requests))
	for _, r := range e.Requests {
		if r.Cause != nil {
			causes = append(causes, r.Cause)
		}
	}
	return causes
}

// Is reports whether target matches this error type
func (e *UnresolvedError) Is(target error) bool {
	_, ok := target.(*UnresolvedError)
	return ok
}
