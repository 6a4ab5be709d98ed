// Package vm implements the execution core: memory spaces, slot
// declarations, the memory built from them and the instruction loop.
//
// # Places and spaces
//
// A Place addresses one slot in a memory space. Local slots belong to one
// CodeBlock; Module slots are declared in a DataBlock that many code blocks
// may share; Void stands for a discarded result and has no storage.
//
// # Running
//
// An ExecutionContext builds a MemoryBlock for each space of the bound
// block and then walks the instruction list. Every instruction runs with the
// next offset reset to 1; an instruction that wants to branch calls Jump
// with an offset relative to itself:
//
//	ctx := vm.NewExecutionContext(nil)
//	if err := ctx.Prepare(code); err != nil { ... }
//	value.Set(ctx.Get(n), int64(50))
//	err := ctx.Rerun()
//
// Run(code) builds memory only for a block it has not bound yet, so hosts
// can seed slots once and call Run repeatedly. Errors returned by an
// instruction end the run and are returned unchanged.
//
// # Caches
//
// Instructions may subscribe to a place with CodeBlock.RegisterCache. The
// context hands each subscriber the current holder after memory is built and
// before a run that follows Set.
//
// # Jump tables
//
// A JumpTable maps an operation result to an offset: bool has two outcomes
// (true, false), int and Ordering have three (less, equal, greater), and
// Unconditional has one. Other types take part by implementing Outcome.
package vm
