package vm

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	scriptruntime "github.com/wippyai/script-runtime"
	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/memory"
	"github.com/wippyai/script-runtime/value"
)

// ExecutionContext runs code blocks. It owns the memory of the Local and
// Module spaces and the instruction cursor. A context is not safe for
// concurrent use.
type ExecutionContext struct {
	alloc  scriptruntime.Allocator
	logger *zap.Logger

	code         *CodeBlock
	localVersion int

	moduleData    *DataBlock
	moduleVersion int

	memory [spaceCount]*MemoryBlock
	places [spaceCount][]value.Holder
	dirty  bool

	pc   int
	next int
}

// NewExecutionContext creates a context. cfg may be nil.
func NewExecutionContext(cfg *Config) *ExecutionContext {
	x := &ExecutionContext{next: 1}
	if cfg != nil {
		x.alloc = cfg.Allocator
		x.logger = cfg.Logger
	}
	if x.alloc == nil {
		x.alloc = memory.NewHeap()
	}
	if x.logger == nil {
		x.logger = Logger()
	}
	return x
}

// Prepare binds code and builds fresh Local memory for it. Module memory is
// rebuilt only when the block's Module declarations differ from the ones
// already built. Caches of code are refreshed.
func (x *ExecutionContext) Prepare(code *CodeBlock) error {
	var err error
	err = multierr.Append(err, x.release(Local))
	x.build(Local, &code.DataBlock)
	x.localVersion = code.DataBlock.Version()

	if code.Module != x.moduleData || (code.Module != nil && code.Module.Version() != x.moduleVersion) {
		err = multierr.Append(err, x.release(Module))
		x.moduleData = code.Module
		if code.Module != nil {
			x.build(Module, code.Module)
			x.moduleVersion = code.Module.Version()
		}
	}

	x.code = code
	x.RefreshCache(Local, Module)

	x.logger.Debug("code block prepared",
		zap.Int("operations", len(code.Operations)),
		zap.Int("local_slots", code.Len()),
		zap.Uintptr("local_size", code.Layout().Size),
		zap.Int("cached_places", code.CacheCount(Local)+code.CacheCount(Module)))
	return err
}

// Run executes code from its first instruction. Memory is built when code is
// not the block already bound or its declarations changed; otherwise the
// current slot contents are reused.
func (x *ExecutionContext) Run(code *CodeBlock) error {
	if x.stale(code) {
		if err := x.Prepare(code); err != nil {
			return err
		}
	}
	return x.Rerun()
}

// Rerun executes the bound block again without rebuilding memory.
func (x *ExecutionContext) Rerun() error {
	if x.code == nil {
		return errors.NotInitialized(errors.PhaseExecute, "code block")
	}
	if x.dirty {
		x.RefreshCache(Local, Module)
	}

	ops := x.code.Operations
	for x.pc = 0; x.pc < len(ops); x.pc += x.next {
		if x.pc < 0 {
			panic(fmt.Sprintf("vm: jump to %d before the first instruction", x.pc))
		}
		x.next = 1
		if err := ops[x.pc].Execute(x); err != nil {
			return err
		}
	}
	return nil
}

// Jump sets the offset applied after the current instruction, relative to
// it. Only the last call within one instruction counts.
func (x *ExecutionContext) Jump(offset int) {
	x.next = offset
}

// PC returns the index of the instruction being executed.
func (x *ExecutionContext) PC() int {
	return x.pc
}

// Code returns the bound block, or nil.
func (x *ExecutionContext) Code() *CodeBlock {
	return x.code
}

// Get returns the holder at p. It panics for Void and for places outside the
// built memory.
func (x *ExecutionContext) Get(p Place) value.Holder {
	if p.Space >= Void {
		panic("vm: get of " + p.String())
	}
	places := x.places[p.Space]
	if p.Index < 0 || p.Index >= len(places) {
		panic(fmt.Sprintf("vm: %s out of range [0, %d)", p, len(places)))
	}
	return places[p.Index]
}

// Set replaces the holder at p with h, which stays owned by the caller. h
// must hold the declared value type of the slot. Caches are refreshed before
// the next run.
func (x *ExecutionContext) Set(p Place, h value.Holder) error {
	if x.code == nil {
		return errors.NotInitialized(errors.PhaseExecute, "code block")
	}
	want, ok := x.code.PlaceType(p)
	if !ok || p.Index >= len(x.places[p.Space]) {
		return errors.OutOfBounds(errors.PhaseExecute, p.String(), p.Index, x.spaceLen(p.Space))
	}
	var got *value.TypeID
	if h != nil {
		got = h.TypeID()
	}
	if got == nil || got.Base() != want.Base() {
		return errors.New(errors.PhaseExecute, errors.KindInvalidCast).
			Op("set").
			Place(p.String()).
			SlotType(want.Name()).
			GoType(got.Name()).
			Build()
	}
	x.places[p.Space][p.Index] = h
	x.dirty = true
	return nil
}

// RefreshCache hands the current holders of spaces from..to to every cache
// entry the bound block registered for them.
func (x *ExecutionContext) RefreshCache(from, to PlaceType) {
	if x.code == nil {
		return
	}
	for space := from; space <= to && space < Void; space++ {
		places := x.places[space]
		for i, entries := range x.code.caches[space] {
			if len(entries) == 0 {
				continue
			}
			if i >= len(places) {
				panic(fmt.Sprintf("vm: cache registered for %s beyond built memory", Place{Space: space, Index: i}))
			}
			for _, e := range entries {
				e.Refresh(places[i])
			}
		}
	}
	x.dirty = false
}

// Close releases all memory. The context can be reused by a later Run.
func (x *ExecutionContext) Close() error {
	err := multierr.Combine(x.release(Local), x.release(Module))
	x.code = nil
	x.moduleData = nil
	return err
}

func (x *ExecutionContext) stale(code *CodeBlock) bool {
	if code != x.code || code.DataBlock.Version() != x.localVersion || code.Module != x.moduleData {
		return true
	}
	return code.Module != nil && code.Module.Version() != x.moduleVersion
}

func (x *ExecutionContext) build(space PlaceType, data *DataBlock) {
	m := NewMemoryBlock(x.alloc, data)
	x.memory[space] = m
	x.places[space] = append([]value.Holder(nil), m.holders...)
}

func (x *ExecutionContext) release(space PlaceType) error {
	m := x.memory[space]
	if m == nil {
		return nil
	}
	x.memory[space] = nil
	x.places[space] = nil
	return m.Close()
}

func (x *ExecutionContext) spaceLen(space PlaceType) int {
	if space >= Void {
		return 0
	}
	return len(x.places[space])
}
