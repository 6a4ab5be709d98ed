package vm

import (
	"fmt"

	"github.com/wippyai/script-runtime/value"
)

// Function is one executable instruction.
type Function interface {
	Execute(ctx *ExecutionContext) error
}

// FunctionFunc adapts a plain function to Function.
type FunctionFunc func(ctx *ExecutionContext) error

func (f FunctionFunc) Execute(ctx *ExecutionContext) error {
	return f(ctx)
}

// CacheEntry receives the current holder of a place whenever the context
// refreshes the caches of a code block.
type CacheEntry interface {
	Refresh(h value.Holder)
}

// CodeBlock is an instruction list together with its Local slot
// declarations. Module, when set, holds the Module space declarations and
// may be shared by many code blocks.
type CodeBlock struct {
	DataBlock
	Operations []Function
	Module     *DataBlock

	caches   [spaceCount][][]CacheEntry
	cacheLog []Place // registration order, for TruncateCaches
}

// NewCodeBlock creates an empty code block.
func NewCodeBlock() *CodeBlock {
	return &CodeBlock{DataBlock: DataBlock{space: Local}}
}

// Append adds instructions at the end.
func (c *CodeBlock) Append(fns ...Function) {
	c.Operations = append(c.Operations, fns...)
}

// Data returns the declarations of space, or nil.
func (c *CodeBlock) Data(space PlaceType) *DataBlock {
	switch space {
	case Local:
		return &c.DataBlock
	case Module:
		return c.Module
	default:
		return nil
	}
}

// PlaceType returns the declared type of p. It reports false for Void and
// for places that are not declared.
func (c *CodeBlock) PlaceType(p Place) (*value.TypeID, bool) {
	d := c.Data(p.Space)
	if d == nil || p.Index < 0 || p.Index >= d.Len() {
		return nil, false
	}
	return d.TypeOf(p.Index), true
}

// RegisterCache subscribes e to the holder of p. Entries are refreshed on
// every memory rebuild and after a holder is replaced.
func (c *CodeBlock) RegisterCache(p Place, e CacheEntry) {
	if p.Space == Void {
		panic("vm: cache registered for void place")
	}
	caches := c.caches[p.Space]
	if p.Index >= len(caches) {
		caches = append(caches, make([][]CacheEntry, p.Index+1-len(caches))...)
	}
	caches[p.Index] = append(caches[p.Index], e)
	c.caches[p.Space] = caches
	c.cacheLog = append(c.cacheLog, p)
}

// CacheMark returns the number of cache entries registered so far. Pass it
// to TruncateCaches to drop everything registered after it.
func (c *CodeBlock) CacheMark() int {
	return len(c.cacheLog)
}

// TruncateCaches unregisters, newest first, every cache entry registered
// after mark.
func (c *CodeBlock) TruncateCaches(mark int) {
	if mark < 0 || mark > len(c.cacheLog) {
		panic(fmt.Sprintf("vm: cache mark %d out of range [0, %d]", mark, len(c.cacheLog)))
	}
	for i := len(c.cacheLog) - 1; i >= mark; i-- {
		p := c.cacheLog[i]
		entries := c.caches[p.Space][p.Index]
		entries[len(entries)-1] = nil
		c.caches[p.Space][p.Index] = entries[:len(entries)-1]
	}
	c.cacheLog = c.cacheLog[:mark]
}

// CacheCount returns the number of cache entries registered for space.
func (c *CodeBlock) CacheCount(space PlaceType) int {
	if space == Void {
		return 0
	}
	n := 0
	for _, entries := range c.caches[space] {
		n += len(entries)
	}
	return n
}
