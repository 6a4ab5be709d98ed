package vm

import (
	"go.uber.org/zap"

	scriptruntime "github.com/wippyai/script-runtime"
)

// Config configures an ExecutionContext.
type Config struct {
	// Allocator backs slot memory. nil means a fresh memory.Heap.
	Allocator scriptruntime.Allocator

	// Logger receives debug events. nil means the package logger.
	Logger *zap.Logger
}
