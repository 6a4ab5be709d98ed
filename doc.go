// Package scriptruntime is an embeddable register VM for host-defined
// operations.
//
// Scripts are not parsed here. A builder declares typed slots, binds named
// operations from a module against those slots, and hands the resulting code
// block to an execution context that runs it as a flat instruction list with
// relative jumps.
//
// # Architecture Overview
//
//	scriptruntime/       Root package with the Allocator contract
//	├── value/           Type identities, holders and typed casts
//	├── memory/          Slot packing and the GC-safe heap allocator
//	├── vm/              Places, data/memory/code blocks, execution context, jump tables
//	├── bind/            Function definitions, accessors and the overload module
//	├── wasmfunc/        WebAssembly exports bound as operations (wazero)
//	└── errors/          Structured error types
//
// # Quick Start
//
//	mod := bind.NewModule("core").
//	    Def("+=", bind.Proc2(func(a, b *int64) { *a += *b }))
//
//	code := vm.NewCodeBlock()
//	step := vm.AddPlaceValue(&code.DataBlock, int64(10))
//	acc := code.AddPlaceType(value.TypeOf[int64]())
//
//	err := mod.Assemble(code,
//	    &bind.FunctionContext{Name: "+=", Return: vm.VoidPlace, Args: []vm.Place{acc, step}},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := vm.NewExecutionContext(nil)
//	defer ctx.Close()
//	if err := ctx.Run(code); err != nil {
//	    log.Fatal(err)
//	}
//	sum, _ := value.Get[int64](ctx.Get(acc)) // 10
//
// # Thread Safety
//
// Modules are safe for concurrent use. A code block and an execution context
// belong to one goroutine at a time: binding registers caches on the block,
// and running refreshes them.
package scriptruntime
