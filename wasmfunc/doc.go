// Package wasmfunc exposes functions exported by a core WebAssembly module
// as bindable operations.
//
// A library is compiled and instantiated with wazero. Each export with
// numeric parameters and at most one result becomes a bind.FunctionDef over
// int32, int64, float32 and float64 slots:
//
//	lib, err := wasmfunc.Load(ctx, wasmBytes, nil)
//	if err != nil {
//		return err
//	}
//	defer lib.Close(ctx)
//
//	m := bind.NewModule("wasm")
//	if err := lib.Define(m, "add", "mul"); err != nil {
//		return err
//	}
//
// Calls reuse a stack buffer owned by the bound instruction, so one
// execution context never allocates per call.
package wasmfunc
