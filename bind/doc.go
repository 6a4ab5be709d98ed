// Package bind turns native Go functions into vm instructions.
//
// A FunctionDef describes one native function by the type identities of its
// parameters and result. Constructors cover the usual forms and normalize
// them to one fallible call over slot pointers:
//
//	bind.Proc2(func(a, b *big.Int) { a.Add(a, b) }) // updates a in place
//	bind.Func2((*big.Int).Cmp)                       // int result, three outcomes
//	bind.Pure2(vm.Compare[int64])                    // by-value arguments
//	bind.Try2(safeDiv)                               // errors end the run
//	bind.Const(int64(1))
//
// Definitions are grouped into overload sets in a Module:
//
//	mod := bind.NewModule("core").
//	    Def("+=", bind.Proc2(addBig), bind.Proc2(addInt64)).
//	    Def("<=>", bind.Func2((*big.Int).Cmp))
//
// Binding checks arity and slot types, then picks one of three shapes from
// the request: the result is discarded (Void return place), stored into the
// return place, or fed to a jump table (Jump option). The Cache option makes
// arguments resolve through pointers captured when the context refreshes the
// code block's caches instead of a lookup per access.
//
// Overloads are tried in registration order and the first that accepts the
// request wins.
package bind
