// Package mu is the evaluator core of a small dynamically-typed
// Lisp-family language: tagged values, a mark-sweep heap, an
// S-expression reader/writer, a compiler that lowers source forms to
// frame-ref closures, the apply/eval loop, a cooperative future
// primitive, and the namespace/symbol binding layer.
//
// The core is deliberately a single package: tagging dictates what the
// GC traces, the compiler emits frame-ref primitives the apply loop
// consumes, and the reader produces exactly the value graph the writer
// serializes back out. Splitting these across packages would mean
// passing the same handful of types back and forth across package
// boundaries for no benefit, so (mirroring how the teacher's own
// compiler backend lives in one package across many files) everything
// here lives in package mu, one file per concern.
package mu
