// Package bindings is the raw boundary to the Docstone native engine.
//
// It owns four concerns and nothing else: resolving and loading the shared
// library (resolve.go, bindings.go), pinning Go memory for native access
// (pool.go), copying and freeing native-owned results (memory.go,
// extract.go), and hosting the C-callable trampolines that let the engine
// invoke managed callbacks mid-extraction (callbacks.go).
//
// Everything returned to callers is Go-owned; no native pointer escapes this
// package. Typed errors, the object model, and the public API live in
// pkg/docstone.
package bindings
