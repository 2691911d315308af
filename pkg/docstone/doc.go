// Package docstone is the Go client for the Docstone document-extraction
// engine, reached through its C ABI.
//
// The package exposes synchronous and context-aware extraction entry points
// for files, in-memory documents, and batches, plus the typed result and
// configuration model exchanged with the engine as JSON. Custom OCR
// backends, post-processors, and validators registered here are invoked by
// the engine mid-extraction; registrations are held managed-side and synced
// to the engine lazily, so they work before the native library loads.
//
// The native library is resolved on first use, with the DOCSTONE_LIBRARY_PATH
// environment variable as an explicit override. All errors implement
// DocstoneError and can be narrowed with errors.As.
package docstone
