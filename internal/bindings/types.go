package bindings

import (
	"errors"
	"fmt"
)

// wireResult mirrors the DocstoneResult struct produced by the native engine.
// Every pointer field is native-owned until docstone_free_result runs; the Go
// side must copy before freeing. Field order matches the C declaration and
// must not be reordered.
type wireResult struct {
	content               uintptr
	mimeType              uintptr
	language              uintptr
	date                  uintptr
	subject               uintptr
	tablesJSON            uintptr
	detectedLanguagesJSON uintptr
	metadataJSON          uintptr
	chunksJSON            uintptr
	imagesJSON            uintptr
	pageStructureJSON     uintptr
	pagesJSON             uintptr
	elementsJSON          uintptr
	ocrElementsJSON       uintptr
	success               uint8
}

// wireBatchResult mirrors DocstoneBatchResult: a contiguous array of
// wireResult structs freed as a single unit.
type wireBatchResult struct {
	results uintptr
	count   uintptr
	success uint8
}

// wireBytesItem mirrors DocstoneBytesItem for batch byte extraction.
type wireBytesItem struct {
	data     uintptr
	dataLen  uintptr
	mimeType uintptr
}

// RawResult is the copied, engine-independent form of a wireResult. All
// strings and JSON blobs are Go-owned; the native struct has already been
// freed by the time a RawResult is returned.
type RawResult struct {
	Content               string
	MimeType              string
	Language              string
	Date                  string
	Subject               string
	TablesJSON            []byte
	DetectedLanguagesJSON []byte
	MetadataJSON          []byte
	ChunksJSON            []byte
	ImagesJSON            []byte
	PageStructureJSON     []byte
	PagesJSON             []byte
	ElementsJSON          []byte
	OCRElementsJSON       []byte
	Success               bool
}

// BytesItem pairs an in-memory document with its MIME type for batch calls.
type BytesItem struct {
	Data     []byte
	MimeType string
}

// CallbackKind identifies which of the three callback registries a
// registration belongs to.
type CallbackKind int

const (
	KindOCRBackend CallbackKind = iota
	KindPostProcessor
	KindValidator
)

func (k CallbackKind) String() string {
	switch k {
	case KindOCRBackend:
		return "ocr_backend"
	case KindPostProcessor:
		return "post_processor"
	case KindValidator:
		return "validator"
	default:
		return fmt.Sprintf("callback_kind(%d)", int(k))
	}
}

// NativeCallError reports that a native entry point signalled failure. The
// message is captured from docstone_last_error immediately after the failing
// call, before any other boundary traffic can overwrite it.
type NativeCallError struct {
	Message string
}

func (e *NativeCallError) Error() string {
	if e.Message == "" {
		return "docstone: native call failed"
	}
	return "docstone: " + e.Message
}

var (
	// ErrNotLoaded reports that a boundary operation ran before the native
	// library was resolved.
	ErrNotLoaded = errors.New("bindings: native library not loaded")

	// ErrNilPayload reports a rent of a nil or empty buffer.
	ErrNilPayload = errors.New("bindings: payload must not be nil or empty")
)
