package bindings

import "unsafe"

// maxCStringLen caps the null-terminator scan so a corrupt pointer cannot
// walk the whole address space.
const maxCStringLen = 1 << 26

// goString copies a null-terminated UTF-8 string out of native memory. It
// never takes ownership; pair it with the matching free entry point when the
// pointer is caller-freed.
func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	length := 0
	for length < maxCStringLen {
		if *(*byte)(unsafe.Pointer(ptr + uintptr(length))) == 0 {
			break
		}
		length++
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), length))
}

// goBlob is goString for JSON payloads, returning nil for a null pointer so
// callers can distinguish "absent" from "empty document".
func goBlob(ptr uintptr) []byte {
	if ptr == 0 {
		return nil
	}
	s := goString(ptr)
	if s == "" {
		return nil
	}
	return []byte(s)
}

// takeString copies a native-allocated string and frees it in one motion.
// This is the scoped-acquisition pattern for string-returning entry points:
// the native pointer never escapes this function, so no code path can leak
// or double-free it.
func takeString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	defer fnFreeString(ptr)
	return goString(ptr)
}

// cstr renders a Go string as a null-terminated byte buffer suitable for
// pinning and handing to the engine.
func cstr(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// addrOf returns the address of a slice's first byte. Callers must have
// pinned the slice (or otherwise guaranteed liveness) before the address
// crosses the boundary.
func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}

// copyResult deep-copies one wireResult into Go memory. The caller still
// owns the native struct and must free it afterwards.
func copyResult(ptr uintptr) *RawResult {
	w := (*wireResult)(unsafe.Pointer(ptr))
	return &RawResult{
		Content:               goString(w.content),
		MimeType:              goString(w.mimeType),
		Language:              goString(w.language),
		Date:                  goString(w.date),
		Subject:               goString(w.subject),
		TablesJSON:            goBlob(w.tablesJSON),
		DetectedLanguagesJSON: goBlob(w.detectedLanguagesJSON),
		MetadataJSON:          goBlob(w.metadataJSON),
		ChunksJSON:            goBlob(w.chunksJSON),
		ImagesJSON:            goBlob(w.imagesJSON),
		PageStructureJSON:     goBlob(w.pageStructureJSON),
		PagesJSON:             goBlob(w.pagesJSON),
		ElementsJSON:          goBlob(w.elementsJSON),
		OCRElementsJSON:       goBlob(w.ocrElementsJSON),
		Success:               w.success != 0,
	}
}

// copyBatch deep-copies a wireBatchResult's result array. The batch is freed
// as a unit by the caller after this returns.
func copyBatch(ptr uintptr) []*RawResult {
	b := (*wireBatchResult)(unsafe.Pointer(ptr))
	count := int(b.count)
	out := make([]*RawResult, 0, count)
	if count == 0 || b.results == 0 {
		return out
	}
	stride := unsafe.Sizeof(wireResult{})
	for i := 0; i < count; i++ {
		out = append(out, copyResult(b.results+uintptr(i)*stride))
	}
	return out
}
