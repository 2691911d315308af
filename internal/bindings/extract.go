package bindings

import (
	"runtime"
	"unsafe"
)

// nativeErr snapshots the engine's last-error message for the call that just
// failed. It must run before any other entry point is invoked on this thread.
func nativeErr() error {
	return &NativeCallError{Message: LastErrorMessage()}
}

// cstrBytes null-terminates a byte payload for char* parameters.
func cstrBytes(b []byte) []byte {
	out := make([]byte, len(b)+1)
	copy(out, b)
	return out
}

// ExtractFile runs a synchronous file extraction. configJSON may be nil to
// use engine defaults. The returned RawResult is fully Go-owned; the native
// result struct is freed before returning on every path.
func ExtractFile(path string, configJSON []byte) (*RawResult, error) {
	if err := Load(); err != nil {
		return nil, err
	}

	pathBuf, err := sharedPool.Rent(cstr(path))
	if err != nil {
		return nil, err
	}
	defer sharedPool.Return(pathBuf)

	var res uintptr
	if configJSON == nil {
		res = fnExtractFileSync(pathBuf.Addr())
	} else {
		cfgBuf, err := sharedPool.Rent(cstrBytes(configJSON))
		if err != nil {
			return nil, err
		}
		defer sharedPool.Return(cfgBuf)
		res = fnExtractFileSyncWithConfig(pathBuf.Addr(), cfgBuf.Addr())
	}
	if res == 0 {
		return nil, nativeErr()
	}
	defer fnFreeResult(res)

	return copyResult(res), nil
}

// ExtractBytes runs a synchronous in-memory extraction.
func ExtractBytes(data []byte, mimeType string, configJSON []byte) (*RawResult, error) {
	if err := Load(); err != nil {
		return nil, err
	}

	dataBuf, err := sharedPool.Rent(data)
	if err != nil {
		return nil, err
	}
	defer sharedPool.Return(dataBuf)

	mimeBuf, err := sharedPool.Rent(cstr(mimeType))
	if err != nil {
		return nil, err
	}
	defer sharedPool.Return(mimeBuf)

	var res uintptr
	if configJSON == nil {
		res = fnExtractBytesSync(dataBuf.Addr(), uintptr(len(data)), mimeBuf.Addr())
	} else {
		cfgBuf, err := sharedPool.Rent(cstrBytes(configJSON))
		if err != nil {
			return nil, err
		}
		defer sharedPool.Return(cfgBuf)
		res = fnExtractBytesSyncWithCfg(dataBuf.Addr(), uintptr(len(data)), mimeBuf.Addr(), cfgBuf.Addr())
	}
	if res == 0 {
		return nil, nativeErr()
	}
	defer fnFreeResult(res)

	return copyResult(res), nil
}

// BatchExtractFiles extracts several files in one native call. Per-item
// failures surface as error markers inside each item's metadata; only a
// broken batch mechanism yields an error here.
func BatchExtractFiles(paths []string, configJSON []byte) ([]*RawResult, error) {
	if err := Load(); err != nil {
		return nil, err
	}

	var pin runtime.Pinner
	defer pin.Unpin()

	ptrs := make([]uintptr, len(paths))
	for i, path := range paths {
		b := cstr(path)
		pin.Pin(&b[0])
		ptrs[i] = addrOf(b)
	}
	pin.Pin(&ptrs[0])

	cfgAddr, cfgDone, err := rentConfig(configJSON)
	if err != nil {
		return nil, err
	}
	defer cfgDone()

	batch := fnBatchExtractFilesSync(uintptr(unsafe.Pointer(&ptrs[0])), uintptr(len(paths)), cfgAddr)
	if batch == 0 {
		return nil, nativeErr()
	}
	defer fnFreeBatchResult(batch)

	return copyBatch(batch), nil
}

// BatchExtractBytes extracts several in-memory documents in one native call.
func BatchExtractBytes(items []BytesItem, configJSON []byte) ([]*RawResult, error) {
	if err := Load(); err != nil {
		return nil, err
	}

	var pin runtime.Pinner
	defer pin.Unpin()

	wire := make([]wireBytesItem, len(items))
	for i, item := range items {
		pin.Pin(&item.Data[0])
		mime := cstr(item.MimeType)
		pin.Pin(&mime[0])
		wire[i] = wireBytesItem{
			data:     addrOf(item.Data),
			dataLen:  uintptr(len(item.Data)),
			mimeType: addrOf(mime),
		}
	}
	pin.Pin(&wire[0])

	cfgAddr, cfgDone, err := rentConfig(configJSON)
	if err != nil {
		return nil, err
	}
	defer cfgDone()

	batch := fnBatchExtractBytesSync(uintptr(unsafe.Pointer(&wire[0])), uintptr(len(items)), cfgAddr)
	if batch == 0 {
		return nil, nativeErr()
	}
	defer fnFreeBatchResult(batch)

	return copyBatch(batch), nil
}

// rentConfig pins an optional config document, returning address 0 when the
// caller passed none. The cleanup func is always safe to call.
func rentConfig(configJSON []byte) (uintptr, func(), error) {
	if configJSON == nil {
		return 0, func() {}, nil
	}
	buf, err := sharedPool.Rent(cstrBytes(configJSON))
	if err != nil {
		return 0, func() {}, err
	}
	return buf.Addr(), func() { sharedPool.Return(buf) }, nil
}

// DetectMimeFromBytes asks the engine to sniff a MIME type from content.
func DetectMimeFromBytes(data []byte) (string, error) {
	if err := Load(); err != nil {
		return "", err
	}
	buf, err := sharedPool.Rent(data)
	if err != nil {
		return "", err
	}
	defer sharedPool.Return(buf)

	ptr := fnDetectMimeFromBytes(buf.Addr(), uintptr(len(data)))
	if ptr == 0 {
		return "", nativeErr()
	}
	return takeString(ptr), nil
}

// DetectMimeFromPath asks the engine to detect a MIME type for a file.
func DetectMimeFromPath(path string) (string, error) {
	return stringCall(fnDetectMimeFromPathWrap, path)
}

// ValidateMime normalizes and validates a MIME type with the engine.
func ValidateMime(mimeType string) (string, error) {
	return stringCall(fnValidateMimeWrap, mimeType)
}

// ExtensionsForMime returns the engine's JSON array of file extensions for a
// MIME type.
func ExtensionsForMime(mimeType string) (string, error) {
	return stringCall(fnExtensionsWrap, mimeType)
}

func fnDetectMimeFromPathWrap(p uintptr) uintptr { return fnDetectMimeFromPath(p) }
func fnValidateMimeWrap(p uintptr) uintptr       { return fnValidateMimeType(p) }
func fnExtensionsWrap(p uintptr) uintptr         { return fnExtensionsForMime(p) }
func fnGetPresetWrap(p uintptr) uintptr          { return fnGetEmbeddingPreset(p) }

// ListEmbeddingPresets returns the engine's JSON array of built-in embedding
// preset names.
func ListEmbeddingPresets() (string, error) {
	if err := Load(); err != nil {
		return "", err
	}
	ptr := fnListEmbeddingPresets()
	if ptr == 0 {
		return "", nativeErr()
	}
	return takeString(ptr), nil
}

// EmbeddingPresetJSON returns the engine's JSON document describing one
// embedding preset.
func EmbeddingPresetJSON(name string) (string, error) {
	return stringCall(fnGetPresetWrap, name)
}

// stringCall is the shared shape of string-in, freed-string-out entry points.
func stringCall(fn func(uintptr) uintptr, arg string) (string, error) {
	if err := Load(); err != nil {
		return "", err
	}
	buf, err := sharedPool.Rent(cstr(arg))
	if err != nil {
		return "", err
	}
	defer sharedPool.Return(buf)

	ptr := fn(buf.Addr())
	if ptr == 0 {
		return "", nativeErr()
	}
	return takeString(ptr), nil
}
