package bindings

import (
	"sync"

	"github.com/ebitengine/purego"
)

// Symbol table for the engine entry points. Populated exactly once by Load;
// read-only afterwards, so concurrent native calls need no synchronization.
var (
	fnExtractFileSync           func(path uintptr) uintptr
	fnExtractFileSyncWithConfig func(path, configJSON uintptr) uintptr
	fnExtractBytesSync          func(data, dataLen, mimeType uintptr) uintptr
	fnExtractBytesSyncWithCfg   func(data, dataLen, mimeType, configJSON uintptr) uintptr

	fnBatchExtractFilesSync func(paths, count, configJSON uintptr) uintptr
	fnBatchExtractBytesSync func(items, count, configJSON uintptr) uintptr

	fnRegisterOCRBackend    func(name, callback uintptr) uint8
	fnRegisterPostProcessor func(name, callback uintptr, priority int32) uint8
	fnRegisterValidator     func(name, callback uintptr, priority int32) uint8
	fnUnregisterOCRBackend  func(name uintptr) uint8
	fnUnregisterPostProc    func(name uintptr) uint8
	fnUnregisterValidator   func(name uintptr) uint8
	fnClearOCRBackends      func() uint8
	fnClearPostProcessors   func() uint8
	fnClearValidators       func() uint8

	fnFreeString      func(ptr uintptr)
	fnFreeResult      func(ptr uintptr)
	fnFreeBatchResult func(ptr uintptr)
	fnStringDup       func(data, dataLen uintptr) uintptr

	fnLastError func() uintptr
	fnVersion   func() uintptr

	fnDetectMimeFromBytes func(data, dataLen uintptr) uintptr
	fnDetectMimeFromPath  func(path uintptr) uintptr
	fnValidateMimeType    func(mimeType uintptr) uintptr
	fnExtensionsForMime   func(mimeType uintptr) uintptr

	fnListEmbeddingPresets func() uintptr
	fnGetEmbeddingPreset   func(name uintptr) uintptr
)

var (
	loadOnce sync.Once
	loadErr  error
	loaded   bool
)

// Load resolves and opens the native engine library, binding every entry
// point. It is idempotent and safe for concurrent use; the first caller pays
// the cost and every later caller observes the same outcome. The handle is
// process-lifetime and never closed.
func Load() error {
	loadOnce.Do(func() {
		handle, err := resolve()
		if err != nil {
			loadErr = err
			return
		}
		registerSymbols(handle)
		loaded = true
	})
	return loadErr
}

// Loaded reports whether the native library has been resolved. Safe for
// unsynchronized reads after Load returned: the flag only transitions once,
// under the load once-guard.
func Loaded() bool {
	return loaded
}

func registerSymbols(handle uintptr) {
	purego.RegisterLibFunc(&fnExtractFileSync, handle, "docstone_extract_file_sync")
	purego.RegisterLibFunc(&fnExtractFileSyncWithConfig, handle, "docstone_extract_file_sync_with_config")
	purego.RegisterLibFunc(&fnExtractBytesSync, handle, "docstone_extract_bytes_sync")
	purego.RegisterLibFunc(&fnExtractBytesSyncWithCfg, handle, "docstone_extract_bytes_sync_with_config")

	purego.RegisterLibFunc(&fnBatchExtractFilesSync, handle, "docstone_batch_extract_files_sync")
	purego.RegisterLibFunc(&fnBatchExtractBytesSync, handle, "docstone_batch_extract_bytes_sync")

	purego.RegisterLibFunc(&fnRegisterOCRBackend, handle, "docstone_register_ocr_backend")
	purego.RegisterLibFunc(&fnRegisterPostProcessor, handle, "docstone_register_post_processor")
	purego.RegisterLibFunc(&fnRegisterValidator, handle, "docstone_register_validator")
	purego.RegisterLibFunc(&fnUnregisterOCRBackend, handle, "docstone_unregister_ocr_backend")
	purego.RegisterLibFunc(&fnUnregisterPostProc, handle, "docstone_unregister_post_processor")
	purego.RegisterLibFunc(&fnUnregisterValidator, handle, "docstone_unregister_validator")
	purego.RegisterLibFunc(&fnClearOCRBackends, handle, "docstone_clear_ocr_backends")
	purego.RegisterLibFunc(&fnClearPostProcessors, handle, "docstone_clear_post_processors")
	purego.RegisterLibFunc(&fnClearValidators, handle, "docstone_clear_validators")

	purego.RegisterLibFunc(&fnFreeString, handle, "docstone_free_string")
	purego.RegisterLibFunc(&fnFreeResult, handle, "docstone_free_result")
	purego.RegisterLibFunc(&fnFreeBatchResult, handle, "docstone_free_batch_result")
	purego.RegisterLibFunc(&fnStringDup, handle, "docstone_string_dup")

	purego.RegisterLibFunc(&fnLastError, handle, "docstone_last_error")
	purego.RegisterLibFunc(&fnVersion, handle, "docstone_version")

	purego.RegisterLibFunc(&fnDetectMimeFromBytes, handle, "docstone_detect_mime_type_from_bytes")
	purego.RegisterLibFunc(&fnDetectMimeFromPath, handle, "docstone_detect_mime_type_from_path")
	purego.RegisterLibFunc(&fnValidateMimeType, handle, "docstone_validate_mime_type")
	purego.RegisterLibFunc(&fnExtensionsForMime, handle, "docstone_get_extensions_for_mime")

	purego.RegisterLibFunc(&fnListEmbeddingPresets, handle, "docstone_list_embedding_presets")
	purego.RegisterLibFunc(&fnGetEmbeddingPreset, handle, "docstone_get_embedding_preset")
}

// LastErrorMessage returns the engine's thread-local error message for the
// most recent failing call. The returned pointer is engine-static and must
// not be freed; the string is copied out.
func LastErrorMessage() string {
	if !loaded {
		return ""
	}
	return goString(fnLastError())
}

// Version returns the engine version string, or an error when the library
// cannot be loaded.
func Version() (string, error) {
	if err := Load(); err != nil {
		return "", err
	}
	return goString(fnVersion()), nil
}
