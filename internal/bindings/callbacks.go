package bindings

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// OCRInvoker receives raw image bytes plus the extraction config document
// and returns the OCR result JSON. ok=false reports failure.
type OCRInvoker func(image []byte, configJSON string) (resultJSON string, ok bool)

// PostProcessorInvoker transforms a result document. ok=false means the
// engine keeps the untransformed document.
type PostProcessorInvoker func(resultJSON string) (transformedJSON string, ok bool)

// ValidatorInvoker checks a result document, returning a non-empty message
// when validation fails.
type ValidatorInvoker func(resultJSON string) (errorMessage string, failed bool)

// invokerCell is the mutable indirection between a process-lifetime
// trampoline and the currently registered managed callback. purego callbacks
// can never be released, so trampolines are created once per (kind, name)
// and re-registrations just swap the cell contents.
type invokerCell struct {
	mu        sync.RWMutex
	ocr       OCRInvoker
	post      PostProcessorInvoker
	validate  ValidatorInvoker
	tramp     uintptr
}

var (
	cellMu sync.Mutex
	cells  = map[CallbackKind]map[string]*invokerCell{
		KindOCRBackend:    {},
		KindPostProcessor: {},
		KindValidator:     {},
	}
)

func cellFor(kind CallbackKind, name string) *invokerCell {
	cellMu.Lock()
	defer cellMu.Unlock()
	cell, ok := cells[kind][name]
	if !ok {
		cell = &invokerCell{}
		cell.tramp = newTrampoline(kind, cell)
		cells[kind][name] = cell
	}
	return cell
}

// newTrampoline builds the C-callable entry for one registration. The engine
// may invoke it from any thread, concurrently with registry mutation, so the
// trampoline reads the cell under a read lock and assumes no thread-affine
// state. User panics are contained here and reported to the engine as a
// normal failure; a panic must never unwind into native frames.
func newTrampoline(kind CallbackKind, cell *invokerCell) uintptr {
	switch kind {
	case KindOCRBackend:
		return purego.NewCallback(func(data uintptr, length uintptr, configJSON uintptr) uintptr {
			reply, ok := safeInvokeOCR(cell, copyImage(data, length), goString(configJSON))
			if !ok {
				return 0
			}
			return engineString(reply)
		})
	case KindPostProcessor:
		return purego.NewCallback(func(resultJSON uintptr) uintptr {
			reply, ok := safeInvokePost(cell, goString(resultJSON))
			if !ok {
				return 0
			}
			return engineString(reply)
		})
	default:
		return purego.NewCallback(func(resultJSON uintptr) uintptr {
			msg, failed := safeInvokeValidator(cell, goString(resultJSON))
			if !failed {
				return 0
			}
			return engineString(msg)
		})
	}
}

func safeInvokeOCR(cell *invokerCell, image []byte, configJSON string) (reply string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			reply, ok = "", false
		}
	}()
	cell.mu.RLock()
	fn := cell.ocr
	cell.mu.RUnlock()
	if fn == nil {
		return "", false
	}
	return fn(image, configJSON)
}

func safeInvokePost(cell *invokerCell, resultJSON string) (reply string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			reply, ok = "", false
		}
	}()
	cell.mu.RLock()
	fn := cell.post
	cell.mu.RUnlock()
	if fn == nil {
		return "", false
	}
	return fn(resultJSON)
}

func safeInvokeValidator(cell *invokerCell, resultJSON string) (msg string, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			msg, failed = fmt.Sprintf("validator panicked: %v", r), true
		}
	}()
	cell.mu.RLock()
	fn := cell.validate
	cell.mu.RUnlock()
	if fn == nil {
		return "", false
	}
	return fn(resultJSON)
}

func copyImage(data uintptr, length uintptr) []byte {
	if data == 0 || length == 0 {
		return nil
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(data)), int(length))
	out := make([]byte, len(src))
	copy(out, src)
	return out
}

// engineString duplicates a Go string into engine-owned memory via
// docstone_string_dup. Callback replies must be allocated by the engine's
// allocator because the engine, not the callback, frees them.
func engineString(s string) uintptr {
	b := []byte(s)
	if len(b) == 0 {
		b = []byte{0}
	}
	buf, err := sharedPool.Rent(b)
	if err != nil {
		return 0
	}
	defer sharedPool.Return(buf)
	return fnStringDup(buf.Addr(), uintptr(len(s)))
}

// SetOCRInvoker binds (or rebinds) the managed callback behind the
// trampoline for name and returns the trampoline address for registration.
func SetOCRInvoker(name string, fn OCRInvoker) uintptr {
	cell := cellFor(KindOCRBackend, name)
	cell.mu.Lock()
	cell.ocr = fn
	cell.mu.Unlock()
	return cell.tramp
}

// SetPostProcessorInvoker binds the managed post-processor for name.
func SetPostProcessorInvoker(name string, fn PostProcessorInvoker) uintptr {
	cell := cellFor(KindPostProcessor, name)
	cell.mu.Lock()
	cell.post = fn
	cell.mu.Unlock()
	return cell.tramp
}

// SetValidatorInvoker binds the managed validator for name.
func SetValidatorInvoker(name string, fn ValidatorInvoker) uintptr {
	cell := cellFor(KindValidator, name)
	cell.mu.Lock()
	cell.validate = fn
	cell.mu.Unlock()
	return cell.tramp
}

// ClearInvoker detaches the managed callback for name. The trampoline stays
// cached for a later re-registration under the same name.
func ClearInvoker(kind CallbackKind, name string) {
	cellMu.Lock()
	cell := cells[kind][name]
	cellMu.Unlock()
	if cell == nil {
		return
	}
	cell.mu.Lock()
	cell.ocr, cell.post, cell.validate = nil, nil, nil
	cell.mu.Unlock()
}

// RegisterNative registers the trampoline for (kind, name) with the engine.
// Callers must have bound the invoker first and ensured the library is
// loaded.
func RegisterNative(kind CallbackKind, name string, tramp uintptr, priority int) error {
	if !loaded {
		return ErrNotLoaded
	}
	nameBuf, err := sharedPool.Rent(cstr(name))
	if err != nil {
		return err
	}
	defer sharedPool.Return(nameBuf)

	var ok uint8
	switch kind {
	case KindOCRBackend:
		ok = fnRegisterOCRBackend(nameBuf.Addr(), tramp)
	case KindPostProcessor:
		ok = fnRegisterPostProcessor(nameBuf.Addr(), tramp, int32(priority))
	default:
		ok = fnRegisterValidator(nameBuf.Addr(), tramp, int32(priority))
	}
	if ok == 0 {
		return nativeErr()
	}
	return nil
}

// UnregisterNative removes a registration from the engine.
func UnregisterNative(kind CallbackKind, name string) error {
	if !loaded {
		return ErrNotLoaded
	}
	nameBuf, err := sharedPool.Rent(cstr(name))
	if err != nil {
		return err
	}
	defer sharedPool.Return(nameBuf)

	var ok uint8
	switch kind {
	case KindOCRBackend:
		ok = fnUnregisterOCRBackend(nameBuf.Addr())
	case KindPostProcessor:
		ok = fnUnregisterPostProc(nameBuf.Addr())
	default:
		ok = fnUnregisterValidator(nameBuf.Addr())
	}
	if ok == 0 {
		return nativeErr()
	}
	return nil
}

// ClearNative removes every registration of a kind from the engine.
func ClearNative(kind CallbackKind) error {
	if !loaded {
		return ErrNotLoaded
	}
	var ok uint8
	switch kind {
	case KindOCRBackend:
		ok = fnClearOCRBackends()
	case KindPostProcessor:
		ok = fnClearPostProcessors()
	default:
		ok = fnClearValidators()
	}
	if ok == 0 {
		return nativeErr()
	}
	return nil
}
