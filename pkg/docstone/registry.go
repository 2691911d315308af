package docstone

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/docstone-dev/docstone-go/internal/bindings"
)

// OCRBackendFunc implements a custom OCR backend. It receives the raw image
// bytes plus the active extraction config and returns the recognition
// result.
type OCRBackendFunc func(image []byte, cfg *ExtractionConfig) (*ExtractionResult, error)

// PostProcessorFunc transforms an extraction result in place after the
// engine finishes. Returning an error leaves the result untouched.
type PostProcessorFunc func(result *ExtractionResult) error

// ValidatorFunc inspects a finished extraction result. A non-nil error
// fails the extraction with that message.
type ValidatorFunc func(result *ExtractionResult) error

// registration is one named callback known to the managed registry. The
// registry, not the engine, is the authority: entries are kept here and
// synced down lazily, so registration works before the native library is
// loaded and the managed state survives reloads.
type registration struct {
	name     string
	priority int
	seq      uint64
	tramp    uintptr
	synced   bool
}

type registry struct {
	mu      sync.Mutex
	kind    bindings.CallbackKind
	entries map[string]*registration
	nextSeq uint64
}

var (
	ocrRegistry       = &registry{kind: bindings.KindOCRBackend, entries: map[string]*registration{}}
	postRegistry      = &registry{kind: bindings.KindPostProcessor, entries: map[string]*registration{}}
	validatorRegistry = &registry{kind: bindings.KindValidator, entries: map[string]*registration{}}
)

// add records (or replaces) an entry. Replacement takes a fresh sequence
// number, so a re-registered callback moves behind its equal-priority peers,
// exactly as an unregister followed by a register would.
func (r *registry) add(name string, priority int, tramp uintptr) error {
	r.mu.Lock()
	r.nextSeq++
	r.entries[name] = &registration{
		name:     name,
		priority: priority,
		seq:      r.nextSeq,
		tramp:    tramp,
	}
	r.mu.Unlock()

	if bindings.Loaded() {
		return r.flush()
	}
	return nil
}

// remove drops an entry. Removing an unknown name is a no-op.
func (r *registry) remove(name string) error {
	r.mu.Lock()
	entry, ok := r.entries[name]
	if ok {
		delete(r.entries, name)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}

	bindings.ClearInvoker(r.kind, name)
	if entry.synced && bindings.Loaded() {
		if err := bindings.UnregisterNative(r.kind, name); err != nil {
			return wrapNative(err)
		}
	}
	return nil
}

func (r *registry) clear() error {
	r.mu.Lock()
	names := make([]string, 0, len(r.entries))
	anySynced := false
	for name, entry := range r.entries {
		names = append(names, name)
		anySynced = anySynced || entry.synced
	}
	r.entries = map[string]*registration{}
	r.mu.Unlock()

	for _, name := range names {
		bindings.ClearInvoker(r.kind, name)
	}
	if anySynced && bindings.Loaded() {
		if err := bindings.ClearNative(r.kind); err != nil {
			return wrapNative(err)
		}
	}
	return nil
}

// PluginInfo describes one registered callback.
type PluginInfo struct {
	Name     string
	Priority int
}

// list returns registrations ordered by descending priority; equal
// priorities keep registration order.
func (r *registry) list() []PluginInfo {
	r.mu.Lock()
	entries := make([]*registration, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].seq < entries[j].seq
	})
	infos := make([]PluginInfo, len(entries))
	for i, entry := range entries {
		infos[i] = PluginInfo{Name: entry.name, Priority: entry.priority}
	}
	return infos
}

// flush pushes every unsynced entry down to the engine. Called after the
// library loads and before each extraction, so the engine always sees the
// registry's current state when it matters.
func (r *registry) flush() error {
	if !bindings.Loaded() {
		return nil
	}
	r.mu.Lock()
	pending := make([]*registration, 0, len(r.entries))
	for _, entry := range r.entries {
		if !entry.synced {
			pending = append(pending, entry)
		}
	}
	r.mu.Unlock()

	sort.Slice(pending, func(i, j int) bool { return pending[i].seq < pending[j].seq })
	for _, entry := range pending {
		if err := bindings.RegisterNative(r.kind, entry.name, entry.tramp, entry.priority); err != nil {
			return wrapNative(err)
		}
		r.mu.Lock()
		if current, ok := r.entries[entry.name]; ok && current.seq == entry.seq {
			current.synced = true
		}
		r.mu.Unlock()
	}
	return nil
}

func flushRegistries() error {
	for _, r := range []*registry{ocrRegistry, postRegistry, validatorRegistry} {
		if err := r.flush(); err != nil {
			return err
		}
	}
	return nil
}

func validateRegistration(what, name string, fnNil bool) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError(what+" name cannot be empty", nil)
	}
	if fnNil {
		return newValidationError(what+" callback cannot be nil", nil)
	}
	return nil
}

// RegisterOCRBackend installs a custom OCR backend under name. Registering
// an existing name replaces it. The backend becomes selectable via
// OCRConfig.Backend.
func RegisterOCRBackend(name string, fn OCRBackendFunc) error {
	if err := validateRegistration("ocr backend", name, fn == nil); err != nil {
		return err
	}
	tramp := bindings.SetOCRInvoker(name, func(image []byte, configJSON string) (string, bool) {
		var cfg *ExtractionConfig
		if configJSON != "" {
			var decoded ExtractionConfig
			if err := json.Unmarshal([]byte(configJSON), &decoded); err == nil {
				cfg = &decoded
			}
		}
		result, err := fn(image, cfg)
		if err != nil || result == nil {
			return "", false
		}
		reply, err := json.Marshal(result)
		if err != nil {
			return "", false
		}
		return string(reply), true
	})
	return ocrRegistry.add(name, 0, tramp)
}

// UnregisterOCRBackend removes an OCR backend. Unknown names are ignored.
func UnregisterOCRBackend(name string) error {
	return ocrRegistry.remove(name)
}

// ClearOCRBackends removes every registered OCR backend.
func ClearOCRBackends() error {
	return ocrRegistry.clear()
}

// ListOCRBackends returns the registered OCR backends in registration order.
func ListOCRBackends() []PluginInfo {
	return ocrRegistry.list()
}

// RegisterPostProcessor installs a result post-processor. Higher priorities
// run first; equal priorities run in registration order. Registering an
// existing name replaces it and moves it behind its equal-priority peers.
func RegisterPostProcessor(name string, priority int, fn PostProcessorFunc) error {
	if err := validateRegistration("post processor", name, fn == nil); err != nil {
		return err
	}
	tramp := bindings.SetPostProcessorInvoker(name, func(resultJSON string) (string, bool) {
		var result ExtractionResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return "", false
		}
		if err := fn(&result); err != nil {
			return "", false
		}
		reply, err := json.Marshal(&result)
		if err != nil {
			return "", false
		}
		return string(reply), true
	})
	return postRegistry.add(name, priority, tramp)
}

// UnregisterPostProcessor removes a post-processor. Unknown names are
// ignored.
func UnregisterPostProcessor(name string) error {
	return postRegistry.remove(name)
}

// ClearPostProcessors removes every registered post-processor.
func ClearPostProcessors() error {
	return postRegistry.clear()
}

// ListPostProcessors returns post-processors, highest priority first.
func ListPostProcessors() []PluginInfo {
	return postRegistry.list()
}

// RegisterValidator installs a result validator. Higher priorities run
// first. A validator returning a non-nil error fails the extraction with
// that message.
func RegisterValidator(name string, priority int, fn ValidatorFunc) error {
	if err := validateRegistration("validator", name, fn == nil); err != nil {
		return err
	}
	tramp := bindings.SetValidatorInvoker(name, func(resultJSON string) (string, bool) {
		var result ExtractionResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return "validator received undecodable result: " + err.Error(), true
		}
		if err := fn(&result); err != nil {
			return err.Error(), true
		}
		return "", false
	})
	return validatorRegistry.add(name, priority, tramp)
}

// UnregisterValidator removes a validator. Unknown names are ignored.
func UnregisterValidator(name string) error {
	return validatorRegistry.remove(name)
}

// ClearValidators removes every registered validator.
func ClearValidators() error {
	return validatorRegistry.clear()
}

// ListValidators returns validators, highest priority first.
func ListValidators() []PluginInfo {
	return validatorRegistry.list()
}
