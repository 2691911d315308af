package docstone

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/docstone-dev/docstone-go/internal/bindings"
)

// BytesDocument is one in-memory document for batch extraction.
type BytesDocument struct {
	Data     []byte
	MimeType string
}

// LoadLibrary eagerly resolves and loads the native engine and pushes any
// callbacks registered so far down to it. Calling it is optional: every
// extraction loads on demand. It exists so startup code can fail fast when
// the library is missing.
func LoadLibrary() error {
	if err := bindings.Load(); err != nil {
		return wrapNative(err)
	}
	if err := flushRegistries(); err != nil {
		return err
	}
	if version, err := bindings.Version(); err == nil {
		slog.Debug("docstone engine loaded", "version", version)
	}
	return nil
}

// LibraryVersion returns the native engine's version string.
func LibraryVersion() (string, error) {
	version, err := bindings.Version()
	if err != nil {
		return "", wrapNative(err)
	}
	return version, nil
}

// wrapNative converts boundary-layer errors into the public typed taxonomy.
func wrapNative(err error) error {
	if err == nil {
		return nil
	}
	var native *bindings.NativeCallError
	if errors.As(err, &native) {
		return classifyNativeError(native.Message)
	}
	if errors.Is(err, bindings.ErrNotLoaded) {
		return newMissingDependencyError("docstone native library", "", err)
	}
	if errors.Is(err, bindings.ErrNilPayload) {
		return newValidationError("payload cannot be empty", nil)
	}
	return newRuntimeError(err.Error(), err)
}

// encodeOptionalConfig renders the wire config, or nil when the caller wants
// engine defaults.
func encodeOptionalConfig(cfg *ExtractionConfig) ([]byte, error) {
	if cfg == nil {
		return nil, nil
	}
	return EncodeConfig(cfg)
}

// prepareCall readies an extraction: encode the config, load the engine, and
// sync down any callbacks registered since the last call. The load must come
// first or the flush would be a no-op and the engine would run without the
// managed callbacks.
func prepareCall(cfg *ExtractionConfig) ([]byte, error) {
	configJSON, err := encodeOptionalConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := bindings.Load(); err != nil {
		return nil, wrapNative(err)
	}
	if err := flushRegistries(); err != nil {
		return nil, err
	}
	return configJSON, nil
}

// ExtractFileSync extracts a document from the filesystem. A nil config uses
// engine defaults.
func ExtractFileSync(path string, cfg *ExtractionConfig) (*ExtractionResult, error) {
	if path == "" {
		return nil, newValidationError("file path cannot be empty", nil)
	}
	configJSON, err := prepareCall(cfg)
	if err != nil {
		return nil, err
	}

	raw, err := bindings.ExtractFile(path, configJSON)
	if err != nil {
		return nil, wrapNative(err)
	}
	return decodeResult(raw)
}

// ExtractBytesSync extracts a document already held in memory. The MIME type
// is required because content sniffing is not attempted on this path.
func ExtractBytesSync(data []byte, mimeType string, cfg *ExtractionConfig) (*ExtractionResult, error) {
	if len(data) == 0 {
		return nil, newValidationError("document data cannot be empty", nil)
	}
	if mimeType == "" {
		return nil, newValidationError("mime type cannot be empty", nil)
	}
	configJSON, err := prepareCall(cfg)
	if err != nil {
		return nil, err
	}

	raw, err := bindings.ExtractBytes(data, mimeType, configJSON)
	if err != nil {
		return nil, wrapNative(err)
	}
	return decodeResult(raw)
}

// BatchExtractFilesSync extracts several files in one native call. The
// result slice matches the input order; per-file failures are reported
// through each result's metadata error marker, not through the returned
// error.
func BatchExtractFilesSync(paths []string, cfg *ExtractionConfig) ([]*ExtractionResult, error) {
	if len(paths) == 0 {
		return nil, newValidationError("batch requires at least one file path", nil)
	}
	for _, path := range paths {
		if path == "" {
			return nil, newValidationError("file path cannot be empty", nil)
		}
	}
	configJSON, err := prepareCall(cfg)
	if err != nil {
		return nil, err
	}

	raws, err := bindings.BatchExtractFiles(paths, configJSON)
	if err != nil {
		return nil, wrapNative(err)
	}
	return decodeResults(raws)
}

// BatchExtractBytesSync extracts several in-memory documents in one native
// call.
func BatchExtractBytesSync(docs []BytesDocument, cfg *ExtractionConfig) ([]*ExtractionResult, error) {
	if len(docs) == 0 {
		return nil, newValidationError("batch requires at least one document", nil)
	}
	items := make([]bindings.BytesItem, len(docs))
	for i, doc := range docs {
		if len(doc.Data) == 0 {
			return nil, newValidationError("document data cannot be empty", nil)
		}
		if doc.MimeType == "" {
			return nil, newValidationError("mime type cannot be empty", nil)
		}
		items[i] = bindings.BytesItem{Data: doc.Data, MimeType: doc.MimeType}
	}
	configJSON, err := prepareCall(cfg)
	if err != nil {
		return nil, err
	}

	raws, err := bindings.BatchExtractBytes(items, configJSON)
	if err != nil {
		return nil, wrapNative(err)
	}
	return decodeResults(raws)
}

func decodeResults(raws []*bindings.RawResult) ([]*ExtractionResult, error) {
	out := make([]*ExtractionResult, len(raws))
	for i, raw := range raws {
		result, err := decodeResult(raw)
		if err != nil {
			return nil, err
		}
		out[i] = result
	}
	return out, nil
}

// decodeResult lifts a Go-owned wire result into the typed object model.
// Scalar fields on the wire struct that also appear in the metadata blob are
// reconciled in favor of the blob; missing blob values fall back to the
// struct fields.
func decodeResult(raw *bindings.RawResult) (*ExtractionResult, error) {
	result := &ExtractionResult{
		Content:  raw.Content,
		MimeType: raw.MimeType,
		Success:  raw.Success,
	}

	if err := decodeResultBlob("metadata", raw.MetadataJSON, &result.Metadata); err != nil {
		return nil, err
	}
	if err := decodeResultBlob("tables", raw.TablesJSON, &result.Tables); err != nil {
		return nil, err
	}
	if err := decodeResultBlob("detected_languages", raw.DetectedLanguagesJSON, &result.DetectedLanguages); err != nil {
		return nil, err
	}
	if err := decodeResultBlob("chunks", raw.ChunksJSON, &result.Chunks); err != nil {
		return nil, err
	}
	if err := decodeResultBlob("images", raw.ImagesJSON, &result.Images); err != nil {
		return nil, err
	}
	if err := decodeResultBlob("pages", raw.PagesJSON, &result.Pages); err != nil {
		return nil, err
	}
	if err := decodeResultBlob("elements", raw.ElementsJSON, &result.Elements); err != nil {
		return nil, err
	}
	if err := decodeResultBlob("ocr_elements", raw.OCRElementsJSON, &result.OCRElements); err != nil {
		return nil, err
	}
	if err := decodeResultBlob("page_structure", raw.PageStructureJSON, &result.PageStructure); err != nil {
		return nil, err
	}

	if result.Metadata.Language == nil && raw.Language != "" {
		lang := raw.Language
		result.Metadata.Language = &lang
	}
	if result.Metadata.Date == nil && raw.Date != "" {
		date := raw.Date
		result.Metadata.Date = &date
	}
	if result.Metadata.Subject == nil && raw.Subject != "" {
		subject := raw.Subject
		result.Metadata.Subject = &subject
	}

	return result, nil
}

// DetectMimeType sniffs a MIME type from raw content.
func DetectMimeType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", newValidationError("document data cannot be empty", nil)
	}
	mime, err := bindings.DetectMimeFromBytes(data)
	if err != nil {
		return "", wrapNative(err)
	}
	return mime, nil
}

// DetectMimeTypeFromPath detects a MIME type from a file's name and content.
func DetectMimeTypeFromPath(path string) (string, error) {
	if path == "" {
		return "", newValidationError("file path cannot be empty", nil)
	}
	mime, err := bindings.DetectMimeFromPath(path)
	if err != nil {
		return "", wrapNative(err)
	}
	return mime, nil
}

// ValidateMimeType checks a MIME type against the engine's supported set and
// returns the canonical form.
func ValidateMimeType(mimeType string) (string, error) {
	if mimeType == "" {
		return "", newValidationError("mime type cannot be empty", nil)
	}
	canonical, err := bindings.ValidateMime(mimeType)
	if err != nil {
		return "", wrapNative(err)
	}
	return canonical, nil
}

// EmbeddingPreset describes one of the engine's built-in embedding presets.
type EmbeddingPreset struct {
	Name        string `json:"name"`
	ChunkSize   int    `json:"chunk_size"`
	Overlap     int    `json:"overlap"`
	ModelName   string `json:"model_name"`
	Dimensions  int    `json:"dimensions"`
	Description string `json:"description"`
}

// ListEmbeddingPresets returns the names of the engine's built-in embedding
// presets.
func ListEmbeddingPresets() ([]string, error) {
	reply, err := bindings.ListEmbeddingPresets()
	if err != nil {
		return nil, wrapNative(err)
	}
	return decodePresetNames(reply)
}

// GetEmbeddingPreset returns the metadata of one embedding preset by name.
func GetEmbeddingPreset(name string) (*EmbeddingPreset, error) {
	if name == "" {
		return nil, newValidationError("preset name cannot be empty", nil)
	}
	reply, err := bindings.EmbeddingPresetJSON(name)
	if err != nil {
		return nil, wrapNative(err)
	}
	return decodeEmbeddingPreset(reply)
}

func decodePresetNames(reply string) ([]string, error) {
	if reply == "" {
		return []string{}, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(reply), &names); err != nil {
		return nil, newSerializationError("failed to decode preset names", err)
	}
	return names, nil
}

func decodeEmbeddingPreset(reply string) (*EmbeddingPreset, error) {
	var preset EmbeddingPreset
	if err := json.Unmarshal([]byte(reply), &preset); err != nil {
		return nil, newSerializationError("failed to decode embedding preset", err)
	}
	return &preset, nil
}

// GetExtensionsForMime returns the file extensions associated with a MIME
// type.
func GetExtensionsForMime(mimeType string) ([]string, error) {
	if mimeType == "" {
		return nil, newValidationError("mime type cannot be empty", nil)
	}
	reply, err := bindings.ExtensionsForMime(mimeType)
	if err != nil {
		return nil, wrapNative(err)
	}
	var extensions []string
	if err := json.Unmarshal([]byte(reply), &extensions); err != nil {
		return nil, newSerializationError("failed to decode extensions list", err)
	}
	return extensions, nil
}
