package docstone

// DefaultPageMarkerFormat is the marker inserted between pages when page
// markers are enabled and no custom format is set. The {page_number}
// placeholder is substituted by the engine.
const DefaultPageMarkerFormat = "\n\n--- Page {page_number} ---\n\n"

// ExtractionConfig is the typed form of the engine configuration. All fields
// are optional; nil means "engine default". The wire form produced by
// EncodeConfig is a complete snake_case JSON document with explicit nulls,
// because the native parser requires every key to be present.
type ExtractionConfig struct {
	UseCache                 *bool                    `json:"use_cache"`
	ForceOCR                 *bool                    `json:"force_ocr"`
	EnableQualityProcessing  *bool                    `json:"enable_quality_processing"`
	OCR                      *OCRConfig               `json:"ocr"`
	Chunking                 *ChunkingConfig          `json:"chunking"`
	Images                   *ImageExtractionConfig   `json:"images"`
	PdfOptions               *PdfConfig               `json:"pdf_options"`
	Pages                    *PageConfig              `json:"pages"`
	Keywords                 *KeywordConfig           `json:"keywords"`
	HTMLOptions              *HTMLOptions             `json:"html_options"`
	Postprocessor            *PostprocessorConfig     `json:"postprocessor"`
	TokenReduction           *TokenReductionConfig    `json:"token_reduction"`
	LanguageDetection        *LanguageDetectionConfig `json:"language_detection"`
	MaxConcurrentExtractions *int                     `json:"max_concurrent_extractions"`
}

// OCRConfig selects and tunes the OCR backend.
type OCRConfig struct {
	Backend   string           `json:"backend"`
	Language  *string          `json:"language"`
	Tesseract *TesseractConfig `json:"tesseract_config"`
}

// TesseractConfig exposes the Tesseract backend controls the engine accepts.
type TesseractConfig struct {
	Language             string                    `json:"language"`
	PSM                  *int                      `json:"psm"`
	OEM                  *int                      `json:"oem"`
	OutputFormat         string                    `json:"output_format"`
	MinConfidence        *float64                  `json:"min_confidence"`
	EnableTableDetection *bool                     `json:"enable_table_detection"`
	TableMinConfidence   *float64                  `json:"table_min_confidence"`
	CharWhitelist        string                    `json:"char_whitelist"`
	CharBlacklist        string                    `json:"char_blacklist"`
	Preprocessing        *ImagePreprocessingConfig `json:"preprocessing"`
}

// ImagePreprocessingConfig tunes DPI normalization before OCR.
type ImagePreprocessingConfig struct {
	TargetDPI          *int   `json:"target_dpi"`
	AutoRotate         *bool  `json:"auto_rotate"`
	Deskew             *bool  `json:"deskew"`
	Denoise            *bool  `json:"denoise"`
	ContrastEnhance    *bool  `json:"contrast_enhance"`
	BinarizationMethod string `json:"binarization_method"`
	InvertColors       *bool  `json:"invert_colors"`
}

// ChunkingConfig configures content chunking for retrieval workloads.
type ChunkingConfig struct {
	Enabled      *bool            `json:"enabled"`
	MaxChars     *int             `json:"max_chars"`
	MaxOverlap   *int             `json:"max_overlap"`
	ChunkSize    *int             `json:"chunk_size"`
	ChunkOverlap *int             `json:"chunk_overlap"`
	Preset       *string          `json:"preset"`
	Embedding    *EmbeddingConfig `json:"embedding"`
}

// EmbeddingConfig configures embedding generation for chunks.
type EmbeddingConfig struct {
	Model     *EmbeddingModel `json:"model"`
	Normalize *bool           `json:"normalize"`
	BatchSize *int            `json:"batch_size"`
	CacheDir  *string         `json:"cache_dir"`
}

// EmbeddingModel selects the embedding model. Type is "preset", "fastembed"
// or "custom".
type EmbeddingModel struct {
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
	Model      string `json:"model,omitempty"`
	Dimensions *int   `json:"dimensions,omitempty"`
}

// ImageExtractionConfig controls inline image extraction.
type ImageExtractionConfig struct {
	ExtractImages     *bool `json:"extract_images"`
	TargetDPI         *int  `json:"target_dpi"`
	MaxImageDimension *int  `json:"max_image_dimension"`
	AutoAdjustDPI     *bool `json:"auto_adjust_dpi"`
	MinDPI            *int  `json:"min_dpi"`
	MaxDPI            *int  `json:"max_dpi"`
}

// PdfConfig exposes PDF-specific options.
type PdfConfig struct {
	ExtractImages   *bool    `json:"extract_images"`
	Passwords       []string `json:"passwords"`
	ExtractMetadata *bool    `json:"extract_metadata"`
}

// PageConfig controls per-page output: page slicing in the result and the
// marker inserted between pages in the combined content.
type PageConfig struct {
	Enabled      *bool  `json:"enabled"`
	MarkerFormat string `json:"marker_format"`
}

// KeywordConfig configures algorithmic keyword extraction.
type KeywordConfig struct {
	Algorithm   string      `json:"algorithm"`
	MaxKeywords *int        `json:"max_keywords"`
	MinScore    *float64    `json:"min_score"`
	NgramRange  *[2]int     `json:"ngram_range"`
	Language    *string     `json:"language"`
	Yake        *YakeParams `json:"yake_params"`
	Rake        *RakeParams `json:"rake_params"`
}

// YakeParams holds YAKE-specific tuning.
type YakeParams struct {
	WindowSize *int `json:"window_size"`
}

// RakeParams holds RAKE-specific tuning.
type RakeParams struct {
	MinWordLength     *int `json:"min_word_length"`
	MaxWordsPerPhrase *int `json:"max_words_per_phrase"`
}

// HTMLOptions tunes HTML to Markdown conversion.
type HTMLOptions struct {
	HeadingStyle    *string            `json:"heading_style"`
	ListIndentWidth *int               `json:"list_indent_width"`
	Bullets         *string            `json:"bullets"`
	StrongEmSymbol  *string            `json:"strong_em_symbol"`
	CodeBlockStyle  *string            `json:"code_block_style"`
	Autolinks       *bool              `json:"autolinks"`
	WhitespaceMode  *string            `json:"whitespace_mode"`
	StripTags       []string           `json:"strip_tags"`
	PreserveTags    []string           `json:"preserve_tags"`
	ExtractMetadata *bool              `json:"extract_metadata"`
	Preprocessing   *HTMLPreprocessing `json:"preprocessing"`
}

// HTMLPreprocessing configures HTML cleanup before conversion.
type HTMLPreprocessing struct {
	Enabled          *bool   `json:"enabled"`
	Preset           *string `json:"preset"`
	RemoveNavigation *bool   `json:"remove_navigation"`
	RemoveForms      *bool   `json:"remove_forms"`
}

// PostprocessorConfig selects which registered post-processors run.
type PostprocessorConfig struct {
	Enabled            *bool    `json:"enabled"`
	EnabledProcessors  []string `json:"enabled_processors"`
	DisabledProcessors []string `json:"disabled_processors"`
}

// TokenReductionConfig governs token pruning of extracted content.
type TokenReductionConfig struct {
	Mode                   string `json:"mode"`
	PreserveImportantWords *bool  `json:"preserve_important_words"`
}

// LanguageDetectionConfig enables automatic language detection.
type LanguageDetectionConfig struct {
	Enabled        *bool    `json:"enabled"`
	MinConfidence  *float64 `json:"min_confidence"`
	DetectMultiple *bool    `json:"detect_multiple"`
}

func boolPtr(v bool) *bool        { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }
