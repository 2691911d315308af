package docstone

import "encoding/json"

// EncodeConfig serializes an ExtractionConfig into the complete snake_case
// JSON document the native parser expects: every top-level key present,
// unset scalars as explicit nulls, and every section a well-formed object
// even when the caller left it nil. A nil config encodes the all-defaults
// document.
func EncodeConfig(cfg *ExtractionConfig) ([]byte, error) {
	if cfg == nil {
		cfg = &ExtractionConfig{}
	}

	doc := map[string]any{
		"use_cache":                  cfg.UseCache,
		"force_ocr":                  cfg.ForceOCR,
		"enable_quality_processing":  cfg.EnableQualityProcessing,
		"max_concurrent_extractions": cfg.MaxConcurrentExtractions,
		"ocr":                        encodeSection(cfg.OCR),
		"chunking":                   encodeSection(cfg.Chunking),
		"images":                     encodeSection(cfg.Images),
		"pdf_options":                encodeSection(cfg.PdfOptions),
		"pages":                      encodePages(cfg.Pages),
		"keywords":                   encodeSection(cfg.Keywords),
		"html_options":               encodeSection(cfg.HTMLOptions),
		"postprocessor":              encodeSection(cfg.Postprocessor),
		"token_reduction":            encodeSection(cfg.TokenReduction),
		"language_detection":         encodeSection(cfg.LanguageDetection),
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, newSerializationError("failed to encode extraction config", err)
	}
	return out, nil
}

// encodeSection renders one nested section. Struct fields carry no omitempty
// tags, so marshaling a non-nil section already yields explicit nulls for
// every unset field; a nil section collapses to the empty object rather than
// JSON null.
func encodeSection[T any](section *T) any {
	if section == nil {
		return map[string]any{}
	}
	return section
}

// encodePages renders the pages section, backfilling the marker format so
// the engine always receives a usable template.
func encodePages(pages *PageConfig) any {
	out := PageConfig{MarkerFormat: DefaultPageMarkerFormat}
	if pages != nil {
		out.Enabled = pages.Enabled
		if pages.MarkerFormat != "" {
			out.MarkerFormat = pages.MarkerFormat
		}
	}
	return out
}

// decodeResultBlob parses one of the wire JSON blobs into dst, mapping
// failures onto SerializationError with the field name attached.
func decodeResultBlob(field string, blob []byte, dst any) error {
	if len(blob) == 0 {
		return nil
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return newSerializationError("failed to decode result field "+field, err)
	}
	return nil
}
