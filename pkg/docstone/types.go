package docstone

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ExtractionResult is the typed form of one engine extraction.
type ExtractionResult struct {
	Content           string            `json:"content"`
	MimeType          string            `json:"mime_type"`
	Metadata          Metadata          `json:"metadata"`
	Tables            []Table           `json:"tables"`
	DetectedLanguages []string          `json:"detected_languages,omitempty"`
	Chunks            []Chunk           `json:"chunks,omitempty"`
	Images            []ExtractedImage  `json:"images,omitempty"`
	Pages             []PageContent     `json:"pages,omitempty"`
	Elements          []DocumentElement `json:"elements,omitempty"`
	OCRElements       []OCRElement      `json:"ocr_elements,omitempty"`
	PageStructure     *PageStructure    `json:"page_structure,omitempty"`
	Success           bool              `json:"success"`
}

// Table is one detected table.
type Table struct {
	Cells      [][]string `json:"cells"`
	Markdown   string     `json:"markdown"`
	PageNumber int        `json:"page_number"`
}

// Chunk holds chunked content plus optional embeddings.
type Chunk struct {
	Content   string        `json:"content"`
	Embedding []float32     `json:"embedding,omitempty"`
	Metadata  ChunkMetadata `json:"metadata"`
}

// ChunkMetadata locates a chunk inside the source content.
type ChunkMetadata struct {
	CharStart   int  `json:"char_start"`
	CharEnd     int  `json:"char_end"`
	TokenCount  *int `json:"token_count,omitempty"`
	ChunkIndex  int  `json:"chunk_index"`
	TotalChunks int  `json:"total_chunks"`
}

// ExtractedImage is an image pulled out of a document, optionally with a
// nested OCR pass over it.
type ExtractedImage struct {
	Data             ByteData          `json:"data"`
	Format           string            `json:"format"`
	ImageIndex       int               `json:"image_index"`
	PageNumber       *int              `json:"page_number,omitempty"`
	Width            *uint32           `json:"width,omitempty"`
	Height           *uint32           `json:"height,omitempty"`
	Colorspace       *string           `json:"colorspace,omitempty"`
	BitsPerComponent *uint32           `json:"bits_per_component,omitempty"`
	IsMask           bool              `json:"is_mask"`
	Description      *string           `json:"description,omitempty"`
	OCRResult        *ExtractionResult `json:"ocr_result,omitempty"`
}

// PageContent is the per-page slice of the extracted text.
type PageContent struct {
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// DocumentElement is one structural element (heading, paragraph, list item,
// table, figure) recovered from the document layout.
type DocumentElement struct {
	ElementType string       `json:"element_type"`
	Content     string       `json:"content"`
	PageNumber  *int         `json:"page_number,omitempty"`
	Level       *int         `json:"level,omitempty"`
	BBox        *BoundingBox `json:"bbox,omitempty"`
}

// OCRElement is a single recognized text region.
type OCRElement struct {
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
	PageNumber *int         `json:"page_number,omitempty"`
	BBox       *BoundingBox `json:"bbox,omitempty"`
}

// BoundingBox is a rectangle in page coordinates.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageStructure summarizes the physical layout of the document.
type PageStructure struct {
	PageCount int        `json:"page_count"`
	Pages     []PageInfo `json:"pages,omitempty"`
}

// PageInfo carries the dimensions of one page.
type PageInfo struct {
	PageNumber int     `json:"page_number"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Rotation   *int    `json:"rotation,omitempty"`
}

// ByteData is a byte slice whose JSON form differs between the two sides of
// the boundary: the engine may emit either a base64 string or an array of
// integers. Reads accept both; writes emit base64.
type ByteData []byte

// MarshalJSON emits the canonical base64-string form.
func (b ByteData) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(b))
}

// UnmarshalJSON accepts base64 strings, integer arrays, and null.
func (b *ByteData) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("byte data is not valid base64: %w", err)
		}
		*b = decoded
		return nil
	}
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return fmt.Errorf("byte data is neither base64 string nor integer array: %w", err)
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte data element %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// ExtractedKeyword is one keyword produced by an extraction algorithm.
type ExtractedKeyword struct {
	Text      string   `json:"text"`
	Score     float64  `json:"score"`
	Algorithm string   `json:"algorithm,omitempty"`
	Positions [][2]int `json:"positions,omitempty"`
}

// KeywordSet holds a document's keywords in either of the two shapes the
// engine produces: plain strings for format-native keywords (e.g. HTML meta
// tags) or scored objects for algorithmic extraction. At most one of the two
// slices is populated; an empty JSON array populates neither.
type KeywordSet struct {
	Simple    []string
	Extracted []ExtractedKeyword
}

// IsZero reports whether the set holds no keywords of either shape.
func (k KeywordSet) IsZero() bool {
	return len(k.Simple) == 0 && len(k.Extracted) == 0
}

// MarshalJSON writes whichever shape is populated, or null when empty.
func (k KeywordSet) MarshalJSON() ([]byte, error) {
	switch {
	case len(k.Extracted) > 0:
		return json.Marshal(k.Extracted)
	case len(k.Simple) > 0:
		return json.Marshal(k.Simple)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON disambiguates by the JSON kind of the first array element.
func (k *KeywordSet) UnmarshalJSON(data []byte) error {
	*k = KeywordSet{}
	if string(data) == "null" {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("keywords must be a JSON array: %w", err)
	}
	if len(elems) == 0 {
		return nil
	}

	first := elems[0]
	if len(first) > 0 && first[0] == '{' {
		var out []ExtractedKeyword
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
		k.Extracted = out
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	k.Simple = out
	return nil
}
