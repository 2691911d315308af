package docstone

import "encoding/json"

// Metadata aggregates the core document metadata plus one format-specific
// payload, flattened into a single JSON object on the wire. A format_type
// tag discriminates which format payload the remaining keys belong to;
// unrecognized keys survive in Additional so round-tripping is lossless.
type Metadata struct {
	Title              *string                     `json:"title,omitempty"`
	Subject            *string                     `json:"subject,omitempty"`
	Authors            []string                    `json:"authors,omitempty"`
	Keywords           KeywordSet                  `json:"keywords,omitempty"`
	Language           *string                     `json:"language,omitempty"`
	Date               *string                     `json:"date,omitempty"`
	CreatedAt          *string                     `json:"created_at,omitempty"`
	ModifiedAt         *string                     `json:"modified_at,omitempty"`
	Pages              *int                        `json:"pages,omitempty"`
	Format             FormatMetadata              `json:"-"`
	ImagePreprocessing *ImagePreprocessingMetadata `json:"image_preprocessing,omitempty"`
	JSONSchema         json.RawMessage             `json:"json_schema,omitempty"`
	Error              *ErrorMetadata              `json:"error,omitempty"`
	Additional         map[string]json.RawMessage  `json:"-"`
}

// FormatMetadata is the discriminated union of format payloads. Exactly one
// pointer is non-nil when Type is a known format.
type FormatMetadata struct {
	Type    FormatType
	Pdf     *PdfMetadata
	Excel   *ExcelMetadata
	Email   *EmailMetadata
	Pptx    *PptxMetadata
	Archive *ArchiveMetadata
	Image   *ImageMetadata
	XML     *XMLMetadata
	Text    *TextMetadata
	HTML    *HTMLMetadata
	OCR     *OCRMetadata
}

// FormatType enumerates the metadata discriminators the engine emits.
type FormatType string

const (
	FormatUnknown FormatType = ""
	FormatPDF     FormatType = "pdf"
	FormatExcel   FormatType = "excel"
	FormatEmail   FormatType = "email"
	FormatPPTX    FormatType = "pptx"
	FormatArchive FormatType = "archive"
	FormatImage   FormatType = "image"
	FormatXML     FormatType = "xml"
	FormatText    FormatType = "text"
	FormatHTML    FormatType = "html"
	FormatOCR     FormatType = "ocr"
)

// FormatType returns the discriminator tag.
func (m Metadata) FormatType() FormatType { return m.Format.Type }

// PdfMetadata returns the PDF payload if present.
func (m Metadata) PdfMetadata() (*PdfMetadata, bool) {
	return m.Format.Pdf, m.Format.Type == FormatPDF && m.Format.Pdf != nil
}

// ExcelMetadata returns the spreadsheet payload if present.
func (m Metadata) ExcelMetadata() (*ExcelMetadata, bool) {
	return m.Format.Excel, m.Format.Type == FormatExcel && m.Format.Excel != nil
}

// EmailMetadata returns the email envelope payload if present.
func (m Metadata) EmailMetadata() (*EmailMetadata, bool) {
	return m.Format.Email, m.Format.Type == FormatEmail && m.Format.Email != nil
}

// PptxMetadata returns the slide-deck payload if present.
func (m Metadata) PptxMetadata() (*PptxMetadata, bool) {
	return m.Format.Pptx, m.Format.Type == FormatPPTX && m.Format.Pptx != nil
}

// ArchiveMetadata returns the archive payload if present.
func (m Metadata) ArchiveMetadata() (*ArchiveMetadata, bool) {
	return m.Format.Archive, m.Format.Type == FormatArchive && m.Format.Archive != nil
}

// ImageMetadata returns the image payload if present.
func (m Metadata) ImageMetadata() (*ImageMetadata, bool) {
	return m.Format.Image, m.Format.Type == FormatImage && m.Format.Image != nil
}

// XMLMetadata returns the XML payload if present.
func (m Metadata) XMLMetadata() (*XMLMetadata, bool) {
	return m.Format.XML, m.Format.Type == FormatXML && m.Format.XML != nil
}

// TextMetadata returns the plain-text payload if present.
func (m Metadata) TextMetadata() (*TextMetadata, bool) {
	return m.Format.Text, m.Format.Type == FormatText && m.Format.Text != nil
}

// HTMLMetadata returns the HTML payload if present.
func (m Metadata) HTMLMetadata() (*HTMLMetadata, bool) {
	return m.Format.HTML, m.Format.Type == FormatHTML && m.Format.HTML != nil
}

// OCRMetadata returns the OCR payload if present.
func (m Metadata) OCRMetadata() (*OCRMetadata, bool) {
	return m.Format.OCR, m.Format.Type == FormatOCR && m.Format.OCR != nil
}

// PdfMetadata carries PDF fields that are not part of the core set.
type PdfMetadata struct {
	CreatedBy   *string `json:"created_by,omitempty"`
	Producer    *string `json:"producer,omitempty"`
	PageCount   *int    `json:"page_count,omitempty"`
	PDFVersion  *string `json:"pdf_version,omitempty"`
	IsEncrypted *bool   `json:"is_encrypted,omitempty"`
	Width       *int64  `json:"width,omitempty"`
	Height      *int64  `json:"height,omitempty"`
	Summary     *string `json:"summary,omitempty"`
}

// ExcelMetadata lists the sheets inside a spreadsheet.
type ExcelMetadata struct {
	SheetCount int      `json:"sheet_count"`
	SheetNames []string `json:"sheet_names"`
}

// EmailMetadata captures envelope data for EML/MSG messages.
type EmailMetadata struct {
	FromEmail   *string  `json:"from_email,omitempty"`
	FromName    *string  `json:"from_name,omitempty"`
	ToEmails    []string `json:"to_emails"`
	CcEmails    []string `json:"cc_emails"`
	BccEmails   []string `json:"bcc_emails"`
	MessageID   *string  `json:"message_id,omitempty"`
	Attachments []string `json:"attachments"`
}

// PptxMetadata summarizes a slide deck.
type PptxMetadata struct {
	Author      *string  `json:"author,omitempty"`
	Description *string  `json:"description,omitempty"`
	Summary     *string  `json:"summary,omitempty"`
	Fonts       []string `json:"fonts"`
}

// ArchiveMetadata summarizes archive contents.
type ArchiveMetadata struct {
	Format         string   `json:"format"`
	FileCount      int      `json:"file_count"`
	FileList       []string `json:"file_list"`
	TotalSize      int      `json:"total_size"`
	CompressedSize *int     `json:"compressed_size,omitempty"`
}

// ImageMetadata describes a standalone image document.
type ImageMetadata struct {
	Width  uint32            `json:"width"`
	Height uint32            `json:"height"`
	Format string            `json:"format"`
	EXIF   map[string]string `json:"exif"`
}

// XMLMetadata provides element statistics for XML documents.
type XMLMetadata struct {
	ElementCount   int      `json:"element_count"`
	UniqueElements []string `json:"unique_elements"`
}

// TextMetadata carries counts for plain text and Markdown.
type TextMetadata struct {
	LineCount      int         `json:"line_count"`
	WordCount      int         `json:"word_count"`
	CharacterCount int         `json:"character_count"`
	Headers        []string    `json:"headers,omitempty"`
	Links          [][2]string `json:"links,omitempty"`
	CodeBlocks     [][2]string `json:"code_blocks,omitempty"`
}

// HTMLMetadata holds head-element metadata beyond the core fields. HTML meta
// keywords land in the core Keywords set, not here.
type HTMLMetadata struct {
	Description        *string `json:"description,omitempty"`
	Canonical          *string `json:"canonical,omitempty"`
	BaseHref           *string `json:"base_href,omitempty"`
	OGTitle            *string `json:"og_title,omitempty"`
	OGDescription      *string `json:"og_description,omitempty"`
	OGImage            *string `json:"og_image,omitempty"`
	OGURL              *string `json:"og_url,omitempty"`
	OGType             *string `json:"og_type,omitempty"`
	OGSiteName         *string `json:"og_site_name,omitempty"`
	TwitterCard        *string `json:"twitter_card,omitempty"`
	TwitterTitle       *string `json:"twitter_title,omitempty"`
	TwitterDescription *string `json:"twitter_description,omitempty"`
	TwitterImage       *string `json:"twitter_image,omitempty"`
	TwitterSite        *string `json:"twitter_site,omitempty"`
	TwitterCreator     *string `json:"twitter_creator,omitempty"`
	LinkAuthor         *string `json:"link_author,omitempty"`
	LinkLicense        *string `json:"link_license,omitempty"`
	LinkAlternate      *string `json:"link_alternate,omitempty"`
}

// OCRMetadata records the OCR settings behind an OCR-driven extraction.
type OCRMetadata struct {
	PSM          int    `json:"psm"`
	OutputFormat string `json:"output_format"`
	TableCount   int    `json:"table_count"`
	TableRows    *int   `json:"table_rows,omitempty"`
	TableCols    *int   `json:"table_cols,omitempty"`
}

// ImagePreprocessingMetadata tracks the resize/DPI steps applied before OCR.
type ImagePreprocessingMetadata struct {
	OriginalDimensions [2]int     `json:"original_dimensions"`
	OriginalDPI        [2]float64 `json:"original_dpi"`
	TargetDPI          int        `json:"target_dpi"`
	ScaleFactor        float64    `json:"scale_factor"`
	AutoAdjusted       bool       `json:"auto_adjusted"`
	FinalDPI           int        `json:"final_dpi"`
	NewDimensions      *[2]int    `json:"new_dimensions,omitempty"`
	ResampleMethod     string     `json:"resample_method"`
	DimensionClamped   bool       `json:"dimension_clamped"`
	CalculatedDPI      *int       `json:"calculated_dpi,omitempty"`
	SkippedResize      bool       `json:"skipped_resize"`
	ResizeError        *string    `json:"resize_error,omitempty"`
}

// ErrorMetadata marks a per-item failure inside a batch result.
type ErrorMetadata struct {
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

var metadataCoreKeys = map[string]struct{}{
	"title":               {},
	"subject":             {},
	"authors":             {},
	"keywords":            {},
	"language":            {},
	"date":                {},
	"created_at":          {},
	"modified_at":         {},
	"pages":               {},
	"format_type":         {},
	"image_preprocessing": {},
	"json_schema":         {},
	"error":               {},
}

var formatFieldSets = map[FormatType][]string{
	FormatPDF: {
		"created_by", "producer", "page_count", "pdf_version", "is_encrypted",
		"width", "height", "summary",
	},
	FormatExcel:   {"sheet_count", "sheet_names"},
	FormatEmail:   {"from_email", "from_name", "to_emails", "cc_emails", "bcc_emails", "message_id", "attachments"},
	FormatPPTX:    {"author", "description", "summary", "fonts"},
	FormatArchive: {"format", "file_count", "file_list", "total_size", "compressed_size"},
	FormatImage:   {"width", "height", "format", "exif"},
	FormatXML:     {"element_count", "unique_elements"},
	FormatText:    {"line_count", "word_count", "character_count", "headers", "links", "code_blocks"},
	FormatHTML: {
		"description", "canonical", "base_href",
		"og_title", "og_description", "og_image", "og_url", "og_type", "og_site_name",
		"twitter_card", "twitter_title", "twitter_description", "twitter_image", "twitter_site", "twitter_creator",
		"link_author", "link_license", "link_alternate",
	},
	FormatOCR: {"psm", "output_format", "table_count", "table_rows", "table_cols"},
}

// UnmarshalJSON reads the flattened wire form: core keys first, then the
// format payload selected by format_type, then everything left into
// Additional.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decodeString := func(key string) *string {
		value, exists := raw[key]
		if !exists {
			return nil
		}
		var out string
		if err := json.Unmarshal(value, &out); err != nil {
			return nil
		}
		return &out
	}

	m.Title = decodeString("title")
	m.Subject = decodeString("subject")
	m.Language = decodeString("language")
	m.Date = decodeString("date")
	m.CreatedAt = decodeString("created_at")
	m.ModifiedAt = decodeString("modified_at")

	if value, ok := raw["authors"]; ok {
		var authors []string
		if err := json.Unmarshal(value, &authors); err == nil {
			m.Authors = authors
		}
	}
	if value, ok := raw["keywords"]; ok {
		if err := json.Unmarshal(value, &m.Keywords); err != nil {
			return err
		}
	}
	if value, ok := raw["pages"]; ok {
		var pages int
		if err := json.Unmarshal(value, &pages); err == nil {
			m.Pages = &pages
		}
	}
	if value, ok := raw["image_preprocessing"]; ok {
		var meta ImagePreprocessingMetadata
		if err := json.Unmarshal(value, &meta); err == nil {
			m.ImagePreprocessing = &meta
		}
	}
	if value, ok := raw["json_schema"]; ok {
		m.JSONSchema = value
	}
	if value, ok := raw["error"]; ok {
		var errMeta ErrorMetadata
		if err := json.Unmarshal(value, &errMeta); err == nil {
			m.Error = &errMeta
		}
	}
	if value, ok := raw["format_type"]; ok {
		var format string
		if err := json.Unmarshal(value, &format); err == nil {
			m.Format.Type = FormatType(format)
		}
	}

	if err := m.decodeFormat(data); err != nil {
		return err
	}

	recognized := map[string]struct{}{}
	for key := range metadataCoreKeys {
		recognized[key] = struct{}{}
	}
	for _, field := range formatFieldSets[m.Format.Type] {
		recognized[field] = struct{}{}
	}

	m.Additional = make(map[string]json.RawMessage)
	for key, value := range raw {
		if _, ok := recognized[key]; ok {
			continue
		}
		m.Additional[key] = value
	}
	if len(m.Additional) == 0 {
		m.Additional = nil
	}

	return nil
}

// MarshalJSON writes the flattened wire form back so a decode/encode cycle
// preserves the engine's payload.
func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)

	if m.Title != nil {
		out["title"] = *m.Title
	}
	if m.Subject != nil {
		out["subject"] = *m.Subject
	}
	if m.Authors != nil {
		out["authors"] = m.Authors
	}
	if !m.Keywords.IsZero() {
		out["keywords"] = m.Keywords
	}
	if m.Language != nil {
		out["language"] = *m.Language
	}
	if m.Date != nil {
		out["date"] = *m.Date
	}
	if m.CreatedAt != nil {
		out["created_at"] = *m.CreatedAt
	}
	if m.ModifiedAt != nil {
		out["modified_at"] = *m.ModifiedAt
	}
	if m.Pages != nil {
		out["pages"] = *m.Pages
	}
	if m.ImagePreprocessing != nil {
		out["image_preprocessing"] = m.ImagePreprocessing
	}
	if m.JSONSchema != nil {
		out["json_schema"] = json.RawMessage(m.JSONSchema)
	}
	if m.Error != nil {
		out["error"] = m.Error
	}

	formatFields, err := m.encodeFormat()
	if err != nil {
		return nil, err
	}
	for key, value := range formatFields {
		out[key] = value
	}

	for key, value := range m.Additional {
		out[key] = json.RawMessage(value)
	}

	return json.Marshal(out)
}

func (m *Metadata) decodeFormat(data []byte) error {
	switch m.Format.Type {
	case FormatPDF:
		var meta PdfMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.Pdf = &meta
	case FormatExcel:
		var meta ExcelMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.Excel = &meta
	case FormatEmail:
		var meta EmailMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.Email = &meta
	case FormatPPTX:
		var meta PptxMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.Pptx = &meta
	case FormatArchive:
		var meta ArchiveMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.Archive = &meta
	case FormatImage:
		var meta ImageMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.Image = &meta
	case FormatXML:
		var meta XMLMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.XML = &meta
	case FormatText:
		var meta TextMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.Text = &meta
	case FormatHTML:
		var meta HTMLMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.HTML = &meta
	case FormatOCR:
		var meta OCRMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		m.Format.OCR = &meta
	default:
		m.Format.Type = FormatUnknown
	}
	return nil
}

func (m Metadata) encodeFormat() (map[string]json.RawMessage, error) {
	result := make(map[string]json.RawMessage)
	if m.Format.Type == FormatUnknown {
		return result, nil
	}

	typeRaw, err := json.Marshal(m.Format.Type)
	if err != nil {
		return nil, err
	}
	result["format_type"] = json.RawMessage(typeRaw)

	var payload any
	switch m.Format.Type {
	case FormatPDF:
		payload = m.Format.Pdf
	case FormatExcel:
		payload = m.Format.Excel
	case FormatEmail:
		payload = m.Format.Email
	case FormatPPTX:
		payload = m.Format.Pptx
	case FormatArchive:
		payload = m.Format.Archive
	case FormatImage:
		payload = m.Format.Image
	case FormatXML:
		payload = m.Format.XML
	case FormatText:
		payload = m.Format.Text
	case FormatHTML:
		payload = m.Format.HTML
	case FormatOCR:
		payload = m.Format.OCR
	}

	if payload == nil || isNilPointer(payload) {
		return result, nil
	}

	fields, err := flattenFields(payload)
	if err != nil {
		return nil, err
	}
	for key, value := range fields {
		result[key] = value
	}
	return result, nil
}

func isNilPointer(v any) bool {
	switch p := v.(type) {
	case *PdfMetadata:
		return p == nil
	case *ExcelMetadata:
		return p == nil
	case *EmailMetadata:
		return p == nil
	case *PptxMetadata:
		return p == nil
	case *ArchiveMetadata:
		return p == nil
	case *ImageMetadata:
		return p == nil
	case *XMLMetadata:
		return p == nil
	case *TextMetadata:
		return p == nil
	case *HTMLMetadata:
		return p == nil
	case *OCRMetadata:
		return p == nil
	}
	return false
}

func flattenFields(value any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	result := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return result, nil
}
