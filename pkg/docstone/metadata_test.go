package docstone

import (
	"encoding/json"
	"testing"
)

func TestMetadataDecodesCoreFields(t *testing.T) {
	input := []byte(`{
		"title": "Quarterly Report",
		"subject": "Finance",
		"authors": ["A. Author", "B. Author"],
		"keywords": ["finance", "q3"],
		"language": "en",
		"date": "2025-07-01",
		"created_at": "2025-06-30T10:00:00Z",
		"modified_at": "2025-07-01T09:00:00Z",
		"pages": 12
	}`)

	var meta Metadata
	if err := json.Unmarshal(input, &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if meta.Title == nil || *meta.Title != "Quarterly Report" {
		t.Fatalf("title = %v", meta.Title)
	}
	if len(meta.Authors) != 2 {
		t.Fatalf("authors = %v", meta.Authors)
	}
	if len(meta.Keywords.Simple) != 2 {
		t.Fatalf("keywords = %+v", meta.Keywords)
	}
	if meta.Pages == nil || *meta.Pages != 12 {
		t.Fatalf("pages = %v", meta.Pages)
	}
	if meta.FormatType() != FormatUnknown {
		t.Fatalf("format = %q, want unknown", meta.FormatType())
	}
	if meta.Additional != nil {
		t.Fatalf("all keys are core, additional = %v", meta.Additional)
	}
}

func TestMetadataDecodesEachFormatVariant(t *testing.T) {
	cases := []struct {
		format  FormatType
		payload string
		check   func(t *testing.T, meta Metadata)
	}{
		{
			FormatPDF,
			`{"format_type": "pdf", "producer": "docstone", "page_count": 3, "pdf_version": "1.7"}`,
			func(t *testing.T, meta Metadata) {
				pdf, ok := meta.PdfMetadata()
				if !ok {
					t.Fatal("pdf payload missing")
				}
				if pdf.PageCount == nil || *pdf.PageCount != 3 {
					t.Fatalf("page_count = %v", pdf.PageCount)
				}
			},
		},
		{
			FormatExcel,
			`{"format_type": "excel", "sheet_count": 2, "sheet_names": ["Data", "Summary"]}`,
			func(t *testing.T, meta Metadata) {
				excel, ok := meta.ExcelMetadata()
				if !ok || excel.SheetCount != 2 {
					t.Fatalf("excel payload = %+v", excel)
				}
			},
		},
		{
			FormatEmail,
			`{"format_type": "email", "from_email": "a@b.c", "to_emails": ["d@e.f"], "cc_emails": [], "bcc_emails": [], "attachments": []}`,
			func(t *testing.T, meta Metadata) {
				email, ok := meta.EmailMetadata()
				if !ok || email.FromEmail == nil || *email.FromEmail != "a@b.c" {
					t.Fatalf("email payload = %+v", email)
				}
			},
		},
		{
			FormatPPTX,
			`{"format_type": "pptx", "author": "deck author", "fonts": ["Calibri"]}`,
			func(t *testing.T, meta Metadata) {
				pptx, ok := meta.PptxMetadata()
				if !ok || len(pptx.Fonts) != 1 {
					t.Fatalf("pptx payload = %+v", pptx)
				}
			},
		},
		{
			FormatArchive,
			`{"format_type": "archive", "format": "zip", "file_count": 4, "file_list": ["a", "b"], "total_size": 1024}`,
			func(t *testing.T, meta Metadata) {
				archive, ok := meta.ArchiveMetadata()
				if !ok || archive.FileCount != 4 {
					t.Fatalf("archive payload = %+v", archive)
				}
			},
		},
		{
			FormatImage,
			`{"format_type": "image", "width": 800, "height": 600, "format": "png", "exif": {"Make": "Canon"}}`,
			func(t *testing.T, meta Metadata) {
				image, ok := meta.ImageMetadata()
				if !ok || image.Width != 800 || image.EXIF["Make"] != "Canon" {
					t.Fatalf("image payload = %+v", image)
				}
			},
		},
		{
			FormatXML,
			`{"format_type": "xml", "element_count": 42, "unique_elements": ["item"]}`,
			func(t *testing.T, meta Metadata) {
				xml, ok := meta.XMLMetadata()
				if !ok || xml.ElementCount != 42 {
					t.Fatalf("xml payload = %+v", xml)
				}
			},
		},
		{
			FormatText,
			`{"format_type": "text", "line_count": 10, "word_count": 120, "character_count": 640}`,
			func(t *testing.T, meta Metadata) {
				text, ok := meta.TextMetadata()
				if !ok || text.WordCount != 120 {
					t.Fatalf("text payload = %+v", text)
				}
			},
		},
		{
			FormatHTML,
			`{"format_type": "html", "description": "landing page", "og_title": "Welcome", "keywords": ["shop", "cart"]}`,
			func(t *testing.T, meta Metadata) {
				html, ok := meta.HTMLMetadata()
				if !ok || html.OGTitle == nil || *html.OGTitle != "Welcome" {
					t.Fatalf("html payload = %+v", html)
				}
				if len(meta.Keywords.Simple) != 2 {
					t.Fatalf("html meta keywords should land in the core set, got %+v", meta.Keywords)
				}
			},
		},
		{
			FormatOCR,
			`{"format_type": "ocr", "psm": 3, "output_format": "text", "table_count": 1}`,
			func(t *testing.T, meta Metadata) {
				ocr, ok := meta.OCRMetadata()
				if !ok || ocr.PSM != 3 {
					t.Fatalf("ocr payload = %+v", ocr)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			var meta Metadata
			if err := json.Unmarshal([]byte(tc.payload), &meta); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if meta.FormatType() != tc.format {
				t.Fatalf("format = %q, want %q", meta.FormatType(), tc.format)
			}
			assertSingleVariant(t, meta, tc.format)
			tc.check(t, meta)
		})
	}
}

// assertSingleVariant checks that exactly the payload matching the tag is
// populated.
func assertSingleVariant(t *testing.T, meta Metadata, want FormatType) {
	t.Helper()
	populated := map[FormatType]bool{
		FormatPDF:     meta.Format.Pdf != nil,
		FormatExcel:   meta.Format.Excel != nil,
		FormatEmail:   meta.Format.Email != nil,
		FormatPPTX:    meta.Format.Pptx != nil,
		FormatArchive: meta.Format.Archive != nil,
		FormatImage:   meta.Format.Image != nil,
		FormatXML:     meta.Format.XML != nil,
		FormatText:    meta.Format.Text != nil,
		FormatHTML:    meta.Format.HTML != nil,
		FormatOCR:     meta.Format.OCR != nil,
	}
	for format, present := range populated {
		if format == want && !present {
			t.Fatalf("variant %q not populated", format)
		}
		if format != want && present {
			t.Fatalf("variant %q populated alongside %q", format, want)
		}
	}
}

func TestMetadataUnknownFormatTypeKeepsFieldsInAdditional(t *testing.T) {
	input := []byte(`{"format_type": "hologram", "shimmer": true, "title": "x"}`)

	var meta Metadata
	if err := json.Unmarshal(input, &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if meta.FormatType() != FormatUnknown {
		t.Fatalf("unrecognized tag should degrade to unknown, got %q", meta.FormatType())
	}
	if _, ok := meta.Additional["shimmer"]; !ok {
		t.Fatalf("unrecognized key lost, additional = %v", meta.Additional)
	}
	if meta.Title == nil {
		t.Fatal("core title should still decode")
	}
}

func TestMetadataRoundTripPreservesAdditional(t *testing.T) {
	input := []byte(`{
		"format_type": "pdf",
		"title": "Doc",
		"producer": "docstone",
		"custom_score": {"value": 42},
		"error": {"error_type": "ParsingError", "message": "page 9 damaged"}
	}`)

	var meta Metadata
	if err := json.Unmarshal(input, &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var second Metadata
	if err := json.Unmarshal(out, &second); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if second.FormatType() != FormatPDF {
		t.Fatalf("format lost in round trip: %q", second.FormatType())
	}
	if second.Format.Pdf == nil || second.Format.Pdf.Producer == nil || *second.Format.Pdf.Producer != "docstone" {
		t.Fatalf("pdf payload lost: %+v", second.Format.Pdf)
	}
	if string(second.Additional["custom_score"]) != `{"value": 42}` && string(second.Additional["custom_score"]) != `{"value":42}` {
		t.Fatalf("custom key lost: %s", second.Additional["custom_score"])
	}
	if second.Error == nil || second.Error.ErrorType != "ParsingError" {
		t.Fatalf("error marker lost: %+v", second.Error)
	}
}
