package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytesDocx(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>Senior Go engineer</w:t></w:r></w:p><w:p><w:r><w:t>Five years experience</w:t></w:r></w:p></w:body></w:document>`)

	text, err := TextFromBytes(context.Background(), data,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "cv.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Senior Go engineer") || !strings.Contains(text, "Five years experience") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTextFromBytesZipMimeNormalizedByExtension(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`)

	if _, err := TextFromBytes(context.Background(), data, "application/zip", "cv.docx"); err != nil {
		t.Fatalf("expected docx extraction from zip mime, got %v", err)
	}
}

func TestTextFromBytesUnsupportedType(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("plain text"), "text/plain", "notes.txt")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}
