package extract

import (
	"context"
	"strings"
	"testing"
)

func TestNormalizeMimeType(t *testing.T) {
	cases := []struct {
		mime, name, want string
	}{
		{"application/pdf", "resume.pdf", "application/pdf"},
		{"Application/PDF; charset=utf-8", "resume.pdf", "application/pdf"},
		{"application/zip", "resume.docx", mimeDOCX},
		{"application/octet-stream", "resume.pdf", "application/pdf"},
		{"application/octet-stream", "resume.doc", "application/msword"},
		{"", "resume.docx", mimeDOCX},
		{"text/plain", "notes.txt", "text/plain"},
	}
	for _, tc := range cases {
		if got := NormalizeMimeType(tc.mime, tc.name); got != tc.want {
			t.Fatalf("NormalizeMimeType(%q, %q) = %q, want %q", tc.mime, tc.name, got, tc.want)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported("application/pdf", "a.pdf") {
		t.Fatalf("pdf should be supported")
	}
	if !Supported("application/msword", "a.doc") {
		t.Fatalf("doc should be accepted")
	}
	if Supported("image/png", "a.png") {
		t.Fatalf("png should not be supported")
	}
}

func TestParsedKeyFor(t *testing.T) {
	got := ParsedKeyFor("abc/job-1/resume.pdf")
	if got != "parsed/abc/job-1/resume.pdf.txt" {
		t.Fatalf("unexpected parsed key %q", got)
	}
}

func TestTextFromBytesRejectsEmptyAndUnknown(t *testing.T) {
	ctx := context.Background()

	if _, err := TextFromBytes(ctx, nil, "application/pdf", "a.pdf"); err == nil {
		t.Fatalf("expected error for empty payload")
	}

	_, err := TextFromBytes(ctx, []byte("not a real doc"), "image/png", "a.png")
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported error, got %v", err)
	}
}

func TestStripDocxXML(t *testing.T) {
	raw := `<w:document><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Engineer</w:t></w:r></w:p></w:body></w:document>`
	got := stripDocxXML(raw)
	if got != "Jane Doe\nEngineer" {
		t.Fatalf("unexpected stripped text %q", got)
	}
}
