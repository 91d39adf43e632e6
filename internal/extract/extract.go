package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"talentflow-backend/internal/shared/storage/object"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// Derived plain-text objects live under their own namespace so the
	// parsed-data area can be lifecycled independently of the originals.
	parsedPrefix = "parsed"
)

// ErrUnsupported reports a document type the extractor cannot handle.
var ErrUnsupported = errors.New("unsupported document type")

// Result describes a completed extraction.
type Result struct {
	Text      string
	ParsedKey string
}

// ExtractText pulls text from a stored resume and persists the derived
// plain-text copy into the parsed-data area.
// Libraries used: github.com/ledongthuc/pdf (PDF) and
// github.com/nguyenthenguyen/docx (DOCX).
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return Result{}, fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return Result{}, fmt.Errorf("extract text key=%s mime=%s: read: %w", fileKey, mimeType, err)
	}

	text, err := TextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return Result{}, fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	parsedKey := ParsedKeyFor(fileKey)
	if err := saveParsed(ctx, store, parsedKey, text); err != nil {
		return Result{}, fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	return Result{Text: text, ParsedKey: parsedKey}, nil
}

// TextFromBytes extracts text from an in-memory payload.
func TextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty document")
	}
	switch NormalizeMimeType(mimeType, fileName) {
	case mimePDF:
		return extractPDF(data)
	case mimeDOCX:
		return extractDOCX(data)
	case mimeDOC:
		// Legacy binary Word documents have no pure-Go reader in this
		// stack; the upload is still durable, extraction just reports
		// unsupported and the caller treats it as a soft failure.
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mimeDOC)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mimeType)
	}
}

// ParsedKeyFor maps a stored document key to its parsed-data key.
func ParsedKeyFor(fileKey string) string {
	return path.Join(parsedPrefix, fileKey) + ".txt"
}

// Supported reports whether the extractor understands the given MIME type.
// DOC is accepted at upload time but extraction degrades to a soft failure.
func Supported(mimeType, fileName string) bool {
	switch NormalizeMimeType(mimeType, fileName) {
	case mimePDF, mimeDOC, mimeDOCX:
		return true
	default:
		return false
	}
}

func saveParsed(ctx context.Context, store object.ObjectStore, key string, text string) error {
	saver, ok := store.(object.KeySaver)
	if !ok {
		return errors.New("object store does not support SaveWithKey")
	}
	reader := strings.NewReader(text)
	_, err := saver.SaveWithKey(ctx, key, "text/plain; charset=utf-8", reader)
	return err
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	readerAt := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(readerAt, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML flattens word/document.xml content into plain text, keeping
// paragraph and line breaks.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// NormalizeMimeType cleans a reported MIME type, falling back to the file
// extension for generic zip payloads.
func NormalizeMimeType(mimeType string, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != "application/zip" && clean != "application/octet-stream" && clean != "" {
		return clean
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".doc":
		return mimeDOC
	case ".docx":
		return mimeDOCX
	default:
		return clean
	}
}
