package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"talentflow-backend/internal/extract"
	"talentflow-backend/internal/onboarding"
	"talentflow-backend/internal/shared/storage/object"
	"talentflow-backend/internal/shared/telemetry"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyFile       = errors.New("empty file")
	ErrTooLarge        = errors.New("file exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ProgressSink receives captured resume artifacts. Satisfied by the
// onboarding controller.
type ProgressSink interface {
	UpdateResume(ctx context.Context, userID string, upd onboarding.ResumeUpdate) (onboarding.View, error)
}

// Capture is the outcome of a resume capture: the durable URL always, the
// extracted text when the non-fatal extraction step succeeded, and a warning
// when it did not.
type Capture struct {
	UploadedURL string `json:"uploadedUrl"`
	Text        string `json:"text,omitempty"`
	ParsedKey   string `json:"parsedKey,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

// Service implements the resume capture flow: validate, upload, extract,
// report back to the onboarding state store.
type Service struct {
	Store    object.ObjectStore
	Sink     ProgressSink
	MaxBytes int64
}

// Capture validates and stores a resume document for a candidate. The upload
// is fatal on failure; extraction is best-effort and the resume counts as
// captured once its durable URL exists.
func (s *Service) Capture(ctx context.Context, userID, email, jobID, fileName, mimeType string, r io.Reader) (Capture, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(fileName) == "" {
		return Capture{}, ErrInvalidInput
	}
	if jobID = strings.TrimSpace(jobID); jobID == "" {
		jobID = "general"
	}

	normalized := extract.NormalizeMimeType(mimeType, fileName)
	if !extract.Supported(normalized, fileName) {
		return Capture{}, fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}

	data, err := readBounded(r, s.maxBytes())
	if err != nil {
		return Capture{}, err
	}
	if len(data) == 0 {
		return Capture{}, ErrEmptyFile
	}

	storageKey, _, _, err := s.Store.Save(ctx, email, jobID, fileName, bytes.NewReader(data))
	if err != nil {
		return Capture{}, fmt.Errorf("upload resume: %w", err)
	}
	uploadedURL := s.Store.URL(storageKey)

	result := Capture{UploadedURL: uploadedURL}

	text, extractErr := extract.TextFromBytes(ctx, data, normalized, fileName)
	if extractErr != nil {
		result.Warning = "resume uploaded, but text extraction failed"
		telemetry.Warn("resume.extract_failed", map[string]any{
			"user_id": userID,
			"key":     storageKey,
			"error":   extractErr.Error(),
		})
	} else {
		result.Text = text
		parsedKey := extract.ParsedKeyFor(storageKey)
		if saver, ok := s.Store.(object.KeySaver); ok {
			if _, err := saver.SaveWithKey(ctx, parsedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
				telemetry.Warn("resume.parsed_save_failed", map[string]any{
					"user_id": userID,
					"key":     parsedKey,
					"error":   err.Error(),
				})
			} else {
				result.ParsedKey = parsedKey
			}
		}
	}

	if s.Sink != nil {
		upd := onboarding.ResumeUpdate{UploadedURL: &result.UploadedURL}
		if result.Text != "" {
			upd.Text = &result.Text
		}
		if result.ParsedKey != "" {
			upd.ParsedKey = &result.ParsedKey
		}
		if _, err := s.Sink.UpdateResume(ctx, userID, upd); err != nil {
			return Capture{}, fmt.Errorf("record resume capture: %w", err)
		}
	}

	return result, nil
}

func (s *Service) maxBytes() int64 {
	if s.MaxBytes <= 0 {
		return 5 << 20
	}
	return s.MaxBytes
}

// readBounded reads the full payload, failing once it exceeds the limit.
func readBounded(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
