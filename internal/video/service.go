package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"talentflow-backend/internal/onboarding"
	"talentflow-backend/internal/shared/storage/object"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyClip    = errors.New("empty clip")
	ErrTooLarge     = errors.New("clip too large")
)

// ProgressSink receives the uploaded clip URL. The onboarding controller
// satisfies this.
type ProgressSink interface {
	UpdateVideo(ctx context.Context, userID string, upd onboarding.VideoUpdate) (onboarding.View, error)
}

// Upload is the outcome of storing a recorded clip.
type Upload struct {
	UploadedURL string `json:"uploadedUrl"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// Service stores recorded clips and reports them into onboarding.
type Service struct {
	Store    object.ObjectStore
	Sink     ProgressSink
	MaxBytes int64
}

// Capture persists a finished clip and records its URL on the candidate's
// onboarding progress. The raw bytes never enter the progress snapshot.
func (s *Service) Capture(ctx context.Context, userID, email, jobID string, clip *Clip) (*Upload, error) {
	if email == "" || clip == nil {
		return nil, ErrInvalidInput
	}
	if len(clip.Data) == 0 {
		return nil, ErrEmptyClip
	}
	if s.MaxBytes > 0 && int64(len(clip.Data)) > s.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(clip.Data))
	}
	if jobID = strings.TrimSpace(jobID); jobID == "" {
		jobID = "general"
	}

	fileName := "intro.webm"
	key, size, _, err := s.Store.Save(ctx, email, jobID, fileName, bytes.NewReader(clip.Data))
	if err != nil {
		return nil, fmt.Errorf("store clip: %w", err)
	}
	url := s.Store.URL(key)

	if s.Sink != nil {
		if _, err := s.Sink.UpdateVideo(ctx, userID, onboarding.VideoUpdate{UploadedURL: &url}); err != nil {
			return nil, fmt.Errorf("record progress: %w", err)
		}
	}
	return &Upload{UploadedURL: url, SizeBytes: size}, nil
}
