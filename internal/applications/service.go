package applications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/extract"
	"talentflow-backend/internal/shared/metrics"
	"talentflow-backend/internal/shared/storage/object"
	"talentflow-backend/internal/shared/telemetry"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingResume      = errors.New("resume file is required")
	ErrMissingVideo       = errors.New("video clip is required")
	ErrUnsupportedResume  = errors.New("unsupported resume type")
	ErrSubmissionInFlight = errors.New("a submission for this email is already in progress")
	ErrResumeTooLarge     = errors.New("resume too large")
	ErrVideoTooLarge      = errors.New("video too large")
)

// Artifact is an uploaded file captured during onboarding.
type Artifact struct {
	FileName string
	MimeType string
	Data     []byte
}

type SubmitInput struct {
	Identity candidates.Identity
	JobID    string
	Notes    string
	Resume   Artifact
	Video    Artifact
	// HasSession suppresses the sign-in link for already-authenticated
	// candidates.
	HasSession bool
}

// SubmitResult reports a successful submission along with warnings for the
// steps that degraded instead of failing.
type SubmitResult struct {
	ApplicationID string   `json:"applicationId"`
	CandidateID   string   `json:"candidateId"`
	ResumeURL     string   `json:"resumeUrl"`
	VideoURL      string   `json:"videoUrl"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Identities resolves who is applying. candidates.Service satisfies this.
type Identities interface {
	Identify(ctx context.Context, id candidates.Identity) (candidates.Candidate, error)
	EnsureProfile(ctx context.Context, candidateID, headline, summary string) error
}

// Scorer kicks off AI scoring for a stored application.
type Scorer interface {
	Enqueue(ctx context.Context, applicationID string) error
}

// LinkSender delivers a passwordless sign-in link.
type LinkSender interface {
	SendSignInLink(ctx context.Context, email string) error
}

type Service struct {
	Repo       Repo
	Identities Identities
	Store      object.ObjectStore
	Scorer     Scorer
	Links      LinkSender

	MaxResumeBytes int64
	MaxVideoBytes  int64

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Submit runs the full submission pipeline. Steps that touch the candidate's
// artifacts or the application row are fatal; enrichment steps append a
// warning and keep going. At most one submission per email is in flight at a
// time.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	metrics.IncSubmissionStarted()
	start := time.Now()
	res, err := s.submit(ctx, in)
	metrics.ObserveSubmissionDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncSubmissionFailed()
		return nil, err
	}
	metrics.IncSubmissionCompleted()
	return res, nil
}

func (s *Service) submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Identity.Email))
	if !s.acquire(email) {
		return nil, ErrSubmissionInFlight
	}
	defer s.release(email)

	var warnings []string
	warn := func(step string, err error) {
		telemetry.Warn("submission step degraded", map[string]any{"step": step, "error": err.Error()})
		warnings = append(warnings, step+" failed; the application was still submitted")
	}

	cand, err := s.Identities.Identify(ctx, in.Identity)
	if err != nil {
		return nil, fmt.Errorf("identify candidate: %w", err)
	}

	if err := s.Identities.EnsureProfile(ctx, cand.ID, "", ""); err != nil {
		warn("profile setup", err)
	}

	jobID := strings.TrimSpace(in.JobID)
	if jobID == "" {
		jobID = "general"
	}

	resumeKey, _, _, err := s.Store.Save(ctx, cand.Email, jobID, in.Resume.FileName, bytes.NewReader(in.Resume.Data))
	if err != nil {
		return nil, fmt.Errorf("store resume: %w", err)
	}
	resumeURL := s.Store.URL(resumeKey)

	if err := s.extractResume(ctx, resumeKey, in.Resume); err != nil {
		warn("resume text extraction", err)
	}

	videoKey, _, _, err := s.Store.Save(ctx, cand.Email, jobID, in.Video.FileName, bytes.NewReader(in.Video.Data))
	if err != nil {
		return nil, fmt.Errorf("store video: %w", err)
	}
	videoURL := s.Store.URL(videoKey)

	app := Application{
		ID:          uuid.NewString(),
		CandidateID: cand.ID,
		JobID:       jobID,
		ResumeURL:   resumeURL,
		VideoURL:    videoURL,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      StatusPending,
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	if s.Scorer != nil {
		if err := s.Scorer.Enqueue(ctx, app.ID); err != nil {
			warn("scoring", err)
		}
	}

	if !in.HasSession && s.Links != nil {
		if err := s.Links.SendSignInLink(ctx, cand.Email); err != nil {
			warn("sign-in link", err)
		}
	}

	return &SubmitResult{
		ApplicationID: app.ID,
		CandidateID:   cand.ID,
		ResumeURL:     resumeURL,
		VideoURL:      videoURL,
		Warnings:      warnings,
	}, nil
}

// validate rejects broken input before any remote call happens.
func (s *Service) validate(in SubmitInput) error {
	email := strings.TrimSpace(in.Identity.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if len(in.Resume.Data) == 0 {
		return ErrMissingResume
	}
	if len(in.Video.Data) == 0 {
		return ErrMissingVideo
	}
	if !extract.Supported(in.Resume.MimeType, in.Resume.FileName) {
		return fmt.Errorf("%w: %s", ErrUnsupportedResume, in.Resume.MimeType)
	}
	if s.MaxResumeBytes > 0 && int64(len(in.Resume.Data)) > s.MaxResumeBytes {
		return fmt.Errorf("%w: %d bytes", ErrResumeTooLarge, len(in.Resume.Data))
	}
	if s.MaxVideoBytes > 0 && int64(len(in.Video.Data)) > s.MaxVideoBytes {
		return fmt.Errorf("%w: %d bytes", ErrVideoTooLarge, len(in.Video.Data))
	}
	return nil
}

func (s *Service) extractResume(ctx context.Context, resumeKey string, art Artifact) error {
	mime := extract.NormalizeMimeType(art.MimeType, art.FileName)
	text, err := extract.TextFromBytes(ctx, art.Data, mime, art.FileName)
	if err != nil {
		return err
	}
	if saver, ok := s.Store.(object.KeySaver); ok {
		parsedKey := extract.ParsedKeyFor(resumeKey)
		if _, err := saver.SaveWithKey(ctx, parsedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) acquire(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight == nil {
		s.inFlight = make(map[string]struct{})
	}
	if _, busy := s.inFlight[email]; busy {
		return false
	}
	s.inFlight[email] = struct{}{}
	return true
}

func (s *Service) release(email string) {
	s.mu.Lock()
	delete(s.inFlight, email)
	s.mu.Unlock()
}
