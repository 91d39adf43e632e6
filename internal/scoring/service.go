package scoring

import (
	"context"
	"fmt"
	"io"
	"time"

	"talentflow-backend/internal/applications"
	"talentflow-backend/internal/extract"
	"talentflow-backend/internal/shared/storage/object"
	"talentflow-backend/internal/shared/telemetry"
)

// Service scores a stored application and writes the verdict back onto it.
type Service struct {
	Repo   applications.Repo
	Store  object.ObjectStore
	Client Client
	// KeyFromURL inverts the store's URL scheme back to a storage key so the
	// parsed resume text can be fetched. Wired per store flavor.
	KeyFromURL func(url string) string
}

// Score loads the application, gathers whatever context exists and records
// the model's verdict. A missing resume text is not an error; the model is
// told and scores on what remains.
func (s *Service) Score(ctx context.Context, applicationID string) error {
	app, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("load application: %w", err)
	}
	if app.Score != nil {
		// already scored; retries and duplicate deliveries land here
		return nil
	}

	result, err := s.Client.ScoreApplication(ctx, Input{
		ResumeText: s.resumeText(ctx, app),
		JobID:      app.JobID,
		Notes:      app.Notes,
		VideoURL:   app.VideoURL,
	})
	if err != nil {
		return fmt.Errorf("score application %s: %w", applicationID, err)
	}

	if err := s.Repo.SetScore(ctx, app.ID, result.Score, result.Notes); err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	telemetry.Info("application scored", map[string]any{
		"application_id": app.ID,
		"score":          result.Score,
	})
	return nil
}

func (s *Service) resumeText(ctx context.Context, app applications.Application) string {
	if s.Store == nil || s.KeyFromURL == nil {
		return ""
	}
	key := s.KeyFromURL(app.ResumeURL)
	if key == "" {
		return ""
	}
	rc, err := s.Store.Open(ctx, extract.ParsedKeyFor(key))
	if err != nil {
		telemetry.Warn("parsed resume text unavailable", map[string]any{
			"application_id": app.ID,
			"error":          err.Error(),
		})
		return ""
	}
	defer rc.Close()
	text, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}
	return string(text)
}

// InlineScorer satisfies the submission flow's scorer port by scoring in a
// goroutine. Used when no queue is configured.
type InlineScorer struct {
	Svc     *Service
	Timeout time.Duration
}

func (s *InlineScorer) Enqueue(ctx context.Context, applicationID string) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	go func() {
		// detached from the request lifetime on purpose
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.Svc.Score(ctx, applicationID); err != nil {
			telemetry.Error("inline scoring failed", map[string]any{
				"application_id": applicationID,
				"error":          err.Error(),
			})
		}
	}()
	return nil
}
