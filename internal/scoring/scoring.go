package scoring

import (
	"context"
	"errors"
)

// Processor scores a stored application by id. *Service satisfies this; the
// worker accepts the interface so tests can swap it out.
type Processor interface {
	Score(ctx context.Context, applicationID string) error
}

// Client abstracts AI providers for application scoring.
type Client interface {
	ScoreApplication(ctx context.Context, input Input) (Result, error)
}

// Input captures what the model sees when scoring an application.
type Input struct {
	ResumeText string
	JobID      string
	Notes      string
	VideoURL   string
}

// Result is the structured scoring verdict.
type Result struct {
	Score int    `json:"score"`
	Notes string `json:"notes"`
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("scoring not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// ScoreApplication returns ErrNotImplemented.
func (PlaceholderClient) ScoreApplication(ctx context.Context, input Input) (Result, error) {
	_ = ctx
	_ = input
	return Result{}, ErrNotImplemented
}

// ClampScore forces a model-produced score into the 0..100 range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
