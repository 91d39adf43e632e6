package candidates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidEmail = errors.New("invalid email")

// Identity is what a submission knows about the person applying.
type Identity struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

type Service struct {
	Repo Repo
}

// Identify resolves the candidate for an identity, creating one on first
// contact. Email is the stable key; two submissions with the same email
// always resolve to the same candidate.
func (s *Service) Identify(ctx context.Context, id Identity) (Candidate, error) {
	email := normalizeEmail(id.Email)
	if email == "" || !strings.Contains(email, "@") {
		return Candidate{}, fmt.Errorf("%w: %q", ErrInvalidEmail, id.Email)
	}
	cand := Candidate{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: strings.TrimSpace(id.FirstName),
		LastName:  strings.TrimSpace(id.LastName),
		Phone:     strings.TrimSpace(id.Phone),
	}
	resolved, err := s.Repo.ResolveOrCreate(ctx, cand)
	if err != nil {
		return Candidate{}, fmt.Errorf("resolve candidate: %w", err)
	}
	return resolved, nil
}

// EnsureProfile creates or refreshes the candidate's profile record.
func (s *Service) EnsureProfile(ctx context.Context, candidateID, headline, summary string) error {
	return s.Repo.UpsertProfile(ctx, Profile{
		CandidateID: candidateID,
		Headline:    strings.TrimSpace(headline),
		Summary:     strings.TrimSpace(summary),
	})
}
