package signin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/shared/auth"
)

const (
	// PurposeSignIn marks single-use link tokens so they cannot be replayed
	// as session tokens.
	PurposeSignIn = "signin"

	linkTTL    = 15 * time.Minute
	sessionTTL = 24 * time.Hour
)

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidLink  = errors.New("invalid or expired sign-in link")
)

// Session is the outcome of a verified sign-in link.
type Session struct {
	Token     string               `json:"token"`
	Candidate candidates.Candidate `json:"candidate"`
}

// Service issues and verifies passwordless sign-in links.
type Service struct {
	Candidates *candidates.Service
	Mailer     Mailer
	// PublicBaseURL is the externally reachable API base the link points at.
	PublicBaseURL string
}

// SendSignInLink issues a short-lived link token for the email and hands the
// link to the mailer. It satisfies the submission flow's link sender port.
func (s *Service) SendSignInLink(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	cand, err := s.Candidates.Identify(ctx, candidates.Identity{Email: email})
	if err != nil {
		return fmt.Errorf("resolve candidate: %w", err)
	}

	now := time.Now().UTC()
	token, err := auth.SignJWT(auth.Claims{
		Sub:     cand.ID,
		Email:   cand.Email,
		Role:    auth.RoleCandidate,
		Purpose: PurposeSignIn,
		Iat:     now.Unix(),
		Exp:     now.Add(linkTTL).Unix(),
	})
	if err != nil {
		return fmt.Errorf("sign link token: %w", err)
	}

	link := s.buildLink(token)
	if err := s.Mailer.SendLink(ctx, cand.Email, link); err != nil {
		return fmt.Errorf("deliver sign-in link: %w", err)
	}
	return nil
}

// Verify exchanges a link token for a session. Link tokens are rejected as
// sessions elsewhere; session tokens are rejected here.
func (s *Service) Verify(ctx context.Context, token string) (Session, error) {
	claims, err := auth.VerifyJWT(token)
	if err != nil {
		return Session{}, ErrInvalidLink
	}
	if claims.Purpose != PurposeSignIn {
		return Session{}, ErrInvalidLink
	}

	cand, err := s.Candidates.Repo.GetByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, ErrInvalidLink
	}

	now := time.Now().UTC()
	session, err := auth.SignJWT(auth.Claims{
		Sub:   cand.ID,
		Email: cand.Email,
		Role:  auth.RoleCandidate,
		Iat:   now.Unix(),
		Exp:   now.Add(sessionTTL).Unix(),
	})
	if err != nil {
		return Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return Session{Token: session, Candidate: cand}, nil
}

func (s *Service) buildLink(token string) string {
	base := strings.TrimRight(s.PublicBaseURL, "/")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base + "/api/v1/signin/verify?token=" + url.QueryEscape(token)
}
