package signin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/shared/auth"
)

type captureMailer struct {
	emails []string
	links  []string
	err    error
}

func (m *captureMailer) SendLink(ctx context.Context, email, link string) error {
	if m.err != nil {
		return m.err
	}
	m.emails = append(m.emails, email)
	m.links = append(m.links, link)
	return nil
}

func newTestService(mailer Mailer) *Service {
	return &Service{
		Candidates:    &candidates.Service{Repo: candidates.NewMemoryRepo()},
		Mailer:        mailer,
		PublicBaseURL: "https://api.talentflow.test",
	}
}

func linkToken(t *testing.T, link string) string {
	t.Helper()
	idx := strings.Index(link, "token=")
	if idx < 0 {
		t.Fatalf("link has no token: %q", link)
	}
	return link[idx+len("token="):]
}

func TestSendSignInLinkIssuesVerifiableToken(t *testing.T) {
	mailer := &captureMailer{}
	svc := newTestService(mailer)

	if err := svc.SendSignInLink(context.Background(), "Ada@Example.com"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(mailer.links) != 1 || mailer.emails[0] != "ada@example.com" {
		t.Fatalf("mailer calls = %+v", mailer)
	}

	session, err := svc.Verify(context.Background(), linkToken(t, mailer.links[0]))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if session.Token == "" {
		t.Fatal("no session token issued")
	}
	if session.Candidate.Email != "ada@example.com" {
		t.Fatalf("candidate email = %q", session.Candidate.Email)
	}

	claims, err := auth.VerifyJWT(session.Token)
	if err != nil {
		t.Fatalf("session token invalid: %v", err)
	}
	if claims.Purpose != "" {
		t.Fatalf("session token carries purpose %q", claims.Purpose)
	}
	if claims.Role != auth.RoleCandidate {
		t.Fatalf("role = %q", claims.Role)
	}
}

func TestVerifyRejectsSessionTokens(t *testing.T) {
	svc := newTestService(&captureMailer{})
	cand, err := svc.Candidates.Identify(context.Background(), candidates.Identity{Email: "a@b.c"})
	if err != nil {
		t.Fatalf("identify: %v", err)
	}

	session, err := auth.SignJWT(auth.Claims{Sub: cand.ID, Email: cand.Email, Role: auth.RoleCandidate})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(context.Background(), session); !errors.Is(err, ErrInvalidLink) {
		t.Fatalf("err = %v, want ErrInvalidLink", err)
	}
}

func TestVerifyRejectsExpiredLink(t *testing.T) {
	svc := newTestService(&captureMailer{})
	cand, err := svc.Candidates.Identify(context.Background(), candidates.Identity{Email: "a@b.c"})
	if err != nil {
		t.Fatalf("identify: %v", err)
	}

	expired, err := auth.SignJWT(auth.Claims{
		Sub:     cand.ID,
		Email:   cand.Email,
		Purpose: PurposeSignIn,
		Iat:     time.Now().Add(-time.Hour).Unix(),
		Exp:     time.Now().Add(-30 * time.Minute).Unix(),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(context.Background(), expired); !errors.Is(err, ErrInvalidLink) {
		t.Fatalf("err = %v, want ErrInvalidLink", err)
	}
}

func TestSendSignInLinkRejectsBadEmail(t *testing.T) {
	svc := newTestService(&captureMailer{})
	if err := svc.SendSignInLink(context.Background(), "not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("err = %v, want ErrInvalidEmail", err)
	}
}

func TestSendSignInLinkMailerFailurePropagates(t *testing.T) {
	svc := newTestService(&captureMailer{err: errors.New("smtp down")})
	if err := svc.SendSignInLink(context.Background(), "a@b.c"); err == nil {
		t.Fatal("expected mailer failure to propagate")
	}
}
