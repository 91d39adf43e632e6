package applications

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"

	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/shared/metrics"
)

type fakeArtifactStore struct {
	mu        sync.Mutex
	saveCalls int
	failOn    string
}

func (f *fakeArtifactStore) Save(ctx context.Context, ownerKey, contextID, fileName string, r io.Reader) (string, int64, string, error) {
	f.mu.Lock()
	f.saveCalls++
	f.mu.Unlock()
	if f.failOn != "" && strings.Contains(fileName, f.failOn) {
		return "", 0, "", errors.New("storage unavailable")
	}
	data, _ := io.ReadAll(r)
	return ownerKey + "/" + contextID + "/" + fileName, int64(len(data)), "application/octet-stream", nil
}

func (f *fakeArtifactStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeArtifactStore) URL(key string) string { return "https://files.test/" + key }

func (f *fakeArtifactStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveCalls
}

type fakeIdentities struct {
	identifyCalls int
	identifyErr   error
	profileErr    error
}

func (f *fakeIdentities) Identify(ctx context.Context, id candidates.Identity) (candidates.Candidate, error) {
	f.identifyCalls++
	if f.identifyErr != nil {
		return candidates.Candidate{}, f.identifyErr
	}
	return candidates.Candidate{ID: "cand-1", Email: strings.ToLower(id.Email)}, nil
}

func (f *fakeIdentities) EnsureProfile(ctx context.Context, candidateID, headline, summary string) error {
	return f.profileErr
}

type fakeScorer struct {
	calls int
	err   error
}

func (f *fakeScorer) Enqueue(ctx context.Context, applicationID string) error {
	f.calls++
	return f.err
}

type fakeLinks struct {
	calls int
	err   error
}

func (f *fakeLinks) SendSignInLink(ctx context.Context, email string) error {
	f.calls++
	return f.err
}

// %PDF header keeps the artifact past the type check; the body is garbage so
// extraction fails, which must stay non-fatal.
func garbagePDF() Artifact {
	return Artifact{FileName: "resume.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4 not really")}
}

func testClip() Artifact {
	return Artifact{FileName: "intro.webm", MimeType: "video/webm", Data: []byte("webm-bytes")}
}

func testService(store *fakeArtifactStore, ids *fakeIdentities) *Service {
	return &Service{
		Repo:       NewMemoryRepo(),
		Identities: ids,
		Store:      store,
	}
}

func TestSubmitMissingArtifactMakesNoRemoteCalls(t *testing.T) {
	store := &fakeArtifactStore{}
	ids := &fakeIdentities{}
	svc := testService(store, ids)

	cases := []struct {
		name string
		in   SubmitInput
		want error
	}{
		{"no resume", SubmitInput{Identity: candidates.Identity{Email: "a@b.c"}, Video: testClip()}, ErrMissingResume},
		{"no video", SubmitInput{Identity: candidates.Identity{Email: "a@b.c"}, Resume: garbagePDF()}, ErrMissingVideo},
		{"bad email", SubmitInput{Identity: candidates.Identity{Email: "nope"}, Resume: garbagePDF(), Video: testClip()}, ErrInvalidInput},
		{"wrong type", SubmitInput{
			Identity: candidates.Identity{Email: "a@b.c"},
			Resume:   Artifact{FileName: "pic.png", MimeType: "image/png", Data: []byte("png")},
			Video:    testClip(),
		}, ErrUnsupportedResume},
	}
	for _, tc := range cases {
		if _, err := svc.Submit(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
	if ids.identifyCalls != 0 {
		t.Fatalf("identify calls = %d, want 0", ids.identifyCalls)
	}
	if store.calls() != 0 {
		t.Fatalf("store calls = %d, want 0", store.calls())
	}
}

func TestSubmitIdentityFailureAbortsBeforeStorage(t *testing.T) {
	store := &fakeArtifactStore{}
	ids := &fakeIdentities{identifyErr: errors.New("db down")}
	svc := testService(store, ids)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Identity: candidates.Identity{Email: "a@b.c"},
		Resume:   garbagePDF(),
		Video:    testClip(),
	})
	if err == nil {
		t.Fatal("expected identity failure to abort submission")
	}
	if store.calls() != 0 {
		t.Fatalf("store calls = %d, want 0", store.calls())
	}
}

func TestSubmitExtractionFailureIsNonFatal(t *testing.T) {
	store := &fakeArtifactStore{}
	ids := &fakeIdentities{}
	scorer := &fakeScorer{}
	svc := testService(store, ids)
	svc.Scorer = scorer

	result, err := svc.Submit(context.Background(), SubmitInput{
		Identity: candidates.Identity{Email: "Ada@Example.com"},
		JobID:    "backend-eng",
		Resume:   garbagePDF(),
		Video:    testClip(),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.ApplicationID == "" || result.ResumeURL == "" || result.VideoURL == "" {
		t.Fatalf("result incomplete: %+v", result)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "extraction") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v, want an extraction warning", result.Warnings)
	}
	if scorer.calls != 1 {
		t.Fatalf("scorer calls = %d, want 1", scorer.calls)
	}

	app, err := svc.Repo.GetByID(context.Background(), result.ApplicationID)
	if err != nil {
		t.Fatalf("load application: %v", err)
	}
	if app.Status != StatusPending {
		t.Fatalf("status = %q, want pending", app.Status)
	}
}

func TestSubmitUploadFailureIsFatal(t *testing.T) {
	store := &fakeArtifactStore{failOn: "intro.webm"}
	ids := &fakeIdentities{}
	svc := testService(store, ids)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Identity: candidates.Identity{Email: "a@b.c"},
		Resume:   garbagePDF(),
		Video:    testClip(),
	})
	if err == nil {
		t.Fatal("expected video upload failure to be fatal")
	}
}

func TestSubmitRejectsConcurrentAttemptsForSameEmail(t *testing.T) {
	svc := testService(&fakeArtifactStore{}, &fakeIdentities{})
	if !svc.acquire("a@b.c") {
		t.Fatal("first acquire failed")
	}
	if svc.acquire("a@b.c") {
		t.Fatal("second acquire for same email succeeded")
	}
	if !svc.acquire("other@b.c") {
		t.Fatal("acquire for a different email was blocked")
	}
	svc.release("a@b.c")
	if !svc.acquire("a@b.c") {
		t.Fatal("acquire after release failed")
	}
}

func TestSubmitSendsSignInLinkOnlyWithoutSession(t *testing.T) {
	links := &fakeLinks{}
	svc := testService(&fakeArtifactStore{}, &fakeIdentities{})
	svc.Links = links

	in := SubmitInput{
		Identity: candidates.Identity{Email: "a@b.c"},
		Resume:   garbagePDF(),
		Video:    testClip(),
	}
	if _, err := svc.Submit(context.Background(), in); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if links.calls != 1 {
		t.Fatalf("link calls = %d, want 1", links.calls)
	}

	in.HasSession = true
	if _, err := svc.Submit(context.Background(), in); err != nil {
		t.Fatalf("submit with session: %v", err)
	}
	if links.calls != 1 {
		t.Fatalf("link calls = %d, want still 1", links.calls)
	}
}

func TestSubmitLinkFailureIsNonFatal(t *testing.T) {
	links := &fakeLinks{err: errors.New("smtp down")}
	svc := testService(&fakeArtifactStore{}, &fakeIdentities{})
	svc.Links = links

	result, err := svc.Submit(context.Background(), SubmitInput{
		Identity: candidates.Identity{Email: "a@b.c"},
		Resume:   garbagePDF(),
		Video:    testClip(),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for the failed sign-in link")
	}
}

func counterValue(t *testing.T, rendered, name string) uint64 {
	t.Helper()
	for _, line := range strings.Split(rendered, "\n") {
		if !strings.HasPrefix(line, name+" ") {
			continue
		}
		val, err := strconv.ParseUint(strings.TrimPrefix(line, name+" "), 10, 64)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		return val
	}
	t.Fatalf("counter %s not rendered", name)
	return 0
}

func TestSubmitRecordsOutcomeCounters(t *testing.T) {
	store := &fakeArtifactStore{}
	ids := &fakeIdentities{}
	svc := testService(store, ids)

	before := metrics.Render()
	startedBefore := counterValue(t, before, "submission_started_total")
	completedBefore := counterValue(t, before, "submission_completed_total")
	failedBefore := counterValue(t, before, "submission_failed_total")

	if _, err := svc.Submit(context.Background(), SubmitInput{
		Identity: candidates.Identity{Email: "a@b.c"},
		Resume:   garbagePDF(),
		Video:    testClip(),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(context.Background(), SubmitInput{
		Identity: candidates.Identity{Email: "a@b.c"},
		Video:    testClip(),
	}); !errors.Is(err, ErrMissingResume) {
		t.Fatalf("expected missing resume error, got %v", err)
	}

	after := metrics.Render()
	if got := counterValue(t, after, "submission_started_total") - startedBefore; got != 2 {
		t.Fatalf("started delta = %d, want 2", got)
	}
	if got := counterValue(t, after, "submission_completed_total") - completedBefore; got != 1 {
		t.Fatalf("completed delta = %d, want 1", got)
	}
	if got := counterValue(t, after, "submission_failed_total") - failedBefore; got != 1 {
		t.Fatalf("failed delta = %d, want 1", got)
	}
}
