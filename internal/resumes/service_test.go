package resumes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"talentflow-backend/internal/onboarding"
)

type fakeStore struct {
	saved     map[string][]byte
	saveCalls int
	failSave  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string][]byte)}
}

func (f *fakeStore) Save(ctx context.Context, ownerKey, contextID, fileName string, r io.Reader) (string, int64, string, error) {
	if f.failSave {
		return "", 0, "", errors.New("storage down")
	}
	f.saveCalls++
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := ownerKey + "/" + contextID + "/" + fileName
	f.saved[key] = data
	return key, int64(len(data)), "application/pdf", nil
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := f.saved[storageKey]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) URL(storageKey string) string {
	return "https://store.test/" + storageKey
}

func (f *fakeStore) SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.saved[storageKey] = data
	return int64(len(data)), nil
}

func TestCaptureRejectsBeforeUpload(t *testing.T) {
	store := newFakeStore()
	ctrl := onboarding.NewController(onboarding.NewMemoryStore())
	svc := &Service{Store: store, Sink: ctrl, MaxBytes: 1 << 10}
	ctx := context.Background()

	cases := []struct {
		name     string
		fileName string
		mime     string
		body     string
		wantErr  error
	}{
		{"unsupported type", "avatar.png", "image/png", "payload", ErrUnsupportedType},
		{"empty file", "resume.pdf", "application/pdf", "", ErrEmptyFile},
		{"too large", "resume.pdf", "application/pdf", strings.Repeat("x", 2<<10), ErrTooLarge},
	}
	for _, tc := range cases {
		_, err := svc.Capture(ctx, "cand-1", "jane@example.com", "job-1", tc.fileName, tc.mime, strings.NewReader(tc.body))
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}

	if store.saveCalls != 0 {
		t.Fatalf("validation failures must not reach storage, saw %d saves", store.saveCalls)
	}
}

func TestCaptureUploadFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.failSave = true
	svc := &Service{Store: store, MaxBytes: 1 << 20}

	_, err := svc.Capture(context.Background(), "cand-1", "jane@example.com", "job-1", "resume.pdf", "application/pdf", strings.NewReader("%PDF-1.4 data"))
	if err == nil {
		t.Fatalf("expected upload failure to surface")
	}
}

func TestCaptureExtractionFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	snapStore := onboarding.NewMemoryStore()
	ctrl := onboarding.NewController(snapStore)
	svc := &Service{Store: store, Sink: ctrl, MaxBytes: 1 << 20}
	ctx := context.Background()

	if _, err := ctrl.Start(ctx, "cand-1"); err != nil {
		t.Fatalf("start onboarding: %v", err)
	}

	// Valid MIME but garbage bytes: upload succeeds, extraction fails.
	capture, err := svc.Capture(ctx, "cand-1", "jane@example.com", "job-1", "resume.pdf", "application/pdf", strings.NewReader("not really a pdf"))
	if err != nil {
		t.Fatalf("capture should tolerate extraction failure: %v", err)
	}
	if capture.UploadedURL == "" {
		t.Fatalf("expected a durable url")
	}
	if capture.Warning == "" {
		t.Fatalf("expected an extraction warning")
	}
	if capture.Text != "" {
		t.Fatalf("expected no extracted text")
	}

	// The onboarding state store still marks the resume step complete.
	view, err := ctrl.Hydrate(ctx, "cand-1")
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !view.ResumeComplete {
		t.Fatalf("uploaded resume should complete the step regardless of extraction")
	}
	if view.Progress.ResumeData.UploadedURL != capture.UploadedURL {
		t.Fatalf("state store url mismatch: %q vs %q", view.Progress.ResumeData.UploadedURL, capture.UploadedURL)
	}
}

func TestCaptureDefaultsJobContext(t *testing.T) {
	store := newFakeStore()
	svc := &Service{Store: store, MaxBytes: 1 << 20}

	_, err := svc.Capture(context.Background(), "cand-1", "jane@example.com", "  ", "resume.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	for key := range store.saved {
		if !strings.Contains(key, "/general/") {
			t.Fatalf("expected general context namespace, got key %q", key)
		}
	}
}
