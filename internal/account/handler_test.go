package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/onboarding"
)

func testRouter(store onboarding.SnapshotStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(NewService(store))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("isGuest", false)
		c.Next()
	})
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func TestClaimGuestMigratesSnapshot(t *testing.T) {
	store := onboarding.NewMemoryStore()
	router := testRouter(store)

	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID
	snap := onboarding.Snapshot{
		Progress: onboarding.Progress{
			HasStarted: true,
			Step:       onboarding.StepVideo,
			ResumeData: onboarding.ResumeData{Text: "resume text", UploadedURL: "https://files/r.pdf"},
		},
	}
	if err := store.Save(context.Background(), guestUserID, snap); err != nil {
		t.Fatalf("seed guest snapshot: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	claimed, ok, err := store.Load(context.Background(), "user-1")
	if err != nil || !ok {
		t.Fatalf("load claimed snapshot: ok=%v err=%v", ok, err)
	}
	if claimed.Progress.Step != onboarding.StepVideo {
		t.Fatalf("claimed step = %v, want video", claimed.Progress.Step)
	}
	if claimed.Progress.ResumeData.UploadedURL != "https://files/r.pdf" {
		t.Fatalf("resume URL = %q", claimed.Progress.ResumeData.UploadedURL)
	}
}

func TestClaimGuestKeepsFurtherAlongAuthedState(t *testing.T) {
	store := onboarding.NewMemoryStore()
	router := testRouter(store)

	guestID := "22222222-2222-2222-2222-222222222222"
	if err := store.Save(context.Background(), "guest:"+guestID, onboarding.Snapshot{
		Progress: onboarding.Progress{HasStarted: true, Step: onboarding.StepResume},
	}); err != nil {
		t.Fatalf("seed guest: %v", err)
	}
	if err := store.Save(context.Background(), "user-1", onboarding.Snapshot{
		Progress:  onboarding.Progress{HasStarted: true, Step: onboarding.StepCompletion},
		Completed: true,
	}); err != nil {
		t.Fatalf("seed authed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	snap, _, err := store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !snap.Completed {
		t.Fatal("completed authed snapshot was overwritten by a less advanced guest one")
	}
}

func TestClaimGuestRequiresHeader(t *testing.T) {
	router := testRouter(onboarding.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestClaimGuestRejectsGuests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(NewService(onboarding.NewMemoryStore()))
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "guest:33333333-3333-3333-3333-333333333333")
		c.Set("isGuest", true)
		c.Next()
	})
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", "33333333-3333-3333-3333-333333333333")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}
