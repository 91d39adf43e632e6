package onboarding

import (
	"context"
	"errors"

	"talentflow-backend/internal/shared/telemetry"
)

// ErrInvalidInput reports a transition called without a user id.
var ErrInvalidInput = errors.New("invalid input")

// View is what a transition reports back: the current (sanitized) progress,
// the derived completion flags, and whether the flow should be visible.
type View struct {
	Progress       Progress `json:"progress"`
	ResumeComplete bool     `json:"resumeComplete"`
	VideoComplete  bool     `json:"videoComplete"`
	Show           bool     `json:"show"`
	NewUser        bool     `json:"newUser,omitempty"`
	Completed      bool     `json:"completed"`
}

// ResumeUpdate carries a partial merge into ResumeData. Nil fields are left
// untouched.
type ResumeUpdate struct {
	Text        *string `json:"text"`
	UploadedURL *string `json:"uploadedUrl"`
	ParsedKey   *string `json:"parsedKey"`
}

// VideoUpdate carries a partial merge into VideoData.
type VideoUpdate struct {
	UploadedURL *string `json:"uploadedUrl"`
}

// Controller owns all onboarding state transitions. It is the single writer
// of the per-user snapshot slot; callers never mutate Progress directly.
//
// Snapshot store failures are logged and degrade to a fresh flow rather than
// failing the transition.
type Controller struct {
	Store SnapshotStore
}

func NewController(store SnapshotStore) *Controller {
	return &Controller{Store: store}
}

// Hydrate restores the persisted slot for a user. An interrupted onboarding
// resumes at the same step with the same completion flags; binary payloads
// never survive the round trip. The new-user flag is one-time: reading it
// here clears it.
func (c *Controller) Hydrate(ctx context.Context, userID string) (View, error) {
	if userID == "" {
		return View{}, ErrInvalidInput
	}

	snap, ok, err := c.Store.Load(ctx, userID)
	if err != nil {
		telemetry.Error("onboarding.snapshot_load_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return c.view(Progress{}, Snapshot{}), nil
	}
	if !ok {
		return c.view(Progress{}, Snapshot{}), nil
	}

	snap.Progress = Sanitize(snap.Progress)
	snap.Progress.Step = clampStep(snap.Progress.Step)

	view := c.view(snap.Progress, snap)
	if snap.NewUser {
		snap.NewUser = false
		c.persist(ctx, userID, snap)
	}
	return view, nil
}

// Start begins (or re-shows) the flow from the first step.
func (c *Controller) Start(ctx context.Context, userID string) (View, error) {
	return c.mutate(ctx, userID, func(snap *Snapshot) {
		snap.Progress.HasStarted = true
		snap.Progress.Step = StepWelcome
		snap.Progress.IsMinimized = false
	})
}

// Next advances the step pointer. Advancing past the final step is a no-op,
// not an error.
func (c *Controller) Next(ctx context.Context, userID string) (View, error) {
	return c.mutate(ctx, userID, func(snap *Snapshot) {
		snap.Progress.Step = clampStep(snap.Progress.Step + 1)
	})
}

// Prev retreats the step pointer, clamped at the first step.
func (c *Controller) Prev(ctx context.Context, userID string) (View, error) {
	return c.mutate(ctx, userID, func(snap *Snapshot) {
		snap.Progress.Step = clampStep(snap.Progress.Step - 1)
	})
}

// UpdateResume merges captured resume fields into the slot.
func (c *Controller) UpdateResume(ctx context.Context, userID string, upd ResumeUpdate) (View, error) {
	return c.mutate(ctx, userID, func(snap *Snapshot) {
		if upd.Text != nil {
			snap.Progress.ResumeData.Text = *upd.Text
		}
		if upd.UploadedURL != nil {
			snap.Progress.ResumeData.UploadedURL = *upd.UploadedURL
		}
		if upd.ParsedKey != nil {
			snap.Progress.ResumeData.ParsedKey = *upd.ParsedKey
		}
	})
}

// UpdateVideo merges captured video fields into the slot.
func (c *Controller) UpdateVideo(ctx context.Context, userID string, upd VideoUpdate) (View, error) {
	return c.mutate(ctx, userID, func(snap *Snapshot) {
		if upd.UploadedURL != nil {
			snap.Progress.VideoData.UploadedURL = *upd.UploadedURL
		}
	})
}

// Minimize hides the flow without resetting step or data.
func (c *Controller) Minimize(ctx context.Context, userID string) (View, error) {
	return c.mutate(ctx, userID, func(snap *Snapshot) {
		snap.Progress.IsMinimized = true
	})
}

// Reopen re-shows a minimized flow.
func (c *Controller) Reopen(ctx context.Context, userID string) (View, error) {
	return c.mutate(ctx, userID, func(snap *Snapshot) {
		snap.Progress.IsMinimized = false
	})
}

// Complete tears the flow down: the started flag is cleared, the per-user
// completed flag is set, and the new-user flag is cleared. It must be called
// explicitly; reaching the terminal step never auto-completes.
func (c *Controller) Complete(ctx context.Context, userID string) (View, error) {
	return c.mutate(ctx, userID, func(snap *Snapshot) {
		snap.Progress.HasStarted = false
		snap.Completed = true
		snap.NewUser = false
	})
}

// Reset re-zeroes the flow for an explicit restart: step and captured data
// cleared, the user re-marked as new, the flow re-shown from the top.
func (c *Controller) Reset(ctx context.Context, userID string) (View, error) {
	return c.mutate(ctx, userID, func(snap *Snapshot) {
		snap.Progress = Progress{HasStarted: true, Step: StepWelcome}
		snap.Completed = false
		snap.NewUser = true
	})
}

func (c *Controller) mutate(ctx context.Context, userID string, fn func(*Snapshot)) (View, error) {
	if userID == "" {
		return View{}, ErrInvalidInput
	}

	snap, ok, err := c.Store.Load(ctx, userID)
	if err != nil || !ok {
		if err != nil {
			telemetry.Error("onboarding.snapshot_load_failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		snap = Snapshot{}
	}
	snap.Progress = Sanitize(snap.Progress)
	snap.Progress.Step = clampStep(snap.Progress.Step)

	fn(&snap)
	snap.Progress = Sanitize(snap.Progress)

	// Never-started users leave no slot behind; anything else persists.
	if snap.Progress.HasStarted || snap.Completed {
		c.persist(ctx, userID, snap)
	}

	return c.view(snap.Progress, snap), nil
}

func (c *Controller) persist(ctx context.Context, userID string, snap Snapshot) {
	snap.Progress = Sanitize(snap.Progress)
	if err := c.Store.Save(ctx, userID, snap); err != nil {
		telemetry.Error("onboarding.snapshot_save_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

func (c *Controller) view(p Progress, snap Snapshot) View {
	resumeDone := ResumeComplete(p)
	videoDone := VideoComplete(p)
	return View{
		Progress:       Sanitize(p),
		ResumeComplete: resumeDone,
		VideoComplete:  videoDone,
		Show:           p.HasStarted && !p.IsMinimized && !(resumeDone && videoDone),
		NewUser:        snap.NewUser,
		Completed:      snap.Completed,
	}
}
