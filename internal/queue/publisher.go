package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageVersion is bumped when the payload shape changes.
const MessageVersion = 1

// ScoringPublisher enqueues scoring work for the worker process. It satisfies
// the submission flow's scorer port.
type ScoringPublisher struct {
	Client Client
}

func (p *ScoringPublisher) Enqueue(ctx context.Context, applicationID string) error {
	msg := Message{
		ApplicationID: applicationID,
		RequestID:     uuid.NewString(),
		EnqueuedAt:    time.Now().UTC().Format(time.RFC3339),
		Version:       MessageVersion,
	}
	if err := p.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("enqueue scoring: %w", err)
	}
	return nil
}
