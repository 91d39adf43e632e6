package candidates

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "candidate not found" }

type Repo interface {
	// ResolveOrCreate returns the candidate for the email, creating the row
	// when none exists. Resubmissions with the same email land on the same
	// candidate.
	ResolveOrCreate(ctx context.Context, cand Candidate) (Candidate, error)
	GetByEmail(ctx context.Context, email string) (Candidate, error)
	GetByID(ctx context.Context, id string) (Candidate, error)
	UpsertProfile(ctx context.Context, profile Profile) error
}
