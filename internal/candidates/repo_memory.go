package candidates

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	byID     map[string]Candidate
	byEmail  map[string]string
	profiles map[string]Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:     make(map[string]Candidate),
		byEmail:  make(map[string]string),
		profiles: make(map[string]Profile),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MemoryRepo) ResolveOrCreate(ctx context.Context, cand Candidate) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	email := normalizeEmail(cand.Email)
	if id, ok := r.byEmail[email]; ok {
		return r.byID[id], nil
	}
	now := time.Now().UTC()
	cand.Email = email
	cand.CreatedAt = now
	cand.UpdatedAt = now
	r.byID[cand.ID] = cand
	r.byEmail[email] = cand.ID
	return cand, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cand, ok := r.byID[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return cand, nil
}

func (r *MemoryRepo) UpsertProfile(ctx context.Context, profile Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[profile.CandidateID]; !ok {
		return ErrNotFound
	}
	existing, ok := r.profiles[profile.CandidateID]
	now := time.Now().UTC()
	if ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	r.profiles[profile.CandidateID] = profile
	return nil
}
