package candidates

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) ResolveOrCreate(ctx context.Context, cand Candidate) (Candidate, error) {
	const query = `
INSERT INTO candidates (id, email, first_name, last_name, phone, created_at, updated_at)
VALUES ($1, lower($2), $3, $4, $5, now(), now())
ON CONFLICT (email) DO UPDATE SET updated_at = now()
RETURNING id, email, first_name, last_name, phone, created_at, updated_at`
	return r.scanOne(r.DB.QueryRowContext(ctx, query,
		cand.ID,
		cand.Email,
		nullableString(cand.FirstName),
		nullableString(cand.LastName),
		nullableString(cand.Phone),
	))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Candidate, error) {
	const query = `
SELECT id, email, first_name, last_name, phone, created_at, updated_at
FROM candidates
WHERE email = lower($1)
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	const query = `
SELECT id, email, first_name, last_name, phone, created_at, updated_at
FROM candidates
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) UpsertProfile(ctx context.Context, profile Profile) error {
	const query = `
INSERT INTO profiles (candidate_id, headline, summary, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (candidate_id) DO UPDATE SET
  headline = EXCLUDED.headline,
  summary = EXCLUDED.summary,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		profile.CandidateID,
		nullableString(profile.Headline),
		nullableString(profile.Summary),
	)
	return err
}

func (r *PGRepo) scanOne(row *sql.Row) (Candidate, error) {
	var cand Candidate
	var firstName sql.NullString
	var lastName sql.NullString
	var phone sql.NullString
	err := row.Scan(
		&cand.ID,
		&cand.Email,
		&firstName,
		&lastName,
		&phone,
		&cand.CreatedAt,
		&cand.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	if firstName.Valid {
		cand.FirstName = firstName.String
	}
	if lastName.Valid {
		cand.LastName = lastName.String
	}
	if phone.Valid {
		cand.Phone = phone.String
	}
	return cand, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
