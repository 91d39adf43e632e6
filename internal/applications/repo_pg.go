package applications

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, candidate_id, job_id, resume_url, video_url, notes, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	status := app.Status
	if status == "" {
		status = StatusPending
	}
	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.CandidateID,
		app.JobID,
		app.ResumeURL,
		app.VideoURL,
		nullableString(app.Notes),
		status,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	const query = selectColumns + `
FROM applications
WHERE id = $1
LIMIT 1`
	return scanApplication(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	const query = selectColumns + `
FROM applications
WHERE candidate_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetScore(ctx context.Context, id string, score int, notes string) error {
	const query = `
UPDATE applications
SET score = $2, score_notes = $3, scored_at = now(), status = $4, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, score, nullableString(notes), StatusScored)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) SetStatus(ctx context.Context, id, status string) error {
	const query = `
UPDATE applications
SET status = $2, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const selectColumns = `
SELECT id, candidate_id, job_id, resume_url, video_url, notes, status, score, score_notes, scored_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var notes sql.NullString
	var score sql.NullInt64
	var scoreNotes sql.NullString
	var scoredAt sql.NullTime
	err := row.Scan(
		&app.ID,
		&app.CandidateID,
		&app.JobID,
		&app.ResumeURL,
		&app.VideoURL,
		&notes,
		&app.Status,
		&score,
		&scoreNotes,
		&scoredAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	if notes.Valid {
		app.Notes = notes.String
	}
	if score.Valid {
		v := int(score.Int64)
		app.Score = &v
	}
	if scoreNotes.Valid {
		app.ScoreNotes = scoreNotes.String
	}
	if scoredAt.Valid {
		t := scoredAt.Time
		app.ScoredAt = &t
	}
	return app, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
