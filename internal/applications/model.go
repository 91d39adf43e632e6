package applications

import "time"

const (
	StatusPending  = "pending"
	StatusScored   = "scored"
	StatusRejected = "rejected"
	StatusAdvanced = "advanced"
)

type Application struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidateId"`
	JobID       string     `json:"jobId"`
	ResumeURL   string     `json:"resumeUrl"`
	VideoURL    string     `json:"videoUrl"`
	Notes       string     `json:"notes,omitempty"`
	Status      string     `json:"status"`
	Score       *int       `json:"score,omitempty"`
	ScoreNotes  string     `json:"scoreNotes,omitempty"`
	ScoredAt    *time.Time `json:"scoredAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
