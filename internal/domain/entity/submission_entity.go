package entity

import "time"

// Plan is the package a submitter picks on the public form.
type Plan string

const (
	PlanEssencial    Plan = "essencial"
	PlanProfissional Plan = "profissional"
	PlanPremium      Plan = "premium"
)

// SubmissionStatus tracks how far the team got with a submission.
type SubmissionStatus string

const (
	StatusNew        SubmissionStatus = "new"
	StatusInProgress SubmissionStatus = "in_progress"
	StatusCompleted  SubmissionStatus = "completed"
	StatusProblem    SubmissionStatus = "problem"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted, StatusProblem:
		return true
	}
	return false
}

// Submission is a stored form entry. JSON names match the public form fields.
type Submission struct {
	ID        string           `json:"id"`
	Name      string           `json:"nome"`
	Contact   string           `json:"contato"`
	Plan      Plan             `json:"plano"`
	Instagram string           `json:"instagram"`
	Links     []string         `json:"links"`
	Logo      string           `json:"logo"`
	Notes     string           `json:"observacoes"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
