package repository

import (
	"context"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
)

// SubmissionRepository defines persistence for form submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, s *entity.Submission) error
	List(ctx context.Context) ([]*entity.Submission, error)
	GetByID(ctx context.Context, id string) (*entity.Submission, error)
	UpdateStatus(ctx context.Context, id string, status entity.SubmissionStatus) (*entity.Submission, error)
}
