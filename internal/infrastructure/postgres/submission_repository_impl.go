package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	"github.com/Maniblazestarboy/api-linkado/internal/domain/repository"
)

const submissionColumns = `id, nome, contato, plano, instagram, links, logo, observacoes, status, created_at, updated_at`

type SubmissionRepository struct {
	db DB
}

func NewSubmissionRepository(db DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *entity.Submission) error {
	if s.Status == "" {
		s.Status = entity.StatusNew
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx, `
		INSERT INTO submissions (id, nome, contato, plano, instagram, links, logo, observacoes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING created_at, updated_at
	`, id, s.Name, s.Contact, s.Plan, s.Instagram, s.Links, s.Logo, s.Notes, s.Status, now)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *SubmissionRepository) List(ctx context.Context) ([]*entity.Submission, error) {
	rows, err := r.db.Query(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*entity.Submission, error) {
	row := r.db.QueryRow(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id string, status entity.SubmissionStatus) (*entity.Submission, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE submissions SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+submissionColumns, id, status, time.Now().UTC())
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSubmission(row pgx.Row) (*entity.Submission, error) {
	var (
		s      entity.Submission
		plan   string
		status string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Contact, &plan, &s.Instagram, &s.Links, &s.Logo, &s.Notes, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Plan = entity.Plan(plan)
	s.Status = entity.SubmissionStatus(status)
	return &s, nil
}

var _ repository.SubmissionRepository = (*SubmissionRepository)(nil)
