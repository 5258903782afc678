package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"sosy-match/internal/domain"
)

// EnergyFeedbackRepository persiste devoluciones post-encuentro.
type EnergyFeedbackRepository interface {
	Create(ctx context.Context, feedback domain.EnergyFeedback) error
	ListByGroup(ctx context.Context, groupID string) ([]domain.EnergyFeedback, error)
}

type PgEnergyFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgEnergyFeedbackRepository(pool *pgxpool.Pool) *PgEnergyFeedbackRepository {
	return &PgEnergyFeedbackRepository{pool: pool}
}

func (r *PgEnergyFeedbackRepository) Create(ctx context.Context, feedback domain.EnergyFeedback) error {
	const query = `
		INSERT INTO energy_feedbacks (id, group_id, user_id, rated_user_id, energy_impact, rating, feedback_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.GroupID,
		feedback.UserID,
		feedback.RatedUserID,
		feedback.EnergyImpact,
		feedback.Rating,
		feedback.FeedbackText,
		feedback.CreatedAt,
	)
	return err
}

func (r *PgEnergyFeedbackRepository) ListByGroup(ctx context.Context, groupID string) ([]domain.EnergyFeedback, error) {
	const query = `
		SELECT id, group_id, user_id, rated_user_id, energy_impact, rating, feedback_text, created_at
		FROM energy_feedbacks
		WHERE group_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedbacks []domain.EnergyFeedback
	for rows.Next() {
		var f domain.EnergyFeedback
		if err := rows.Scan(&f.ID, &f.GroupID, &f.UserID, &f.RatedUserID, &f.EnergyImpact, &f.Rating, &f.FeedbackText, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return feedbacks, nil
}
