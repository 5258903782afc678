package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sosy-match/internal/domain"
)

// UserProfileRepository persiste perfiles de matching por atributos,
// indexados por el id de usuario de la tienda.
type UserProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (domain.UserProfile, error)
	Create(ctx context.Context, profile domain.UserProfile) error
	Update(ctx context.Context, profile domain.UserProfile) error
	UpdateReliability(ctx context.Context, userID int64, score float64) error
}

type PgUserProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserProfileRepository(pool *pgxpool.Pool) *PgUserProfileRepository {
	return &PgUserProfileRepository{pool: pool}
}

func (r *PgUserProfileRepository) GetByUserID(ctx context.Context, userID int64) (domain.UserProfile, error) {
	const query = `
		SELECT id, user_id, social_energy, conversation_style, social_goal,
			group_size_preference, gender, gender_preference,
			activity_types, discussion_topics, life_stage, cultural_background,
			price_tier, reliability_score, attendance_rate, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`
	var p domain.UserProfile
	var activities, topics []byte
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.SocialEnergy,
		&p.ConversationStyle,
		&p.SocialGoal,
		&p.GroupSizePreference,
		&p.Gender,
		&p.GenderPreference,
		&activities,
		&topics,
		&p.LifeStage,
		&p.CulturalBackground,
		&p.PriceTier,
		&p.ReliabilityScore,
		&p.AttendanceRate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	if len(activities) > 0 {
		if err := json.Unmarshal(activities, &p.ActivityTypes); err != nil {
			return domain.UserProfile{}, err
		}
	}
	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &p.DiscussionTopics); err != nil {
			return domain.UserProfile{}, err
		}
	}
	return p, nil
}

func (r *PgUserProfileRepository) Create(ctx context.Context, profile domain.UserProfile) error {
	activities, topics, err := marshalInterests(profile)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO user_profiles (
			id, user_id, social_energy, conversation_style, social_goal,
			group_size_preference, gender, gender_preference,
			activity_types, discussion_topics, life_stage, cultural_background,
			price_tier, reliability_score, attendance_rate, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err = r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.SocialEnergy,
		profile.ConversationStyle,
		profile.SocialGoal,
		profile.GroupSizePreference,
		profile.Gender,
		profile.GenderPreference,
		activities,
		topics,
		profile.LifeStage,
		profile.CulturalBackground,
		profile.PriceTier,
		profile.ReliabilityScore,
		profile.AttendanceRate,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

func (r *PgUserProfileRepository) Update(ctx context.Context, profile domain.UserProfile) error {
	activities, topics, err := marshalInterests(profile)
	if err != nil {
		return err
	}
	const query = `
		UPDATE user_profiles
		SET social_energy = $2, conversation_style = $3, social_goal = $4,
			group_size_preference = $5, gender = $6, gender_preference = $7,
			activity_types = $8, discussion_topics = $9, life_stage = $10,
			cultural_background = $11, price_tier = $12, reliability_score = $13,
			attendance_rate = $14, updated_at = $15
		WHERE user_id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.SocialEnergy,
		profile.ConversationStyle,
		profile.SocialGoal,
		profile.GroupSizePreference,
		profile.Gender,
		profile.GenderPreference,
		activities,
		topics,
		profile.LifeStage,
		profile.CulturalBackground,
		profile.PriceTier,
		profile.ReliabilityScore,
		profile.AttendanceRate,
		profile.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserProfileRepository) UpdateReliability(ctx context.Context, userID int64, score float64) error {
	const query = `
		UPDATE user_profiles
		SET reliability_score = $2, updated_at = now()
		WHERE user_id = $1
	`
	tag, err := r.pool.Exec(ctx, query, userID, score)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalInterests(profile domain.UserProfile) ([]byte, []byte, error) {
	activities, err := json.Marshal(profile.ActivityTypes)
	if err != nil {
		return nil, nil, err
	}
	topics, err := json.Marshal(profile.DiscussionTopics)
	if err != nil {
		return nil, nil, err
	}
	return activities, topics, nil
}
