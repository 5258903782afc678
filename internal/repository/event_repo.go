package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sosy-match/internal/domain"
)

// EventAttendeeRepository es la fuente de identidad/comercio: compradores
// confirmados de un evento. Plumbing externo, no parte del motor.
type EventAttendeeRepository interface {
	ListByEvent(ctx context.Context, eventID int64) ([]domain.EventAttendee, error)
	GetEventName(ctx context.Context, eventID int64) (string, error)
}

type PgEventAttendeeRepository struct {
	pool *pgxpool.Pool
}

func NewPgEventAttendeeRepository(pool *pgxpool.Pool) *PgEventAttendeeRepository {
	return &PgEventAttendeeRepository{pool: pool}
}

func (r *PgEventAttendeeRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.EventAttendee, error) {
	const query = `
		SELECT user_id, username, email, display_name
		FROM event_attendees
		WHERE event_id = $1 AND confirmed
		ORDER BY user_id
	`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []domain.EventAttendee
	for rows.Next() {
		var a domain.EventAttendee
		if err := rows.Scan(&a.UserID, &a.Username, &a.Email, &a.DisplayName); err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attendees, nil
}

func (r *PgEventAttendeeRepository) GetEventName(ctx context.Context, eventID int64) (string, error) {
	const query = `SELECT name FROM events WHERE id = $1`
	var name string
	err := r.pool.QueryRow(ctx, query, eventID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}

// EventSessionRepository persiste sesiones de matching por atributos, sus
// grupos y scores. SaveResults es transaccional: todo o nada por sesión.
type EventSessionRepository interface {
	CreateSession(ctx context.Context, session domain.EventSession) error
	UpdateStatus(ctx context.Context, id, status string) error
	SaveResults(ctx context.Context, session domain.EventSession, groups []domain.EventGroup, scores []domain.GroupPairScore) error
	GetSession(ctx context.Context, id string) (domain.EventSession, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.EventSession, error)
	GetGroups(ctx context.Context, sessionID string) ([]domain.EventGroup, error)
	GetGroup(ctx context.Context, groupID string) (domain.EventGroup, error)
	GetGroupScores(ctx context.Context, groupID string) ([]domain.GroupPairScore, error)
}

type PgEventSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgEventSessionRepository(pool *pgxpool.Pool) *PgEventSessionRepository {
	return &PgEventSessionRepository{pool: pool}
}

func (r *PgEventSessionRepository) CreateSession(ctx context.Context, session domain.EventSession) error {
	const query = `
		INSERT INTO event_sessions (id, event_id, event_name, target_group_size, conversation_style, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.EventID,
		session.EventName,
		session.TargetGroupSize,
		session.ConversationStyle,
		session.Status,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

func (r *PgEventSessionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE event_sessions SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

func (r *PgEventSessionRepository) SaveResults(
	ctx context.Context,
	session domain.EventSession,
	groups []domain.EventGroup,
	scores []domain.GroupPairScore,
) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, g := range groups {
		membersJSON, err := json.Marshal(g.Members)
		if err != nil {
			return err
		}
		const query = `
			INSERT INTO event_groups (id, session_id, group_number, group_size, average_match_score, members_data, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, query, g.ID, g.SessionID, g.GroupNumber, g.GroupSize, g.AverageMatchScore, membersJSON, g.CreatedAt); err != nil {
			return err
		}
	}

	for _, s := range scores {
		const query = `
			INSERT INTO event_pair_scores (
				id, group_id, user1_id, user2_id,
				social_energy_score, conversation_style_score, social_goal_score,
				group_size_score, gender_comfort_score, interest_score,
				life_context_score, cultural_score, financial_score, reliability_score,
				total_match_score, matching_criteria_count, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`
		if _, err := tx.Exec(ctx, query,
			s.ID,
			s.GroupID,
			s.User1ID,
			s.User2ID,
			s.Score.SocialEnergyScore,
			s.Score.ConversationStyleScore,
			s.Score.SocialGoalScore,
			s.Score.GroupSizeScore,
			s.Score.GenderComfortScore,
			s.Score.InterestScore,
			s.Score.LifeContextScore,
			s.Score.CulturalScore,
			s.Score.FinancialScore,
			s.Score.ReliabilityScore,
			s.Score.TotalMatchScore,
			s.Score.MatchingCriteriaCount,
			s.CreatedAt,
		); err != nil {
			return err
		}
	}

	const closeQuery = `UPDATE event_sessions SET status = $2, updated_at = now() WHERE id = $1`
	if _, err := tx.Exec(ctx, closeQuery, session.ID, session.Status); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgEventSessionRepository) GetSession(ctx context.Context, id string) (domain.EventSession, error) {
	const query = `
		SELECT id, event_id, event_name, target_group_size, conversation_style, status, created_at, updated_at
		FROM event_sessions
		WHERE id = $1
	`
	session, err := scanEventSession(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.EventSession{}, ErrNotFound
	}
	return session, err
}

func (r *PgEventSessionRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.EventSession, error) {
	const query = `
		SELECT id, event_id, event_name, target_group_size, conversation_style, status, created_at, updated_at
		FROM event_sessions
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.EventSession
	for rows.Next() {
		session, err := scanEventSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PgEventSessionRepository) GetGroups(ctx context.Context, sessionID string) ([]domain.EventGroup, error) {
	const query = `
		SELECT id, session_id, group_number, group_size, average_match_score, members_data, created_at
		FROM event_groups
		WHERE session_id = $1
		ORDER BY group_number
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.EventGroup
	for rows.Next() {
		group, err := scanEventGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PgEventSessionRepository) GetGroup(ctx context.Context, groupID string) (domain.EventGroup, error) {
	const query = `
		SELECT id, session_id, group_number, group_size, average_match_score, members_data, created_at
		FROM event_groups
		WHERE id = $1
	`
	group, err := scanEventGroup(r.pool.QueryRow(ctx, query, groupID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.EventGroup{}, ErrNotFound
	}
	return group, err
}

func (r *PgEventSessionRepository) GetGroupScores(ctx context.Context, groupID string) ([]domain.GroupPairScore, error) {
	const query = `
		SELECT id, group_id, user1_id, user2_id,
			social_energy_score, conversation_style_score, social_goal_score,
			group_size_score, gender_comfort_score, interest_score,
			life_context_score, cultural_score, financial_score, reliability_score,
			total_match_score, matching_criteria_count, created_at
		FROM event_pair_scores
		WHERE group_id = $1
	`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []domain.GroupPairScore
	for rows.Next() {
		var s domain.GroupPairScore
		if err := rows.Scan(
			&s.ID,
			&s.GroupID,
			&s.User1ID,
			&s.User2ID,
			&s.Score.SocialEnergyScore,
			&s.Score.ConversationStyleScore,
			&s.Score.SocialGoalScore,
			&s.Score.GroupSizeScore,
			&s.Score.GenderComfortScore,
			&s.Score.InterestScore,
			&s.Score.LifeContextScore,
			&s.Score.CulturalScore,
			&s.Score.FinancialScore,
			&s.Score.ReliabilityScore,
			&s.Score.TotalMatchScore,
			&s.Score.MatchingCriteriaCount,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

func scanEventSession(row pgx.Row) (domain.EventSession, error) {
	var s domain.EventSession
	err := row.Scan(
		&s.ID,
		&s.EventID,
		&s.EventName,
		&s.TargetGroupSize,
		&s.ConversationStyle,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func scanEventGroup(row pgx.Row) (domain.EventGroup, error) {
	var g domain.EventGroup
	var membersJSON []byte
	err := row.Scan(
		&g.ID,
		&g.SessionID,
		&g.GroupNumber,
		&g.GroupSize,
		&g.AverageMatchScore,
		&membersJSON,
		&g.CreatedAt,
	)
	if err != nil {
		return domain.EventGroup{}, err
	}
	if len(membersJSON) > 0 {
		if err := json.Unmarshal(membersJSON, &g.Members); err != nil {
			return domain.EventGroup{}, err
		}
	}
	return g, nil
}
