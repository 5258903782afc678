package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sosy-match/internal/domain"
)

// DaylightSessionRepository persiste sesiones de matching por rasgos.
//
// SaveResults escribe participantes, mesas, scores y el cierre de la sesión
// dentro de una única transacción: una falla a mitad de camino no deja un
// conjunto parcial de mesas visible.
type DaylightSessionRepository interface {
	CreateSession(ctx context.Context, session domain.DaylightSession) error
	UpdateStatus(ctx context.Context, id, status string) error
	MarkFailed(ctx context.Context, id string, totalParticipants int) error
	SaveResults(ctx context.Context, session domain.DaylightSession, participants []domain.DaylightParticipant, tables []domain.DaylightTable, scores []domain.TablePairScore) error
	GetSession(ctx context.Context, id string) (domain.DaylightSession, error)
	ListSessions(ctx context.Context, skip, limit int) ([]domain.DaylightSession, error)
	GetParticipants(ctx context.Context, sessionID string) ([]domain.DaylightParticipant, error)
	GetTables(ctx context.Context, sessionID string) ([]domain.DaylightTable, error)
	GetTableScores(ctx context.Context, tableID string) ([]domain.TablePairScore, error)
}

type PgDaylightSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgDaylightSessionRepository(pool *pgxpool.Pool) *PgDaylightSessionRepository {
	return &PgDaylightSessionRepository{pool: pool}
}

func (r *PgDaylightSessionRepository) CreateSession(ctx context.Context, session domain.DaylightSession) error {
	const query = `
		INSERT INTO daylight_sessions (
			id, session_name, created_by, min_group_size, max_group_size,
			min_match_threshold, status, total_participants, total_tables, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.SessionName,
		session.CreatedBy,
		session.MinGroupSize,
		session.MaxGroupSize,
		session.MinMatchThreshold,
		session.Status,
		session.TotalParticipants,
		session.TotalTables,
		session.CreatedAt,
	)
	return err
}

func (r *PgDaylightSessionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE daylight_sessions SET status = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

func (r *PgDaylightSessionRepository) MarkFailed(ctx context.Context, id string, totalParticipants int) error {
	const query = `
		UPDATE daylight_sessions
		SET status = $2, total_participants = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, domain.SessionStatusFailed, totalParticipants)
	return err
}

func (r *PgDaylightSessionRepository) SaveResults(
	ctx context.Context,
	session domain.DaylightSession,
	participants []domain.DaylightParticipant,
	tables []domain.DaylightTable,
	scores []domain.TablePairScore,
) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range participants {
		const query = `
			INSERT INTO daylight_participants (id, session_id, user_id, personality_test_id, added_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, query, p.ID, p.SessionID, p.UserID, p.PersonalityTestID, p.AddedAt); err != nil {
			return err
		}
	}

	for _, t := range tables {
		membersJSON, err := json.Marshal(t.Members)
		if err != nil {
			return err
		}
		const query = `
			INSERT INTO daylight_tables (id, session_id, table_number, table_size, average_match_score, members_data, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, query, t.ID, t.SessionID, t.TableNumber, t.TableSize, t.AverageMatchScore, membersJSON, t.CreatedAt); err != nil {
			return err
		}
	}

	for _, s := range scores {
		const query = `
			INSERT INTO daylight_pair_scores (
				id, table_id, user1_id, user2_id,
				e_diff, o_diff, s_diff, a_diff,
				trait_similarity, lifestyle_bonus, comfort_bonus, serendipity_bonus,
				total_match_score, meets_threshold, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`
		if _, err := tx.Exec(ctx, query,
			s.ID,
			s.TableID,
			s.User1ID,
			s.User2ID,
			s.Score.EDiff,
			s.Score.ODiff,
			s.Score.SDiff,
			s.Score.ADiff,
			s.Score.TraitSimilarity,
			s.Score.LifestyleBonus,
			s.Score.ComfortBonus,
			s.Score.SerendipityBonus,
			s.Score.TotalMatchScore,
			s.Score.MeetsThreshold,
			s.CreatedAt,
		); err != nil {
			return err
		}
	}

	const closeQuery = `
		UPDATE daylight_sessions
		SET status = $2, total_participants = $3, total_tables = $4,
			average_match_score = $5, completed_at = $6
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, closeQuery,
		session.ID,
		session.Status,
		session.TotalParticipants,
		session.TotalTables,
		session.AverageMatchScore,
		session.CompletedAt,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const daylightSessionColumns = `
	id, session_name, created_by, min_group_size, max_group_size,
	min_match_threshold, status, total_participants, total_tables,
	average_match_score, created_at, completed_at
`

func (r *PgDaylightSessionRepository) GetSession(ctx context.Context, id string) (domain.DaylightSession, error) {
	const query = `
		SELECT ` + daylightSessionColumns + `
		FROM daylight_sessions
		WHERE id = $1
	`
	session, err := scanDaylightSession(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DaylightSession{}, ErrNotFound
	}
	return session, err
}

func (r *PgDaylightSessionRepository) ListSessions(ctx context.Context, skip, limit int) ([]domain.DaylightSession, error) {
	const query = `
		SELECT ` + daylightSessionColumns + `
		FROM daylight_sessions
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.DaylightSession
	for rows.Next() {
		session, err := scanDaylightSession(rows)
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

func (r *PgDaylightSessionRepository) GetParticipants(ctx context.Context, sessionID string) ([]domain.DaylightParticipant, error) {
	const query = `
		SELECT id, session_id, user_id, personality_test_id, added_at
		FROM daylight_participants
		WHERE session_id = $1
		ORDER BY added_at
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.DaylightParticipant
	for rows.Next() {
		var p domain.DaylightParticipant
		if err := rows.Scan(&p.ID, &p.SessionID, &p.UserID, &p.PersonalityTestID, &p.AddedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *PgDaylightSessionRepository) GetTables(ctx context.Context, sessionID string) ([]domain.DaylightTable, error) {
	const query = `
		SELECT id, session_id, table_number, table_size, average_match_score, members_data, created_at
		FROM daylight_tables
		WHERE session_id = $1
		ORDER BY table_number
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []domain.DaylightTable
	for rows.Next() {
		var t domain.DaylightTable
		var membersJSON []byte
		if err := rows.Scan(&t.ID, &t.SessionID, &t.TableNumber, &t.TableSize, &t.AverageMatchScore, &membersJSON, &t.CreatedAt); err != nil {
			return nil, err
		}
		if len(membersJSON) > 0 {
			if err := json.Unmarshal(membersJSON, &t.Members); err != nil {
				return nil, err
			}
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *PgDaylightSessionRepository) GetTableScores(ctx context.Context, tableID string) ([]domain.TablePairScore, error) {
	const query = `
		SELECT id, table_id, user1_id, user2_id,
			e_diff, o_diff, s_diff, a_diff,
			trait_similarity, lifestyle_bonus, comfort_bonus, serendipity_bonus,
			total_match_score, meets_threshold, created_at
		FROM daylight_pair_scores
		WHERE table_id = $1
	`
	rows, err := r.pool.Query(ctx, query, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []domain.TablePairScore
	for rows.Next() {
		var s domain.TablePairScore
		if err := rows.Scan(
			&s.ID,
			&s.TableID,
			&s.User1ID,
			&s.User2ID,
			&s.Score.EDiff,
			&s.Score.ODiff,
			&s.Score.SDiff,
			&s.Score.ADiff,
			&s.Score.TraitSimilarity,
			&s.Score.LifestyleBonus,
			&s.Score.ComfortBonus,
			&s.Score.SerendipityBonus,
			&s.Score.TotalMatchScore,
			&s.Score.MeetsThreshold,
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

func scanDaylightSession(row pgx.Row) (domain.DaylightSession, error) {
	var s domain.DaylightSession
	err := row.Scan(
		&s.ID,
		&s.SessionName,
		&s.CreatedBy,
		&s.MinGroupSize,
		&s.MaxGroupSize,
		&s.MinMatchThreshold,
		&s.Status,
		&s.TotalParticipants,
		&s.TotalTables,
		&s.AverageMatchScore,
		&s.CreatedAt,
		&s.CompletedAt,
	)
	return s, err
}
