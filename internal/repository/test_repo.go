package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"sosy-match/internal/domain"
)

// PersonalityTestRepository persiste resultados del test Daylight. Cada
// usuario tiene a lo sumo un resultado vigente: repetir el test lo pisa.
type PersonalityTestRepository interface {
	Upsert(ctx context.Context, test domain.PersonalityTest) error
	GetLatestByUserID(ctx context.Context, userID string) (domain.PersonalityTest, error)
	List(ctx context.Context, skip, limit int) ([]domain.PersonalityTest, error)
	FindNearest(ctx context.Context, vec pgvector.Vector, k int) ([]domain.PersonalityTest, error)
}

type PgPersonalityTestRepository struct {
	pool *pgxpool.Pool
}

func NewPgPersonalityTestRepository(pool *pgxpool.Pool) *PgPersonalityTestRepository {
	return &PgPersonalityTestRepository{pool: pool}
}

const testColumns = `
	id, user_id, e_raw, o_raw, s_raw, a_raw, c_raw, l_raw,
	e_normalized, o_normalized, s_normalized, a_normalized, c_normalized, l_normalized,
	profile_score, archetype, archetype_symbol,
	relationship_status, looking_for, gender_comfort,
	trait_vec, answers, test_date, created_at, updated_at
`

func (r *PgPersonalityTestRepository) Upsert(ctx context.Context, test domain.PersonalityTest) error {
	answersJSON, err := json.Marshal(test.Answers)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO personality_tests (` + testColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		ON CONFLICT (user_id)
		DO UPDATE SET
			e_raw = EXCLUDED.e_raw,
			o_raw = EXCLUDED.o_raw,
			s_raw = EXCLUDED.s_raw,
			a_raw = EXCLUDED.a_raw,
			c_raw = EXCLUDED.c_raw,
			l_raw = EXCLUDED.l_raw,
			e_normalized = EXCLUDED.e_normalized,
			o_normalized = EXCLUDED.o_normalized,
			s_normalized = EXCLUDED.s_normalized,
			a_normalized = EXCLUDED.a_normalized,
			c_normalized = EXCLUDED.c_normalized,
			l_normalized = EXCLUDED.l_normalized,
			profile_score = EXCLUDED.profile_score,
			archetype = EXCLUDED.archetype,
			archetype_symbol = EXCLUDED.archetype_symbol,
			relationship_status = EXCLUDED.relationship_status,
			looking_for = EXCLUDED.looking_for,
			gender_comfort = EXCLUDED.gender_comfort,
			trait_vec = EXCLUDED.trait_vec,
			answers = EXCLUDED.answers,
			test_date = EXCLUDED.test_date,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		test.ID,
		test.UserID,
		test.ERaw,
		test.ORaw,
		test.SRaw,
		test.ARaw,
		test.CRaw,
		test.LRaw,
		test.ENormalized,
		test.ONormalized,
		test.SNormalized,
		test.ANormalized,
		test.CNormalized,
		test.LNormalized,
		test.ProfileScore,
		test.Archetype,
		test.ArchetypeSymbol,
		test.RelationshipStatus,
		test.LookingFor,
		test.GenderComfort,
		test.TraitVec,
		answersJSON,
		test.TestDate,
		test.CreatedAt,
		test.UpdatedAt,
	)
	return err
}

func (r *PgPersonalityTestRepository) GetLatestByUserID(ctx context.Context, userID string) (domain.PersonalityTest, error) {
	const query = `
		SELECT ` + testColumns + `
		FROM personality_tests
		WHERE user_id = $1
		ORDER BY test_date DESC
		LIMIT 1
	`
	row := r.pool.QueryRow(ctx, query, userID)
	test, err := scanTest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PersonalityTest{}, ErrNotFound
	}
	return test, err
}

func (r *PgPersonalityTestRepository) List(ctx context.Context, skip, limit int) ([]domain.PersonalityTest, error) {
	const query = `
		SELECT ` + testColumns + `
		FROM personality_tests
		ORDER BY test_date DESC
		OFFSET $1 LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTests(rows)
}

// FindNearest devuelve los k tests con vector de rasgos más cercano al dado,
// usando distancia coseno de pgvector.
func (r *PgPersonalityTestRepository) FindNearest(ctx context.Context, vec pgvector.Vector, k int) ([]domain.PersonalityTest, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT ` + testColumns + `
		FROM personality_tests
		ORDER BY trait_vec <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, vec, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTests(rows)
}

func scanTests(rows pgx.Rows) ([]domain.PersonalityTest, error) {
	var tests []domain.PersonalityTest
	for rows.Next() {
		test, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tests, nil
}

func scanTest(row pgx.Row) (domain.PersonalityTest, error) {
	var t domain.PersonalityTest
	var answersJSON []byte
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.ERaw,
		&t.ORaw,
		&t.SRaw,
		&t.ARaw,
		&t.CRaw,
		&t.LRaw,
		&t.ENormalized,
		&t.ONormalized,
		&t.SNormalized,
		&t.ANormalized,
		&t.CNormalized,
		&t.LNormalized,
		&t.ProfileScore,
		&t.Archetype,
		&t.ArchetypeSymbol,
		&t.RelationshipStatus,
		&t.LookingFor,
		&t.GenderComfort,
		&t.TraitVec,
		&answersJSON,
		&t.TestDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return domain.PersonalityTest{}, err
	}
	if len(answersJSON) > 0 {
		if err := json.Unmarshal(answersJSON, &t.Answers); err != nil {
			return domain.PersonalityTest{}, err
		}
	}
	return t, nil
}
