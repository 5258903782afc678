package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"sosy-match/internal/domain"
	"sosy-match/internal/matching"
	"sosy-match/internal/repository"
)

var (
	ErrNotEnoughParticipants  = errors.New("not enough participants")
	ErrParticipantWithoutTest = errors.New("participant has not taken the test")
	ErrSessionNotFound        = errors.New("session not found")
	ErrTestNotFound           = errors.New("personality test not found")
)

// Umbrales de relajación progresiva que se prueban después del objetivo.
var relaxedThresholds = []float64{65.0, 60.0, 55.0, 50.0}

// DaylightService orquesta las corridas de matching por rasgos: cargar
// participantes, armar la matriz, correr los tiers de formación, persistir y
// calcular estadísticas de sesión. Una invocación, una sesión.
type DaylightService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	tests    repository.PersonalityTestRepository
	sessions repository.DaylightSessionRepository
	cache    SessionResultCache
	tracer   matching.Tracer

	// DefaultThreshold es el umbral usado cuando el request no trae uno.
	// Se setea desde MATCH_THRESHOLD; en cero cae a DefaultMatchThreshold.
	DefaultThreshold float64
	// SeedLimit acota cuántos candidatos se prueban como semilla en los
	// tiers por umbral. Se setea desde MATCH_SEED_LIMIT.
	SeedLimit int
}

func NewDaylightService(
	logger *zap.Logger,
	users repository.UserRepository,
	tests repository.PersonalityTestRepository,
	sessions repository.DaylightSessionRepository,
	cache SessionResultCache,
) *DaylightService {
	return &DaylightService{
		logger:   logger,
		users:    users,
		tests:    tests,
		sessions: sessions,
		cache:    cache,
		tracer:   matching.NewZapTracer(logger),
	}
}

// SubmitTest puntúa las respuestas y guarda (o pisa) el test del usuario.
func (s *DaylightService) SubmitTest(ctx context.Context, userID string, answers domain.Answers) (domain.PersonalityTest, error) {
	if userID == "" || len(answers) == 0 {
		return domain.PersonalityTest{}, errors.New("user id and answers are required")
	}

	scores := ScoreAnswers(answers)
	now := time.Now().UTC()

	test := domain.PersonalityTest{
		ID:     uuid.NewString(),
		UserID: userID,

		ERaw: scores.ERaw,
		ORaw: scores.ORaw,
		SRaw: scores.SRaw,
		ARaw: scores.ARaw,
		CRaw: scores.CRaw,
		LRaw: scores.LRaw,

		ENormalized: scores.ENormalized,
		ONormalized: scores.ONormalized,
		SNormalized: scores.SNormalized,
		ANormalized: scores.ANormalized,
		CNormalized: scores.CNormalized,
		LNormalized: scores.LNormalized,

		ProfileScore:    scores.ProfileScore,
		Archetype:       scores.Archetype,
		ArchetypeSymbol: scores.ArchetypeSymbol,

		RelationshipStatus: scores.RelationshipStatus,
		LookingFor:         scores.LookingFor,
		GenderComfort:      scores.GenderComfort,

		TraitVec: pgvector.NewVector([]float32{
			float32(scores.ERaw),
			float32(scores.ORaw),
			float32(scores.SRaw),
			float32(scores.ARaw),
		}),

		Answers:   answers,
		TestDate:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tests.Upsert(ctx, test); err != nil {
		return domain.PersonalityTest{}, fmt.Errorf("persist personality test: %w", err)
	}
	return test, nil
}

// GetLatestTest devuelve el último test del usuario.
func (s *DaylightService) GetLatestTest(ctx context.Context, userID string) (domain.PersonalityTest, error) {
	test, err := s.tests.GetLatestByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.PersonalityTest{}, ErrTestNotFound
	}
	return test, err
}

// ListTests devuelve tests paginados, más recientes primero.
func (s *DaylightService) ListTests(ctx context.Context, skip, limit int) ([]domain.PersonalityTest, error) {
	return s.tests.List(ctx, skip, limit)
}

// FindSimilarTests devuelve los k perfiles con vector de rasgos más cercano
// al del usuario dado.
func (s *DaylightService) FindSimilarTests(ctx context.Context, userID string, k int) ([]domain.PersonalityTest, error) {
	test, err := s.GetLatestTest(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.tests.FindNearest(ctx, test.TraitVec, k)
}

// ValidateParticipants verifica que cada usuario referido tenga un test
// completado. Pensado para que el caller lo corra antes de crear la sesión:
// una falla acá no deja ningun estado persistido.
func (s *DaylightService) ValidateParticipants(ctx context.Context, userIDs []string) error {
	if len(userIDs) < 3 {
		return ErrNotEnoughParticipants
	}
	for _, userID := range userIDs {
		if _, err := s.tests.GetLatestByUserID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrParticipantWithoutTest, userID)
			}
			return err
		}
	}
	return nil
}

type daylightParticipant struct {
	userID string
	test   domain.PersonalityTest
}

// CreateSession corre el algoritmo multi-tier completo para los usuarios
// dados y persiste la sesión resultante. Los participantes sin test se
// descartan; con menos de 3 elegibles la sesión queda en failed, estado
// terminal no reintentable: para rematchear se crea una sesión nueva.
func (s *DaylightService) CreateSession(
	ctx context.Context,
	sessionName string,
	createdBy string,
	userIDs []string,
	threshold float64,
) (domain.DaylightSessionResult, error) {
	if len(userIDs) < 3 {
		return domain.DaylightSessionResult{}, ErrNotEnoughParticipants
	}
	if threshold <= 0 {
		threshold = s.DefaultThreshold
	}
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}

	now := time.Now().UTC()
	session := domain.DaylightSession{
		ID:                uuid.NewString(),
		SessionName:       sessionName,
		CreatedBy:         createdBy,
		MinGroupSize:      3,
		MaxGroupSize:      5,
		MinMatchThreshold: threshold,
		Status:            domain.SessionStatusPending,
		CreatedAt:         now,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return domain.DaylightSessionResult{}, fmt.Errorf("create session: %w", err)
	}

	// Cargar tests: sin test no hay elegibilidad. Orden estable por el orden
	// de entrada, así el resultado es reproducible para los mismos IDs.
	var participants []daylightParticipant
	seen := make(map[string]bool)
	for _, userID := range userIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		test, err := s.tests.GetLatestByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return domain.DaylightSessionResult{}, err
		}
		participants = append(participants, daylightParticipant{userID: userID, test: test})
	}

	if err := s.sessions.UpdateStatus(ctx, session.ID, domain.SessionStatusProcessing); err != nil {
		return domain.DaylightSessionResult{}, err
	}
	session.Status = domain.SessionStatusProcessing
	session.TotalParticipants = len(participants)

	if len(participants) < 3 {
		s.logger.Warn("session failed: not enough eligible participants",
			zap.String("session_id", session.ID),
			zap.Int("eligible", len(participants)),
		)
		if err := s.sessions.MarkFailed(ctx, session.ID, len(participants)); err != nil {
			return domain.DaylightSessionResult{}, err
		}
		session.Status = domain.SessionStatusFailed
		return domain.DaylightSessionResult{Session: session}, nil
	}

	// Matriz de pares: el scorer corre una sola vez por par y el desglose se
	// conserva para persistirlo con las mesas.
	scorer := NewDaylightScorer(threshold)
	pairScores := make(map[matching.PairKey]domain.PairScore)
	matrix := matching.BuildMatrix(len(participants), func(i, j int) (float64, bool) {
		score := scorer.Score(participants[i].test, participants[j].test)
		pairScores[matching.KeyFor(i, j)] = score
		return score.TotalMatchScore, true
	})

	indices := make([]int, len(participants))
	for i := range indices {
		indices[i] = i
	}

	groups, unmatched := matching.FormGroups(matrix, indices, []int{5, 4, 3}, daylightTiers(threshold, s.SeedLimit), s.tracer)

	// Armar registros persistibles: participantes, mesas con snapshot de
	// miembros y scores por par.
	records := make([]domain.DaylightParticipant, 0, len(participants))
	for _, p := range participants {
		records = append(records, domain.DaylightParticipant{
			ID:                uuid.NewString(),
			SessionID:         session.ID,
			UserID:            p.userID,
			PersonalityTestID: p.test.ID,
			AddedAt:           now,
		})
	}

	var tables []domain.DaylightTable
	var tableScores []domain.TablePairScore
	for n, g := range groups {
		table := domain.DaylightTable{
			ID:                uuid.NewString(),
			SessionID:         session.ID,
			TableNumber:       n + 1,
			TableSize:         len(g.Members),
			AverageMatchScore: g.AverageScore,
			CreatedAt:         now,
		}
		for _, idx := range g.Members {
			table.Members = append(table.Members, s.memberSnapshot(ctx, participants[idx]))
		}
		tables = append(tables, table)

		for i := 0; i < len(g.Members); i++ {
			for j := i + 1; j < len(g.Members); j++ {
				key := matching.KeyFor(g.Members[i], g.Members[j])
				tableScores = append(tableScores, domain.TablePairScore{
					ID:        uuid.NewString(),
					TableID:   table.ID,
					User1ID:   participants[key.Lo].userID,
					User2ID:   participants[key.Hi].userID,
					Score:     pairScores[key],
					CreatedAt: now,
				})
			}
		}
	}

	completedAt := time.Now().UTC()
	session.Status = domain.SessionStatusCompleted
	session.TotalTables = len(tables)
	session.CompletedAt = &completedAt
	if len(tables) > 0 {
		// Media aritmetica de los promedios por mesa, no una media ponderada
		// sobre pares.
		var sum float64
		for _, t := range tables {
			sum += t.AverageMatchScore
		}
		avg := sum / float64(len(tables))
		session.AverageMatchScore = &avg
	}

	if err := s.sessions.SaveResults(ctx, session, records, tables, tableScores); err != nil {
		return domain.DaylightSessionResult{}, fmt.Errorf("persist session results: %w", err)
	}

	var unmatchedMembers []domain.TableMember
	for _, idx := range unmatched {
		unmatchedMembers = append(unmatchedMembers, s.memberSnapshot(ctx, participants[idx]))
	}

	result := buildSessionResult(session, s.creatorName(ctx, session.CreatedBy), tables, tableScores, unmatchedMembers)
	if s.cache != nil {
		s.cache.Set(ctx, result)
	}
	return result, nil
}

// GetSessionResult arma el read model completo de una sesión, con mesas,
// desgloses por par y no emparejados.
func (s *DaylightService) GetSessionResult(ctx context.Context, sessionID string) (domain.DaylightSessionResult, error) {
	if s.cache != nil {
		if result, ok := s.cache.Get(ctx, sessionID); ok {
			return result, nil
		}
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.DaylightSessionResult{}, ErrSessionNotFound
		}
		return domain.DaylightSessionResult{}, err
	}

	tables, err := s.sessions.GetTables(ctx, sessionID)
	if err != nil {
		return domain.DaylightSessionResult{}, err
	}

	var allScores []domain.TablePairScore
	matched := make(map[string]bool)
	for _, t := range tables {
		for _, m := range t.Members {
			matched[m.UserID] = true
		}
		scores, err := s.sessions.GetTableScores(ctx, t.ID)
		if err != nil {
			return domain.DaylightSessionResult{}, err
		}
		allScores = append(allScores, scores...)
	}

	participants, err := s.sessions.GetParticipants(ctx, sessionID)
	if err != nil {
		return domain.DaylightSessionResult{}, err
	}

	var unmatchedMembers []domain.TableMember
	for _, p := range participants {
		if matched[p.UserID] {
			continue
		}
		member := domain.TableMember{UserID: p.UserID}
		if test, err := s.tests.GetLatestByUserID(ctx, p.UserID); err == nil {
			member.Archetype = test.Archetype
			member.ArchetypeSymbol = test.ArchetypeSymbol
			member.ProfileScore = test.ProfileScore
		}
		if user, err := s.users.GetByID(ctx, p.UserID); err == nil {
			member.Username = user.Username
			member.FullName = user.FullName
		}
		unmatchedMembers = append(unmatchedMembers, member)
	}

	result := buildSessionResult(session, s.creatorName(ctx, session.CreatedBy), tables, allScores, unmatchedMembers)
	if s.cache != nil && session.Status == domain.SessionStatusCompleted {
		s.cache.Set(ctx, result)
	}
	return result, nil
}

// ListSessions devuelve sesiones paginadas, más recientes primero.
func (s *DaylightService) ListSessions(ctx context.Context, skip, limit int) ([]domain.DaylightSession, error) {
	return s.sessions.ListSessions(ctx, skip, limit)
}

// daylightTiers arma la política multi-tier: umbral objetivo, relajaciones
// fijas, cualquier score positivo y finalmente grupo forzado. El tier
// any-positive siembra con dos candidatos extra sobre los tiers por umbral.
func daylightTiers(threshold float64, seedLimit int) []matching.Tier {
	if seedLimit <= 0 {
		seedLimit = 8
	}
	tiers := []matching.Tier{
		{Name: "target", Threshold: threshold, SeedLimit: seedLimit, SizeBonus: 5},
	}
	for _, relaxed := range relaxedThresholds {
		tiers = append(tiers, matching.Tier{
			Name:      fmt.Sprintf("relaxed-%.0f", relaxed),
			Threshold: relaxed,
			SeedLimit: seedLimit,
			SizeBonus: 5,
		})
	}
	tiers = append(tiers,
		matching.Tier{Name: "any-positive", AnyPositive: true, SeedLimit: seedLimit + 2, SizeBonus: 3},
		matching.Tier{Name: "force", Force: true},
	)
	return tiers
}

func (s *DaylightService) memberSnapshot(ctx context.Context, p daylightParticipant) domain.TableMember {
	member := domain.TableMember{
		UserID:          p.userID,
		Archetype:       p.test.Archetype,
		ArchetypeSymbol: p.test.ArchetypeSymbol,
		ProfileScore:    p.test.ProfileScore,
	}
	if user, err := s.users.GetByID(ctx, p.userID); err == nil {
		member.Username = user.Username
		member.FullName = user.FullName
	}
	return member
}

func (s *DaylightService) creatorName(ctx context.Context, createdBy string) string {
	if user, err := s.users.GetByID(ctx, createdBy); err == nil {
		return user.Username
	}
	return "Unknown"
}

func buildSessionResult(
	session domain.DaylightSession,
	creatorName string,
	tables []domain.DaylightTable,
	scores []domain.TablePairScore,
	unmatched []domain.TableMember,
) domain.DaylightSessionResult {
	names := make(map[string]string)
	for _, t := range tables {
		for _, m := range t.Members {
			if m.FullName != "" {
				names[m.UserID] = m.FullName
			} else {
				names[m.UserID] = m.Username
			}
		}
	}

	scoresByTable := make(map[string][]domain.PairScoreDetail)
	for _, score := range scores {
		scoresByTable[score.TableID] = append(scoresByTable[score.TableID], domain.PairScoreDetail{
			User1ID:   score.User1ID,
			User1Name: names[score.User1ID],
			User2ID:   score.User2ID,
			User2Name: names[score.User2ID],
			Score:     score.Score,
		})
	}

	sizeDistribution := make(map[int]int)
	var tableResults []domain.TableResult
	for _, t := range tables {
		sizeDistribution[t.TableSize]++
		tableResults = append(tableResults, domain.TableResult{
			TableNumber:       t.TableNumber,
			TableSize:         t.TableSize,
			AverageMatchScore: t.AverageMatchScore,
			Members:           t.Members,
			PairwiseScores:    scoresByTable[t.ID],
		})
	}

	// Tamaño más usado en la sesión; 5 por defecto cuando no hay mesas.
	optimalSize := 5
	bestCount := 0
	for size, count := range sizeDistribution {
		if count > bestCount || (count == bestCount && size > optimalSize) {
			optimalSize = size
			bestCount = count
		}
	}

	return domain.DaylightSessionResult{
		Session:               session,
		CreatorName:           creatorName,
		Tables:                tableResults,
		UnmatchedParticipants: unmatched,
		SizeDistribution:      sizeDistribution,
		OptimalSizeUsed:       optimalSize,
	}
}
