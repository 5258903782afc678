package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sosy-match/internal/domain"
	"sosy-match/internal/matching"
	"sosy-match/internal/repository"
)

var (
	ErrEventNoAttendees      = errors.New("event has no confirmed attendees")
	ErrNotEnoughAttendees    = errors.New("not enough attendees for the requested group size")
	ErrInvalidMatchingParams = errors.New("invalid matching parameters")
	ErrGroupNotFound         = errors.New("group not found")
)

// EventMatchingService forma grupos de tamaño fijo para un evento a partir de
// los perfiles sociales de los asistentes confirmados. A diferencia del
// matching por rasgos no hay relajación de umbral: el tamaño de grupo es
// exacto y quien no entra queda sin asignar.
type EventMatchingService struct {
	logger    *zap.Logger
	attendees repository.EventAttendeeRepository
	profiles  repository.UserProfileRepository
	sessions  repository.EventSessionRepository
	tracer    matching.Tracer

	// EnforceBalance descarta grupos que no cumplan la mezcla de energía
	// social esperada en vez de solo reportarla.
	EnforceBalance bool
}

func NewEventMatchingService(
	logger *zap.Logger,
	attendees repository.EventAttendeeRepository,
	profiles repository.UserProfileRepository,
	sessions repository.EventSessionRepository,
) *EventMatchingService {
	return &EventMatchingService{
		logger:    logger,
		attendees: attendees,
		profiles:  profiles,
		sessions:  sessions,
		tracer:    matching.NewZapTracer(logger),
	}
}

// validGroupSizes mapea estilo de conversación a tamaño de grupo permitido.
var validGroupSizes = map[string]int{
	domain.ConversationStyleDeep:   4,
	domain.ConversationStyleCasual: 6,
}

// CreateMatching corre el matching por criterios para un evento y persiste la
// sesión con sus grupos.
func (s *EventMatchingService) CreateMatching(
	ctx context.Context,
	eventID int64,
	targetSize int,
	conversationStyle string,
) (domain.EventMatchingResult, error) {
	expected, ok := validGroupSizes[conversationStyle]
	if !ok {
		return domain.EventMatchingResult{}, fmt.Errorf("%w: unknown conversation style %q", ErrInvalidMatchingParams, conversationStyle)
	}
	if targetSize != expected {
		return domain.EventMatchingResult{}, fmt.Errorf("%w: %s conversations require groups of %d", ErrInvalidMatchingParams, conversationStyle, expected)
	}

	attendees, err := s.attendees.ListByEvent(ctx, eventID)
	if err != nil {
		return domain.EventMatchingResult{}, err
	}
	if len(attendees) == 0 {
		return domain.EventMatchingResult{}, ErrEventNoAttendees
	}
	if len(attendees) < targetSize {
		return domain.EventMatchingResult{}, fmt.Errorf("%w: %d attendees, need at least %d", ErrNotEnoughAttendees, len(attendees), targetSize)
	}

	eventName, err := s.attendees.GetEventName(ctx, eventID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return domain.EventMatchingResult{}, err
	}

	profiles := s.loadProfiles(ctx, attendees)

	now := time.Now().UTC()
	session := domain.EventSession{
		ID:                uuid.NewString(),
		EventID:           eventID,
		EventName:         eventName,
		TargetGroupSize:   targetSize,
		ConversationStyle: conversationStyle,
		Status:            domain.SessionStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return domain.EventMatchingResult{}, fmt.Errorf("create event session: %w", err)
	}
	if err := s.sessions.UpdateStatus(ctx, session.ID, domain.SessionStatusProcessing); err != nil {
		return domain.EventMatchingResult{}, err
	}
	session.Status = domain.SessionStatusProcessing

	// Pre-filtro duro: quedan quienes declararon el estilo y tamaño pedidos,
	// o no declararon preferencia (compatible con cualquier cosa).
	var eligible []domain.UserProfile
	var prefiltered []domain.UserProfile
	for _, p := range profiles {
		if p.ConversationStyle != "" && p.ConversationStyle != conversationStyle {
			prefiltered = append(prefiltered, p)
			continue
		}
		if p.GroupSizePreference != 0 && p.GroupSizePreference != targetSize {
			prefiltered = append(prefiltered, p)
			continue
		}
		eligible = append(eligible, p)
	}

	params := EventParams{TargetGroupSize: targetSize, ConversationStyle: conversationStyle}
	scorer := ProfileScorer{}

	var groups []domain.EventGroup
	var groupScores []domain.GroupPairScore
	unmatched := append([]domain.UserProfile(nil), prefiltered...)

	if len(eligible) >= targetSize {
		pairScores := make(map[matching.PairKey]domain.ProfilePairScore)
		matrix := matching.BuildMatrix(len(eligible), func(i, j int) (float64, bool) {
			score := scorer.Score(eligible[i], eligible[j], params)
			if score.MatchingCriteriaCount < MinMatchingCriteria {
				return 0, false
			}
			pairScores[matching.KeyFor(i, j)] = score
			return score.TotalMatchScore, true
		})

		indices := make([]int, len(eligible))
		for i := range indices {
			indices[i] = i
		}

		// Un solo tier: cualquier promedio positivo sirve y todos los índices
		// se prueban como semilla, pero el tamaño de grupo es exacto.
		tier := matching.Tier{Name: "target-size", AnyPositive: true, SeedLimit: len(eligible)}
		formed, leftover := matching.FormGroups(matrix, indices, []int{targetSize}, []matching.Tier{tier}, s.tracer)

		for _, g := range formed {
			members := make([]domain.UserProfile, 0, len(g.Members))
			for _, idx := range g.Members {
				members = append(members, eligible[idx])
			}

			balance := ValidateGroupBalance(members, targetSize)
			if !balance.Balanced {
				s.logger.Warn("group misses the social energy balance target",
					zap.String("session_id", session.ID),
					zap.Any("energy_counts", balance.Counts),
				)
				if s.EnforceBalance {
					leftover = append(leftover, g.Members...)
					continue
				}
			}

			group := domain.EventGroup{
				ID:                uuid.NewString(),
				SessionID:         session.ID,
				GroupNumber:       len(groups) + 1,
				GroupSize:         len(members),
				AverageMatchScore: g.AverageScore,
				CreatedAt:         now,
			}
			for _, m := range members {
				group.Members = append(group.Members, groupMemberSnapshot(m))
			}
			groups = append(groups, group)

			for i := 0; i < len(g.Members); i++ {
				for j := i + 1; j < len(g.Members); j++ {
					key := matching.KeyFor(g.Members[i], g.Members[j])
					groupScores = append(groupScores, domain.GroupPairScore{
						ID:        uuid.NewString(),
						GroupID:   group.ID,
						User1ID:   eligible[key.Lo].UserID,
						User2ID:   eligible[key.Hi].UserID,
						Score:     pairScores[key],
						CreatedAt: now,
					})
				}
			}
		}

		for _, idx := range leftover {
			unmatched = append(unmatched, eligible[idx])
		}
	} else {
		unmatched = append(unmatched, eligible...)
	}

	session.Status = domain.SessionStatusCompleted
	session.UpdatedAt = time.Now().UTC()

	if err := s.sessions.SaveResults(ctx, session, groups, groupScores); err != nil {
		return domain.EventMatchingResult{}, fmt.Errorf("persist event matching results: %w", err)
	}

	var unmatchedMembers []domain.GroupMember
	for _, p := range unmatched {
		unmatchedMembers = append(unmatchedMembers, groupMemberSnapshot(p))
	}

	var avgGroupScore float64
	if len(groups) > 0 {
		var sum float64
		for _, g := range groups {
			sum += g.AverageMatchScore
		}
		avgGroupScore = sum / float64(len(groups))
	}

	return domain.EventMatchingResult{
		Session:           session,
		Groups:            groups,
		TotalUsers:        len(attendees),
		MatchedUsers:      len(attendees) - len(unmatchedMembers),
		UnmatchedUsers:    len(unmatchedMembers),
		Unmatched:         unmatchedMembers,
		AverageGroupScore: avgGroupScore,
	}, nil
}

// GetSession devuelve la sesión con sus grupos.
func (s *EventMatchingService) GetSession(ctx context.Context, sessionID string) (domain.EventSession, []domain.EventGroup, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.EventSession{}, nil, ErrSessionNotFound
		}
		return domain.EventSession{}, nil, err
	}
	groups, err := s.sessions.GetGroups(ctx, sessionID)
	if err != nil {
		return domain.EventSession{}, nil, err
	}
	return session, groups, nil
}

// ListByEvent devuelve las sesiones de matching corridas para un evento.
func (s *EventMatchingService) ListByEvent(ctx context.Context, eventID int64) ([]domain.EventSession, error) {
	return s.sessions.ListByEvent(ctx, eventID)
}

// GetGroupScores devuelve el desglose por par de un grupo.
func (s *EventMatchingService) GetGroupScores(ctx context.Context, groupID string) (domain.EventGroup, []domain.GroupPairScore, error) {
	group, err := s.sessions.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.EventGroup{}, nil, ErrGroupNotFound
		}
		return domain.EventGroup{}, nil, err
	}
	scores, err := s.sessions.GetGroupScores(ctx, groupID)
	if err != nil {
		return domain.EventGroup{}, nil, err
	}
	return group, scores, nil
}

// loadProfiles junta el perfil social de cada asistente. Quien nunca completo
// el perfil participa igual con uno mínimo neutro.
func (s *EventMatchingService) loadProfiles(ctx context.Context, attendees []domain.EventAttendee) []domain.UserProfile {
	profiles := make([]domain.UserProfile, 0, len(attendees))
	for _, a := range attendees {
		profile, err := s.profiles.GetByUserID(ctx, a.UserID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("could not load profile, using neutral defaults",
					zap.Int64("user_id", a.UserID),
					zap.Error(err),
				)
			}
			profile = domain.UserProfile{
				UserID:           a.UserID,
				ReliabilityScore: 100,
				AttendanceRate:   100,
			}
		}
		profile.Username = a.Username
		profile.Email = a.Email
		profile.DisplayName = a.DisplayName
		profiles = append(profiles, profile)
	}
	return profiles
}

func groupMemberSnapshot(p domain.UserProfile) domain.GroupMember {
	return domain.GroupMember{
		UserID:       p.UserID,
		Username:     p.Username,
		Email:        p.Email,
		DisplayName:  p.DisplayName,
		SocialEnergy: p.SocialEnergy,
	}
}
