package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sosy-match/internal/domain"
	"sosy-match/internal/repository"
)

var ErrInvalidFeedback = errors.New("invalid feedback")

// Impactos de energía reconocidos y su peso sobre la muestra de
// confiabilidad.
var energyImpactWeights = map[string]float64{
	"energized": 1.0,
	"neutral":   0.7,
	"drained":   0.3,
}

// ReliabilityRule es la media móvil exponencial que suaviza el score de
// confiabilidad de un perfil con cada feedback recibido.
type ReliabilityRule struct {
	// Alpha es el peso de la muestra nueva, en (0, 1].
	Alpha float64
}

// DefaultReliabilityAlpha mantiene el historial dominante: cada feedback
// nuevo mueve el score solo un 20%.
const DefaultReliabilityAlpha = 0.2

// Sample convierte un feedback en una muestra 0-100.
func (ReliabilityRule) Sample(feedback domain.EnergyFeedback) float64 {
	weight, ok := energyImpactWeights[feedback.EnergyImpact]
	if !ok {
		weight = energyImpactWeights["neutral"]
	}
	return float64(feedback.Rating) / 5.0 * weight * 100.0
}

// Apply mezcla el score previo con la muestra nueva y acota a [0, 100].
func (r ReliabilityRule) Apply(old, sample float64) float64 {
	alpha := r.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultReliabilityAlpha
	}
	return clamp((1-alpha)*old+alpha*sample, 0, 100)
}

// FeedbackService registra feedback de energía post-encuentro y actualiza la
// confiabilidad del perfil evaluado.
type FeedbackService struct {
	logger    *zap.Logger
	feedbacks repository.EnergyFeedbackRepository
	profiles  repository.UserProfileRepository
	rule      ReliabilityRule
}

func NewFeedbackService(
	logger *zap.Logger,
	feedbacks repository.EnergyFeedbackRepository,
	profiles repository.UserProfileRepository,
	rule ReliabilityRule,
) *FeedbackService {
	return &FeedbackService{
		logger:    logger,
		feedbacks: feedbacks,
		profiles:  profiles,
		rule:      rule,
	}
}

// Create valida y persiste el feedback, y luego mueve el score del perfil
// evaluado. Si el evaluado no tiene perfil solo se guarda el feedback.
func (s *FeedbackService) Create(ctx context.Context, feedback domain.EnergyFeedback) (domain.EnergyFeedback, error) {
	if feedback.Rating < 1 || feedback.Rating > 5 {
		return domain.EnergyFeedback{}, fmt.Errorf("%w: rating must be 1-5", ErrInvalidFeedback)
	}
	if _, ok := energyImpactWeights[feedback.EnergyImpact]; !ok {
		return domain.EnergyFeedback{}, fmt.Errorf("%w: unknown energy impact %q", ErrInvalidFeedback, feedback.EnergyImpact)
	}
	if feedback.UserID == feedback.RatedUserID {
		return domain.EnergyFeedback{}, fmt.Errorf("%w: cannot rate yourself", ErrInvalidFeedback)
	}

	feedback.ID = uuid.NewString()
	feedback.CreatedAt = time.Now().UTC()
	if err := s.feedbacks.Create(ctx, feedback); err != nil {
		return domain.EnergyFeedback{}, fmt.Errorf("persist feedback: %w", err)
	}

	profile, err := s.profiles.GetByUserID(ctx, feedback.RatedUserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("could not load rated profile for reliability update",
				zap.Int64("rated_user_id", feedback.RatedUserID),
				zap.Error(err),
			)
		}
		return feedback, nil
	}

	updated := s.rule.Apply(profile.ReliabilityScore, s.rule.Sample(feedback))
	if err := s.profiles.UpdateReliability(ctx, feedback.RatedUserID, updated); err != nil {
		s.logger.Warn("could not update reliability score",
			zap.Int64("rated_user_id", feedback.RatedUserID),
			zap.Error(err),
		)
		return feedback, nil
	}

	s.logger.Info("reliability score updated",
		zap.Int64("rated_user_id", feedback.RatedUserID),
		zap.Float64("old_score", profile.ReliabilityScore),
		zap.Float64("new_score", updated),
	)
	return feedback, nil
}

// ListByGroup devuelve el feedback registrado para un grupo.
func (s *FeedbackService) ListByGroup(ctx context.Context, groupID string) ([]domain.EnergyFeedback, error) {
	return s.feedbacks.ListByGroup(ctx, groupID)
}
