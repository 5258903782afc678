package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sosy-match/internal/domain"
	"sosy-match/internal/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService administra los perfiles sociales usados por el matching de
// eventos.
type ProfileService struct {
	profiles repository.UserProfileRepository
}

func NewProfileService(profiles repository.UserProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID int64) (domain.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.UserProfile{}, ErrProfileNotFound
	}
	return profile, err
}

// Upsert crea el perfil si no existe y lo actualiza si ya existe. El score de
// confiabilidad no se toca acá: solo lo mueve el feedback de energía.
func (s *ProfileService) Upsert(ctx context.Context, profile domain.UserProfile) (domain.UserProfile, error) {
	if err := validateProfile(profile); err != nil {
		return domain.UserProfile{}, err
	}

	now := time.Now().UTC()
	existing, err := s.profiles.GetByUserID(ctx, profile.UserID)
	switch {
	case err == nil:
		profile.ID = existing.ID
		profile.ReliabilityScore = existing.ReliabilityScore
		profile.AttendanceRate = existing.AttendanceRate
		profile.CreatedAt = existing.CreatedAt
		profile.UpdatedAt = now
		if err := s.profiles.Update(ctx, profile); err != nil {
			return domain.UserProfile{}, fmt.Errorf("update profile: %w", err)
		}
	case errors.Is(err, repository.ErrNotFound):
		profile.ID = uuid.NewString()
		profile.ReliabilityScore = 100
		profile.AttendanceRate = 100
		profile.CreatedAt = now
		profile.UpdatedAt = now
		if err := s.profiles.Create(ctx, profile); err != nil {
			return domain.UserProfile{}, fmt.Errorf("create profile: %w", err)
		}
	default:
		return domain.UserProfile{}, err
	}
	return profile, nil
}

func validateProfile(profile domain.UserProfile) error {
	if profile.UserID == 0 {
		return errors.New("user id is required")
	}
	switch profile.SocialEnergy {
	case "", domain.SocialEnergyIntrovert, domain.SocialEnergyAmbivert, domain.SocialEnergyExtrovert:
	default:
		return fmt.Errorf("unknown social energy %q", profile.SocialEnergy)
	}
	switch profile.ConversationStyle {
	case "", domain.ConversationStyleDeep, domain.ConversationStyleCasual:
	default:
		return fmt.Errorf("unknown conversation style %q", profile.ConversationStyle)
	}
	switch profile.GroupSizePreference {
	case 0, 4, 6:
	default:
		return fmt.Errorf("group size preference must be 4 or 6, got %d", profile.GroupSizePreference)
	}
	return nil
}
