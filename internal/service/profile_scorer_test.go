package service

import (
	"math"
	"testing"

	"sosy-match/internal/domain"
)

func deepProfile(userID int64) domain.UserProfile {
	return domain.UserProfile{
		UserID:              userID,
		SocialEnergy:        domain.SocialEnergyAmbivert,
		ConversationStyle:   domain.ConversationStyleDeep,
		SocialGoal:          "friendship",
		GroupSizePreference: 4,
		Gender:              "f",
		GenderPreference:    domain.GenderPreferenceOpen,
		ActivityTypes:       []string{"hiking", "museums"},
		DiscussionTopics:    []string{"books", "travel"},
		LifeStage:           "young_professional",
		CulturalBackground:  "latam",
		PriceTier:           "mid",
		ReliabilityScore:    100,
	}
}

var deepParams = EventParams{TargetGroupSize: 4, ConversationStyle: domain.ConversationStyleDeep}

func TestProfileScorer_FullyAlignedPair(t *testing.T) {
	scorer := ProfileScorer{}
	score := scorer.Score(deepProfile(1), deepProfile(2), deepParams)

	if score.MatchingCriteriaCount != 10 {
		t.Fatalf("expected all 10 criteria favorable, got %d", score.MatchingCriteriaCount)
	}
	// Nueve criterios en 1.0 más cultura compartida en 0.7.
	want := (9*1.0 + 0.7) / 10 * 100
	if math.Abs(score.TotalMatchScore-want) > 1e-9 {
		t.Fatalf("expected total %v, got %v", want, score.TotalMatchScore)
	}
}

func TestProfileScorer_ConversationStyleHardFilter(t *testing.T) {
	scorer := ProfileScorer{}
	p1 := deepProfile(1)
	p2 := deepProfile(2)
	p2.ConversationStyle = domain.ConversationStyleCasual

	score := scorer.Score(p1, p2, deepParams)

	if score.TotalMatchScore != 0 {
		t.Fatalf("expected zero total after hard filter, got %v", score.TotalMatchScore)
	}
	// Se corta después del criterio 2: los posteriores quedan sin evaluar.
	if score.SocialGoalScore != 0 || score.ReliabilityScore != 0 {
		t.Fatalf("expected later criteria unevaluated, got %+v", score)
	}
}

func TestProfileScorer_UnsetStylePassesFilter(t *testing.T) {
	scorer := ProfileScorer{}
	p1 := deepProfile(1)
	p2 := deepProfile(2)
	p2.ConversationStyle = ""

	score := scorer.Score(p1, p2, deepParams)

	if score.TotalMatchScore == 0 {
		t.Fatalf("expected unset style to be compatible, got zero total")
	}
	if score.ConversationStyleScore != 0 {
		t.Fatalf("unset style must not score the criterion, got %v", score.ConversationStyleScore)
	}
}

func TestProfileScorer_SameGenderPreferenceViolation(t *testing.T) {
	scorer := ProfileScorer{}
	p1 := deepProfile(1)
	p1.GenderPreference = domain.GenderPreferenceSame
	p2 := deepProfile(2)
	p2.Gender = "m"

	score := scorer.Score(p1, p2, deepParams)

	if score.GenderComfortScore != 0 {
		t.Fatalf("expected gender comfort 0 on same-preference violation, got %v", score.GenderComfortScore)
	}
}

func TestProfileScorer_ReliabilityBands(t *testing.T) {
	scorer := ProfileScorer{}
	cases := []struct {
		r1, r2 float64
		want   float64
	}{
		{100, 95, 1.0},
		{100, 85, 0.7},
		{100, 75, 0.4},
		{100, 50, 0.2},
	}
	for _, tc := range cases {
		p1 := deepProfile(1)
		p1.ReliabilityScore = tc.r1
		p2 := deepProfile(2)
		p2.ReliabilityScore = tc.r2

		score := scorer.Score(p1, p2, deepParams)
		if score.ReliabilityScore != tc.want {
			t.Fatalf("diff %v: expected band %v, got %v", tc.r1-tc.r2, tc.want, score.ReliabilityScore)
		}
	}
}

func TestProfileScorer_InterestBlend(t *testing.T) {
	scorer := ProfileScorer{}
	p1 := deepProfile(1)
	p1.ActivityTypes = []string{"hiking", "museums"}
	p1.DiscussionTopics = []string{"books"}
	p2 := deepProfile(2)
	p2.ActivityTypes = []string{"hiking", "cooking"}
	p2.DiscussionTopics = []string{"books"}

	score := scorer.Score(p1, p2, deepParams)

	// Actividades: 1/3. Temas: 1/1. Mezcla 60/40.
	want := (1.0/3.0)*0.6 + 1.0*0.4
	if math.Abs(score.InterestScore-want) > 1e-9 {
		t.Fatalf("expected interest %v, got %v", want, score.InterestScore)
	}
}

func TestProfileScorer_Symmetry(t *testing.T) {
	scorer := ProfileScorer{}
	p1 := deepProfile(1)
	p1.CulturalBackground = "asia"
	p1.ReliabilityScore = 80
	p2 := deepProfile(2)

	ab := scorer.Score(p1, p2, deepParams)
	ba := scorer.Score(p2, p1, deepParams)

	if ab.TotalMatchScore != ba.TotalMatchScore || ab.MatchingCriteriaCount != ba.MatchingCriteriaCount {
		t.Fatalf("expected symmetric scoring, got %v/%d vs %v/%d",
			ab.TotalMatchScore, ab.MatchingCriteriaCount, ba.TotalMatchScore, ba.MatchingCriteriaCount)
	}
}

func TestValidateGroupBalance(t *testing.T) {
	balanced4 := []domain.UserProfile{
		{SocialEnergy: domain.SocialEnergyIntrovert},
		{SocialEnergy: domain.SocialEnergyIntrovert},
		{SocialEnergy: domain.SocialEnergyAmbivert},
		{SocialEnergy: domain.SocialEnergyExtrovert},
	}
	if report := ValidateGroupBalance(balanced4, 4); !report.Balanced {
		t.Fatalf("expected 2/1/1 group of 4 to be balanced, got %+v", report)
	}

	allIntro := []domain.UserProfile{
		{SocialEnergy: domain.SocialEnergyIntrovert},
		{SocialEnergy: domain.SocialEnergyIntrovert},
		{SocialEnergy: domain.SocialEnergyIntrovert},
		{SocialEnergy: domain.SocialEnergyIntrovert},
	}
	if report := ValidateGroupBalance(allIntro, 4); report.Balanced {
		t.Fatalf("expected homogeneous group to be unbalanced")
	}

	// Tamaño equivocado nunca balancea.
	if report := ValidateGroupBalance(balanced4[:3], 4); report.Balanced {
		t.Fatalf("expected short group to be unbalanced")
	}
}
