package service

import (
	"testing"

	"sosy-match/internal/domain"
)

func TestScoreAnswers_ExtrovertProfile(t *testing.T) {
	answers := domain.Answers{
		"q1":  "A", // +10 E
		"q2":  "A", // +10 E
		"q3":  "B", // +10 O
		"q4":  "A", // +10 S
		"q5":  "A", // +10 A
		"q8":  "A", // +10 C
		"q9":  "C", // L = 3
		"q13": "A", // +10 C
		"q14": "A", // +8 E
	}

	result := ScoreAnswers(answers)

	if result.ERaw != 10 {
		t.Fatalf("expected ERaw clamped to 10, got %v", result.ERaw)
	}
	if result.ORaw != 10 || result.SRaw != 10 || result.ARaw != 10 {
		t.Fatalf("expected O/S/A at 10, got %v/%v/%v", result.ORaw, result.SRaw, result.ARaw)
	}
	if result.CRaw != 20 {
		t.Fatalf("expected CRaw clamped to 20, got %v", result.CRaw)
	}
	if result.LRaw != 3 {
		t.Fatalf("expected LRaw 3, got %d", result.LRaw)
	}

	if result.ENormalized != 100 || result.CNormalized != 100 || result.LNormalized != 100 {
		t.Fatalf("expected full normalization, got E=%v C=%v L=%v",
			result.ENormalized, result.CNormalized, result.LNormalized)
	}
	if result.ProfileScore != 100 {
		t.Fatalf("expected profile score 100, got %v", result.ProfileScore)
	}
}

func TestScoreAnswers_NeutralAnswersLandMidScale(t *testing.T) {
	result := ScoreAnswers(domain.Answers{"q9": "B"})

	if result.ERaw != 0 || result.ORaw != 0 || result.SRaw != 0 || result.ARaw != 0 {
		t.Fatalf("expected zero raw traits, got %+v", result)
	}
	if result.ENormalized != 50 || result.ONormalized != 50 {
		t.Fatalf("expected mid-scale normalization, got E=%v O=%v", result.ENormalized, result.ONormalized)
	}
	if result.LRaw != 2 || result.LNormalized != 50 {
		t.Fatalf("expected mid lifestyle, got raw=%d norm=%v", result.LRaw, result.LNormalized)
	}
}

func TestScoreAnswers_ContextQuestionsDoNotScore(t *testing.T) {
	result := ScoreAnswers(domain.Answers{
		"q6": "single",
		"q7": "friends",
		"q8": "B",
	})

	if result.RelationshipStatus != "single" || result.LookingFor != "friends" {
		t.Fatalf("expected context answers carried through, got %+v", result)
	}
	if result.GenderComfort != "B" {
		t.Fatalf("expected gender comfort B, got %q", result.GenderComfort)
	}
	if result.ERaw != 0 || result.ORaw != 0 {
		t.Fatalf("context questions must not move traits, got E=%v O=%v", result.ERaw, result.ORaw)
	}
	if result.CRaw != 2 {
		t.Fatalf("expected q8=B to add 2 comfort, got %v", result.CRaw)
	}
}

func TestDetermineArchetype(t *testing.T) {
	cases := []struct {
		name       string
		e, o, s, a float64
		archetype  string
	}{
		{"bright morning", 8, 8, 0, 8, "Bright Morning"},
		{"calm dawn", -8, 8, 0, 8, "Calm Dawn"},
		{"bold noon", 8, 0, -8, -8, "Bold Noon"},
		{"quiet dusk", -8, 8, 0, -8, "Quiet Dusk"},
		{"serene drizzle", 0, 0, -8, 8, "Serene Drizzle"},
		{"blazing noon", 8, -8, 0, -8, "Blazing Noon"},
		{"starry night", -8, 8, 8, 0, "Starry Night"},
		{"perfect day", 0, 0, 0, 0, "Perfect Day"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, symbol := determineArchetype(tc.e, tc.o, tc.s, tc.a)
			if got != tc.archetype {
				t.Fatalf("expected %q, got %q", tc.archetype, got)
			}
			if symbol == "" {
				t.Fatalf("expected a symbol for %q", got)
			}
			if _, ok := ArchetypeDescriptions[got]; !ok {
				t.Fatalf("archetype %q has no description", got)
			}
		})
	}
}
