package service

import (
	"math"
	"testing"

	pgvector "github.com/pgvector/pgvector-go"

	"sosy-match/internal/domain"
)

func testWithTraits(e, o, s, a float64) domain.PersonalityTest {
	return domain.PersonalityTest{
		ERaw: e,
		ORaw: o,
		SRaw: s,
		ARaw: a,
		TraitVec: pgvector.NewVector([]float32{
			float32(e), float32(o), float32(s), float32(a),
		}),
	}
}

func TestDaylightScorer_IdenticalVectorsScoreFullSimilarity(t *testing.T) {
	scorer := NewDaylightScorer(70)
	t1 := testWithTraits(8, -4, 6, 2)

	score := scorer.Score(t1, t1)

	if math.Abs(score.TraitSimilarity-100) > 1e-9 {
		t.Fatalf("expected similarity 100 for identical vectors, got %v", score.TraitSimilarity)
	}
	if score.EDiff != 0 || score.ODiff != 0 || score.SDiff != 0 || score.ADiff != 0 {
		t.Fatalf("expected zero trait diffs, got %+v", score)
	}
}

func TestDaylightScorer_OppositeVectorsScoreZeroSimilarity(t *testing.T) {
	scorer := NewDaylightScorer(70)
	t1 := testWithTraits(10, 10, 10, 10)
	t2 := testWithTraits(-10, -10, -10, -10)

	score := scorer.Score(t1, t2)

	if math.Abs(score.TraitSimilarity) > 1e-9 {
		t.Fatalf("expected similarity 0 for opposite vectors, got %v", score.TraitSimilarity)
	}
}

func TestDaylightScorer_ZeroVectorMapsToMidpoint(t *testing.T) {
	scorer := NewDaylightScorer(70)
	zero := testWithTraits(0, 0, 0, 0)
	other := testWithTraits(10, 0, 0, 0)

	score := scorer.Score(zero, other)

	if score.TraitSimilarity != 50 {
		t.Fatalf("expected midpoint similarity 50 for zero vector, got %v", score.TraitSimilarity)
	}
}

func TestDaylightScorer_SymmetricAndBounded(t *testing.T) {
	scorer := NewDaylightScorer(70)
	t1 := testWithTraits(10, -10, 5, 0)
	t1.LNormalized = 100
	t1.CNormalized = 80
	t2 := testWithTraits(-3, 7, -5, 10)
	t2.LNormalized = 0
	t2.CNormalized = 20

	ab := scorer.Score(t1, t2)
	ba := scorer.Score(t2, t1)

	if ab.TotalMatchScore != ba.TotalMatchScore {
		t.Fatalf("expected symmetric total, got %v vs %v", ab.TotalMatchScore, ba.TotalMatchScore)
	}
	if ab.TotalMatchScore < 0 || ab.TotalMatchScore > 100 {
		t.Fatalf("total out of bounds: %v", ab.TotalMatchScore)
	}
	// Estilos de vida en extremos opuestos: el bonus se agota en cero.
	if ab.LifestyleBonus != 0 {
		t.Fatalf("expected exhausted lifestyle bonus, got %v", ab.LifestyleBonus)
	}
	// El confort premia a la parte más cautelosa.
	if ab.ComfortBonus != 0.2*20 {
		t.Fatalf("expected comfort bonus 4, got %v", ab.ComfortBonus)
	}
}

func TestDaylightScorer_MeetsThreshold(t *testing.T) {
	scorer := NewDaylightScorer(70)
	t1 := testWithTraits(8, 8, 8, 8)
	t1.LNormalized = 50
	t1.CNormalized = 100
	t2 := testWithTraits(8, 8, 8, 8)
	t2.LNormalized = 50
	t2.CNormalized = 100

	score := scorer.Score(t1, t2)

	// sim 100, lifestyle 20, confort 20: 70 + 3 + 3 = 76.
	if math.Abs(score.TotalMatchScore-76) > 1e-9 {
		t.Fatalf("expected total 76, got %v", score.TotalMatchScore)
	}
	if !score.MeetsThreshold {
		t.Fatalf("expected threshold met at %v", score.TotalMatchScore)
	}
}
