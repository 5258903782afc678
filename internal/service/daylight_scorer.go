package service

import (
	"math"

	"sosy-match/internal/domain"
)

// DefaultMatchThreshold es el piso de compatibilidad pedido por defecto.
const DefaultMatchThreshold = 70.0

// DaylightScorer calcula la compatibilidad entre dos tests de rasgos.
// Es una función pura de los dos tests: mismo input, mismo score.
type DaylightScorer struct {
	Threshold float64
}

func NewDaylightScorer(threshold float64) DaylightScorer {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return DaylightScorer{Threshold: threshold}
}

// Score aplica la formula Daylight:
//
//	total = 0.70*similitud + 0.15*bonus_estilo_de_vida + 0.15*bonus_confort
//
// La similitud es el coseno del vector [E,O,S,A] mapeado a 0..100; con un
// vector de magnitud cero el coseno se toma como 0, que mapea al punto medio
// 50. El bonus de confort premia el confort de la parte más cautelosa.
func (s DaylightScorer) Score(t1, t2 domain.PersonalityTest) domain.PairScore {
	v1 := t1.TraitVector()
	v2 := t2.TraitVector()

	var dot, mag1, mag2 float64
	for i := range v1 {
		dot += v1[i] * v2[i]
		mag1 += v1[i] * v1[i]
		mag2 += v2[i] * v2[i]
	}
	mag1 = math.Sqrt(mag1)
	mag2 = math.Sqrt(mag2)

	var cosine float64
	if mag1 != 0 && mag2 != 0 {
		cosine = dot / (mag1 * mag2)
	}
	similarity := ((cosine + 1) / 2) * 100

	lifestyleBonus := 20 - abs(t1.LNormalized-t2.LNormalized)
	if lifestyleBonus < 0 {
		lifestyleBonus = 0
	}

	comfortBonus := 0.2 * math.Min(t1.CNormalized, t2.CNormalized)

	// El bonus de serendipia del diseño original queda fijo en cero para que
	// el scoring sea reproducible.
	total := clamp(0.70*similarity+0.15*lifestyleBonus+0.15*comfortBonus, 0, 100)

	return domain.PairScore{
		EDiff:            abs(t1.ERaw - t2.ERaw),
		ODiff:            abs(t1.ORaw - t2.ORaw),
		SDiff:            abs(t1.SRaw - t2.SRaw),
		ADiff:            abs(t1.ARaw - t2.ARaw),
		TraitSimilarity:  similarity,
		LifestyleBonus:   lifestyleBonus,
		ComfortBonus:     comfortBonus,
		SerendipityBonus: 0,
		TotalMatchScore:  total,
		MeetsThreshold:   total >= s.Threshold,
	}
}
