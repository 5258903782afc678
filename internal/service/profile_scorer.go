package service

import "sosy-match/internal/domain"

// EventParams son los parámetros de sesión que afectan el scoring por
// atributos: tamaño objetivo y estilo de conversación del evento.
type EventParams struct {
	TargetGroupSize   int
	ConversationStyle string
}

// MinMatchingCriteria es la cantidad mínima de criterios favorables para que
// un par entre a la matriz de la variante por atributos.
const MinMatchingCriteria = 3

// ProfileScorer evalua los diez criterios de compatibilidad por atributos.
//
// Decision de política sobre el filtro duro de estilo de conversación: una
// preferencia no declarada se trata como "compatible con cualquiera". Solo
// cuando ambos lados declaran estilo, y este no coincide a la vez entre si y
// con el objetivo de la sesión, el par queda en cero y no se evaluan más
// criterios.
type ProfileScorer struct{}

// Score evalua los criterios en orden fijo y devuelve el desglose. Los
// criterios sin datos suficientes puntuan 0, lo que penaliza perfiles
// incompletos; es una decisión del diseño original, no un bug.
func (ProfileScorer) Score(p1, p2 domain.UserProfile, params EventParams) domain.ProfilePairScore {
	var out domain.ProfilePairScore

	// 1. Energía social: el balance real se valida a nivel grupo; acá solo
	// cuenta que ambos tengan dato.
	if p1.SocialEnergy != "" && p2.SocialEnergy != "" {
		out.SocialEnergyScore = 1.0
		out.MatchingCriteriaCount++
	}

	// 2. Estilo de conversación (filtro duro).
	if p1.ConversationStyle != "" && p2.ConversationStyle != "" {
		if p1.ConversationStyle == p2.ConversationStyle && p1.ConversationStyle == params.ConversationStyle {
			out.ConversationStyleScore = 1.0
			out.MatchingCriteriaCount++
		} else {
			out.TotalMatchScore = 0
			return out
		}
	}

	// 3. Objetivo social: desajuste penaliza pero no excluye.
	if p1.SocialGoal != "" && p2.SocialGoal != "" {
		if p1.SocialGoal == p2.SocialGoal {
			out.SocialGoalScore = 1.0
			out.MatchingCriteriaCount++
		} else {
			out.SocialGoalScore = 0.3
		}
	}

	// 4. Preferencia de tamaño de grupo.
	if p1.GroupSizePreference != 0 && p2.GroupSizePreference != 0 {
		if p1.GroupSizePreference == p2.GroupSizePreference && p1.GroupSizePreference == params.TargetGroupSize {
			out.GroupSizeScore = 1.0
			out.MatchingCriteriaCount++
		}
	}

	// 5. Confort de genero: requiere genero y preferencia de ambos lados.
	if p1.Gender != "" && p2.Gender != "" && p1.GenderPreference != "" && p2.GenderPreference != "" {
		compatible := true
		if p1.GenderPreference == domain.GenderPreferenceSame && p1.Gender != p2.Gender {
			compatible = false
		}
		if p2.GenderPreference == domain.GenderPreferenceSame && p1.Gender != p2.Gender {
			compatible = false
		}
		if compatible {
			out.GenderComfortScore = 1.0
			out.MatchingCriteriaCount++
		}
	}

	// 6. Intereses: Jaccard de actividades, mezclado 60/40 con Jaccard de
	// temas cuando ambos lados tienen temas.
	if len(p1.ActivityTypes) > 0 && len(p2.ActivityTypes) > 0 {
		activityScore := jaccard(p1.ActivityTypes, p2.ActivityTypes)
		interest := activityScore
		if len(p1.DiscussionTopics) > 0 && len(p2.DiscussionTopics) > 0 {
			topicScore := jaccard(p1.DiscussionTopics, p2.DiscussionTopics)
			interest = activityScore*0.6 + topicScore*0.4
		}
		out.InterestScore = interest
		if interest > 0.3 {
			out.MatchingCriteriaCount++
		}
	}

	// 7. Contexto de vida: etapas adyacentes siguen siendo viables.
	if p1.LifeStage != "" && p2.LifeStage != "" {
		if p1.LifeStage == p2.LifeStage {
			out.LifeContextScore = 1.0
			out.MatchingCriteriaCount++
		} else {
			out.LifeContextScore = 0.5
		}
	}

	// 8. Trasfondo cultural: premia diversidad por sobre homogeneidad pura.
	if p1.CulturalBackground != "" && p2.CulturalBackground != "" {
		if p1.CulturalBackground == p2.CulturalBackground {
			out.CulturalScore = 0.7
			out.MatchingCriteriaCount++
		} else {
			out.CulturalScore = 0.3
		}
	}

	// 9. Confort financiero: desajuste de presupuesto es eliminatorio para
	// el criterio.
	if p1.PriceTier != "" && p2.PriceTier != "" {
		if p1.PriceTier == p2.PriceTier {
			out.FinancialScore = 1.0
			out.MatchingCriteriaCount++
		}
	}

	// 10. Confiabilidad: bandas por diferencia absoluta.
	diff := abs(p1.ReliabilityScore - p2.ReliabilityScore)
	switch {
	case diff <= 10:
		out.ReliabilityScore = 1.0
		out.MatchingCriteriaCount++
	case diff <= 20:
		out.ReliabilityScore = 0.7
	case diff <= 30:
		out.ReliabilityScore = 0.4
	default:
		out.ReliabilityScore = 0.2
	}

	sum := out.SocialEnergyScore +
		out.ConversationStyleScore +
		out.SocialGoalScore +
		out.GroupSizeScore +
		out.GenderComfortScore +
		out.InterestScore +
		out.LifeContextScore +
		out.CulturalScore +
		out.FinancialScore +
		out.ReliabilityScore

	// Promedio simple de los diez criterios, llevado a 0..100.
	out.TotalMatchScore = (sum / 10) * 100
	return out
}

// ValidateGroupBalance chequea la distribución de energía social prescripta:
// para 4 personas 2 introvertidos + 1 ambivertido + 1 extrovertido, para 6
// personas 2+2+2. El reporte es consultivo; el que llama decide si lo aplica.
func ValidateGroupBalance(profiles []domain.UserProfile, targetSize int) domain.BalanceReport {
	counts := make(map[string]int)
	for _, p := range profiles {
		if p.SocialEnergy != "" {
			counts[p.SocialEnergy]++
		}
	}

	report := domain.BalanceReport{Counts: counts}
	if len(profiles) != targetSize {
		return report
	}

	switch targetSize {
	case 4:
		report.Balanced = counts[domain.SocialEnergyIntrovert] == 2 &&
			counts[domain.SocialEnergyAmbivert] == 1 &&
			counts[domain.SocialEnergyExtrovert] == 1
	case 6:
		report.Balanced = counts[domain.SocialEnergyIntrovert] == 2 &&
			counts[domain.SocialEnergyAmbivert] == 2 &&
			counts[domain.SocialEnergyExtrovert] == 2
	}
	return report
}

func jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}

	var intersection int
	for v := range setA {
		if _, ok := setB[v]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
