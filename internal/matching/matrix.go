package matching

// PairKey identifica un par no ordenado por índices canonicos (menor, mayor).
type PairKey struct {
	Lo int
	Hi int
}

// KeyFor normaliza (i, j) a su clave canónica.
func KeyFor(i, j int) PairKey {
	if i > j {
		i, j = j, i
	}
	return PairKey{Lo: i, Hi: j}
}

// Matrix memoiza los scores de todos los pares de una corrida. Se construye
// una sola vez por sesión y se reutiliza en cada tier de formación. No tiene
// estado oculto: dos corridas sobre los mismos inputs dan el mismo resultado.
type Matrix struct {
	scores map[PairKey]float64
}

// ScoreFunc calcula el score de un par. ok=false indica que el par no tiene
// score utilizable (por ejemplo, muy pocos criterios con datos) y queda fuera
// de la matriz.
type ScoreFunc func(i, j int) (score float64, ok bool)

// BuildMatrix evalua fn exactamente una vez por cada par no ordenado de n
// participantes.
func BuildMatrix(n int, fn ScoreFunc) *Matrix {
	m := &Matrix{scores: make(map[PairKey]float64, n*(n-1)/2)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if score, ok := fn(i, j); ok {
				m.scores[PairKey{Lo: i, Hi: j}] = score
			}
		}
	}
	return m
}

// Score devuelve el score memoizado del par (i, j).
func (m *Matrix) Score(i, j int) (float64, bool) {
	score, ok := m.scores[KeyFor(i, j)]
	return score, ok
}

// Len devuelve la cantidad de pares con score utilizable.
func (m *Matrix) Len() int {
	return len(m.scores)
}

// AverageAgainst promedia el score del candidato contra cada miembro actual
// del grupo. ok=false si ningun par tiene score.
func (m *Matrix) AverageAgainst(group []int, candidate int) (float64, bool) {
	var sum float64
	var count int
	for _, member := range group {
		if score, ok := m.Score(member, candidate); ok {
			sum += score
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// GroupAverage promedia todos los pares internos del grupo.
func (m *Matrix) GroupAverage(group []int) (float64, bool) {
	var sum float64
	var count int
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			if score, ok := m.Score(group[i], group[j]); ok {
				sum += score
				count++
			}
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
