package matching

import "sort"

// ForcedGroupFallbackScore es el promedio que se asigna a un grupo forzado
// cuando ninguno de sus pares tiene score en la matriz.
const ForcedGroupFallbackScore = 30.0

const defaultSeedLimit = 8

// Tier describe una pasada completa del loop de formación. Los tiers se
// aplican en orden y cada uno opera solo sobre los participantes que los
// anteriores dejaron sin ubicar, así que la cobertura nunca retrocede.
type Tier struct {
	Name string

	// Threshold es el piso de score promedio para sumar un candidato y para
	// aceptar un grupo terminado. Se ignora si AnyPositive o Force.
	Threshold float64

	// AnyPositive acepta cualquier promedio estrictamente mayor que cero.
	AnyPositive bool

	// Force arma un único grupo con los sobrantes sin mirar calidad.
	Force bool

	// SeedLimit acota cuantas semillas del pool se prueban por grupo.
	SeedLimit int

	// SizeBonus es el desempate por tamaño: bonus = (len - mínimo) * SizeBonus
	// al comparar grupos candidatos. Prefiere grupos grandes entre opciones de
	// calidad similar; no altera el promedio que se persiste.
	SizeBonus float64
}

// Group es un grupo comprometido por el motor, con el tier que lo produjo.
type Group struct {
	Members      []int
	AverageScore float64
	Tier         string
}

// FormGroups corre la política de tiers completa sobre el pool y devuelve los
// grupos formados más los índices que quedaron sin ubicar.
//
// El orden de iteración del pool determina las semillas que se prueban, así
// que se fija un orden ascendente estable antes de empezar: mismos inputs,
// mismo resultado.
func FormGroups(m *Matrix, pool []int, sizes []int, tiers []Tier, tracer Tracer) ([]Group, []int) {
	if tracer == nil {
		tracer = NopTracer{}
	}

	available := make([]int, len(pool))
	copy(available, pool)
	sort.Ints(available)

	minSize := minOf(sizes)
	maxSize := maxOf(sizes)

	var all []Group
	for _, tier := range tiers {
		if len(available) < minSize {
			break
		}
		tracer.TierStarted(tier, len(available))

		var formed []Group
		if tier.Force {
			if g, ok := forceGroup(m, available, minSize, maxSize, tier.Name); ok {
				formed = []Group{g}
			}
		} else {
			formed = formWithTier(m, available, sizes, tier)
		}

		for _, g := range formed {
			all = append(all, g)
			available = remove(available, g.Members)
		}
		tracer.TierFinished(tier, len(formed), len(available))
	}

	tracer.RunFinished(len(all), len(pool)-len(available), len(pool))
	return all, available
}

// formWithTier repite la expansión greedy por semillas hasta que ninguna
// combinación supere el piso del tier.
func formWithTier(m *Matrix, available []int, sizes []int, tier Tier) []Group {
	minSize := minOf(sizes)
	var groups []Group
	used := make(map[int]bool)

	for {
		current := filterOut(available, used)
		if len(current) < minSize {
			break
		}

		best, ok := bestGroupForPool(m, current, sizes, tier)
		if !ok {
			break
		}
		groups = append(groups, best)
		for _, idx := range best.Members {
			used[idx] = true
		}
	}
	return groups
}

// bestGroupForPool prueba cada tamaño objetivo (de mayor a menor) y un número
// acotado de semillas, y devuelve el mejor grupo según promedio más bonus por
// tamaño.
func bestGroupForPool(m *Matrix, current []int, sizes []int, tier Tier) (Group, bool) {
	minSize := minOf(sizes)
	seedLimit := tier.SeedLimit
	if seedLimit <= 0 {
		seedLimit = defaultSeedLimit
	}
	if seedLimit > len(current) {
		seedLimit = len(current)
	}

	var best Group
	bestWeighted := -1.0
	found := false

	for _, targetSize := range fitSizes(sizes, len(current)) {
		for _, seed := range current[:seedLimit] {
			group := growGroup(m, current, seed, targetSize, tier)
			if len(group) < minSize {
				continue
			}
			avg, ok := m.GroupAverage(group)
			if !ok || !accepts(tier, avg) {
				continue
			}
			weighted := avg + float64(len(group)-minSize)*tier.SizeBonus
			if weighted > bestWeighted {
				bestWeighted = weighted
				best = Group{Members: group, AverageScore: avg, Tier: tier.Name}
				found = true
			}
		}
	}
	return best, found
}

// growGroup expande la semilla agregando en cada paso el candidato con mejor
// promedio contra el grupo actual, mientras supere el piso del tier.
func growGroup(m *Matrix, current []int, seed, targetSize int, tier Tier) []int {
	group := []int{seed}
	candidates := excluding(current, seed)

	for len(group) < targetSize && len(candidates) > 0 {
		bestNext := -1
		bestNextScore := -1.0
		for _, candidate := range candidates {
			avg, ok := m.AverageAgainst(group, candidate)
			if !ok || !accepts(tier, avg) {
				continue
			}
			if avg > bestNextScore {
				bestNextScore = avg
				bestNext = candidate
			}
		}
		if bestNext < 0 {
			break
		}
		group = append(group, bestNext)
		candidates = excluding(candidates, bestNext)
	}
	return group
}

// forceGroup arma un grupo con los primeros sobrantes, hasta maxSize, sin
// piso de calidad.
func forceGroup(m *Matrix, available []int, minSize, maxSize int, name string) (Group, bool) {
	if len(available) < minSize {
		return Group{}, false
	}
	take := len(available)
	if take > maxSize {
		take = maxSize
	}
	members := make([]int, take)
	copy(members, available[:take])

	avg, ok := m.GroupAverage(members)
	if !ok {
		avg = ForcedGroupFallbackScore
	}
	return Group{Members: members, AverageScore: avg, Tier: name}, true
}

func accepts(tier Tier, avg float64) bool {
	if tier.AnyPositive {
		return avg > 0
	}
	return avg >= tier.Threshold
}

// fitSizes filtra los tamaños que entran en el pool actual, preservando el
// orden de mayor a menor.
func fitSizes(sizes []int, poolSize int) []int {
	var fit []int
	for _, s := range sizes {
		if s <= poolSize {
			fit = append(fit, s)
		}
	}
	return fit
}

func minOf(values []int) int {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func maxOf(values []int) int {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func filterOut(values []int, used map[int]bool) []int {
	var out []int
	for _, v := range values {
		if !used[v] {
			out = append(out, v)
		}
	}
	return out
}

func excluding(values []int, target int) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

func remove(values []int, targets []int) []int {
	drop := make(map[int]bool, len(targets))
	for _, t := range targets {
		drop[t] = true
	}
	out := values[:0]
	for _, v := range values {
		if !drop[v] {
			out = append(out, v)
		}
	}
	return out
}
