package matching

import (
	"reflect"
	"sort"
	"testing"
)

func matrixFromPairs(n int, pairs map[PairKey]float64) *Matrix {
	return BuildMatrix(n, func(i, j int) (float64, bool) {
		score, ok := pairs[KeyFor(i, j)]
		return score, ok
	})
}

// uniformMatrix puntúa todos los pares con el mismo score.
func uniformMatrix(n int, score float64) *Matrix {
	return BuildMatrix(n, func(int, int) (float64, bool) { return score, true })
}

func poolOf(n int) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	return pool
}

func sortedMembers(g Group) []int {
	members := append([]int(nil), g.Members...)
	sort.Ints(members)
	return members
}

func TestFormGroups_SplitsCliquesAtTargetThreshold(t *testing.T) {
	// Dos camarillas de 3 con afinidad interna alta y cruzada baja.
	pairs := make(map[PairKey]float64)
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			if i/3 == j/3 {
				pairs[KeyFor(i, j)] = 90
			} else {
				pairs[KeyFor(i, j)] = 10
			}
		}
	}
	m := matrixFromPairs(6, pairs)

	tiers := []Tier{{Name: "target", Threshold: 70, SizeBonus: 5}}
	groups, unmatched := FormGroups(m, poolOf(6), []int{5, 4, 3}, tiers, nil)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(unmatched) != 0 {
		t.Fatalf("expected full coverage, got %d unmatched", len(unmatched))
	}
	for _, g := range groups {
		if g.AverageScore != 90 {
			t.Fatalf("expected clique average 90, got %v", g.AverageScore)
		}
		if g.Tier != "target" {
			t.Fatalf("expected tier target, got %q", g.Tier)
		}
	}

	want := [][]int{{0, 1, 2}, {3, 4, 5}}
	got := [][]int{sortedMembers(groups[0]), sortedMembers(groups[1])}
	sort.Slice(got, func(a, b int) bool { return got[a][0] < got[b][0] })
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected cliques %v, got %v", want, got)
	}
}

func TestFormGroups_FallsThroughToAnyPositive(t *testing.T) {
	// Pares mediocres: por debajo de todos los umbrales, pero positivos.
	m := uniformMatrix(3, 38)
	tiers := []Tier{
		{Name: "target", Threshold: 70},
		{Name: "relaxed-50", Threshold: 50},
		{Name: "any-positive", AnyPositive: true},
		{Name: "force", Force: true},
	}

	groups, unmatched := FormGroups(m, poolOf(3), []int{5, 4, 3}, tiers, nil)

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Tier != "any-positive" {
		t.Fatalf("expected any-positive tier, got %q", groups[0].Tier)
	}
	if groups[0].AverageScore != 38 {
		t.Fatalf("expected average 38, got %v", groups[0].AverageScore)
	}
	if len(unmatched) != 0 {
		t.Fatalf("expected no unmatched, got %v", unmatched)
	}
}

func TestFormGroups_ForceGroupUsesFallbackScore(t *testing.T) {
	// Ningun par tiene score utilizable; solo el tier forzado puede agrupar.
	m := BuildMatrix(4, func(int, int) (float64, bool) { return 0, false })
	tiers := []Tier{
		{Name: "target", Threshold: 70},
		{Name: "force", Force: true},
	}

	groups, unmatched := FormGroups(m, poolOf(4), []int{5, 4, 3}, tiers, nil)

	if len(groups) != 1 {
		t.Fatalf("expected 1 forced group, got %d", len(groups))
	}
	if groups[0].Tier != "force" {
		t.Fatalf("expected force tier, got %q", groups[0].Tier)
	}
	if groups[0].AverageScore != ForcedGroupFallbackScore {
		t.Fatalf("expected fallback score %v, got %v", ForcedGroupFallbackScore, groups[0].AverageScore)
	}
	if len(groups[0].Members) != 4 {
		t.Fatalf("expected all 4 members in forced group, got %d", len(groups[0].Members))
	}
	if len(unmatched) != 0 {
		t.Fatalf("expected no unmatched, got %v", unmatched)
	}
}

func TestFormGroups_RespectsSizeBounds(t *testing.T) {
	m := uniformMatrix(12, 80)
	tiers := []Tier{{Name: "target", Threshold: 70, SizeBonus: 5}}

	groups, unmatched := FormGroups(m, poolOf(12), []int{5, 4, 3}, tiers, nil)

	seen := make(map[int]bool)
	for _, g := range groups {
		if len(g.Members) < 3 || len(g.Members) > 5 {
			t.Fatalf("group size %d out of bounds", len(g.Members))
		}
		for _, idx := range g.Members {
			if seen[idx] {
				t.Fatalf("participant %d assigned twice", idx)
			}
			seen[idx] = true
		}
	}
	for _, idx := range unmatched {
		if seen[idx] {
			t.Fatalf("unmatched participant %d also appears in a group", idx)
		}
	}
	if len(seen)+len(unmatched) != 12 {
		t.Fatalf("expected exact partition of 12, got %d grouped + %d unmatched", len(seen), len(unmatched))
	}
}

func TestFormGroups_DeterministicAcrossPoolOrder(t *testing.T) {
	pairs := make(map[PairKey]float64)
	for i := 0; i < 7; i++ {
		for j := i + 1; j < 7; j++ {
			pairs[KeyFor(i, j)] = float64(30 + (i*7+j)%50)
		}
	}
	m := matrixFromPairs(7, pairs)
	tiers := []Tier{
		{Name: "target", Threshold: 55, SizeBonus: 5},
		{Name: "any-positive", AnyPositive: true, SizeBonus: 3},
		{Name: "force", Force: true},
	}

	groupsA, unmatchedA := FormGroups(m, []int{0, 1, 2, 3, 4, 5, 6}, []int{5, 4, 3}, tiers, nil)
	groupsB, unmatchedB := FormGroups(m, []int{6, 2, 4, 0, 5, 1, 3}, []int{5, 4, 3}, tiers, nil)

	if !reflect.DeepEqual(groupsA, groupsB) {
		t.Fatalf("expected identical groups regardless of pool order:\n%v\n%v", groupsA, groupsB)
	}
	if !reflect.DeepEqual(unmatchedA, unmatchedB) {
		t.Fatalf("expected identical unmatched regardless of pool order")
	}
}

func TestFormGroups_LaterTiersNeverReduceCoverage(t *testing.T) {
	// Mezcla de pares buenos y mediocres.
	pairs := make(map[PairKey]float64)
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			if i < 3 && j < 3 {
				pairs[KeyFor(i, j)] = 85
			} else {
				pairs[KeyFor(i, j)] = 20
			}
		}
	}
	m := matrixFromPairs(8, pairs)

	strict := []Tier{{Name: "target", Threshold: 70}}
	relaxed := append(append([]Tier(nil), strict...), Tier{Name: "any-positive", AnyPositive: true})

	_, unmatchedStrict := FormGroups(m, poolOf(8), []int{5, 4, 3}, strict, nil)
	_, unmatchedRelaxed := FormGroups(m, poolOf(8), []int{5, 4, 3}, relaxed, nil)

	if len(unmatchedRelaxed) > len(unmatchedStrict) {
		t.Fatalf("adding a tier reduced coverage: %d -> %d unmatched", len(unmatchedStrict), len(unmatchedRelaxed))
	}
}

func TestFormGroups_TooFewForMinSize(t *testing.T) {
	m := uniformMatrix(2, 90)
	tiers := []Tier{{Name: "target", Threshold: 70}, {Name: "force", Force: true}}

	groups, unmatched := FormGroups(m, poolOf(2), []int{5, 4, 3}, tiers, nil)

	if len(groups) != 0 {
		t.Fatalf("expected no groups below minimum size, got %d", len(groups))
	}
	if len(unmatched) != 2 {
		t.Fatalf("expected both participants unmatched, got %d", len(unmatched))
	}
}
