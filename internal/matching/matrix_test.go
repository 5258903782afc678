package matching

import "testing"

func TestKeyForCanonical(t *testing.T) {
	if KeyFor(3, 1) != (PairKey{Lo: 1, Hi: 3}) {
		t.Fatalf("expected canonical key (1,3), got %+v", KeyFor(3, 1))
	}
	if KeyFor(1, 3) != KeyFor(3, 1) {
		t.Fatalf("expected symmetric keys to be equal")
	}
}

func TestBuildMatrixEvaluatesEachPairOnce(t *testing.T) {
	calls := make(map[PairKey]int)
	m := BuildMatrix(4, func(i, j int) (float64, bool) {
		calls[KeyFor(i, j)]++
		return float64(i + j), true
	})

	if len(calls) != 6 {
		t.Fatalf("expected 6 pairs evaluated, got %d", len(calls))
	}
	for key, n := range calls {
		if n != 1 {
			t.Fatalf("pair %+v evaluated %d times", key, n)
		}
	}
	if m.Len() != 6 {
		t.Fatalf("expected 6 scores stored, got %d", m.Len())
	}

	score, ok := m.Score(2, 1)
	if !ok || score != 3 {
		t.Fatalf("expected score 3 for (2,1), got %v ok=%v", score, ok)
	}
}

func TestBuildMatrixSkipsUnusablePairs(t *testing.T) {
	m := BuildMatrix(3, func(i, j int) (float64, bool) {
		if i == 0 && j == 1 {
			return 0, false
		}
		return 50, true
	})

	if _, ok := m.Score(0, 1); ok {
		t.Fatalf("expected pair (0,1) to be absent")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 usable pairs, got %d", m.Len())
	}
}

func TestAverageAgainst(t *testing.T) {
	m := BuildMatrix(4, func(i, j int) (float64, bool) {
		if i == 0 && j == 3 {
			return 0, false
		}
		return float64(10 * (i + j)), true
	})

	// Candidato 3 contra [0,1]: el par (0,3) no existe, queda solo (1,3)=40.
	avg, ok := m.AverageAgainst([]int{0, 1}, 3)
	if !ok || avg != 40 {
		t.Fatalf("expected avg 40, got %v ok=%v", avg, ok)
	}

	// Candidato sin ningun par utilizable.
	empty := BuildMatrix(3, func(int, int) (float64, bool) { return 0, false })
	if _, ok := empty.AverageAgainst([]int{0}, 1); ok {
		t.Fatalf("expected ok=false with no usable pairs")
	}
}

func TestGroupAverage(t *testing.T) {
	m := BuildMatrix(3, func(i, j int) (float64, bool) {
		return 60, true
	})

	avg, ok := m.GroupAverage([]int{0, 1, 2})
	if !ok || avg != 60 {
		t.Fatalf("expected group average 60, got %v ok=%v", avg, ok)
	}
}
