package layout

import (
	"math"
	"testing"
)

func TestResolveOverlaps_SeparatesPair(t *testing.T) {
	pos := map[string]Point{
		"a": {X: 100, Y: 100},
		"b": {X: 110, Y: 100},
	}
	ids := []string{"a", "b"}

	settled := ResolveOverlaps(ids, pos, 80, DefaultOverlapIterations, DefaultSeed)
	if !settled {
		t.Fatal("ResolveOverlaps() = false, want full separation")
	}
	if d := math.Hypot(pos["b"].X-pos["a"].X, pos["b"].Y-pos["a"].Y); d < 80 {
		t.Errorf("separation = %.2f, want ≥ 80", d)
	}
}

func TestResolveOverlaps_CoincidentCenters(t *testing.T) {
	pos := map[string]Point{
		"a": {X: 50, Y: 50},
		"b": {X: 50, Y: 50},
		"c": {X: 50, Y: 50},
	}
	ids := []string{"a", "b", "c"}

	ResolveOverlaps(ids, pos, 60, DefaultOverlapIterations, DefaultSeed)

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := pos[ids[i]], pos[ids[j]]
			if a == b {
				t.Errorf("%s and %s still coincide at %+v", ids[i], ids[j], a)
			}
		}
	}
}

func TestResolveOverlaps_Deterministic(t *testing.T) {
	run := func() map[string]Point {
		pos := map[string]Point{
			"a": {X: 0, Y: 0},
			"b": {X: 0, Y: 0},
			"c": {X: 10, Y: 5},
		}
		ResolveOverlaps([]string{"a", "b", "c"}, pos, 50, DefaultOverlapIterations, 7)
		return pos
	}

	first, second := run(), run()
	for id, p := range first {
		if second[id] != p {
			t.Errorf("position %s differs between runs: %+v vs %+v", id, p, second[id])
		}
	}
}

func TestResolveOverlaps_NoOverlapUntouched(t *testing.T) {
	pos := map[string]Point{
		"a": {X: 0, Y: 0},
		"b": {X: 500, Y: 0},
	}
	ResolveOverlaps([]string{"a", "b"}, pos, 80, DefaultOverlapIterations, DefaultSeed)

	if pos["a"] != (Point{X: 0, Y: 0}) || pos["b"] != (Point{X: 500, Y: 0}) {
		t.Errorf("separated nodes moved: %+v", pos)
	}
}

func TestResolveOverlaps_IterationCapTerminates(t *testing.T) {
	// A single iteration cannot fully separate a dense cluster; the call must
	// still return (false) rather than loop.
	pos := map[string]Point{}
	ids := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		ids = append(ids, id)
		pos[id] = Point{X: float64(i % 3), Y: float64(i % 2)}
	}

	settled := ResolveOverlaps(ids, pos, 200, 1, DefaultSeed)
	if settled {
		t.Error("ResolveOverlaps() = true with 1 iteration on dense cluster, expected cap hit")
	}
}

func TestShiftNonNegative(t *testing.T) {
	pos := map[string]Point{
		"a": {X: -30, Y: 10},
		"b": {X: 40, Y: -5},
	}
	shiftNonNegative([]string{"a", "b"}, pos)

	if pos["a"].X != 0 || pos["b"].Y != 0 {
		t.Errorf("minimum coordinates not clamped to zero: %+v", pos)
	}
	if dx := pos["b"].X - pos["a"].X; dx != 70 {
		t.Errorf("relative geometry changed: dx = %.1f, want 70", dx)
	}
}
