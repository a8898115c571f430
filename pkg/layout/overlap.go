package layout

import (
	"math"
	"math/rand"
)

// ResolveOverlaps pushes apart every pair of jobs whose centers are closer
// than minSep, treating node boxes as bounding circles. For each colliding
// pair, both nodes move half the overlap deficit in opposite directions along
// the vector between their centers; exactly coincident centers get a random
// direction from the seeded generator so the result is still reproducible.
//
// This is a best-effort relaxation, not a constraint solver: passes repeat
// until a pass moves nothing or maxIterations is reached, so termination is
// guaranteed by the cap even when full separation is not achieved. Returns
// true if the final state has no remaining overlap.
//
// Pairs iterate in the order of ids, which callers should keep deterministic.
func ResolveOverlaps(ids []string, pos map[string]Point, minSep float64, maxIterations int, seed uint64) bool {
	if minSep <= 0 || len(ids) < 2 {
		return true
	}
	rng := rand.New(rand.NewSource(int64(seed)))

	for iter := 0; iter < maxIterations; iter++ {
		moved := false
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := pos[ids[i]], pos[ids[j]]
				dx, dy := b.X-a.X, b.Y-a.Y
				dist := math.Hypot(dx, dy)
				if dist >= minSep {
					continue
				}

				var ux, uy float64
				if dist == 0 {
					angle := rng.Float64() * 2 * math.Pi
					ux, uy = math.Cos(angle), math.Sin(angle)
				} else {
					ux, uy = dx/dist, dy/dist
				}

				push := (minSep - dist) / 2
				pos[ids[i]] = Point{X: a.X - ux*push, Y: a.Y - uy*push}
				pos[ids[j]] = Point{X: b.X + ux*push, Y: b.Y + uy*push}
				moved = true
			}
		}
		if !moved {
			return true
		}
	}
	return !hasOverlap(ids, pos, minSep)
}

func hasOverlap(ids []string, pos map[string]Point, minSep float64) bool {
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := pos[ids[i]], pos[ids[j]]
			if math.Hypot(b.X-a.X, b.Y-a.Y) < minSep {
				return true
			}
		}
	}
	return false
}

// shiftNonNegative translates all positions uniformly so that no coordinate is
// negative, preserving relative geometry.
func shiftNonNegative(ids []string, pos map[string]Point) {
	if len(ids) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	for _, id := range ids {
		p := pos[id]
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	}
	dx, dy := 0.0, 0.0
	if minX < 0 {
		dx = -minX
	}
	if minY < 0 {
		dy = -minY
	}
	if dx == 0 && dy == 0 {
		return
	}
	for _, id := range ids {
		p := pos[id]
		pos[id] = Point{X: p.X + dx, Y: p.Y + dy}
	}
}
