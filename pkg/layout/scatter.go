package layout

import "math"

// scatterPositions arranges an edge-free job set in a shape picked by count:
// a centered line for up to three jobs, a regular polygon for up to eight,
// and an outward spiral beyond that. Purely cosmetic - the only guarantee is
// that no two jobs coincide, and the caller runs the overlap resolver
// afterwards to enforce spacing.
func scatterPositions(ids []string, opts Options) map[string]Point {
	n := len(ids)
	pos := make(map[string]Point, n)
	cx, cy := opts.Width/2, opts.Height/2

	switch {
	case n <= 3:
		startX := cx - float64(n-1)*opts.MinSpacing/2
		for i, id := range ids {
			pos[id] = Point{X: startX + float64(i)*opts.MinSpacing, Y: cy}
		}

	case n <= 8:
		radius := math.Max(opts.MinSpacing, math.Min(opts.Width, opts.Height)/2-opts.NodeWidth)
		for i, id := range ids {
			angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
			pos[id] = Point{
				X: cx + radius*math.Cos(angle),
				Y: cy + radius*math.Sin(angle),
			}
		}

	default:
		// Golden-angle spiral: radius grows with sqrt(i) so density stays
		// roughly constant outward.
		const goldenAngle = 2.39996322972865332
		for i, id := range ids {
			angle := goldenAngle * float64(i)
			radius := opts.MinSpacing * 0.75 * math.Sqrt(float64(i+1))
			pos[id] = Point{
				X: cx + radius*math.Cos(angle),
				Y: cy + radius*math.Sin(angle),
			}
		}
	}
	return pos
}
