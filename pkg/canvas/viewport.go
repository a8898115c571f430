package canvas

// Default zoom bounds. Zoom is multiplicative, so the bounds are asymmetric
// around 1: a quarter of natural size out to three times in.
const (
	DefaultMinZoom    = 0.25
	DefaultMaxZoom    = 3.0
	DefaultFitZoomCap = 1.0
)

// Options configures a viewport. The zero value is usable: SetDefaults fills
// in the bounds above.
type Options struct {
	// MinZoom and MaxZoom clamp every zoom mutation. MinZoom must stay
	// strictly positive or the screen/world transform degenerates.
	MinZoom float64 `json:"min_zoom,omitempty"`
	MaxZoom float64 `json:"max_zoom,omitempty"`

	// FitZoomCap bounds the zoom FitToContent may pick, so fitting a tiny
	// workflow does not blow two nodes up to fill the window.
	FitZoomCap float64 `json:"fit_zoom_cap,omitempty"`
}

// SetDefaults fills unset fields. Idempotent.
func (o *Options) SetDefaults() {
	if o.MinZoom <= 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = DefaultMaxZoom
	}
	if o.FitZoomCap <= 0 {
		o.FitZoomCap = DefaultFitZoomCap
	}
}

// Bounds is an axis-aligned box in world units.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Expand grows the box by pad on every side.
func (b Bounds) Expand(pad float64) Bounds {
	return Bounds{MinX: b.MinX - pad, MinY: b.MinY - pad, MaxX: b.MaxX + pad, MaxY: b.MaxY + pad}
}

// BoundsOf computes the bounding box of a point set. The second return is
// false for an empty set.
func BoundsOf(xs, ys []float64) (Bounds, bool) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return Bounds{}, false
	}
	b := Bounds{MinX: xs[0], MinY: ys[0], MaxX: xs[0], MaxY: ys[0]}
	for i := 1; i < len(xs); i++ {
		if xs[i] < b.MinX {
			b.MinX = xs[i]
		}
		if xs[i] > b.MaxX {
			b.MaxX = xs[i]
		}
		if ys[i] < b.MinY {
			b.MinY = ys[i]
		}
		if ys[i] > b.MaxY {
			b.MaxY = ys[i]
		}
	}
	return b, true
}

// Viewport maps between world coordinates (where jobs live) and screen
// coordinates (where the pointer lives):
//
//	screen = world*zoom + pan
//
// The two conversion methods are exact algebraic inverses of each other.
// Viewport carries no locking: like the rest of the editor state it belongs
// to a single interaction goroutine.
type Viewport struct {
	zoom       float64
	panX, panY float64
	opts       Options
}

// New returns a viewport at zoom 1 with the origin anchored, the same state
// Reset restores.
func New(opts Options) *Viewport {
	opts.SetDefaults()
	return &Viewport{zoom: 1, opts: opts}
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the current pan offset in screen units.
func (v *Viewport) Pan() (x, y float64) { return v.panX, v.panY }

// ScreenToWorld converts a screen point to world coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return (sx - v.panX) / v.zoom, (sy - v.panY) / v.zoom
}

// WorldToScreen converts a world point to screen coordinates.
func (v *Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx*v.zoom + v.panX, wy*v.zoom + v.panY
}

// PanBy shifts the viewport by a screen-space delta, as produced by a pointer
// drag.
func (v *Viewport) PanBy(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

// SetZoom sets the zoom factor, clamped to the configured bounds. The pan
// offset is untouched, so the world origin stays pinned; use ZoomAt to zoom
// around an arbitrary point.
func (v *Viewport) SetZoom(z float64) {
	v.zoom = v.clampZoom(z)
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the given screen position fixed. This is the wheel/pinch gesture: the spot
// under the cursor must not drift as the scale changes.
func (v *Viewport) ZoomAt(factor, sx, sy float64) {
	wx, wy := v.ScreenToWorld(sx, sy)
	v.zoom = v.clampZoom(v.zoom * factor)
	// Re-anchor so (wx, wy) maps back onto (sx, sy) at the new scale.
	v.panX = sx - wx*v.zoom
	v.panY = sy - wy*v.zoom
}

// FitToContent picks the largest zoom (capped at FitZoomCap) at which the
// given world bounds fit inside a screen of the given size, then centers the
// bounds. Degenerate bounds (a single node has zero extent) fit at the cap.
// Empty screens are a no-op.
func (v *Viewport) FitToContent(b Bounds, screenW, screenH float64) {
	if screenW <= 0 || screenH <= 0 {
		return
	}

	zoom := v.opts.FitZoomCap
	if b.Width() > 0 {
		if z := screenW / b.Width(); z < zoom {
			zoom = z
		}
	}
	if b.Height() > 0 {
		if z := screenH / b.Height(); z < zoom {
			zoom = z
		}
	}
	v.zoom = v.clampZoom(zoom)

	cx := b.MinX + b.Width()/2
	cy := b.MinY + b.Height()/2
	v.panX = screenW/2 - cx*v.zoom
	v.panY = screenH/2 - cy*v.zoom
}

// Reset restores zoom 1 and a zero pan offset.
func (v *Viewport) Reset() {
	v.zoom = 1
	v.panX, v.panY = 0, 0
}

func (v *Viewport) clampZoom(z float64) float64 {
	if z < v.opts.MinZoom {
		return v.opts.MinZoom
	}
	if z > v.opts.MaxZoom {
		return v.opts.MaxZoom
	}
	return z
}
