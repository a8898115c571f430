package layout

import (
	"fmt"
	"math"
	"time"

	"github.com/shwetalj/jobcanvas/pkg/observability"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// Point is a position in world units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Strategy names a layout algorithm.
type Strategy string

// Available strategies. StrategySmart inspects the graph shape and dispatches
// to one of the others.
const (
	StrategySmart          Strategy = "smart"
	StrategyLayered        Strategy = "layered"
	StrategyTree           Strategy = "tree"
	StrategyHorizontalTree Strategy = "htree"
	StrategySnake          Strategy = "snake"
	StrategyScatter        Strategy = "scatter"
)

// ValidStrategies is the set of accepted strategy names.
var ValidStrategies = map[Strategy]bool{
	StrategySmart:          true,
	StrategyLayered:        true,
	StrategyTree:           true,
	StrategyHorizontalTree: true,
	StrategySnake:          true,
	StrategyScatter:        true,
}

// ValidateStrategy checks that a strategy name is known.
func ValidateStrategy(s Strategy) error {
	if !ValidStrategies[s] {
		return fmt.Errorf("invalid strategy: %q (must be one of: smart, layered, tree, htree, snake, scatter)", s)
	}
	return nil
}

// Default layout parameters. The iteration caps are empirical tunables
// carried in Options, not load-bearing invariants.
const (
	DefaultWidth              = 1200.0
	DefaultHeight             = 800.0
	DefaultNodeWidth          = 120.0
	DefaultNodeHeight         = 60.0
	DefaultLayerSpacing       = 140.0
	DefaultMinSpacing         = 160.0
	DefaultPadding            = 20.0
	DefaultOrderingIterations = 10
	DefaultOverlapIterations  = 50
	DefaultSeed               = uint64(42)
)

// Options configures a layout run. The zero value is usable: Arrange fills in
// every unset field with the defaults above.
type Options struct {
	Strategy Strategy `json:"strategy,omitempty"`

	// Frame the layout distributes into, in world units.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Node box geometry, used to derive overlap separation.
	NodeWidth  float64 `json:"node_width,omitempty"`
	NodeHeight float64 `json:"node_height,omitempty"`

	// LayerSpacing is the distance between consecutive layers; MinSpacing the
	// minimum distance between siblings within a layer.
	LayerSpacing float64 `json:"layer_spacing,omitempty"`
	MinSpacing   float64 `json:"min_spacing,omitempty"`

	// Padding widens the overlap resolver's separation distance beyond the
	// node box itself.
	Padding float64 `json:"padding,omitempty"`

	// Iteration caps for the barycenter sweep and the overlap relaxation.
	OrderingIterations int `json:"ordering_iterations,omitempty"`
	OverlapIterations  int `json:"overlap_iterations,omitempty"`

	// Seed drives the only randomness in layout (tie-break directions in the
	// overlap resolver), keeping runs reproducible.
	Seed uint64 `json:"seed,omitempty"`
}

// SetDefaults fills unset fields. Idempotent.
func (o *Options) SetDefaults() {
	if o.Strategy == "" {
		o.Strategy = StrategySmart
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.LayerSpacing == 0 {
		o.LayerSpacing = DefaultLayerSpacing
	}
	if o.MinSpacing == 0 {
		o.MinSpacing = DefaultMinSpacing
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.OrderingIterations == 0 {
		o.OrderingIterations = DefaultOrderingIterations
	}
	if o.OverlapIterations == 0 {
		o.OverlapIterations = DefaultOverlapIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
}

// minSeparation derives the overlap resolver's distance from the node box
// diagonal (bounding-circle approximation) plus padding.
func (o *Options) minSeparation() float64 {
	return math.Hypot(o.NodeWidth, o.NodeHeight)/2 + o.Padding
}

// Shape classifies the overall structure of a graph, driving the smart
// strategy selector.
type Shape string

const (
	// ShapeDisconnected means the graph has no edges at all.
	ShapeDisconnected Shape = "disconnected"
	// ShapeLinear means every job has at most one predecessor and one
	// successor: a set of simple chains.
	ShapeLinear Shape = "linear"
	// ShapeTree means no job has more than one predecessor: a forest.
	ShapeTree Shape = "tree"
	// ShapeLayered is everything else: a general multi-parent DAG.
	ShapeLayered Shape = "layered"
)

// Classify is a pure function of the graph snapshot: it inspects only degree
// maxima, so it is cheap and independently testable.
func Classify(g workflow.Graph) Shape {
	switch {
	case g.EdgeCount() == 0:
		return ShapeDisconnected
	case g.MaxFanIn() <= 1 && g.MaxFanOut() <= 1:
		return ShapeLinear
	case g.MaxFanIn() <= 1:
		return ShapeTree
	default:
		return ShapeLayered
	}
}

// Arrange computes positions for every job and writes them back into the
// workflow. On error (the only structural failure is ErrCyclicGraph from the
// layered path) the workflow's positions are left exactly as they were.
//
// After the strategy runs, the whole node set is shifted so no coordinate is
// negative. Jobs the strategy could not place (possible only on malformed
// input) keep their previous positions.
func Arrange(w *workflow.Workflow, opts Options) error {
	opts.SetDefaults()
	if w.Count() == 0 {
		return nil
	}

	g := w.BuildGraph()
	strategy := opts.Strategy
	if strategy == StrategySmart {
		strategy = strategyForShape(Classify(g))
	}

	observability.Layout().OnArrangeStart(string(strategy), w.Count())
	start := time.Now()

	pos, err := positionsFor(g, strategy, opts)
	observability.Layout().OnArrangeComplete(string(strategy), time.Since(start), err)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(pos))
	for _, id := range g.IDs {
		if _, ok := pos[id]; ok {
			ids = append(ids, id)
		}
	}
	shiftNonNegative(ids, pos)

	for _, id := range ids {
		if j, ok := w.Job(id); ok {
			j.X, j.Y = pos[id].X, pos[id].Y
		}
	}
	return nil
}

func strategyForShape(s Shape) Strategy {
	switch s {
	case ShapeDisconnected:
		return StrategyScatter
	case ShapeLinear:
		return StrategySnake
	case ShapeTree:
		return StrategyTree
	default:
		return StrategyLayered
	}
}

func positionsFor(g workflow.Graph, strategy Strategy, opts Options) (map[string]Point, error) {
	switch strategy {
	case StrategyLayered:
		return layeredPositions(g, opts)
	case StrategyTree:
		return treePositions(g, opts, false), nil
	case StrategyHorizontalTree:
		return treePositions(g, opts, true), nil
	case StrategySnake:
		return snakePositions(g, opts), nil
	case StrategyScatter:
		pos := scatterPositions(g.IDs, opts)
		ResolveOverlaps(g.IDs, pos, opts.minSeparation(), opts.OverlapIterations, opts.Seed)
		return pos, nil
	default:
		return nil, fmt.Errorf("invalid strategy: %q", strategy)
	}
}
