// internal/tracer/tracer.go
//
// Elastic wave ray tracing over the 10x8 mine grid.
// Responsibilities:
//   - Build the entry ray from a boundary label ("1".."18", "A".."R").
//   - Propagate: find the nearest piece-edge intersection, mix color,
//     reflect, repeat; or exit through a grid boundary.
//   - Report the full path, exit label/color and reflection count.
//
// The tracer is a pure function of (placed pieces, entry label): no
// I/O, no shared state, safe to call concurrently as long as the input
// pieces are not mutated underneath it. Termination is guaranteed by
// MaxReflections.

package tracer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/orapa-mine/go-server/internal/color"
	"github.com/orapa-mine/go-server/internal/geometry"
)

const (
	GridWidth  = 10
	GridHeight = 8

	// MaxReflections bounds the propagation loop; exhaustion counts as
	// absorption.
	MaxReflections = 100

	// selfHitEps rejects intersections with the edge the ray just left.
	selfHitEps = 1e-4
	// offsetEps advances a reflected ray past its own intersection point.
	offsetEps = 1e-3
	// boundaryEps matches an exit point against a boundary line.
	boundaryEps = 1e-2
)

// ErrInvalidEntry reports an entry label outside "1".."18" / "A".."R".
var ErrInvalidEntry = errors.New("invalid entry position")

// PlacedPiece pairs a piece geometry with its grid origin.
type PlacedPiece struct {
	Geometry geometry.Geometry
	Position geometry.Cell
}

// ray is the transient wave state between reflections.
type ray struct {
	origin    geometry.Point
	direction Vec2
	color     color.WaveColor
}

// hit records the nearest ray/edge intersection of one step.
type hit struct {
	point    geometry.Point
	distance float64
	edge     geometry.Edge
	piece    geometry.Geometry
}

// PathSegment is one straight leg of the wave's travel.
type PathSegment struct {
	Start geometry.Point  `json:"start"`
	End   geometry.Point  `json:"end"`
	Color color.WaveColor `json:"color"`
}

// Result is the outcome of one wave shot. Exit and ExitColor are empty
// when the wave was absorbed (black mineral or reflection cap).
type Result struct {
	Entry       string
	Exit        string
	ExitColor   color.WaveColor
	Absorbed    bool
	Path        []PathSegment
	Reflections int
}

// Tracer simulates wave shots against a fixed board snapshot.
type Tracer struct {
	pieces []PlacedPiece
	mixer  color.Mixer
}

// New builds a tracer over the given board. The pieces slice is
// treated as read-only for the tracer's lifetime.
func New(pieces []PlacedPiece, mixer color.Mixer) *Tracer {
	return &Tracer{pieces: pieces, mixer: mixer}
}

// Shoot traces one elastic wave from the given entry label.
func (t *Tracer) Shoot(entry string) (Result, error) {
	current, err := entryRay(entry)
	if err != nil {
		return Result{}, err
	}

	var path []PathSegment
	reflections := 0

	for i := 0; i < MaxReflections; i++ {
		h, found := t.nearestHit(current)

		if !found {
			// Free flight: the wave leaves through a grid boundary.
			exit, ok := t.gridExit(current)
			if !ok {
				break
			}
			path = append(path, PathSegment{Start: current.origin, End: exit, Color: current.color})
			return Result{
				Entry:       entry,
				Exit:        boundaryLabel(exit),
				ExitColor:   current.color,
				Path:        path,
				Reflections: reflections,
			}, nil
		}

		path = append(path, PathSegment{Start: current.origin, End: h.point, Color: current.color})

		mixed, alive := t.mixer.Mix(current.color, mineralOf(h.piece.Color))
		if !alive {
			return Result{
				Entry:       entry,
				Absorbed:    true,
				Path:        path,
				Reflections: reflections,
			}, nil
		}

		reflected := reflect(current.direction, h.edge)
		current = ray{
			origin: geometry.Point{
				X: h.point.X + reflected.X*offsetEps,
				Y: h.point.Y + reflected.Y*offsetEps,
			},
			direction: reflected,
			color:     mixed,
		}
		reflections++
	}

	// Reflection cap reached: the wave never settled, treat as absorbed.
	return Result{
		Entry:       entry,
		Absorbed:    true,
		Path:        path,
		Reflections: reflections,
	}, nil
}

// entryRay maps a boundary label to the initial white ray.
//
//	"1".."10"  top edge, heading down
//	"11".."18" left edge, heading right
//	"A".."J"   bottom edge, heading up
//	"K".."R"   right edge, heading left
func entryRay(label string) (ray, error) {
	label = strings.ToUpper(label)
	if isDigits(label) {
		n, _ := strconv.Atoi(label)
		switch {
		case n >= 1 && n <= 10:
			return ray{
				origin:    geometry.Point{X: float64(n-1) + 0.5, Y: 0},
				direction: Vec2{Y: 1},
				color:     color.WaveWhite,
			}, nil
		case n >= 11 && n <= 18:
			return ray{
				origin:    geometry.Point{X: 0, Y: float64(n-11) + 0.5},
				direction: Vec2{X: 1},
				color:     color.WaveWhite,
			}, nil
		}
		return ray{}, fmt.Errorf("%w: %q", ErrInvalidEntry, label)
	}

	if len(label) == 1 {
		c := label[0]
		switch {
		case c >= 'A' && c <= 'J':
			return ray{
				origin:    geometry.Point{X: float64(c-'A') + 0.5, Y: GridHeight},
				direction: Vec2{Y: -1},
				color:     color.WaveWhite,
			}, nil
		case c >= 'K' && c <= 'R':
			return ray{
				origin:    geometry.Point{X: GridWidth, Y: float64(c-'K') + 0.5},
				direction: Vec2{X: -1},
				color:     color.WaveWhite,
			}, nil
		}
	}
	return ray{}, fmt.Errorf("%w: %q", ErrInvalidEntry, label)
}

// isDigits reports whether s is non-empty and all ASCII digits.
// strconv.Atoi alone would also accept signed forms like "+5".
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// nearestHit scans every edge of every placed piece (translated to grid
// coordinates) and returns the intersection with the smallest positive
// distance beyond selfHitEps.
func (t *Tracer) nearestHit(r ray) (hit, bool) {
	var nearest hit
	found := false
	minDistance := math.Inf(1)

	for _, placed := range t.pieces {
		px, py := float64(placed.Position.X), float64(placed.Position.Y)
		for _, edge := range placed.Geometry.Edges {
			start := geometry.Point{X: edge.Start.X + px, Y: edge.Start.Y + py}
			end := geometry.Point{X: edge.End.X + px, Y: edge.End.Y + py}

			point, ok := rayEdgeIntersection(r.origin, r.direction, start, end)
			if !ok {
				continue
			}
			distance := math.Hypot(point.X-r.origin.X, point.Y-r.origin.Y)
			if distance > selfHitEps && distance < minDistance {
				minDistance = distance
				nearest = hit{point: point, distance: distance, edge: edge, piece: placed.Geometry}
				found = true
			}
		}
	}
	return nearest, found
}

// rayEdgeIntersection solves ray origin + t*dir == start + s*(end-start)
// for t > 0 and s in [0,1]. A near-zero determinant (ray parallel to
// the edge) yields no intersection.
func rayEdgeIntersection(origin geometry.Point, dir Vec2, start, end geometry.Point) (geometry.Point, bool) {
	denom := dir.X*(end.Y-start.Y) - dir.Y*(end.X-start.X)
	if math.Abs(denom) < 1e-10 {
		return geometry.Point{}, false
	}

	tt := ((start.X-origin.X)*(end.Y-start.Y) - (start.Y-origin.Y)*(end.X-start.X)) / denom
	ss := ((start.X-origin.X)*dir.Y - (start.Y-origin.Y)*dir.X) / denom

	if tt > 0 && ss >= 0 && ss <= 1 {
		return geometry.Point{X: origin.X + tt*dir.X, Y: origin.Y + tt*dir.Y}, true
	}
	return geometry.Point{}, false
}

// reflect bounces the incident direction off an edge: the edge normal
// is the edge vector rotated a quarter turn, and the result is renormalized.
func reflect(incident Vec2, edge geometry.Edge) Vec2 {
	normal := Vec2{
		X: -(edge.End.Y - edge.Start.Y),
		Y: edge.End.X - edge.Start.X,
	}.Normalize()
	return incident.Reflect(normal).Normalize()
}

// gridExit finds where a free-flying ray crosses the grid boundary,
// taking the nearest candidate among the boundaries the direction can
// reach.
func (t *Tracer) gridExit(r ray) (geometry.Point, bool) {
	type candidate struct {
		point geometry.Point
		dist  float64
	}
	var candidates []candidate

	x, y := r.origin.X, r.origin.Y
	dx, dy := r.direction.X, r.direction.Y

	if dy < 0 { // top, y = 0
		tt := -y / dy
		ex := x + tt*dx
		if ex >= 0 && ex <= GridWidth {
			candidates = append(candidates, candidate{geometry.Point{X: ex, Y: 0}, tt})
		}
	}
	if dy > 0 { // bottom, y = GridHeight
		tt := (GridHeight - y) / dy
		ex := x + tt*dx
		if ex >= 0 && ex <= GridWidth {
			candidates = append(candidates, candidate{geometry.Point{X: ex, Y: GridHeight}, tt})
		}
	}
	if dx < 0 { // left, x = 0
		tt := -x / dx
		ey := y + tt*dy
		if ey >= 0 && ey <= GridHeight {
			candidates = append(candidates, candidate{geometry.Point{X: 0, Y: ey}, tt})
		}
	}
	if dx > 0 { // right, x = GridWidth
		tt := (GridWidth - x) / dx
		ey := y + tt*dy
		if ey >= 0 && ey <= GridHeight {
			candidates = append(candidates, candidate{geometry.Point{X: GridWidth, Y: ey}, tt})
		}
	}

	if len(candidates) == 0 {
		return geometry.Point{}, false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	return candidates[0].point, true
}

// boundaryLabel converts an exit point back to its boundary label,
// the inverse of entryRay. A corner point matches two boundary lines,
// so every boundary is tried until one yields a label in range.
// Returns "?" for a point off every boundary (cannot happen for points
// produced by gridExit).
func boundaryLabel(p geometry.Point) string {
	if math.Abs(p.Y) < boundaryEps {
		if col := int(p.X) + 1; col >= 1 && col <= 10 {
			return strconv.Itoa(col)
		}
	}
	if math.Abs(p.Y-GridHeight) < boundaryEps {
		if col := int(p.X); col >= 0 && col < 10 {
			return string(rune('A' + col))
		}
	}
	if math.Abs(p.X) < boundaryEps {
		if row := int(p.Y); row >= 0 && row < 8 {
			return strconv.Itoa(11 + row)
		}
	}
	if math.Abs(p.X-GridWidth) < boundaryEps {
		if row := int(p.Y); row >= 0 && row < 8 {
			return string(rune('K' + row))
		}
	}
	return "?"
}

// mineralOf maps a piece's color tag onto the mixer's mineral enum.
// Unknown tags behave as transparent.
func mineralOf(c geometry.PieceColor) color.MineralColor {
	switch c {
	case geometry.Red:
		return color.MineralRed
	case geometry.Blue:
		return color.MineralBlue
	case geometry.Yellow:
		return color.MineralYellow
	case geometry.White:
		return color.MineralWhite
	case geometry.Black:
		return color.MineralBlack
	default:
		return color.MineralTransparent
	}
}
