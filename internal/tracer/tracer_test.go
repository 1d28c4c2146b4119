package tracer

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/orapa-mine/go-server/internal/color"
	"github.com/orapa-mine/go-server/internal/geometry"
)

func passThrough() color.Mixer { return color.NewMixer(color.PolicyPassThrough) }

func almostEqual(a, b geometry.Point, tol float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tol
}

func TestEmptyBoardStraightThrough(t *testing.T) {
	tr := New(nil, passThrough())
	res, err := tr.Shoot("1")
	if err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if res.Absorbed {
		t.Fatal("wave absorbed on an empty board")
	}
	if res.Exit != "A" {
		t.Errorf("exit = %q, want A", res.Exit)
	}
	if res.ExitColor != color.WaveWhite {
		t.Errorf("exit color = %s, want white", res.ExitColor)
	}
	if res.Reflections != 0 {
		t.Errorf("reflections = %d, want 0", res.Reflections)
	}
	if len(res.Path) != 1 {
		t.Fatalf("path has %d segments, want 1", len(res.Path))
	}
	if !almostEqual(res.Path[0].Start, geometry.Point{X: 0.5, Y: 0}, 1e-9) ||
		!almostEqual(res.Path[0].End, geometry.Point{X: 0.5, Y: 8}, 1e-9) {
		t.Errorf("path segment %v -> %v, want (0.5,0) -> (0.5,8)", res.Path[0].Start, res.Path[0].End)
	}
}

func TestEmptyBoardOppositePairs(t *testing.T) {
	// Straight shots pair opposite boundary labels on an empty board.
	pairs := map[string]string{
		"1": "A", "5": "E", "10": "J",
		"11": "K", "18": "R",
		"A": "1", "J": "10",
		"K": "11", "R": "18",
	}
	tr := New(nil, passThrough())
	for entry, exit := range pairs {
		res, err := tr.Shoot(entry)
		if err != nil {
			t.Fatalf("Shoot(%q): %v", entry, err)
		}
		if res.Exit != exit {
			t.Errorf("Shoot(%q) exited at %q, want %q", entry, res.Exit, exit)
		}
	}
}

func TestInvalidEntryLabels(t *testing.T) {
	tr := New(nil, passThrough())
	for _, label := range []string{"", "0", "19", "S", "Z", "AA", "1A", "-3", "+5", "+12", "?"} {
		_, err := tr.Shoot(label)
		if !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("Shoot(%q): got %v, want ErrInvalidEntry", label, err)
		}
	}
}

func TestEntryRayRoundTrip(t *testing.T) {
	labels := []string{}
	for i := 1; i <= 18; i++ {
		labels = append(labels, strconv.Itoa(i))
	}
	for c := 'A'; c <= 'R'; c++ {
		labels = append(labels, string(c))
	}
	for _, label := range labels {
		r, err := entryRay(label)
		if err != nil {
			t.Fatalf("entryRay(%q): %v", label, err)
		}
		if got := boundaryLabel(r.origin); got != label {
			t.Errorf("round trip %q -> origin %v -> %q", label, r.origin, got)
		}
		// The entry direction must point into the grid.
		inside := geometry.Point{
			X: r.origin.X + r.direction.X*0.5,
			Y: r.origin.Y + r.direction.Y*0.5,
		}
		if inside.X <= 0 || inside.X >= GridWidth || inside.Y <= 0 || inside.Y >= GridHeight {
			t.Errorf("entry %q: direction %v points out of the grid", label, r.direction)
		}
		if r.color != color.WaveWhite {
			t.Errorf("entry %q: initial color %s, want white", label, r.color)
		}
	}
}

func TestBoundaryLabelCornerExits(t *testing.T) {
	// A corner point lies on two boundary lines at once; the first
	// boundary whose label range contains the point wins, and the
	// out-of-range boundary must not swallow it.
	tests := []struct {
		point geometry.Point
		want  string
	}{
		{geometry.Point{X: 0, Y: 0}, "1"},
		{geometry.Point{X: 10, Y: 0}, "K"},
		{geometry.Point{X: 0, Y: 8}, "A"},
	}
	for _, tc := range tests {
		if got := boundaryLabel(tc.point); got != tc.want {
			t.Errorf("boundaryLabel(%v) = %q, want %q", tc.point, got, tc.want)
		}
	}
}

func TestPetroleumAbsorbs(t *testing.T) {
	board := []PlacedPiece{{
		Geometry: geometry.PetroleumBlock(),
		Position: geometry.Cell{X: 4, Y: 0},
	}}
	res, err := New(board, passThrough()).Shoot("5")
	if err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if !res.Absorbed {
		t.Fatal("wave was not absorbed by petroleum")
	}
	if res.Exit != "" || res.ExitColor != "" {
		t.Errorf("absorbed wave reported exit %q / color %q", res.Exit, res.ExitColor)
	}
	if res.Reflections != 0 {
		t.Errorf("reflections = %d, want 0", res.Reflections)
	}
	if len(res.Path) == 0 {
		t.Fatal("no path recorded")
	}
	// The entry at (4.5, 0) slides past the block's top edge and dies on
	// the bottom edge at y=2, the first intersection ahead of the ray.
	last := res.Path[len(res.Path)-1]
	if !almostEqual(last.End, geometry.Point{X: 4.5, Y: 2}, 1e-9) {
		t.Errorf("path ends at %v, want (4.5, 2)", last.End)
	}
}

func TestRedMineralColorsTheWave(t *testing.T) {
	// Parallelogram at (2,3): its top edge is horizontal, so a vertical
	// shot reflects straight back out the way it came, colored red.
	board := []PlacedPiece{{
		Geometry: geometry.ParallelogramPiece(),
		Position: geometry.Cell{X: 2, Y: 3},
	}}
	res, err := New(board, passThrough()).Shoot("3")
	if err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if res.Absorbed {
		t.Fatal("wave absorbed unexpectedly")
	}
	if res.Exit != "3" {
		t.Errorf("exit = %q, want 3 (straight back)", res.Exit)
	}
	if res.ExitColor != color.WaveRed {
		t.Errorf("exit color = %s, want red", res.ExitColor)
	}
	if res.Reflections != 1 {
		t.Errorf("reflections = %d, want 1", res.Reflections)
	}
	if len(res.Path) != 2 {
		t.Errorf("path has %d segments, want 2", len(res.Path))
	}
}

func TestDiamondDeflectsSideways(t *testing.T) {
	// The square sits as a diamond; a vertical shot onto its upper-left
	// face turns 90 degrees and leaves through the left boundary, still white
	// (white mineral, pass-through policy).
	board := []PlacedPiece{{
		Geometry: geometry.SquarePiece(),
		Position: geometry.Cell{X: 4, Y: 3},
	}}
	res, err := New(board, passThrough()).Shoot("5")
	if err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if res.Absorbed {
		t.Fatal("wave absorbed unexpectedly")
	}
	if res.Exit != "14" {
		t.Errorf("exit = %q, want 14", res.Exit)
	}
	if res.ExitColor != color.WaveWhite {
		t.Errorf("exit color = %s, want white", res.ExitColor)
	}
	if res.Reflections != 1 {
		t.Errorf("reflections = %d, want 1", res.Reflections)
	}
}

// mirrorWall builds a single-edge transparent piece: a vertical mirror
// of the given height at local x=0.
func mirrorWall(height float64) geometry.Geometry {
	return geometry.Geometry{
		Type:  "mirror_wall",
		Color: geometry.Transparent,
		Vertices: []geometry.Point{
			{X: 0, Y: 0},
			{X: 0, Y: height},
		},
		Edges: []geometry.Edge{
			{Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 0, Y: height}, Angle: 270},
		},
	}
}

func TestReflectionCapTerminates(t *testing.T) {
	// Two parallel vertical mirrors, one sitting exactly on the entry
	// boundary. The entry ray starts on the near mirror (excluded by the
	// self-hit rule), bounces off the far one, and is then trapped
	// between the two at normal incidence forever.
	board := []PlacedPiece{
		{Geometry: mirrorWall(2), Position: geometry.Cell{X: 0, Y: 0}},
		{Geometry: mirrorWall(2), Position: geometry.Cell{X: 6, Y: 0}},
	}
	res, err := New(board, passThrough()).Shoot("11")
	if err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if !res.Absorbed {
		t.Fatalf("trapped wave reported exit %q", res.Exit)
	}
	if res.Reflections != MaxReflections {
		t.Errorf("reflections = %d, want exactly %d", res.Reflections, MaxReflections)
	}
	if len(res.Path) != MaxReflections {
		t.Errorf("path has %d segments, want %d", len(res.Path), MaxReflections)
	}
}

func TestParallelRayMissesEdge(t *testing.T) {
	// A wall parallel to the ray is geometric degeneracy, not an error:
	// the wave flies past and exits.
	board := []PlacedPiece{
		{Geometry: mirrorWall(8), Position: geometry.Cell{X: 2, Y: 0}},
	}
	res, err := New(board, passThrough()).Shoot("1")
	if err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if res.Absorbed || res.Exit != "A" {
		t.Errorf("got absorbed=%v exit=%q, want a clean pass to A", res.Absorbed, res.Exit)
	}
}

func TestRotatedPieceReflects(t *testing.T) {
	// Petroleum rotated 90 degrees lies flat; it occupies (x..x+1, y) after
	// normalization by the caller. Place the rotated geometry so its
	// edges land in the path of entry "13" and absorb the wave.
	geom := geometry.PetroleumBlock().Rotate(90)
	// Rotation about the origin maps the 1x2 block into x in [-2, 0]; at
	// grid position (6, 2) its edges span x in [4, 6], y in [2, 3].
	board := []PlacedPiece{{Geometry: geom, Position: geometry.Cell{X: 6, Y: 2}}}
	res, err := New(board, passThrough()).Shoot("13")
	if err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if !res.Absorbed {
		t.Fatalf("wave missed the rotated block, exit %q", res.Exit)
	}
	last := res.Path[len(res.Path)-1]
	if !almostEqual(last.End, geometry.Point{X: 4, Y: 2.5}, 1e-6) {
		t.Errorf("path ends at %v, want (4, 2.5)", last.End)
	}
}
