// internal/geometry/geometry.go
//
// Geometric queries on piece shapes:
//   - OccupiedCells: scan-convert the polygon into the grid cells it covers.
//   - Rotate: return a copy rotated about the piece-local origin.

package geometry

import "math"

// OccupiedCells reports which grid cells the piece covers when placed
// with its local origin at the given grid position.
//
// The polygon's bounding box is scanned cell by cell; a cell counts as
// covered when its center (cell + 0.5, cell + 0.5) lies inside the
// polygon. Centers exactly on an edge resolve by the ray-casting test's
// half-open convention.
func (g Geometry) OccupiedCells(position Cell) []Cell {
	minX, minY := g.Vertices[0].X, g.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range g.Vertices[1:] {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}

	var occupied []Cell
	for y := int(minY); y < int(math.Ceil(maxY)); y++ {
		for x := int(minX); x < int(math.Ceil(maxX)); x++ {
			center := Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if g.contains(center) {
				occupied = append(occupied, Cell{X: position.X + x, Y: position.Y + y})
			}
		}
	}
	return occupied
}

// contains is an even-odd ray-casting point-in-polygon test along a
// horizontal scanline through p.
func (g Geometry) contains(p Point) bool {
	n := len(g.Vertices)
	inside := false

	p1 := g.Vertices[0]
	var xinters float64
	for i := 1; i <= n; i++ {
		p2 := g.Vertices[i%n]
		if p.Y > math.Min(p1.Y, p2.Y) && p.Y <= math.Max(p1.Y, p2.Y) && p.X <= math.Max(p1.X, p2.X) {
			if p1.Y != p2.Y {
				xinters = (p.Y-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y) + p1.X
			}
			if p1.X == p2.X || p.X <= xinters {
				inside = !inside
			}
		}
		p1 = p2
	}
	return inside
}

// Rotate returns a copy of the piece rotated by degrees (0, 90, 180 or
// 270) about the piece-local origin. Vertices and edge endpoints go
// through the standard 2-D rotation matrix; each edge's absolute angle
// shifts by the same amount mod 360. Diagonal flags and the declared
// area are unchanged. Rotate(0) is the identity.
func (g Geometry) Rotate(degrees int) Geometry {
	rad := float64(degrees) * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	rotate := func(p Point) Point {
		return Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}

	vertices := make([]Point, len(g.Vertices))
	for i, v := range g.Vertices {
		vertices[i] = rotate(v)
	}

	edges := make([]Edge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = Edge{
			Start:    rotate(e.Start),
			End:      rotate(e.End),
			Angle:    math.Mod(e.Angle+float64(degrees), 360),
			Diagonal: e.Diagonal,
		}
	}

	return Geometry{
		Type:     g.Type,
		Color:    g.Color,
		Vertices: vertices,
		Area:     g.Area,
		Edges:    edges,
		Rotation: (g.Rotation + degrees) % 360,
	}
}
