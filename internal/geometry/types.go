// internal/geometry/types.go
//
// Core type definitions for the piece geometry catalog.
// Defines:
//   - PieceType / PieceColor: closed tag sets for the seven tangram pieces.
//   - Point / Cell: piece-local float coordinates and integer grid cells.
//   - Edge: a polygon side annotated with its absolute angle.
//   - Geometry: an immutable piece shape definition.
//
// Coordinate system: origin (0,0) at the top-left of the piece's bounding
// box, x increasing right, y increasing DOWN, one unit per grid cell.

package geometry

// PieceType identifies one of the seven canonical tangram pieces.
type PieceType string

const (
	LargeTriangle1 PieceType = "large_triangle_1"
	LargeTriangle2 PieceType = "large_triangle_2"
	MediumTriangle PieceType = "medium_triangle"
	SmallTriangle  PieceType = "small_triangle"
	Square         PieceType = "square"
	Parallelogram  PieceType = "parallelogram"
	Petroleum      PieceType = "petroleum"
)

// PieceColor is the mineral color attribute of a piece.
type PieceColor string

const (
	Red         PieceColor = "red"
	Blue        PieceColor = "blue"
	Yellow      PieceColor = "yellow"
	White       PieceColor = "white"
	Transparent PieceColor = "transparent"
	Black       PieceColor = "black"
)

// Point is a 2-D coordinate in piece-local (or grid) space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell is an integer grid cell coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Edge is one side of a piece polygon.
//
// Angle is absolute, in degrees: 0=right, 90=down, 180=left, 270=up,
// with 45/135/225/315 for the diagonal sides. Diagonal is true exactly
// for the 45-family angles; rotation by a multiple of 90 preserves it.
type Edge struct {
	Start    Point
	End      Point
	Angle    float64
	Diagonal bool
}

// Geometry is the shape definition for a tangram piece.
//
// Vertices wind a simple polygon; Area is the declared number of grid
// cells covered, and always matches OccupiedCells for the un-rotated
// shape. Rotation records the accumulated rotation (0/90/180/270) and is
// informational only. Values are never mutated: Rotate returns a copy.
type Geometry struct {
	Type     PieceType
	Color    PieceColor
	Vertices []Point
	Area     int
	Edges    []Edge
	Rotation int
}
