// internal/geometry/pieces.go
//
// Canonical shape definitions for the seven mine pieces. These are
// logical constants: every board placement starts from one of the
// prototypes returned here (optionally rotated) and the prototypes are
// never mutated.

package geometry

import "fmt"

// LargeTriangle builds the large isosceles right triangle.
// Legs 2 cells tall by 4 cells wide, area 4 cells, right angle at the
// local origin, hypotenuse running from bottom-left to top-right.
// The game ships two color variants of this piece: white (transparent
// to the wave) and blue.
func LargeTriangle(color PieceColor) Geometry {
	t := LargeTriangle2
	if color == White {
		t = LargeTriangle1
	}
	return Geometry{
		Type:  t,
		Color: color,
		Vertices: []Point{
			{0, 0},
			{0, 2},
			{4, 0},
		},
		Area: 4,
		Edges: []Edge{
			{Start: Point{0, 0}, End: Point{0, 2}, Angle: 270},
			{Start: Point{0, 2}, End: Point{4, 0}, Angle: 45, Diagonal: true},
			{Start: Point{4, 0}, End: Point{0, 0}, Angle: 180},
		},
	}
}

// MediumTrianglePiece builds the medium isosceles right triangle:
// 2x2 legs, yellow. Covers 3 grid cells: the two cells split by the
// hypotenuse both land on the interior side of the scanline test.
func MediumTrianglePiece() Geometry {
	return Geometry{
		Type:  MediumTriangle,
		Color: Yellow,
		Vertices: []Point{
			{0, 0},
			{0, 2},
			{2, 0},
		},
		Area: 3,
		Edges: []Edge{
			{Start: Point{0, 0}, End: Point{0, 2}, Angle: 270},
			{Start: Point{0, 2}, End: Point{2, 0}, Angle: 135, Diagonal: true},
			{Start: Point{2, 0}, End: Point{0, 0}, Angle: 180},
		},
	}
}

// SmallTrianglePiece builds the small right triangle: 2 cells wide, 1 tall,
// area 1 cell, transparent.
func SmallTrianglePiece() Geometry {
	return Geometry{
		Type:  SmallTriangle,
		Color: Transparent,
		Vertices: []Point{
			{0, 0},
			{0, 1},
			{2, 0},
		},
		Area: 1,
		Edges: []Edge{
			{Start: Point{0, 0}, End: Point{0, 1}, Angle: 270},
			{Start: Point{0, 1}, End: Point{2, 0}, Angle: 45, Diagonal: true},
			{Start: Point{2, 0}, End: Point{0, 0}, Angle: 180},
		},
	}
}

// SquarePiece builds the unit square pre-rotated 45 degrees, so it sits as a
// diamond inside a 2x2 box. Side length sqrt(2), area 2 cells, white. All four
// sides are diagonal.
func SquarePiece() Geometry {
	return Geometry{
		Type:  Square,
		Color: White,
		Vertices: []Point{
			{1, 0},
			{2, 1},
			{1, 2},
			{0, 1},
		},
		Area: 2,
		Edges: []Edge{
			{Start: Point{1, 0}, End: Point{2, 1}, Angle: 45, Diagonal: true},
			{Start: Point{2, 1}, End: Point{1, 2}, Angle: 135, Diagonal: true},
			{Start: Point{1, 2}, End: Point{0, 1}, Angle: 225, Diagonal: true},
			{Start: Point{0, 1}, End: Point{1, 0}, Angle: 315, Diagonal: true},
		},
	}
}

// ParallelogramPiece builds the parallelogram: base 2 cells, height 1,
// area 2 cells, red. Two horizontal sides, two diagonal.
func ParallelogramPiece() Geometry {
	return Geometry{
		Type:  Parallelogram,
		Color: Red,
		Vertices: []Point{
			{0, 0},
			{2, 0},
			{3, 1},
			{1, 1},
		},
		Area: 2,
		Edges: []Edge{
			{Start: Point{0, 0}, End: Point{2, 0}, Angle: 0},
			{Start: Point{2, 0}, End: Point{3, 1}, Angle: 45, Diagonal: true},
			{Start: Point{3, 1}, End: Point{1, 1}, Angle: 180},
			{Start: Point{1, 1}, End: Point{0, 0}, Angle: 135, Diagonal: true},
		},
	}
}

// PetroleumBlock builds the light-absorbing petroleum piece: a 1x2
// rectangle, area 2 cells, black.
func PetroleumBlock() Geometry {
	return Geometry{
		Type:  Petroleum,
		Color: Black,
		Vertices: []Point{
			{0, 0},
			{1, 0},
			{1, 2},
			{0, 2},
		},
		Area: 2,
		Edges: []Edge{
			{Start: Point{0, 0}, End: Point{1, 0}, Angle: 0},
			{Start: Point{1, 0}, End: Point{1, 2}, Angle: 90},
			{Start: Point{1, 2}, End: Point{0, 2}, Angle: 180},
			{Start: Point{0, 2}, End: Point{0, 0}, Angle: 270},
		},
	}
}

// ByType returns the canonical geometry for a piece type tag.
func ByType(t PieceType) (Geometry, error) {
	switch t {
	case LargeTriangle1:
		return LargeTriangle(White), nil
	case LargeTriangle2:
		return LargeTriangle(Blue), nil
	case MediumTriangle:
		return MediumTrianglePiece(), nil
	case SmallTriangle:
		return SmallTrianglePiece(), nil
	case Square:
		return SquarePiece(), nil
	case Parallelogram:
		return ParallelogramPiece(), nil
	case Petroleum:
		return PetroleumBlock(), nil
	default:
		return Geometry{}, fmt.Errorf("unknown piece type %q", t)
	}
}

// All returns the full piece set in catalog order.
func All() []Geometry {
	return []Geometry{
		LargeTriangle(White),
		LargeTriangle(Blue),
		MediumTrianglePiece(),
		SmallTrianglePiece(),
		SquarePiece(),
		ParallelogramPiece(),
		PetroleumBlock(),
	}
}
