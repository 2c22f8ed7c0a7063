package core

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ShapeKind selects how a sprite is drawn; collision always uses the bounding square
type ShapeKind uint8

const (
	ShapeSquare ShapeKind = iota
	ShapeCircle
)

// String returns the protocol letter for the shape
func (s ShapeKind) String() string {
	switch s {
	case ShapeSquare:
		return "S"
	case ShapeCircle:
		return "C"
	default:
		return "?"
	}
}

// ParseShape maps a protocol letter (S/C, either case) to a shape
func ParseShape(token string) (ShapeKind, bool) {
	switch token {
	case "S", "s":
		return ShapeSquare, true
	case "C", "c":
		return ShapeCircle, true
	}
	return 0, false
}

// Sprite is a moving square or circle inside the playfield
type Sprite struct {
	ID uuid.UUID

	// Pos is the top-left corner of the bounding box in cells
	Pos mgl64.Vec2
	// Vel is cells per tick
	Vel mgl64.Vec2

	Size  int
	Glyph rune
	Shape ShapeKind
}

// NewSprite creates a sprite with a fresh identity
func NewSprite(shape ShapeKind, glyph rune, size int, pos, vel mgl64.Vec2) Sprite {
	return Sprite{
		ID:    uuid.New(),
		Pos:   pos,
		Vel:   vel,
		Size:  size,
		Glyph: glyph,
		Shape: shape,
	}
}

// Center returns the midpoint of the bounding box
func (s *Sprite) Center() mgl64.Vec2 {
	half := float64(s.Size) / 2
	return mgl64.Vec2{s.Pos[0] + half, s.Pos[1] + half}
}

// Bounds returns the half-open bounding box [min, max)
func (s *Sprite) Bounds() (minX, minY, maxX, maxY float64) {
	size := float64(s.Size)
	return s.Pos[0], s.Pos[1], s.Pos[0] + size, s.Pos[1] + size
}

// Cell returns the integer grid cell of the top-left corner
func (s *Sprite) Cell() (x, y int) {
	return int(s.Pos[0]), int(s.Pos[1])
}
