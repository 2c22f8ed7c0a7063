package render

import (
	"fmt"

	"github.com/lixenwraith/physcii/core"
)

// Frame glyphs
const (
	GlyphHorizontal = '-'
	GlyphVertical   = '|'
)

// CollisionText is shown on the top border while the grid check reports a hit
const CollisionText = "Collision detected!"

// statusOffset is the first column used for border text
const statusOffset = 2

// Status is the overlay text state for one frame
type Status struct {
	Collision bool

	// Stats is drawn on the bottom border when non-empty
	Stats string
}

// StatsLine formats the bottom border summary
func StatsLine(sprites int, gravity, coe float64, policy fmt.Stringer) string {
	return fmt.Sprintf(" sprites:%d gravity:%g coe:%g %s ", sprites, gravity, coe, policy)
}

// DrawFrame composes border, status and sprites for the playfield area, then shows the surface
// The frame is anchored at the top-left corner; cells past the surface edge are clipped
// Sprites are drawn last and may cover the border
func DrawFrame(s Surface, area core.Area, sprites []core.Sprite, status Status) {
	s.Clear()
	width, height := area.Width, area.Height

	DrawBorder(s, width, height)

	if status.Collision {
		DrawText(s, 0, statusOffset, width-statusOffset-1, CollisionText)
	}
	if status.Stats != "" {
		DrawText(s, height-1, statusOffset, width-statusOffset-1, status.Stats)
	}

	for i := range sprites {
		DrawSprite(s, &sprites[i])
	}

	s.Show()
}

// DrawBorder draws the horizontal rules first, then the vertical ones over the corners
func DrawBorder(s Surface, width, height int) {
	for col := 0; col < width; col++ {
		s.DrawCell(0, col, GlyphHorizontal, LayerBorder)
		s.DrawCell(height-1, col, GlyphHorizontal, LayerBorder)
	}
	for row := 0; row < height; row++ {
		s.DrawCell(row, 0, GlyphVertical, LayerBorder)
		s.DrawCell(row, width-1, GlyphVertical, LayerBorder)
	}
}

// DrawText writes text starting at (row, col), truncated to limit cells
func DrawText(s Surface, row, col, limit int, text string) {
	n := 0
	for _, r := range text {
		if n >= limit {
			return
		}
		s.DrawCell(row, col+n, r, LayerText)
		n++
	}
}

// DrawSprite rasterizes a sprite at its truncated position
func DrawSprite(s Surface, sp *core.Sprite) {
	x, y := sp.Cell()

	switch sp.Shape {
	case core.ShapeCircle:
		// Midpoint disk around the box center
		r := sp.Size / 2
		cx, cy := x+r, y+r
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy <= r*r {
					s.DrawCell(cy+dy, cx+dx, sp.Glyph, LayerSprite)
				}
			}
		}
	default:
		for row := 0; row < sp.Size; row++ {
			for col := 0; col < sp.Size; col++ {
				s.DrawCell(y+row, x+col, sp.Glyph, LayerSprite)
			}
		}
	}
}
