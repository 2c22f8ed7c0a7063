package render

import (
	"strings"
)

// RenderBuffer is an in-memory Surface used for headless runs and tests
type RenderBuffer struct {
	cells  []rune
	layers []Layer
	width  int
	height int
	shown  int
}

// NewRenderBuffer creates a buffer with the specified dimensions
func NewRenderBuffer(width, height int) *RenderBuffer {
	b := &RenderBuffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *RenderBuffer) Resize(width, height int) {
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]rune, size)
		b.layers = make([]Layer, size)
	} else {
		b.cells = b.cells[:size]
		b.layers = b.layers[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

func (b *RenderBuffer) Size() (width, height int) {
	return b.width, b.height
}

// Clear resets all cells to blank using exponential copy
func (b *RenderBuffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = ' '
	b.layers[0] = LayerBorder
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
		copy(b.layers[filled:], b.layers[:filled])
	}
}

func (b *RenderBuffer) DrawCell(row, col int, glyph rune, layer Layer) {
	if !b.inBounds(col, row) {
		return
	}
	b.cells[row*b.width+col] = glyph
	b.layers[row*b.width+col] = layer
}

// Show counts presented frames
func (b *RenderBuffer) Show() {
	b.shown++
}

// Frames returns the number of Show calls
func (b *RenderBuffer) Frames() int {
	return b.shown
}

// At returns the glyph at (row, col), 0 when out of bounds
func (b *RenderBuffer) At(row, col int) rune {
	if !b.inBounds(col, row) {
		return 0
	}
	return b.cells[row*b.width+col]
}

// LayerAt returns the layer of the last glyph drawn at (row, col)
// Blank and out-of-bounds cells report LayerBorder
func (b *RenderBuffer) LayerAt(row, col int) Layer {
	if !b.inBounds(col, row) {
		return LayerBorder
	}
	return b.layers[row*b.width+col]
}

// Row returns one row as a string
func (b *RenderBuffer) Row(row int) string {
	if row < 0 || row >= b.height {
		return ""
	}
	return string(b.cells[row*b.width : (row+1)*b.width])
}

// String returns the grid, one line per row
func (b *RenderBuffer) String() string {
	var sb strings.Builder
	sb.Grow((b.width + 1) * b.height * 2)
	for row := 0; row < b.height; row++ {
		sb.WriteString(b.Row(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// inBounds returns true if in grid bounds
func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}
