package render

// Layer tells a surface what a cell belongs to, so it can style it without guessing from the glyph
type Layer uint8

const (
	LayerBorder Layer = iota
	LayerText
	LayerSprite
)

// Surface is a character grid a frame is composed on
// Row 0 is the top; DrawCell outside the grid is ignored
type Surface interface {
	Size() (width, height int)
	Clear()
	DrawCell(row, col int, glyph rune, layer Layer)
	Show()
}

// QuitPoller reports a pending quit request without blocking
type QuitPoller interface {
	PollQuitKey() bool
}
