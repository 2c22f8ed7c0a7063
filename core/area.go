package core

// Area is the playfield: a bordered character grid
// Cells with 1 <= x <= Width-2 and 1 <= y <= Height-2 are interior
type Area struct {
	Width, Height int
}

// Border is the number of cells reserved for the frame on each side
const Border = 1

// InteriorWidth returns the number of drawable columns
func (a Area) InteriorWidth() int {
	return max(a.Width-2*Border, 0)
}

// InteriorHeight returns the number of drawable rows
func (a Area) InteriorHeight() int {
	return max(a.Height-2*Border, 0)
}

// MaxSpriteSize returns the largest sprite that fits the interior on both axes
func (a Area) MaxSpriteSize() int {
	return min(a.InteriorWidth(), a.InteriorHeight())
}

// Valid reports whether at least one sprite of size 1 fits
func (a Area) Valid() bool {
	return a.MaxSpriteSize() >= 1
}
