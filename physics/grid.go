package physics

import (
	"github.com/lixenwraith/physcii/core"
)

const unclaimed = -1

// Grid is the bucket-claim collision check behind the on-screen indicator
// The playfield is cut into square buckets of CellSize cells; each sprite claims
// every bucket its bounding box touches and the first claim wins
type Grid struct {
	CellSize int
	Cols     int
	Rows     int
	owners   []int // 1D array: index = row*Cols + col, value = sprite index
}

// NewGrid creates a grid covering the area, cellSize below 1 is treated as 1
func NewGrid(area core.Area, cellSize int) *Grid {
	g := &Grid{CellSize: max(cellSize, 1)}
	g.Resize(area)
	return g
}

// Resize rebuilds the bucket array for new playfield dimensions
func (g *Grid) Resize(area core.Area) {
	g.Cols = ceilDiv(max(area.Width, 1), g.CellSize)
	g.Rows = ceilDiv(max(area.Height, 1), g.CellSize)
	g.owners = make([]int, g.Cols*g.Rows)
}

// Detect reports whether any bucket is claimed by more than one sprite
// O(total sprite area / CellSize²); buckets outside the grid are ignored
func (g *Grid) Detect(sprites []core.Sprite) bool {
	for i := range g.owners {
		g.owners[i] = unclaimed
	}

	hit := false
	for idx := range sprites {
		s := &sprites[idx]
		x, y := s.Cell()
		c0, r0 := g.bucket(x, y)
		c1, r1 := g.bucket(x+s.Size-1, y+s.Size-1)

		for row := max(r0, 0); row <= min(r1, g.Rows-1); row++ {
			for col := max(c0, 0); col <= min(c1, g.Cols-1); col++ {
				owner := &g.owners[row*g.Cols+col]
				switch *owner {
				case unclaimed:
					*owner = idx
				case idx:
				default:
					hit = true
				}
			}
		}
	}
	return hit
}

func (g *Grid) bucket(x, y int) (col, row int) {
	return floorDiv(x, g.CellSize), floorDiv(y, g.CellSize)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
