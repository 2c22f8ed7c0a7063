package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/physcii/core"
)

func TestGrid_Dimensions(t *testing.T) {
	g := NewGrid(core.Area{Width: 81, Height: 24}, 4)
	assert.Equal(t, 21, g.Cols)
	assert.Equal(t, 6, g.Rows)

	g = NewGrid(core.Area{Width: 10, Height: 10}, 0)
	assert.Equal(t, 1, g.CellSize)
	assert.Equal(t, 10, g.Cols)
}

func TestGrid_Detect(t *testing.T) {
	area := core.Area{Width: 80, Height: 24}

	tests := []struct {
		name    string
		sprites []core.Sprite
		want    bool
	}{
		{"empty", nil, false},
		{"single", []core.Sprite{sprite('A', 7, 1, 1, 0, 0)}, false},
		{
			"distinct buckets",
			[]core.Sprite{sprite('A', 3, 1, 1, 0, 0), sprite('B', 3, 20, 10, 0, 0)},
			false,
		},
		{
			// A covers cells 1..3 (bucket 0), B covers 6..8 (buckets 1 and 2)
			"adjacent buckets",
			[]core.Sprite{sprite('A', 3, 1, 1, 0, 0), sprite('B', 3, 6, 1, 0, 0)},
			false,
		},
		{
			// Disjoint boxes sharing bucket 0: the coarse check still fires
			"shared bucket without overlap",
			[]core.Sprite{sprite('A', 1, 1, 1, 0, 0), sprite('B', 1, 3, 3, 0, 0)},
			true,
		},
		{
			"overlapping",
			[]core.Sprite{sprite('A', 4, 10, 10, 0, 0), sprite('B', 4, 12, 10, 0, 0)},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(area, 4)
			assert.Equal(t, tt.want, g.Detect(tt.sprites))
		})
	}
}

func TestGrid_DetectResetsBetweenFrames(t *testing.T) {
	g := NewGrid(core.Area{Width: 40, Height: 20}, 4)
	a := sprite('A', 4, 10, 10, 0, 0)
	b := sprite('B', 4, 12, 10, 0, 0)

	assert.True(t, g.Detect([]core.Sprite{a, b}))

	b.Pos[0] = 30
	assert.False(t, g.Detect([]core.Sprite{a, b}))
}

func TestGrid_OutOfRangeIgnored(t *testing.T) {
	g := NewGrid(core.Area{Width: 20, Height: 20}, 4)
	a := sprite('A', 4, 50, 50, 0, 0)
	b := sprite('B', 4, 52, 50, 0, 0)
	assert.False(t, g.Detect([]core.Sprite{a, b}))
}
