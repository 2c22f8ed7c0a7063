package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/physcii/core"
)

func sprite(glyph rune, size int, x, y, vx, vy float64) core.Sprite {
	return core.NewSprite(core.ShapeSquare, glyph, size, mgl64.Vec2{x, y}, mgl64.Vec2{vx, vy})
}

func TestIntegrate_LeftWallScenario(t *testing.T) {
	s := sprite('A', 2, 1, 10, -3, 0)
	area := core.Area{Width: 40, Height: 30}

	r := Integrate(&s, area, 0, 1.0)

	assert.Equal(t, ReflectX, r)
	assert.Equal(t, 1.0, s.Pos[0])
	assert.Equal(t, 3.0, s.Vel[0])
	assert.Equal(t, 10.0, s.Pos[1])
	assert.Equal(t, 0.0, s.Vel[1])
}

func TestIntegrate_Gravity(t *testing.T) {
	s := sprite('A', 2, 10, 10, 0, 0)
	area := core.Area{Width: 40, Height: 30}

	Integrate(&s, area, 1, 1)
	assert.Equal(t, mgl64.Vec2{0, 1}, s.Vel)
	assert.Equal(t, mgl64.Vec2{10, 11}, s.Pos)

	Integrate(&s, area, 1, 1)
	assert.Equal(t, mgl64.Vec2{0, 2}, s.Vel)
	assert.Equal(t, mgl64.Vec2{10, 13}, s.Pos)
}

func TestIntegrate_RestitutionScalesOnce(t *testing.T) {
	tests := []struct {
		name    string
		x, vx   float64
		coe     float64
		wantVel float64
		wantX   float64
	}{
		{"right wall elastic", 35, 4, 1.0, -4, 35},
		{"right wall damped", 35, 4, 0.5, -2, 35},
		{"left wall damped", 2, -4, 0.5, 2, 1},
		{"no contact", 10, 2, 0.5, 2, 12},
	}

	// width 40, size 4: valid x range [1, 35]
	area := core.Area{Width: 40, Height: 30}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sprite('A', 4, tt.x, 10, tt.vx, 0)
			Integrate(&s, area, 0, tt.coe)
			assert.Equal(t, tt.wantVel, s.Vel[0])
			assert.Equal(t, tt.wantX, s.Pos[0])
		})
	}
}

func TestIntegrate_BottomWall(t *testing.T) {
	// height 20, size 3: valid y range [1, 16]
	s := sprite('A', 3, 10, 15, 0, 3)
	r := Integrate(&s, core.Area{Width: 40, Height: 20}, 1, 1)

	assert.Equal(t, ReflectY, r)
	assert.Equal(t, 16.0, s.Pos[1])
	assert.Equal(t, -4.0, s.Vel[1])
}

func TestIntegrate_Corner(t *testing.T) {
	s := sprite('A', 2, 2, 2, -5, -5)
	r := Integrate(&s, core.Area{Width: 20, Height: 20}, 0, 1)

	assert.Equal(t, ReflectX|ReflectY, r)
	assert.Equal(t, mgl64.Vec2{1, 1}, s.Pos)
	assert.Equal(t, mgl64.Vec2{5, 5}, s.Vel)
}

func TestContain(t *testing.T) {
	s := sprite('A', 4, -10, 100, 7, 7)
	Contain(&s, core.Area{Width: 30, Height: 20})

	assert.Equal(t, mgl64.Vec2{1, 15}, s.Pos)
	require.Equal(t, mgl64.Vec2{7, 7}, s.Vel, "velocity untouched")
}
