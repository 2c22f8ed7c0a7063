package physics

import (
	"github.com/lixenwraith/physcii/core"
	"github.com/lixenwraith/physcii/vmath"
)

// Reflection records which axes bounced during a step
type Reflection uint8

const (
	ReflectX Reflection = 1 << iota
	ReflectY

	ReflectNone Reflection = 0
)

// Integrate performs one explicit Euler step: v.y += g; p = p + v; then reflects at the frame
// Returns the axes that reflected
func Integrate(s *core.Sprite, area core.Area, gravity, coe float64) Reflection {
	s.Vel[1] += gravity
	s.Pos = s.Pos.Add(s.Vel)

	r := ReflectNone
	if ReflectBoundsX(s, area.Width, coe) {
		r |= ReflectX
	}
	if ReflectBoundsY(s, area.Height, coe) {
		r |= ReflectY
	}
	return r
}

// ReflectBoundsX handles the left and right border, returns true if reflection occurred
// Touching the border counts as a hit; position is clamped to [1, width-size-1]
func ReflectBoundsX(s *core.Sprite, width int, coe float64) bool {
	size := float64(s.Size)
	if s.Pos[0] <= core.Border || s.Pos[0]+size >= float64(width-core.Border) {
		s.Vel = vmath.ReflectAxisX(s.Vel, coe)
		s.Pos[0] = clampAxis(s.Pos[0], s.Size, width)
		return true
	}
	return false
}

// ReflectBoundsY handles the top and bottom border, returns true if reflection occurred
func ReflectBoundsY(s *core.Sprite, height int, coe float64) bool {
	size := float64(s.Size)
	if s.Pos[1] <= core.Border || s.Pos[1]+size >= float64(height-core.Border) {
		s.Vel = vmath.ReflectAxisY(s.Vel, coe)
		s.Pos[1] = clampAxis(s.Pos[1], s.Size, height)
		return true
	}
	return false
}

// Contain clamps position into the interior without touching velocity
func Contain(s *core.Sprite, area core.Area) {
	s.Pos[0] = clampAxis(s.Pos[0], s.Size, area.Width)
	s.Pos[1] = clampAxis(s.Pos[1], s.Size, area.Height)
}

func clampAxis(p float64, size, bound int) float64 {
	return vmath.Clamp(p, core.Border, float64(bound-size-core.Border))
}
