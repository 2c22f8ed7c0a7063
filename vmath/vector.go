package vmath

import "github.com/go-gl/mathgl/mgl64"

// Normalize returns the unit vector and its original length, zero-safe
// ok is false for the zero vector, which has no direction
func Normalize(v mgl64.Vec2) (unit mgl64.Vec2, length float64, ok bool) {
	length = v.Len()
	if length == 0 {
		return mgl64.Vec2{}, 0, false
	}
	return v.Mul(1 / length), length, true
}

// ReflectAxisX returns velocity reflected off a vertical wall and scaled by coe
func ReflectAxisX(vel mgl64.Vec2, coe float64) mgl64.Vec2 {
	return mgl64.Vec2{-coe * vel[0], vel[1]}
}

// ReflectAxisY returns velocity reflected off a horizontal wall and scaled by coe
func ReflectAxisY(vel mgl64.Vec2, coe float64) mgl64.Vec2 {
	return mgl64.Vec2{vel[0], -coe * vel[1]}
}
