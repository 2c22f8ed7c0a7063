package physics

import (
	"fmt"

	"github.com/lixenwraith/physcii/core"
	"github.com/lixenwraith/physcii/vmath"
)

// Policy selects the collision response applied to overlapping pairs
type Policy uint8

const (
	// PolicyExchange swaps the velocity vectors of the pair
	PolicyExchange Policy = iota
	// PolicyRepulsion swaps velocities, then pushes overlapping centers apart
	PolicyRepulsion
)

// RepulsionFactor scales center overlap into the separating impulse
const RepulsionFactor = 0.5

func (p Policy) String() string {
	switch p {
	case PolicyExchange:
		return "exchange"
	case PolicyRepulsion:
		return "repulsion"
	default:
		return fmt.Sprintf("Policy(%d)", p)
	}
}

// ParsePolicy maps a config name to a policy
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "exchange", "exchange-only":
		return PolicyExchange, nil
	case "repulsion", "exchange-repulsion":
		return PolicyRepulsion, nil
	}
	return 0, fmt.Errorf("unknown collision policy %q", name)
}

// Overlap is the half-open AABB test; circles use their bounding square
func Overlap(a, b *core.Sprite) bool {
	aMinX, aMinY, aMaxX, aMaxY := a.Bounds()
	bMinX, bMinY, bMaxX, bMaxY := b.Bounds()
	return aMinX < bMaxX && aMaxX > bMinX &&
		aMinY < bMaxY && aMaxY > bMinY
}

// Exchange swaps the full velocity vectors of a and b
// Applying it twice restores the original velocities
func Exchange(a, b *core.Sprite) {
	a.Vel, b.Vel = b.Vel, a.Vel
}

// Repel pushes a and b apart along the center-to-center axis when closer than their mean size
// Returns false when nothing was applied, including the coincident-center case
func Repel(a, b *core.Sprite) bool {
	delta := b.Center().Sub(a.Center())
	minDistance := float64(a.Size+b.Size) / 2

	normal, distance, ok := vmath.Normalize(delta)
	if !ok || distance >= minDistance {
		return false
	}

	force := (minDistance - distance) * RepulsionFactor
	impulse := normal.Mul(force)
	shift := normal.Mul(force / 2)

	a.Vel = a.Vel.Sub(impulse)
	b.Vel = b.Vel.Add(impulse)
	a.Pos = a.Pos.Sub(shift)
	b.Pos = b.Pos.Add(shift)
	return true
}

// Resolve applies the policy to an overlapping pair
func Resolve(a, b *core.Sprite, policy Policy) {
	Exchange(a, b)
	if policy == PolicyRepulsion {
		Repel(a, b)
	}
}
