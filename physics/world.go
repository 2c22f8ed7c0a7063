package physics

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/lixenwraith/physcii/core"
	"github.com/lixenwraith/physcii/vmath"
)

// Random spawn ranges
const (
	SpawnSizeMin  = 3
	SpawnSizeMax  = 7
	SpawnSpeedMin = 1
	SpawnSpeedMax = 3
)

// Config holds the values a world is created with
type Config struct {
	Area    core.Area
	Gravity float64
	Coe     float64
	Policy  Policy

	// GridSize is the bucket edge of the indicator check, 0 disables it
	GridSize int

	// Seed for random spawns, 0 seeds from the clock
	Seed uint64
}

// StepResult summarizes what happened during one tick
type StepResult struct {
	Tick uint64

	// Bounces counts sprites that reflected off the frame on any axis
	Bounces int
	// Collisions counts overlapping pairs that were resolved
	Collisions int
	// GridHit is the bucket check result, always false when the check is disabled
	GridHit bool
}

// World owns the sprite collection and the tunables
// Not safe for concurrent use: only the tick loop may call into it
type World struct {
	Gravity float64
	Coe     float64
	Policy  Policy

	area    core.Area
	sprites []core.Sprite
	grid    *Grid
	rng     *rand.Rand
	tick    uint64
}

// NewWorld creates an empty world
func NewWorld(cfg Config) *World {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	w := &World{
		Gravity: cfg.Gravity,
		Coe:     cfg.Coe,
		Policy:  cfg.Policy,
		area:    cfg.Area,
		sprites: make([]core.Sprite, 0, 32),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	if cfg.GridSize > 0 {
		w.grid = NewGrid(cfg.Area, cfg.GridSize)
	}
	return w
}

// Area returns the current playfield
func (w *World) Area() core.Area {
	return w.area
}

// Tick returns the number of completed steps
func (w *World) Tick() uint64 {
	return w.tick
}

// Len returns the number of sprites
func (w *World) Len() int {
	return len(w.sprites)
}

// Sprites returns the live collection for read-only use until the next mutation
func (w *World) Sprites() []core.Sprite {
	return w.sprites
}

// Resize changes the playfield and pulls every sprite back inside
func (w *World) Resize(area core.Area) {
	w.area = area
	if w.grid != nil {
		w.grid.Resize(area)
	}
	for i := range w.sprites {
		s := &w.sprites[i]
		s.Size = w.fitSize(s.Size)
		Contain(s, area)
	}
}

// Add appends a sprite after shrinking it to fit and clamping its position into the playfield
// A sprite without an identity is given one; returns the sprite as stored
func (w *World) Add(s core.Sprite) core.Sprite {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Size = w.fitSize(s.Size)
	Contain(&s, w.area)
	w.sprites = append(w.sprites, s)
	return s
}

// RemoveByGlyph deletes every sprite drawn with glyph, returns the identities removed
func (w *World) RemoveByGlyph(glyph rune) []uuid.UUID {
	var removed []uuid.UUID
	w.sprites = slices.DeleteFunc(w.sprites, func(s core.Sprite) bool {
		if s.Glyph != glyph {
			return false
		}
		removed = append(removed, s.ID)
		return true
	})
	return removed
}

// Clear removes all sprites
func (w *World) Clear() {
	clear(w.sprites)
	w.sprites = w.sprites[:0]
}

// SeedRandom appends count sprites with random shape, glyph A-Z, size, position and velocity
func (w *World) SeedRandom(count int) []core.Sprite {
	if count <= 0 {
		return nil
	}
	added := make([]core.Sprite, 0, count)
	for range count {
		added = append(added, w.Add(w.randomSprite()))
	}
	return added
}

func (w *World) randomSprite() core.Sprite {
	glyph := 'A' + rune(w.rng.IntN(26))
	size := w.fitSize(SpawnSizeMin + w.rng.IntN(SpawnSizeMax-SpawnSizeMin+1))

	// Position range [1, bound-size-1]
	x := core.Border + w.rng.IntN(max(w.area.Width-size-core.Border, 1))
	y := core.Border + w.rng.IntN(max(w.area.Height-size-core.Border, 1))

	shape := core.ShapeSquare
	if w.rng.IntN(2) == 0 {
		shape = core.ShapeCircle
	}

	pos := mgl64.Vec2{float64(x), float64(y)}
	vel := mgl64.Vec2{w.randomSpeed(), w.randomSpeed()}
	return core.NewSprite(shape, glyph, size, pos, vel)
}

func (w *World) randomSpeed() float64 {
	speed := float64(SpawnSpeedMin + w.rng.IntN(SpawnSpeedMax-SpawnSpeedMin+1))
	if w.rng.IntN(2) == 0 {
		return -speed
	}
	return speed
}

// fitSize limits size to what the interior can hold, minimum 1
func (w *World) fitSize(size int) int {
	return vmath.ClampInt(size, 1, max(w.area.MaxSpriteSize(), 1))
}

// Step advances the simulation by one tick
// All sprites integrate first, then every unordered pair is tested once in index order
// With three or more mutually overlapping sprites the outcome depends on that order
func (w *World) Step() StepResult {
	w.tick++
	res := StepResult{Tick: w.tick}

	for i := range w.sprites {
		if Integrate(&w.sprites[i], w.area, w.Gravity, w.Coe) != ReflectNone {
			res.Bounces++
		}
	}

	for i := 0; i < len(w.sprites); i++ {
		a := &w.sprites[i]
		for j := i + 1; j < len(w.sprites); j++ {
			b := &w.sprites[j]
			if !Overlap(a, b) {
				continue
			}
			Resolve(a, b, w.Policy)
			res.Collisions++
		}
	}

	// Repulsion may push a sprite past the frame
	if w.Policy == PolicyRepulsion && res.Collisions > 0 {
		for i := range w.sprites {
			Contain(&w.sprites[i], w.area)
		}
	}

	if w.grid != nil {
		res.GridHit = w.grid.Detect(w.sprites)
	}
	return res
}

// Fingerprint hashes the simulation state for determinism checks
// Sprite identities are excluded so runs with the same seed compare equal
func (w *World) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)

	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(w.Gravity))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(w.Coe))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(w.sprites)))
	_, _ = d.Write(buf)

	for i := range w.sprites {
		s := &w.sprites[i]
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint32(buf, uint32(s.Glyph))
		buf = append(buf, byte(s.Shape))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(s.Size))
		for _, v := range [4]float64{s.Pos[0], s.Pos[1], s.Vel[0], s.Vel[1]} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}
