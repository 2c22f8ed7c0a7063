// Package command turns control lines into events for the tick loop
package command

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/physcii/core"
)

// Type identifies a control event
type Type uint8

const (
	// TypeAddSprite appends one sprite | Payload: *AddSpritePayload
	TypeAddSprite Type = iota

	// TypeRemoveByGlyph removes every sprite sharing a glyph | Payload: *GlyphPayload
	TypeRemoveByGlyph

	// TypeSetGravity replaces the per-tick vertical velocity delta | Payload: *ValuePayload
	TypeSetGravity

	// TypeSetRestitution replaces the wall bounce coefficient | Payload: *ValuePayload
	TypeSetRestitution

	// TypeSeedRandom appends random sprites | Payload: *SeedPayload
	TypeSeedRandom

	// TypeClearAll empties the world | Payload: nil
	TypeClearAll

	// TypeRejected carries a line that failed to parse | Payload: *RejectedPayload
	// Consumer logs and discards it
	TypeRejected
)

var typeNames = [...]string{
	TypeAddSprite:      "add",
	TypeRemoveByGlyph:  "remove",
	TypeSetGravity:     "set gravity",
	TypeSetRestitution: "set coe",
	TypeSeedRandom:     "random",
	TypeClearAll:       "clear",
	TypeRejected:       "rejected",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Command is a single control event with metadata
type Command struct {
	Type      Type
	Payload   any
	Line      string // Source text, for logging
	Timestamp time.Time
}

// AddSpritePayload describes a sprite to spawn
type AddSpritePayload struct {
	Shape core.ShapeKind
	Glyph rune
	Size  int
	Pos   mgl64.Vec2
	Vel   mgl64.Vec2
}

// GlyphPayload selects sprites by glyph
type GlyphPayload struct {
	Glyph rune
}

// ValuePayload carries a tunable value
type ValuePayload struct {
	Value float64
}

// SeedPayload carries the number of random sprites to spawn
type SeedPayload struct {
	Count int
}

// RejectedPayload explains why a line was not accepted
type RejectedPayload struct {
	Reason string
}

// Rejected wraps a parse failure into an event the tick loop can log
func Rejected(line string, err error) Command {
	return Command{
		Type:      TypeRejected,
		Payload:   &RejectedPayload{Reason: err.Error()},
		Line:      line,
		Timestamp: time.Now(),
	}
}
