// Package engine runs the fixed-cadence tick loop: it is the only writer of the world
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lixenwraith/physcii/command"
	"github.com/lixenwraith/physcii/core"
	"github.com/lixenwraith/physcii/physics"
)

var (
	// ErrRejected is returned for commands the parser refused
	ErrRejected = errors.New("command rejected")
	// ErrBadPayload is returned when a command carries the wrong payload type
	ErrBadPayload = errors.New("unexpected payload")
)

// Effect lists the sprites a command created or destroyed
type Effect struct {
	Added   []core.Sprite
	Removed []uuid.UUID
}

// Apply mutates w according to cmd
func Apply(w *physics.World, cmd command.Command) (Effect, error) {
	var eff Effect
	switch cmd.Type {
	case command.TypeAddSprite:
		p, ok := cmd.Payload.(*command.AddSpritePayload)
		if !ok {
			return eff, payloadError(cmd)
		}
		eff.Added = append(eff.Added, w.Add(core.NewSprite(p.Shape, p.Glyph, p.Size, p.Pos, p.Vel)))

	case command.TypeRemoveByGlyph:
		p, ok := cmd.Payload.(*command.GlyphPayload)
		if !ok {
			return eff, payloadError(cmd)
		}
		eff.Removed = w.RemoveByGlyph(p.Glyph)

	case command.TypeSetGravity:
		p, ok := cmd.Payload.(*command.ValuePayload)
		if !ok {
			return eff, payloadError(cmd)
		}
		w.Gravity = p.Value

	case command.TypeSetRestitution:
		p, ok := cmd.Payload.(*command.ValuePayload)
		if !ok {
			return eff, payloadError(cmd)
		}
		w.Coe = p.Value

	case command.TypeSeedRandom:
		p, ok := cmd.Payload.(*command.SeedPayload)
		if !ok {
			return eff, payloadError(cmd)
		}
		eff.Added = w.SeedRandom(p.Count)

	case command.TypeClearAll:
		for _, sp := range w.Sprites() {
			eff.Removed = append(eff.Removed, sp.ID)
		}
		w.Clear()

	case command.TypeRejected:
		reason := "unknown"
		if p, ok := cmd.Payload.(*command.RejectedPayload); ok {
			reason = p.Reason
		}
		return eff, fmt.Errorf("%w: %s", ErrRejected, reason)

	default:
		return eff, fmt.Errorf("%w: unknown command type %d", ErrBadPayload, cmd.Type)
	}
	return eff, nil
}

func payloadError(cmd command.Command) error {
	return fmt.Errorf("%w: %s carries %T", ErrBadPayload, cmd.Type, cmd.Payload)
}
