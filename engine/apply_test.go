package engine

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/physcii/command"
	"github.com/lixenwraith/physcii/core"
	"github.com/lixenwraith/physcii/physics"
)

func TestApply_AddClampsIntoPlayfield(t *testing.T) {
	w := newWorld(t, physics.PolicyExchange, 40, 20)
	eff, err := Apply(w, command.Command{
		Type: command.TypeAddSprite,
		Payload: &command.AddSpritePayload{
			Shape: core.ShapeCircle, Glyph: 'O', Size: 5,
			Pos: mgl64.Vec2{-10, 99}, Vel: mgl64.Vec2{1, 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, w.Len())

	s := w.Sprites()[0]
	assert.Equal(t, mgl64.Vec2{1, 20 - 5 - 1}, s.Pos)
	assert.Equal(t, mgl64.Vec2{1, 2}, s.Vel)
	assert.Equal(t, core.ShapeCircle, s.Shape)

	require.Len(t, eff.Added, 1)
	assert.Equal(t, s.ID, eff.Added[0].ID)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Empty(t, eff.Removed)
}

func TestApply_RemoveMissingGlyphIsNoop(t *testing.T) {
	w := newWorld(t, physics.PolicyExchange, 40, 20)
	w.Add(core.NewSprite(core.ShapeSquare, 'A', 3, mgl64.Vec2{5, 5}, mgl64.Vec2{1, 1}))
	before := w.Fingerprint()

	eff, err := Apply(w, command.Command{
		Type:    command.TypeRemoveByGlyph,
		Payload: &command.GlyphPayload{Glyph: 'X'},
	})
	require.NoError(t, err)
	assert.Empty(t, eff.Removed)
	assert.Equal(t, before, w.Fingerprint())
}

func TestApply_RemoveAndClearReportIDs(t *testing.T) {
	w := newWorld(t, physics.PolicyExchange, 40, 20)
	a := w.Add(core.NewSprite(core.ShapeSquare, 'A', 3, mgl64.Vec2{5, 5}, mgl64.Vec2{}))
	b := w.Add(core.NewSprite(core.ShapeSquare, 'B', 3, mgl64.Vec2{15, 5}, mgl64.Vec2{}))
	c := w.Add(core.NewSprite(core.ShapeSquare, 'A', 3, mgl64.Vec2{25, 5}, mgl64.Vec2{}))

	eff, err := Apply(w, command.Command{
		Type:    command.TypeRemoveByGlyph,
		Payload: &command.GlyphPayload{Glyph: 'A'},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, c.ID}, eff.Removed)

	eff, err = Apply(w, command.Command{Type: command.TypeClearAll})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, eff.Removed)
	assert.Zero(t, w.Len())
}

func TestApply_SeedReportsSprites(t *testing.T) {
	w := newWorld(t, physics.PolicyExchange, 40, 20)
	eff, err := Apply(w, command.Command{
		Type:    command.TypeSeedRandom,
		Payload: &command.SeedPayload{Count: 3},
	})
	require.NoError(t, err)
	require.Len(t, eff.Added, 3)
	assert.Equal(t, w.Sprites(), eff.Added)
}

func TestApply_Errors(t *testing.T) {
	w := newWorld(t, physics.PolicyExchange, 40, 20)

	tests := []struct {
		name string
		cmd  command.Command
		want error
	}{
		{"rejected", command.Rejected("bogus", errors.New("nope")), ErrRejected},
		{"add wrong payload", command.Command{Type: command.TypeAddSprite, Payload: &command.GlyphPayload{}}, ErrBadPayload},
		{"gravity nil payload", command.Command{Type: command.TypeSetGravity}, ErrBadPayload},
		{"seed wrong payload", command.Command{Type: command.TypeSeedRandom, Payload: command.SeedPayload{Count: 1}}, ErrBadPayload},
		{"unknown type", command.Command{Type: command.Type(200)}, ErrBadPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eff, err := Apply(w, tt.cmd)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, eff.Added)
			assert.Zero(t, w.Len())
		})
	}
}

func TestApply_RejectedReason(t *testing.T) {
	w := newWorld(t, physics.PolicyExchange, 40, 20)
	_, perr := command.Parse("set coe -2")
	require.Error(t, perr)

	_, err := Apply(w, command.Rejected("set coe -2", perr))
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), perr.Error())
}
