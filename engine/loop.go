package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/physcii/audio"
	"github.com/lixenwraith/physcii/command"
	"github.com/lixenwraith/physcii/core"
	"github.com/lixenwraith/physcii/physics"
	"github.com/lixenwraith/physcii/render"
)

// ErrQuit is returned by Run when the quit key was pressed
var ErrQuit = errors.New("quit requested")

// DefaultTickInterval is roughly 20 frames per second
const DefaultTickInterval = 50 * time.Millisecond

// Options wires the loop to its collaborators; only World and Queue are required
type Options struct {
	World *physics.World
	Queue *command.Queue

	Surface render.Surface    // nil skips drawing
	Quit    render.QuitPoller // nil never quits
	Sound   *audio.SoundManager
	Logger  *zap.Logger

	TickInterval time.Duration

	// Indicator shows the bucket check result on the top border
	Indicator bool
	// FollowSurface resizes the playfield to the surface every tick
	FollowSurface bool
}

// Loop drains commands, steps the world and renders on a fixed tick
type Loop struct {
	world   *physics.World
	queue   *command.Queue
	surface render.Surface
	quit    render.QuitPoller
	sound   *audio.SoundManager
	log     *zap.Logger

	tickInterval  time.Duration
	indicator     bool
	followSurface bool

	last physics.StepResult

	tickCount atomic.Uint64
	applied   atomic.Uint64
	rejected  atomic.Uint64
}

// NewLoop creates a loop from opts
func NewLoop(opts Options) *Loop {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Loop{
		world:         opts.World,
		queue:         opts.Queue,
		surface:       opts.Surface,
		quit:          opts.Quit,
		sound:         opts.Sound,
		log:           log,
		tickInterval:  interval,
		indicator:     opts.Indicator,
		followSurface: opts.FollowSurface,
	}
}

// Ticks returns the number of completed ticks
func (l *Loop) Ticks() uint64 { return l.tickCount.Load() }

// Applied returns the number of commands applied to the world
func (l *Loop) Applied() uint64 { return l.applied.Load() }

// Rejected returns the number of commands refused by the parser or by Apply
func (l *Loop) Rejected() uint64 { return l.rejected.Load() }

// Last returns the result of the most recent step
func (l *Loop) Last() physics.StepResult { return l.last }

// Run ticks until ctx is cancelled or the quit key is pressed
// Returns ErrQuit on quit and nil on cancellation
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tickInterval)
	defer ticker.Stop()

	l.log.Info("tick loop started",
		zap.Duration("interval", l.tickInterval),
		zap.Stringer("policy", l.world.Policy),
		zap.Int("width", l.world.Area().Width),
		zap.Int("height", l.world.Area().Height),
	)

	// First frame without waiting a full interval
	if l.Tick() {
		return l.stop(ErrQuit)
	}

	for {
		select {
		case <-ctx.Done():
			return l.stop(nil)
		case <-ticker.C:
			if l.Tick() {
				return l.stop(ErrQuit)
			}
		}
	}
}

// RunTicks runs n ticks back to back without sleeping
// Returns early with ErrQuit if the quit key is pressed
func (l *Loop) RunTicks(ctx context.Context, n int) error {
	for range n {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.Tick() {
			return ErrQuit
		}
	}
	return nil
}

// Tick performs one cycle: apply queued commands, resize, step, sound, draw, poll quit
// Reports whether quit was requested
func (l *Loop) Tick() bool {
	l.drain()
	l.resize()

	res := l.world.Step()
	l.last = res

	if res.Bounces > 0 {
		l.sound.Play(audio.SoundBounce)
	}
	if res.Collisions > 0 {
		l.sound.Play(audio.SoundCollision)
	}

	if l.surface != nil {
		render.DrawFrame(l.surface, l.world.Area(), l.world.Sprites(), render.Status{
			Collision: l.indicator && res.GridHit,
			Stats:     render.StatsLine(l.world.Len(), l.world.Gravity, l.world.Coe, l.world.Policy),
		})
	}

	l.tickCount.Add(1)
	return l.quit != nil && l.quit.PollQuitKey()
}

func (l *Loop) drain() {
	cmds := l.queue.Consume()
	for _, cmd := range cmds {
		eff, err := Apply(l.world, cmd)
		if err != nil {
			l.rejected.Add(1)
			l.log.Warn("command rejected",
				zap.String("line", cmd.Line),
				zap.Error(err),
			)
			continue
		}
		l.applied.Add(1)
		l.log.Debug("command applied",
			zap.Stringer("type", cmd.Type),
			zap.String("line", cmd.Line),
			zap.Int("sprites", l.world.Len()),
		)
		for i := range eff.Added {
			sp := &eff.Added[i]
			l.log.Debug("sprite added",
				zap.Stringer("id", sp.ID),
				zap.String("glyph", string(sp.Glyph)),
				zap.Stringer("shape", sp.Shape),
				zap.Int("size", sp.Size),
			)
		}
		for _, id := range eff.Removed {
			l.log.Debug("sprite removed", zap.Stringer("id", id))
		}
	}
}

func (l *Loop) resize() {
	if !l.followSurface || l.surface == nil {
		return
	}
	w, h := l.surface.Size()
	area := core.Area{Width: w, Height: h}
	if area == l.world.Area() || !area.Valid() {
		return
	}
	l.world.Resize(area)
	l.log.Debug("playfield resized", zap.Int("width", w), zap.Int("height", h))
}

func (l *Loop) stop(err error) error {
	l.log.Info("tick loop stopped",
		zap.Uint64("ticks", l.Ticks()),
		zap.Uint64("applied", l.Applied()),
		zap.Uint64("rejected", l.Rejected()),
		zap.Uint64("dropped", l.queue.Dropped()),
		zap.Bool("quit", errors.Is(err, ErrQuit)),
	)
	return err
}
