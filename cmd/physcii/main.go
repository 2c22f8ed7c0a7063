package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/lixenwraith/physcii/audio"
	"github.com/lixenwraith/physcii/command"
	"github.com/lixenwraith/physcii/config"
	"github.com/lixenwraith/physcii/core"
	"github.com/lixenwraith/physcii/engine"
	"github.com/lixenwraith/physcii/physics"
	"github.com/lixenwraith/physcii/render"
)

// Playfield used by headless runs when no size is configured
const (
	headlessWidth  = 80
	headlessHeight = 24
)

var (
	errNotTerminal     = errors.New("stdout is not a terminal (use -headless)")
	errShutdownTimeout = errors.New("shutdown timed out")
)

// options mirrors the command line; only flags that were set override the config file
type options struct {
	configPath string
	fifo       string
	policy     string
	seed       uint64
	random     int
	gravity    float64
	coe        float64
	audio      bool
	debug      bool
	headless   bool
	ticks      int
	width      int
	height     int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Panic Recovery: terminal cleanup is registered with core once the screen is up
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	fs := flag.NewFlagSet("physcii", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(fs, opts)
	if err != nil {
		fmt.Fprintf(stderr, "physcii: %v\n", err)
		return 1
	}

	log, closeLog, err := setupLogging(logDir, cfg.Debug)
	if err != nil {
		fmt.Fprintf(stderr, "physcii: %v\n", err)
		return 1
	}
	defer closeLog()

	log.Info("starting",
		zap.Bool("headless", opts.headless),
		zap.String("fifo", cfg.FIFOPath),
		zap.String("policy", cfg.Policy),
		zap.Float64("gravity", cfg.Gravity),
		zap.Float64("coe", cfg.Coe),
		zap.Duration("tick", cfg.TickInterval),
		zap.Uint64("rng_seed", cfg.RNGSeed),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.headless {
		err = runHeadless(ctx, cfg, log, stdin, stdout, opts.ticks)
	} else {
		err = runInteractive(ctx, cfg, log)
	}
	if err != nil {
		log.Error("exit with error", zap.Error(err))
		fmt.Fprintf(stderr, "physcii: %v\n", err)
		return 1
	}
	log.Info("shutdown complete")
	return 0
}

func bindFlags(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.fifo, "fifo", config.DefaultFIFOPath, "command pipe path")
	fs.StringVar(&o.policy, "policy", "repulsion", "collision policy: exchange or repulsion")
	fs.Uint64Var(&o.seed, "seed", 0, "random spawn seed, 0 uses the clock")
	fs.IntVar(&o.random, "random", 0, "random sprites spawned at startup")
	fs.Float64Var(&o.gravity, "gravity", 1, "downward acceleration per tick")
	fs.Float64Var(&o.coe, "coe", 1, "coefficient of restitution on wall bounce")
	fs.BoolVar(&o.audio, "audio", false, "play bounce and collision sounds")
	fs.BoolVar(&o.debug, "debug", false, "write logs to "+logDir+"/"+logFileName)
	fs.BoolVar(&o.headless, "headless", false, "run without a terminal and print the final state")
	fs.IntVar(&o.ticks, "ticks", 100, "ticks to run in headless mode")
	fs.IntVar(&o.width, "width", 0, "playfield width, 0 follows the terminal")
	fs.IntVar(&o.height, "height", 0, "playfield height, 0 follows the terminal")
	return o
}

// loadConfig reads the config file and applies the flags that were given explicitly
func loadConfig(fs *flag.FlagSet, o *options) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fifo":
			cfg.FIFOPath = o.fifo
		case "policy":
			cfg.Policy = o.policy
		case "seed":
			cfg.RNGSeed = o.seed
		case "random":
			cfg.SeedCount = o.random
		case "gravity":
			cfg.Gravity = o.gravity
		case "coe":
			cfg.Coe = o.coe
		case "audio":
			cfg.Audio = o.audio
		case "debug":
			cfg.Debug = o.debug
		case "width":
			cfg.Width = o.width
		case "height":
			cfg.Height = o.height
		}
	})

	if o.ticks < 0 {
		return nil, fmt.Errorf("%w: ticks must be non-negative, got %d", config.ErrInvalid, o.ticks)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runInteractive drives the terminal until quit, signal or ingester failure
func runInteractive(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	fifo, err := command.CreateFIFO(cfg.FIFOPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := fifo.Remove(); err != nil {
			log.Warn("fifo cleanup failed", zap.Error(err))
		}
	}()

	screen, err := render.NewScreen()
	if err != nil {
		return err
	}
	defer screen.Fini()

	core.SetCrashCleanup(func() {
		screen.Fini()
		_ = fifo.Remove()
	})
	defer core.SetCrashCleanup(nil)

	width, height := screen.Size()
	world := physics.NewWorld(cfg.World(cfg.Playfield(width, height)))
	world.SeedRandom(cfg.SeedCount)

	sound := audio.NewSoundManager(cfg.AudioConfig())
	if err := sound.Initialize(); err != nil {
		log.Warn("audio unavailable, continuing without sound", zap.Error(err))
	}
	defer sound.Cleanup()

	queue := command.NewQueue()
	ingester := command.NewIngester(queue, log.Named("ingester"))
	loop := engine.NewLoop(engine.Options{
		World:         world,
		Queue:         queue,
		Surface:       screen,
		Quit:          screen,
		Sound:         sound,
		Logger:        log.Named("engine"),
		TickInterval:  cfg.TickInterval,
		Indicator:     cfg.Indicator,
		FollowSurface: cfg.Width == 0 && cfg.Height == 0,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				core.HandleCrash(r)
			}
		}()
		return ingester.Run(gctx, fifo)
	})

	loopErr := loop.Run(gctx)
	if errors.Is(loopErr, engine.ErrQuit) {
		loopErr = nil
	}

	cancel()
	waitErr := waitBounded(g, cfg.ShutdownTimeout)

	log.Info("session summary",
		zap.Uint64("ticks", loop.Ticks()),
		zap.Uint64("accepted", ingester.Accepted()),
		zap.Uint64("rejected", ingester.Rejected()),
		zap.Int("sprites", world.Len()),
	)
	return errors.Join(loopErr, waitErr)
}

// runHeadless applies commands piped on stdin, runs ticks without sleeping and prints the result
func runHeadless(ctx context.Context, cfg *config.Config, log *zap.Logger, stdin io.Reader, stdout io.Writer, ticks int) error {
	world := physics.NewWorld(cfg.World(cfg.Playfield(headlessWidth, headlessHeight)))
	world.SeedRandom(cfg.SeedCount)

	queue := command.NewQueue()
	if stdin != nil && !isTerminal(stdin) {
		ingester := command.NewIngester(queue, log.Named("ingester"))
		if err := ingester.Consume(ctx, stdin); err != nil {
			return fmt.Errorf("read commands: %w", err)
		}
	}

	loop := engine.NewLoop(engine.Options{
		World:     world,
		Queue:     queue,
		Logger:    log.Named("engine"),
		Indicator: cfg.Indicator,
	})
	if err := loop.RunTicks(ctx, ticks); err != nil {
		return err
	}

	return printWorld(stdout, world)
}

// printWorld writes one row per sprite followed by the state fingerprint
func printWorld(w io.Writer, world *physics.World) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GLYPH\tSHAPE\tSIZE\tX\tY\tVX\tVY")
	for _, s := range world.Sprites() {
		fmt.Fprintf(tw, "%c\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
			s.Glyph, s.Shape, s.Size, s.Pos.X(), s.Pos.Y(), s.Vel.X(), s.Vel.Y())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "tick %d sprites %d fingerprint %016x\n", world.Tick(), world.Len(), world.Fingerprint())
	return err
}

// waitBounded joins g, giving up after timeout; a non-positive timeout waits indefinitely
func waitBounded(g *errgroup.Group, timeout time.Duration) error {
	if timeout <= 0 {
		return g.Wait()
	}
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("%w after %s", errShutdownTimeout, timeout)
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
