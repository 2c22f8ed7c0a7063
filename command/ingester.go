package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// MaxLineLength bounds a single control line
const MaxLineLength = 4096

// FIFO is the named pipe the ingester listens on
type FIFO struct {
	Path    string
	created bool
}

// CreateFIFO makes a named pipe at path, reusing an existing one
// Any other file at path is an error
func CreateFIFO(path string) (*FIFO, error) {
	st, err := os.Stat(path)
	switch {
	case err == nil:
		if st.Mode()&fs.ModeNamedPipe == 0 {
			return nil, fmt.Errorf("%s exists and is not a named pipe", path)
		}
		return &FIFO{Path: path}, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := unix.Mkfifo(path, 0o666); err != nil {
		return nil, fmt.Errorf("mkfifo %s: %w", path, err)
	}
	return &FIFO{Path: path, created: true}, nil
}

// Open returns a read handle that never sees EOF when writers disconnect
// Opening read-write keeps a writer reference alive and does not block
func (f *FIFO) Open() (*os.File, error) {
	file, err := os.OpenFile(f.Path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return file, nil
}

// Remove unlinks the pipe if this process created it
func (f *FIFO) Remove() error {
	if !f.created {
		return nil
	}
	if err := unix.Unlink(f.Path); err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("unlink %s: %w", f.Path, err)
	}
	f.created = false
	return nil
}

// Ingester parses control lines and hands them to the tick loop through a Queue
// It never touches the world directly
type Ingester struct {
	queue *Queue
	log   *zap.Logger

	accepted atomic.Uint64
	rejected atomic.Uint64
}

func NewIngester(queue *Queue, log *zap.Logger) *Ingester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingester{queue: queue, log: log}
}

// Accepted returns the number of lines that parsed into commands
func (in *Ingester) Accepted() uint64 { return in.accepted.Load() }

// Rejected returns the number of lines pushed as rejected commands
func (in *Ingester) Rejected() uint64 { return in.rejected.Load() }

// Run consumes the FIFO until ctx is cancelled
// A failed read is logged and the pipe reopened
func (in *Ingester) Run(ctx context.Context, fifo *FIFO) error {
	for {
		file, err := fifo.Open()
		if err != nil {
			return err
		}
		in.log.Info("listening for commands", zap.String("fifo", fifo.Path))

		err = in.Consume(ctx, file)
		_ = file.Close()

		if ctx.Err() != nil {
			in.log.Info("command listener stopped", zap.String("fifo", fifo.Path))
			return nil
		}
		if err != nil {
			in.log.Warn("command read failed, reopening", zap.String("fifo", fifo.Path), zap.Error(err))
		}
	}
}

// Consume reads lines from r until EOF, a read error or cancellation
// On cancellation r is closed when it is an io.Closer, which unblocks a pending read
func (in *Ingester) Consume(ctx context.Context, r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), MaxLineLength)

	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		in.Handle(sc.Text())
	}

	if ctx.Err() != nil {
		return nil
	}
	return sc.Err()
}

// Handle parses a single line and pushes the outcome
func (in *Ingester) Handle(line string) {
	cmd, err := Parse(line)
	switch {
	case errors.Is(err, ErrEmptyLine):
		return
	case err != nil:
		in.rejected.Add(1)
		cmd = Rejected(line, err)
	default:
		in.accepted.Add(1)
	}

	in.log.Debug("command received", zap.Stringer("type", cmd.Type), zap.String("line", cmd.Line))
	if !in.queue.Push(cmd) {
		in.log.Warn("command queue full, dropping",
			zap.String("line", cmd.Line),
			zap.Uint64("dropped", in.queue.Dropped()),
		)
	}
}
