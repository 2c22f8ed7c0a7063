package command

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestIngester_ConsumeUntilEOF(t *testing.T) {
	q := NewQueue()
	in := NewIngester(q, zaptest.NewLogger(t))

	input := strings.Join([]string{
		"add S A 3 5 5 1 1",
		"",
		"# spawn a few",
		"random 2",
		"add X A 3 5 5 1 1",
		"set coe 0.9",
	}, "\n")

	err := in.Consume(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	got := q.Consume()
	require.Len(t, got, 4)
	assert.Equal(t, TypeAddSprite, got[0].Type)
	assert.Equal(t, TypeSeedRandom, got[1].Type)
	assert.Equal(t, TypeRejected, got[2].Type)
	assert.Equal(t, "add X A 3 5 5 1 1", got[2].Line)
	assert.Equal(t, TypeSetRestitution, got[3].Type)

	assert.Equal(t, uint64(3), in.Accepted())
	assert.Equal(t, uint64(1), in.Rejected())
}

func TestIngester_CancelUnblocksRead(t *testing.T) {
	q := NewQueue()
	in := NewIngester(q, nil)

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- in.Consume(ctx, pr) }()

	_, err := pw.Write([]byte("clear\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return q.Len() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Consume did not return after cancellation")
	}
}

func TestIngester_LineTooLong(t *testing.T) {
	in := NewIngester(NewQueue(), nil)
	long := "remove " + strings.Repeat("x", MaxLineLength+1)
	err := in.Consume(context.Background(), strings.NewReader(long))
	assert.Error(t, err)
}

func TestFIFO_CreateReuseRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl")

	f, err := CreateFIFO(path)
	require.NoError(t, err)
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, st.Mode()&os.ModeNamedPipe)

	// Existing pipe is reused and left in place by the second owner
	again, err := CreateFIFO(path)
	require.NoError(t, err)
	require.NoError(t, again.Remove())
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, f.Remove())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, f.Remove())
}

func TestFIFO_RegularFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := CreateFIFO(path)
	assert.Error(t, err)
}

func TestIngester_RunOverFIFO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl")
	fifo, err := CreateFIFO(path)
	require.NoError(t, err)
	defer fifo.Remove()

	q := NewQueue()
	in := NewIngester(q, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- in.Run(ctx, fifo) }()

	// Writers come and go without ending the listener
	for _, line := range []string{"random 3\n", "set gravity 0\n"} {
		w, err := os.OpenFile(path, os.O_WRONLY, 0)
		require.NoError(t, err)
		_, err = w.WriteString(line)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	require.Eventually(t, func() bool { return q.Len() == 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	got := q.Consume()
	require.Len(t, got, 2)
	assert.Equal(t, TypeSeedRandom, got[0].Type)
	assert.Equal(t, TypeSetGravity, got[1].Type)
}

func TestIngester_FullQueueLogsDrop(t *testing.T) {
	obsCore, logs := observer.New(zapcore.WarnLevel)
	q := NewQueue()
	in := NewIngester(q, zap.New(obsCore))

	for range QueueSize {
		in.Handle("clear")
	}
	assert.Zero(t, logs.Len())

	in.Handle("random 3")
	drops := logs.FilterMessage("command queue full, dropping").All()
	require.Len(t, drops, 1)
	assert.Equal(t, "random 3", drops[0].ContextMap()["line"])
	assert.Equal(t, uint64(1), q.Dropped())
	assert.Len(t, q.Consume(), QueueSize)
}
