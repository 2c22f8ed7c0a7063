package core

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stubCrash(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()
	var out bytes.Buffer
	code := -1

	prevOut, prevExit := crashOut, crashExit
	crashOut = &out
	crashExit = func(c int) { code = c }
	t.Cleanup(func() {
		crashOut, crashExit = prevOut, prevExit
		SetCrashCleanup(nil)
	})
	return &out, &code
}

func TestHandleCrash_RunsCleanupThenExits(t *testing.T) {
	out, code := stubCrash(t)

	cleaned := false
	SetCrashCleanup(func() {
		cleaned = true
		assert.Zero(t, out.Len(), "terminal restored before the report is printed")
	})

	HandleCrash("boom")

	assert.True(t, cleaned)
	assert.Equal(t, 1, *code)
	assert.Contains(t, out.String(), "CRASH DETECTED: boom")
	assert.Contains(t, out.String(), "Stack Trace:")
}

func TestHandleCrash_NilIsNoop(t *testing.T) {
	out, code := stubCrash(t)
	HandleCrash(nil)
	assert.Equal(t, -1, *code)
	assert.Zero(t, out.Len())
}

func TestGo_RecoversPanic(t *testing.T) {
	out, _ := stubCrash(t)

	exited := make(chan int, 1)
	crashExit = func(c int) { exited <- c }

	Go(func() { panic("worker failed") })

	select {
	case c := <-exited:
		assert.Equal(t, 1, c)
	case <-time.After(time.Second):
		t.Fatal("panic was not handled")
	}
	assert.Contains(t, out.String(), "worker failed")
}
