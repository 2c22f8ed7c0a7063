package audio

import (
	"testing"
)

// TestSoundManagerGracefulDegradation verifies calls are safe without a device
func TestSoundManagerGracefulDegradation(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm := NewSoundManager(nil)
	sm.Play(SoundBounce)
	sm.Play(SoundCollision)
	sm.Cleanup()

	if sm.Played(SoundBounce) != 0 {
		t.Error("Expected no cues queued before Initialize")
	}

	var nilManager *SoundManager
	nilManager.Play(SoundBounce)
	nilManager.Cleanup()
	if err := nilManager.Initialize(); err != nil {
		t.Errorf("Expected nil manager Initialize to be a no-op, got %v", err)
	}
	if nilManager.Enabled() {
		t.Error("Expected nil manager to be disabled")
	}
}

// TestSoundManagerDisabled verifies a disabled config never opens the device
func TestSoundManagerDisabled(t *testing.T) {
	sm := NewSoundManager(DefaultAudioConfig())
	if err := sm.Initialize(); err != nil {
		t.Fatalf("Expected disabled Initialize to succeed, got %v", err)
	}
	if sm.Enabled() {
		t.Error("Expected disabled manager to stay closed")
	}
	sm.Play(SoundCollision)
	if sm.Played(SoundCollision) != 0 {
		t.Error("Expected disabled manager to drop cues")
	}
}

// TestSoundManagerInitialization verifies the device lifecycle when one exists
func TestSoundManagerInitialization(t *testing.T) {
	cfg := DefaultAudioConfig()
	cfg.Enabled = true
	sm := NewSoundManager(cfg)

	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	defer sm.Cleanup()

	if err := sm.Initialize(); err != nil {
		t.Errorf("Second initialization should be a no-op, got: %v", err)
	}
	sm.Play(SoundBounce)
	if sm.Played(SoundBounce) != 1 {
		t.Errorf("Expected 1 bounce cue, got %d", sm.Played(SoundBounce))
	}
}
