// Package audio plays short synthesized cues for wall bounces and sprite collisions
package audio

import (
	"errors"
	"time"
)

// SoundType represents different sound effects
type SoundType int

const (
	SoundBounce    SoundType = iota // Sprite reflected off the frame
	SoundCollision                  // Two sprites overlapped
	soundTypeCount
)

// Effect timings
const (
	BounceSoundDuration = 40 * time.Millisecond
	BounceSoundAttack   = 2 * time.Millisecond
	BounceSoundRelease  = 30 * time.Millisecond

	CollisionSoundDuration = 70 * time.Millisecond
	CollisionSoundAttack   = 3 * time.Millisecond
	CollisionSoundRelease  = 50 * time.Millisecond
)

// AudioConfig holds playback settings
type AudioConfig struct {
	Enabled       bool
	SampleRate    int
	MasterVolume  float64
	EffectVolumes [soundTypeCount]float64
}

// DefaultAudioConfig returns a muted configuration with usable levels
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      false,
		SampleRate:   44100,
		MasterVolume: 0.5,
		EffectVolumes: [soundTypeCount]float64{
			SoundBounce:    0.6,
			SoundCollision: 0.8,
		},
	}
}

var ErrNotStarted = errors.New("audio player not started")
