package vad

import (
	"context"
	"io"
	"time"

	"github.com/xaionaro-go/audio/pkg/audio"
)

// Detector is the flat operation set of a frame-level voice activity detector.
//
// A Detector is bound to a single audio stream and keeps the history it needs
// for smoothing between calls, so it must not be used from several goroutines
// at once without external locking. Distinct detectors are independent.
//
// State machine: Created -> Init -> (SetMode | Process)* -> Close.
type Detector interface {
	io.Closer

	// Init resets the history to defaults. It must be called before the
	// first Process and may be called again to restart the stream.
	Init() error

	// SetMode changes the aggressiveness used by the following frames.
	SetMode(Mode) error

	// Process classifies exactly one frame, returning true for speech.
	Process(sampleRate int, frame []int16) (bool, error)
}

type VAD interface {
	io.Closer

	Encoding(context.Context) (audio.Encoding, error)
	Channels(context.Context) (audio.Channel, error)

	FindNextVoice(
		_ context.Context,
		samples []byte,
		confidenceThreshold float64,
		minDuration time.Duration,
	) (float64, time.Duration, error)
}
