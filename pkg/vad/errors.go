package vad

import (
	"fmt"
)

type ErrCreate struct {
	Err error
}

func (e ErrCreate) Error() string {
	return fmt.Sprintf("unable to create a detector instance: %v", e.Err)
}

func (e ErrCreate) Unwrap() error {
	return e.Err
}

// ErrInvalidInstance is returned when an operation is called on a detector
// which is nil, not initialized yet or already closed.
type ErrInvalidInstance struct {
	State State
}

func (e ErrInvalidInstance) Error() string {
	switch e.State {
	case StateCreated:
		return "the detector is not initialized"
	case StateClosed:
		return "the detector is closed"
	}
	return fmt.Sprintf("invalid detector instance (state: %s)", e.State)
}

type ErrInvalidMode struct {
	Mode Mode
}

func (e ErrInvalidMode) Error() string {
	return fmt.Sprintf("invalid mode %d, expected a value in range [%d, %d]", int(e.Mode), int(ModeMin), int(ModeMax))
}

type ErrUnsupportedFrame struct {
	SampleRate  int
	FrameLength int
}

func (e ErrUnsupportedFrame) Error() string {
	return fmt.Sprintf(
		"unsupported frame: %d samples at %d Hz (expected 10, 20 or 30 ms at 8000, 16000, 32000 or 48000 Hz)",
		e.FrameLength, e.SampleRate,
	)
}

type ErrNilFrame struct{}

func (ErrNilFrame) Error() string {
	return "the frame is nil"
}

// ErrProcessing is a classification failure which is not caused by invalid input.
type ErrProcessing struct {
	Err error
}

func (e ErrProcessing) Error() string {
	return fmt.Sprintf("unable to process the frame: %v", e.Err)
}

func (e ErrProcessing) Unwrap() error {
	return e.Err
}
