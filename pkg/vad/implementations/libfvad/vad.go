//go:build libfvad

// Package libfvad forwards vad.Detector calls to libfvad, the standalone
// build of the WebRTC voice activity detector.
package libfvad

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/josharian/fvad"
	"github.com/xaionaro-go/webrtcvad/pkg/vad"
	"github.com/xaionaro-go/webrtcvad/pkg/vad/webrtcvad"
)

type Detector struct {
	*fvad.Detector
	State      vad.State
	Mode       vad.Mode
	SampleRate int
}

var _ vad.Detector = (*Detector)(nil)

func New() (*Detector, error) {
	detector := fvad.NewDetector()
	if detector == nil {
		return nil, vad.ErrCreate{Err: fmt.Errorf("fvad_new returned NULL")}
	}
	return &Detector{
		Detector: detector,
		State:    vad.StateCreated,
	}, nil
}

// NewVAD returns a stream-level VAD backed by libfvad.
func NewVAD(
	ctx context.Context,
	sampleRate vad.SampleRate,
	sensitivityMode vad.Mode,
) (*webrtcvad.VAD, error) {
	detector, err := New()
	if err != nil {
		return nil, err
	}
	v, err := webrtcvad.New(
		ctx,
		detector,
		webrtcvad.OptionSampleRate(sampleRate),
		webrtcvad.OptionMode(sensitivityMode),
	)
	if err != nil {
		if closeErr := detector.Close(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("unable to close the detector: %w", closeErr))
		}
		return nil, err
	}
	return v, nil
}

// Init brings libfvad back to its defaults by replacing the native instance;
// the mode survives the reset.
func (d *Detector) Init() error {
	if d == nil || d.State == vad.StateClosed {
		return vad.ErrInvalidInstance{State: d.state()}
	}
	if d.State == vad.StateInitialized {
		d.Detector.Close()
		d.Detector = fvad.NewDetector()
		if d.Detector == nil {
			d.State = vad.StateClosed
			return vad.ErrCreate{Err: fmt.Errorf("fvad_new returned NULL")}
		}
		d.SampleRate = 0
	}
	if err := d.Detector.SetMode(int(d.Mode)); err != nil {
		return vad.ErrProcessing{Err: fmt.Errorf("unable to restore the mode: %w", err)}
	}
	d.State = vad.StateInitialized
	return nil
}

func (d *Detector) SetMode(mode vad.Mode) error {
	if d == nil || d.State == vad.StateClosed {
		return vad.ErrInvalidInstance{State: d.state()}
	}
	if !mode.IsValid() {
		return vad.ErrInvalidMode{Mode: mode}
	}
	if err := d.Detector.SetMode(int(mode)); err != nil {
		return vad.ErrInvalidMode{Mode: mode}
	}
	d.Mode = mode
	return nil
}

func (d *Detector) Process(sampleRate int, frame []int16) (bool, error) {
	if d == nil || d.State != vad.StateInitialized {
		return false, vad.ErrInvalidInstance{State: d.state()}
	}
	if err := vad.ValidateFrame(sampleRate, frame); err != nil {
		return false, err
	}
	if d.SampleRate != sampleRate {
		if err := d.Detector.SetSampleRate(sampleRate); err != nil {
			return false, vad.ErrUnsupportedFrame{SampleRate: sampleRate, FrameLength: len(frame)}
		}
		d.SampleRate = sampleRate
	}
	isSpeech, err := d.Detector.Process(frame)
	if err != nil {
		return false, vad.ErrProcessing{Err: err}
	}
	return isSpeech, nil
}

func (d *Detector) Close() error {
	if d == nil || d.State == vad.StateClosed {
		return nil
	}
	d.Detector.Close()
	d.State = vad.StateClosed
	return nil
}

func (d *Detector) state() vad.State {
	if d == nil {
		return vad.StateUndefined
	}
	return d.State
}
