// Package native is a dependency-free voice activity detector implementing
// vad.Detector.
//
// Every frame is reduced to its mean power and zero-crossing rate. The
// log-energy is compared with an adaptive noise floor: a frame is voiced if it
// exceeds the floor by the margin of the current mode. After a voiced frame
// the detector keeps reporting speech for a mode-dependent hangover so that
// word endings are not clipped. The output depends only on the frames seen
// since the last Init.
package native

import (
	"time"

	"github.com/xaionaro-go/webrtcvad/pkg/vad"
)

type Detector struct {
	state vad.State
	mode  vad.Mode

	noiseFloorDB float64
	hangoverLeft time.Duration
	frames       uint64
}

var _ vad.Detector = (*Detector)(nil)

// New allocates a detector in the Created state; Init must be called
// before the first Process.
func New() (*Detector, error) {
	return &Detector{
		state: vad.StateCreated,
		mode:  vad.ModeQuality,
	}, nil
}

func (d *Detector) Init() error {
	if d == nil {
		return vad.ErrInvalidInstance{State: vad.StateUndefined}
	}
	if d.state != vad.StateCreated && d.state != vad.StateInitialized {
		return vad.ErrInvalidInstance{State: d.state}
	}
	d.noiseFloorDB = InitialNoiseFloorDB
	d.hangoverLeft = 0
	d.frames = 0
	d.state = vad.StateInitialized
	return nil
}

func (d *Detector) SetMode(mode vad.Mode) error {
	if d == nil {
		return vad.ErrInvalidInstance{State: vad.StateUndefined}
	}
	if d.state != vad.StateCreated && d.state != vad.StateInitialized {
		return vad.ErrInvalidInstance{State: d.state}
	}
	if !mode.IsValid() {
		return vad.ErrInvalidMode{Mode: mode}
	}
	d.mode = mode
	return nil
}

func (d *Detector) Process(sampleRate int, frame []int16) (bool, error) {
	if d == nil {
		return false, vad.ErrInvalidInstance{State: vad.StateUndefined}
	}
	if d.state != vad.StateInitialized {
		return false, vad.ErrInvalidInstance{State: d.state}
	}
	if err := vad.ValidateFrame(sampleRate, frame); err != nil {
		return false, err
	}
	duration, _ := vad.FrameDurationOf(sampleRate, len(frame))

	isSpeech := d.classify(extractFeatures(frame), time.Duration(duration))
	d.frames++
	return isSpeech, nil
}

func (d *Detector) classify(f features, duration time.Duration) bool {
	frameMs := int(duration / time.Millisecond)
	params := paramsByMode[d.mode]

	if f.Power <= MinEnergy {
		d.hangoverLeft = 0
		return false
	}

	margin := params.MarginDB
	if f.ZCR > params.ZCRLimit {
		margin += ZCRPenaltyDB
	}

	if f.EnergyDB-d.noiseFloorDB >= margin {
		d.hangoverLeft = params.Hangover
		d.adaptNoiseFloor(f.EnergyDB, adaptRate(noiseAdaptSpeech, frameMs))
		return true
	}

	if f.EnergyDB < d.noiseFloorDB {
		d.adaptNoiseFloor(f.EnergyDB, adaptRate(noiseAdaptDown, frameMs))
	} else {
		d.adaptNoiseFloor(f.EnergyDB, adaptRate(noiseAdaptUp, frameMs))
	}

	if d.hangoverLeft <= 0 {
		return false
	}
	d.hangoverLeft -= duration
	if d.hangoverLeft < 0 {
		d.hangoverLeft = 0
	}
	return true
}

func (d *Detector) adaptNoiseFloor(energyDB float64, rate float64) {
	d.noiseFloorDB += rate * (energyDB - d.noiseFloorDB)
	if d.noiseFloorDB < MinNoiseFloorDB {
		d.noiseFloorDB = MinNoiseFloorDB
	}
}

// Close releases the detector; it may be called more than once.
func (d *Detector) Close() error {
	if d == nil {
		return nil
	}
	d.state = vad.StateClosed
	d.hangoverLeft = 0
	return nil
}

func (d *Detector) State() vad.State {
	if d == nil {
		return vad.StateUndefined
	}
	return d.state
}

func (d *Detector) Mode() vad.Mode {
	return d.mode
}

func (d *Detector) NoiseFloorDB() float64 {
	return d.noiseFloorDB
}

// FramesProcessed is the amount of frames classified since the last Init.
func (d *Detector) FramesProcessed() uint64 {
	return d.frames
}
