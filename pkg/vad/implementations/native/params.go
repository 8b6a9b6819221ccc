package native

import (
	"time"

	"github.com/xaionaro-go/webrtcvad/pkg/vad"
)

const (
	// MinEnergy is the mean sample power at or below which a frame is
	// non-speech regardless of the mode. It also cancels the hangover.
	MinEnergy = 10.0

	InitialNoiseFloorDB = 30.0
	MinNoiseFloorDB     = 10.0

	// ZCRPenaltyDB is added to the margin of noise-like (high zero-crossing
	// rate) frames in the modes which look at the zero-crossing rate.
	ZCRPenaltyDB = 6.0

	// noise floor adaptation per 10ms of audio
	noiseAdaptDown   = 0.5
	noiseAdaptUp     = 0.05
	noiseAdaptSpeech = 0.002
)

type modeParams struct {
	MarginDB float64
	ZCRLimit float64
	Hangover time.Duration
}

var paramsByMode = [...]modeParams{
	vad.ModeQuality: {
		MarginDB: 6,
		ZCRLimit: 1,
		Hangover: 200 * time.Millisecond,
	},
	vad.ModeLowBitrate: {
		MarginDB: 9,
		ZCRLimit: 1,
		Hangover: 150 * time.Millisecond,
	},
	vad.ModeAggressive: {
		MarginDB: 12,
		ZCRLimit: 0.5,
		Hangover: 100 * time.Millisecond,
	},
	vad.ModeVeryAggressive: {
		MarginDB: 15,
		ZCRLimit: 0.35,
		Hangover: 50 * time.Millisecond,
	},
}

// HangoverFor returns for how long speech is still reported after the last
// voiced frame in the given mode.
func HangoverFor(mode vad.Mode) time.Duration {
	if !mode.IsValid() {
		return 0
	}
	return paramsByMode[mode].Hangover
}
