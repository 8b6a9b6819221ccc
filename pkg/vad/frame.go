package vad

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type SampleRate int

const (
	SampleRate8kHz  = SampleRate(8000)
	SampleRate16kHz = SampleRate(16000)
	SampleRate32kHz = SampleRate(32000)
	SampleRate48kHz = SampleRate(48000)
)

// SupportedSampleRates lists the rates accepted by detectors, ascending.
var SupportedSampleRates = []SampleRate{
	SampleRate8kHz,
	SampleRate16kHz,
	SampleRate32kHz,
	SampleRate48kHz,
}

func (r SampleRate) IsValid() bool {
	for _, supported := range SupportedSampleRates {
		if r == supported {
			return true
		}
	}
	return false
}

// String just implements fmt.Stringer, flag.Value and pflag.Value.
func (r SampleRate) String() string {
	return strconv.Itoa(int(r))
}

// Set just implements flag.Value and pflag.Value.
func (r *SampleRate) Set(value string) error {
	value = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), "hz")
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("unable to parse sample rate '%s': %w", value, err)
	}
	if !SampleRate(n).IsValid() {
		return fmt.Errorf("unsupported sample rate %d, supported rates are: %v", n, SupportedSampleRates)
	}
	*r = SampleRate(n)
	return nil
}

// Type just implements pflag.Value.
func (r *SampleRate) Type() string {
	return "SampleRate"
}

// FrameDuration is the length of a single classification unit.
type FrameDuration time.Duration

const (
	FrameDuration10ms = FrameDuration(10 * time.Millisecond)
	FrameDuration20ms = FrameDuration(20 * time.Millisecond)
	FrameDuration30ms = FrameDuration(30 * time.Millisecond)
)

// SupportedFrameDurations lists the accepted durations, ascending.
var SupportedFrameDurations = []FrameDuration{
	FrameDuration10ms,
	FrameDuration20ms,
	FrameDuration30ms,
}

func (d FrameDuration) IsValid() bool {
	for _, supported := range SupportedFrameDurations {
		if d == supported {
			return true
		}
	}
	return false
}

func (d FrameDuration) Milliseconds() int {
	return int(time.Duration(d) / time.Millisecond)
}

// String just implements fmt.Stringer, flag.Value and pflag.Value.
func (d FrameDuration) String() string {
	return time.Duration(d).String()
}

// Set accepts either a Go duration ("20ms") or a bare number of milliseconds.
// This method just implements flag.Value and pflag.Value.
func (d *FrameDuration) Set(value string) error {
	value = strings.TrimSpace(value)
	var parsed time.Duration
	if ms, err := strconv.Atoi(value); err == nil {
		parsed = time.Duration(ms) * time.Millisecond
	} else {
		parsed, err = time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("unable to parse frame duration '%s': %w", value, err)
		}
	}
	if !FrameDuration(parsed).IsValid() {
		return fmt.Errorf("unsupported frame duration %v, supported durations are: %v", parsed, SupportedFrameDurations)
	}
	*d = FrameDuration(parsed)
	return nil
}

// Type just implements pflag.Value.
func (d *FrameDuration) Type() string {
	return "FrameDuration"
}

// FrameSamples returns the amount of samples a frame of duration d contains
// at the given rate.
func FrameSamples(rate SampleRate, d FrameDuration) int {
	return int(rate) / 1000 * d.Milliseconds()
}

// FrameDurationOf is the inverse of FrameSamples. It returns false if
// the combination is not supported.
func FrameDurationOf(rate int, frameLength int) (FrameDuration, bool) {
	if !SampleRate(rate).IsValid() {
		return 0, false
	}
	for _, d := range SupportedFrameDurations {
		if FrameSamples(SampleRate(rate), d) == frameLength {
			return d, true
		}
	}
	return 0, false
}

// ValidRateAndFrameLength reports whether frameLength samples at the given
// rate form a supported frame. Detectors enforce exactly this rule.
func ValidRateAndFrameLength(rate int, frameLength int) bool {
	_, ok := FrameDurationOf(rate, frameLength)
	return ok
}

// ValidateFrame is the error-returning form of ValidRateAndFrameLength used by
// detectors before classification.
func ValidateFrame(rate int, frame []int16) error {
	if frame == nil {
		return ErrNilFrame{}
	}
	if !ValidRateAndFrameLength(rate, len(frame)) {
		return ErrUnsupportedFrame{SampleRate: rate, FrameLength: len(frame)}
	}
	return nil
}
