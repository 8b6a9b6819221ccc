package vad

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is the aggressiveness of a detector: the higher the mode, the more
// evidence a frame needs to be classified as speech.
type Mode int

const (
	ModeQuality = Mode(iota)
	ModeLowBitrate
	ModeAggressive
	ModeVeryAggressive

	ModeMin = ModeQuality
	ModeMax = ModeVeryAggressive
)

func (m Mode) IsValid() bool {
	return m >= ModeMin && m <= ModeMax
}

// String just implements fmt.Stringer, flag.Value and pflag.Value.
func (m Mode) String() string {
	switch m {
	case ModeQuality:
		return "quality"
	case ModeLowBitrate:
		return "low_bitrate"
	case ModeAggressive:
		return "aggressive"
	case ModeVeryAggressive:
		return "very_aggressive"
	}
	return fmt.Sprintf("unknown_%d", int(m))
}

// Set updates the mode based on the passed string value.
// This method just implements flag.Value and pflag.Value.
func (m *Mode) Set(value string) error {
	newMode, err := ParseMode(value)
	if err != nil {
		return err
	}
	*m = newMode
	return nil
}

// Type just implements pflag.Value.
func (m *Mode) Type() string {
	return "Mode"
}

func ParseMode(in string) (Mode, error) {
	in = strings.ToLower(strings.TrimSpace(in))
	switch in {
	case "quality", "high_quality":
		return ModeQuality, nil
	case "low_bitrate":
		return ModeLowBitrate, nil
	case "aggressive":
		return ModeAggressive, nil
	case "very_aggressive":
		return ModeVeryAggressive, nil
	}
	if n, err := strconv.Atoi(in); err == nil {
		if m := Mode(n); m.IsValid() {
			return m, nil
		}
		return ModeQuality, ErrInvalidMode{Mode: Mode(n)}
	}
	var allowedValues []string
	for m := ModeMin; m <= ModeMax; m++ {
		allowedValues = append(allowedValues, m.String())
	}
	return ModeQuality, fmt.Errorf("unknown mode '%s', known values are: %s (or 0-%d)",
		in, strings.Join(allowedValues, ", "), int(ModeMax))
}
