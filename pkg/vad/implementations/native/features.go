package native

import (
	"math"
)

type features struct {
	Power    float64
	EnergyDB float64
	ZCR      float64
}

func extractFeatures(frame []int16) features {
	var (
		sum       float64
		crossings int
	)
	for i, s := range frame {
		v := float64(s)
		sum += v * v
		if i > 0 && (s < 0) != (frame[i-1] < 0) {
			crossings++
		}
	}

	var f features
	if len(frame) == 0 {
		return f
	}
	f.Power = sum / float64(len(frame))
	if f.Power > 0 {
		f.EnergyDB = 10 * math.Log10(f.Power)
	}
	if len(frame) > 1 {
		f.ZCR = float64(crossings) / float64(len(frame)-1)
	}
	return f
}

// adaptRate converts a per-10ms smoothing factor into the factor for a
// frame of the given length.
func adaptRate(per10ms float64, frameMs int) float64 {
	return 1 - math.Pow(1-per10ms, float64(frameMs)/10)
}
