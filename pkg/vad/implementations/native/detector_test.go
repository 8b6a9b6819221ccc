package native

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/webrtcvad/pkg/vad"
)

func sine(numSamples int, frequency float64, sampleRate int, amplitude float64) []int16 {
	samples := make([]int16, numSamples)
	for i := range samples {
		samples[i] = int16(amplitude * math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate)))
	}
	return samples
}

func newInitialized(t *testing.T, mode vad.Mode) *Detector {
	d, err := New()
	require.NoError(t, err)
	require.NoError(t, d.Init())
	require.NoError(t, d.SetMode(mode))
	return d
}

func TestSilenceScenario(t *testing.T) {
	d, err := New()
	require.NoError(t, err)
	require.Equal(t, vad.StateCreated, d.State())

	require.NoError(t, d.Init())
	require.NoError(t, d.SetMode(vad.ModeQuality))

	isSpeech, err := d.Process(16000, make([]int16, 320))
	require.NoError(t, err)
	assert.False(t, isSpeech)
	assert.Equal(t, uint64(1), d.FramesProcessed())
}

func TestLoudToneIsSpeech(t *testing.T) {
	for _, mode := range []vad.Mode{vad.ModeQuality, vad.ModeLowBitrate, vad.ModeAggressive, vad.ModeVeryAggressive} {
		t.Run(mode.String(), func(t *testing.T) {
			d := newInitialized(t, mode)
			isSpeech, err := d.Process(16000, sine(320, 500, 16000, 8000))
			require.NoError(t, err)
			assert.True(t, isSpeech)
		})
	}
}

func TestModeAffectsSensitivity(t *testing.T) {
	// ~40 dB against the initial 30 dB noise floor
	frame := sine(320, 500, 16000, 141)

	for mode, expected := range map[vad.Mode]bool{
		vad.ModeQuality:        true,
		vad.ModeAggressive:     false,
		vad.ModeVeryAggressive: false,
	} {
		t.Run(mode.String(), func(t *testing.T) {
			d := newInitialized(t, mode)
			isSpeech, err := d.Process(16000, frame)
			require.NoError(t, err)
			assert.Equal(t, expected, isSpeech)
		})
	}
}

func TestHangover(t *testing.T) {
	for _, mode := range []vad.Mode{vad.ModeQuality, vad.ModeVeryAggressive} {
		t.Run(mode.String(), func(t *testing.T) {
			d := newInitialized(t, mode)

			isSpeech, err := d.Process(16000, sine(160, 500, 16000, 8000))
			require.NoError(t, err)
			require.True(t, isSpeech)

			quiet := sine(160, 500, 16000, 10)
			voiced := 0
			for i := 0; i < 100; i++ {
				isSpeech, err := d.Process(16000, quiet)
				require.NoError(t, err)
				if !isSpeech {
					break
				}
				voiced++
			}
			assert.Equal(t, int(HangoverFor(mode)/(10*time.Millisecond)), voiced)
		})
	}
}

func TestSilenceCancelsHangover(t *testing.T) {
	d := newInitialized(t, vad.ModeQuality)

	isSpeech, err := d.Process(8000, sine(80, 500, 8000, 8000))
	require.NoError(t, err)
	require.True(t, isSpeech)

	isSpeech, err = d.Process(8000, make([]int16, 80))
	require.NoError(t, err)
	assert.False(t, isSpeech)
}

func TestInitResetsHistory(t *testing.T) {
	quiet := sine(480, 500, 48000, 10)

	fresh := newInitialized(t, vad.ModeQuality)
	expected, err := fresh.Process(48000, quiet)
	require.NoError(t, err)
	require.False(t, expected)

	d := newInitialized(t, vad.ModeQuality)
	for i := 0; i < 5; i++ {
		isSpeech, err := d.Process(48000, sine(480, 500, 48000, 8000))
		require.NoError(t, err)
		require.True(t, isSpeech)
	}

	require.NoError(t, d.Init())
	require.NoError(t, d.Init())
	assert.Equal(t, uint64(0), d.FramesProcessed())
	assert.Equal(t, InitialNoiseFloorDB, d.NoiseFloorDB())

	isSpeech, err := d.Process(48000, quiet)
	require.NoError(t, err)
	assert.Equal(t, expected, isSpeech)

	isSpeech, err = d.Process(48000, make([]int16, 480))
	require.NoError(t, err)
	assert.False(t, isSpeech)
}

func TestDeterminism(t *testing.T) {
	var frames [][]int16
	seed := uint32(1)
	for i := 0; i < 200; i++ {
		frame := make([]int16, 240)
		amplitude := int32(1 << (i % 14))
		for j := range frame {
			seed = seed*1664525 + 1013904223
			frame[j] = int16(int32(seed>>16)%amplitude - amplitude/2)
		}
		frames = append(frames, frame)
	}

	run := func() []bool {
		d := newInitialized(t, vad.ModeAggressive)
		var result []bool
		for _, frame := range frames {
			isSpeech, err := d.Process(8000, frame)
			require.NoError(t, err)
			result = append(result, isSpeech)
		}
		return result
	}

	first := run()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, run())
	}
	assert.Contains(t, first, true)
	assert.Contains(t, first, false)
}

func TestSetMode(t *testing.T) {
	d := newInitialized(t, vad.ModeAggressive)

	for _, mode := range []vad.Mode{-1, 4, 42} {
		err := d.SetMode(mode)
		var errMode vad.ErrInvalidMode
		require.ErrorAs(t, err, &errMode)
		assert.Equal(t, mode, errMode.Mode)
		assert.Equal(t, vad.ModeAggressive, d.Mode())
	}

	require.NoError(t, d.SetMode(vad.ModeVeryAggressive))
	assert.Equal(t, vad.ModeVeryAggressive, d.Mode())
}

func TestLifecycleErrors(t *testing.T) {
	frame := make([]int16, 160)

	t.Run("before init", func(t *testing.T) {
		d, err := New()
		require.NoError(t, err)
		_, err = d.Process(16000, frame)
		var errInstance vad.ErrInvalidInstance
		require.ErrorAs(t, err, &errInstance)
		assert.Equal(t, vad.StateCreated, errInstance.State)
	})

	t.Run("after close", func(t *testing.T) {
		d := newInitialized(t, vad.ModeQuality)
		require.NoError(t, d.Close())
		require.NoError(t, d.Close())

		_, err := d.Process(16000, frame)
		var errInstance vad.ErrInvalidInstance
		require.ErrorAs(t, err, &errInstance)
		assert.Equal(t, vad.StateClosed, errInstance.State)

		require.ErrorAs(t, d.Init(), &errInstance)
		require.ErrorAs(t, d.SetMode(vad.ModeQuality), &errInstance)
	})

	t.Run("nil instance", func(t *testing.T) {
		var d *Detector
		var errInstance vad.ErrInvalidInstance
		assert.NotPanics(t, func() {
			_, err := d.Process(16000, frame)
			require.ErrorAs(t, err, &errInstance)
			require.ErrorAs(t, d.Init(), &errInstance)
			require.ErrorAs(t, d.SetMode(vad.ModeQuality), &errInstance)
			require.NoError(t, d.Close())
		})
		assert.Equal(t, vad.StateUndefined, d.State())
	})

	t.Run("nil frame", func(t *testing.T) {
		d := newInitialized(t, vad.ModeQuality)
		_, err := d.Process(16000, nil)
		require.ErrorAs(t, err, &vad.ErrNilFrame{})
	})
}

func TestProcessMatchesValidRateAndFrameLength(t *testing.T) {
	d := newInitialized(t, vad.ModeQuality)
	rates := []int{-8000, 0, 4000, 8000, 11025, 16000, 22050, 32000, 44100, 48000, 96000}
	for _, rate := range rates {
		for length := 0; length <= 1500; length++ {
			_, err := d.Process(rate, make([]int16, length))
			if vad.ValidRateAndFrameLength(rate, length) {
				require.NoError(t, err, "rate %d, length %d", rate, length)
				continue
			}
			var errFrame vad.ErrUnsupportedFrame
			require.ErrorAs(t, err, &errFrame, "rate %d, length %d", rate, length)
			assert.Equal(t, rate, errFrame.SampleRate)
			assert.Equal(t, length, errFrame.FrameLength)
		}
	}
}
