// Package webrtcvad is a managed wrapper around a single vad.Detector: it
// remembers the stream format and the mode, validates every change before
// applying it, and can be shared between goroutines.
package webrtcvad

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/audio/pkg/audio"
	"github.com/xaionaro-go/webrtcvad/pkg/vad"
	"github.com/xaionaro-go/xsync"
)

type VAD struct {
	locker xsync.Mutex

	detector      vad.Detector
	sampleRate    vad.SampleRate
	frameDuration vad.FrameDuration
	mode          vad.Mode
	isClosed      bool
}

var _ vad.VAD = (*VAD)(nil)

// New initializes the detector and takes the ownership of it: it is closed
// by (*VAD).Close.
func New(
	ctx context.Context,
	detector vad.Detector,
	opts ...Option,
) (*VAD, error) {
	if detector == nil {
		return nil, ErrNilDetector{}
	}
	cfg := Options(opts).config()
	if err := validateFormat(cfg.SampleRate, cfg.FrameDuration); err != nil {
		return nil, err
	}
	if err := detector.Init(); err != nil {
		return nil, ErrInitVAD{Err: err}
	}
	if err := detector.SetMode(cfg.Mode); err != nil {
		return nil, ErrInitVAD{Err: err}
	}
	logger.Debugf(ctx, "initialized a VAD: %v Hz, %v frames, mode %s", cfg.SampleRate, cfg.FrameDuration, cfg.Mode)
	return &VAD{
		detector:      detector,
		sampleRate:    cfg.SampleRate,
		frameDuration: cfg.FrameDuration,
		mode:          cfg.Mode,
	}, nil
}

func validateFormat(rate vad.SampleRate, d vad.FrameDuration) error {
	n := vad.FrameSamples(rate, d)
	if !d.IsValid() || !vad.ValidRateAndFrameLength(int(rate), n) {
		return vad.ErrUnsupportedFrame{SampleRate: int(rate), FrameLength: n}
	}
	return nil
}

func (v *VAD) SampleRate() vad.SampleRate {
	return xsync.DoR1(xsync.WithNoLogging(context.TODO(), true), &v.locker, func() vad.SampleRate {
		return v.sampleRate
	})
}

func (v *VAD) FrameDuration() vad.FrameDuration {
	return xsync.DoR1(xsync.WithNoLogging(context.TODO(), true), &v.locker, func() vad.FrameDuration {
		return v.frameDuration
	})
}

func (v *VAD) Mode() vad.Mode {
	return xsync.DoR1(xsync.WithNoLogging(context.TODO(), true), &v.locker, func() vad.Mode {
		return v.mode
	})
}

// FrameSamples is the amount of samples HasSpeech consumes per call.
func (v *VAD) FrameSamples() int {
	return xsync.DoR1(xsync.WithNoLogging(context.TODO(), true), &v.locker, func() int {
		return vad.FrameSamples(v.sampleRate, v.frameDuration)
	})
}

func (v *VAD) SetSampleRate(ctx context.Context, rate vad.SampleRate) error {
	return xsync.DoR1(ctx, &v.locker, func() error {
		if v.isClosed {
			return vad.ErrInvalidInstance{State: vad.StateClosed}
		}
		if err := validateFormat(rate, v.frameDuration); err != nil {
			return err
		}
		v.sampleRate = rate
		return nil
	})
}

func (v *VAD) SetFrameDuration(ctx context.Context, d vad.FrameDuration) error {
	return xsync.DoR1(ctx, &v.locker, func() error {
		if v.isClosed {
			return vad.ErrInvalidInstance{State: vad.StateClosed}
		}
		if err := validateFormat(v.sampleRate, d); err != nil {
			return err
		}
		v.frameDuration = d
		return nil
	})
}

func (v *VAD) SetMode(ctx context.Context, mode vad.Mode) error {
	return xsync.DoR1(ctx, &v.locker, func() error {
		if v.isClosed {
			return vad.ErrInvalidInstance{State: vad.StateClosed}
		}
		if err := v.detector.SetMode(mode); err != nil {
			return fmt.Errorf("unable to set mode %s: %w", mode, err)
		}
		v.mode = mode
		return nil
	})
}

// Reset drops the history of the detector, as if the stream was restarted.
func (v *VAD) Reset(ctx context.Context) error {
	return xsync.DoR1(ctx, &v.locker, func() error {
		if v.isClosed {
			return vad.ErrInvalidInstance{State: vad.StateClosed}
		}
		logger.Debugf(ctx, "resetting the detector")
		return v.detector.Init()
	})
}

// HasSpeech classifies the first frame of S16LE PCM in audioFrame using the
// configured sample rate and frame duration.
func (v *VAD) HasSpeech(ctx context.Context, audioFrame []byte) (bool, error) {
	var (
		isSpeech bool
		err      error
	)
	v.locker.Do(ctx, func() {
		isSpeech, err = v.hasSpeechBytesAtNoLock(ctx, audioFrame, v.sampleRate, v.frameDuration)
	})
	return isSpeech, err
}

// HasSpeechBytesAt is HasSpeech with the passed format instead of the
// configured one.
func (v *VAD) HasSpeechBytesAt(
	ctx context.Context,
	audioFrame []byte,
	sampleRate vad.SampleRate,
	frameDuration vad.FrameDuration,
) (bool, error) {
	var (
		isSpeech bool
		err      error
	)
	v.locker.Do(ctx, func() {
		isSpeech, err = v.hasSpeechBytesAtNoLock(ctx, audioFrame, sampleRate, frameDuration)
	})
	return isSpeech, err
}

func (v *VAD) hasSpeechBytesAtNoLock(
	ctx context.Context,
	audioFrame []byte,
	sampleRate vad.SampleRate,
	frameDuration vad.FrameDuration,
) (bool, error) {
	if v.isClosed {
		return false, vad.ErrInvalidInstance{State: vad.StateClosed}
	}
	if audioFrame == nil {
		return false, vad.ErrNilFrame{}
	}
	if err := validateFormat(sampleRate, frameDuration); err != nil {
		return false, err
	}
	n := vad.FrameSamples(sampleRate, frameDuration)
	if len(audioFrame) < n*2 {
		return false, vad.ErrUnsupportedFrame{SampleRate: int(sampleRate), FrameLength: len(audioFrame) / 2}
	}
	return v.processNoLock(ctx, sampleRate, vad.BytesToInt16(audioFrame[:n*2]))
}

// HasSpeechSamples is HasSpeech for already decoded samples.
func (v *VAD) HasSpeechSamples(ctx context.Context, audioFrame []int16) (bool, error) {
	var (
		isSpeech bool
		err      error
	)
	v.locker.Do(ctx, func() {
		isSpeech, err = v.hasSpeechAtNoLock(ctx, audioFrame, v.sampleRate, v.frameDuration)
	})
	return isSpeech, err
}

// HasSpeechAt classifies the first frame of audioFrame using the passed
// format instead of the configured one.
func (v *VAD) HasSpeechAt(
	ctx context.Context,
	audioFrame []int16,
	sampleRate vad.SampleRate,
	frameDuration vad.FrameDuration,
) (bool, error) {
	var (
		isSpeech bool
		err      error
	)
	v.locker.Do(ctx, func() {
		isSpeech, err = v.hasSpeechAtNoLock(ctx, audioFrame, sampleRate, frameDuration)
	})
	return isSpeech, err
}

func (v *VAD) hasSpeechAtNoLock(
	ctx context.Context,
	audioFrame []int16,
	sampleRate vad.SampleRate,
	frameDuration vad.FrameDuration,
) (bool, error) {
	if v.isClosed {
		return false, vad.ErrInvalidInstance{State: vad.StateClosed}
	}
	if audioFrame == nil {
		return false, vad.ErrNilFrame{}
	}
	if err := validateFormat(sampleRate, frameDuration); err != nil {
		return false, err
	}
	n := vad.FrameSamples(sampleRate, frameDuration)
	if len(audioFrame) < n {
		return false, vad.ErrUnsupportedFrame{SampleRate: int(sampleRate), FrameLength: len(audioFrame)}
	}
	return v.processNoLock(ctx, sampleRate, audioFrame[:n])
}

func (v *VAD) processNoLock(
	ctx context.Context,
	sampleRate vad.SampleRate,
	frame []int16,
) (bool, error) {
	if v.isClosed {
		return false, vad.ErrInvalidInstance{State: vad.StateClosed}
	}
	isSpeech, err := v.detector.Process(int(sampleRate), frame)
	logger.Tracef(ctx, "Process(%d, <%d samples>) -> %v, %v", sampleRate, len(frame), isSpeech, err)
	if err != nil {
		return false, fmt.Errorf("unable to process an audio frame of %d samples at %d Hz: %w", len(frame), sampleRate, err)
	}
	return isSpeech, nil
}

// IsSpeechBatch classifies consecutive frames of S16LE PCM, stopping at the
// first error.
func (v *VAD) IsSpeechBatch(ctx context.Context, frames [][]byte) ([]bool, error) {
	results := make([]bool, len(frames))
	for i, frame := range frames {
		isSpeech, err := v.HasSpeech(ctx, frame)
		if err != nil {
			return results[:i], fmt.Errorf("frame %d: %w", i, err)
		}
		results[i] = isSpeech
	}
	return results, nil
}

func (v *VAD) Close() error {
	var err error
	v.locker.Do(xsync.WithNoLogging(context.TODO(), true), func() {
		if v.isClosed {
			return
		}
		v.isClosed = true
		err = v.detector.Close()
	})
	return err
}

func (v *VAD) Encoding(context.Context) (audio.Encoding, error) {
	return v.EncodingNoErr(), nil
}

func (v *VAD) EncodingNoErr() audio.EncodingPCM {
	return audio.EncodingPCM{
		PCMFormat:  audio.PCMFormatS16LE,
		SampleRate: audio.SampleRate(v.SampleRate()),
	}
}

func (v *VAD) Channels(context.Context) (audio.Channel, error) {
	return v.ChannelsNoErr(), nil
}

func (*VAD) ChannelsNoErr() audio.Channel {
	return 1
}

// FindNextVoice scans S16LE samples with the largest frames that fit (30, 20
// or 10 ms) and reports whether at least minDuration of voice was found, and
// the offset of the first voiced frame (-1 if none). The detector is binary,
// so a voiced frame has the confidence of 1.
func (v *VAD) FindNextVoice(
	ctx context.Context,
	samples []byte,
	confidenceThreshold float64,
	minDuration time.Duration,
) (float64, time.Duration, error) {
	firstVoiceDetection := time.Duration(-1)
	if len(samples) == 0 || confidenceThreshold > 1 {
		return 0, firstVoiceDetection, nil
	}

	var (
		result float64
		err    error
	)
	v.locker.Do(ctx, func() {
		var (
			foundVoiceFor time.Duration
			pos           time.Duration
		)
		for {
			frameDuration, ok := v.largestFittingFrameNoLock(len(samples))
			if !ok {
				return
			}
			frameBytes := vad.FrameSamples(v.sampleRate, frameDuration) * 2
			frame := vad.BytesToInt16(samples[:frameBytes])
			samples = samples[frameBytes:]

			var isSpeech bool
			isSpeech, err = v.processNoLock(ctx, v.sampleRate, frame)
			if err != nil {
				return
			}

			if isSpeech {
				foundVoiceFor += time.Duration(frameDuration)
				if firstVoiceDetection < 0 {
					firstVoiceDetection = pos
				}
				if foundVoiceFor >= minDuration {
					result = 1
					return
				}
			}
			pos += time.Duration(frameDuration)
		}
	})
	return result, firstVoiceDetection, err
}

func (v *VAD) largestFittingFrameNoLock(availableBytes int) (vad.FrameDuration, bool) {
	durations := vad.SupportedFrameDurations
	for i := len(durations) - 1; i >= 0; i-- {
		if availableBytes >= vad.FrameSamples(v.sampleRate, durations[i])*2 {
			return durations[i], true
		}
	}
	return 0, false
}
