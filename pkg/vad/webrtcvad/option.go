package webrtcvad

import (
	"github.com/xaionaro-go/webrtcvad/pkg/vad"
)

type config struct {
	SampleRate    vad.SampleRate
	FrameDuration vad.FrameDuration
	Mode          vad.Mode
}

func defaultConfig() config {
	return config{
		SampleRate:    vad.SampleRate8kHz,
		FrameDuration: vad.FrameDuration10ms,
		Mode:          vad.ModeQuality,
	}
}

type Option interface {
	apply(*config)
}

type Options []Option

func (opts Options) apply(cfg *config) {
	for _, opt := range opts {
		opt.apply(cfg)
	}
}

func (opts Options) config() config {
	cfg := defaultConfig()
	opts.apply(&cfg)
	return cfg
}

type OptionSampleRate vad.SampleRate

func (opt OptionSampleRate) apply(cfg *config) {
	cfg.SampleRate = vad.SampleRate(opt)
}

type OptionFrameDuration vad.FrameDuration

func (opt OptionFrameDuration) apply(cfg *config) {
	cfg.FrameDuration = vad.FrameDuration(opt)
}

type OptionMode vad.Mode

func (opt OptionMode) apply(cfg *config) {
	cfg.Mode = vad.Mode(opt)
}
