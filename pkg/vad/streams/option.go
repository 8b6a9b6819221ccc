package streams

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/xaionaro-go/webrtcvad/pkg/vad/webrtcvad"
)

const DefaultLimit = 1024

type config struct {
	Limit         uint
	MeterProvider metric.MeterProvider
	VADOptions    webrtcvad.Options
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
	cfg := config{
		Limit: DefaultLimit,
	}
	opts.apply(&cfg)
	return cfg
}

// OptionLimit is the maximal amount of live streams; opening one more
// closes the least recently used stream.
type OptionLimit uint

func (opt OptionLimit) apply(cfg *config) {
	cfg.Limit = uint(opt)
}

type OptionMeterProvider struct {
	metric.MeterProvider
}

func (opt OptionMeterProvider) apply(cfg *config) {
	cfg.MeterProvider = opt.MeterProvider
}

// OptionVADOptions are passed to every stream's webrtcvad.New.
type OptionVADOptions webrtcvad.Options

func (opt OptionVADOptions) apply(cfg *config) {
	cfg.VADOptions = webrtcvad.Options(opt)
}
