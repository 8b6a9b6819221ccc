// Package streams keeps one detector per audio stream.
//
// Detectors carry per-stream history, so every stream ID gets its own
// instance, created lazily on the first frame. Frames of different streams
// are processed concurrently; frames of the same stream are serialized.
package streams

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xaionaro-go/webrtcvad/pkg/vad"
	"github.com/xaionaro-go/webrtcvad/pkg/vad/webrtcvad"
	"github.com/xaionaro-go/xsync"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type StreamID string

// Factory creates a detector in the Created state.
type Factory func() (vad.Detector, error)

const (
	closeReasonEvicted  = "evicted"
	closeReasonRemoved  = "removed"
	closeReasonShutdown = "shutdown"
)

type Manager struct {
	locker xsync.Mutex

	Factory Factory
	Options Options
	Metrics *Metrics

	streams     *lru.Cache[StreamID, *webrtcvad.VAD]
	closeReason string
	closeErrors *multierror.Error
	isClosed    bool
}

func NewManager(
	factory Factory,
	opts ...Option,
) (*Manager, error) {
	if factory == nil {
		return nil, fmt.Errorf("the detector factory is nil")
	}
	cfg := Options(opts).config()
	if cfg.Limit == 0 {
		return nil, fmt.Errorf("the limit of streams must be positive")
	}
	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	metrics, err := NewMetrics(mp)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize metrics: %w", err)
	}

	m := &Manager{
		Factory: factory,
		Options: opts,
		Metrics: metrics,
	}
	m.streams, err = lru.NewWithEvict[StreamID, *webrtcvad.VAD](int(cfg.Limit), m.onEvict)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize the LRU cache: %w", err)
	}
	return m, nil
}

// onEvict is called by the cache synchronously, always with the locker held.
func (m *Manager) onEvict(id StreamID, v *webrtcvad.VAD) {
	ctx := context.TODO()
	reason := m.closeReason
	if reason == "" {
		reason = closeReasonEvicted
	}
	if err := v.Close(); err != nil {
		m.closeErrors = multierror.Append(m.closeErrors, fmt.Errorf("unable to close stream '%s': %w", id, err))
	}
	m.Metrics.StreamsClosed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	m.Metrics.ActiveStreams.Add(ctx, -1)
}

func (m *Manager) closeWithReasonNoLock(reason string, fn func()) error {
	m.closeReason = reason
	m.closeErrors = nil
	fn()
	err := m.closeErrors.ErrorOrNil()
	m.closeReason = ""
	m.closeErrors = nil
	return err
}

// Get returns the VAD of the stream, creating it if needed.
func (m *Manager) Get(ctx context.Context, id StreamID) (*webrtcvad.VAD, error) {
	var (
		v   *webrtcvad.VAD
		err error
	)
	m.locker.Do(ctx, func() {
		v, err = m.getNoLock(ctx, id)
	})
	return v, err
}

func (m *Manager) getNoLock(ctx context.Context, id StreamID) (*webrtcvad.VAD, error) {
	if m.isClosed {
		return nil, ErrClosed{}
	}
	if v, ok := m.streams.Get(id); ok {
		return v, nil
	}

	logger.Debugf(ctx, "opening stream '%s'", id)
	detector, err := m.Factory()
	if err != nil {
		return nil, ErrInitStream{ID: id, Err: err}
	}
	v, err := webrtcvad.New(ctx, detector, m.Options.config().VADOptions...)
	if err != nil {
		if closeErr := detector.Close(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("unable to close the detector: %w", closeErr))
		}
		return nil, ErrInitStream{ID: id, Err: err}
	}

	m.Metrics.StreamsOpened.Add(ctx, 1)
	m.Metrics.ActiveStreams.Add(ctx, 1)
	err = m.closeWithReasonNoLock(closeReasonEvicted, func() {
		if evicted := m.streams.Add(id, v); evicted {
			logger.Debugf(ctx, "the limit of streams is reached, closed the least recently used one")
		}
	})
	if err != nil {
		logger.Errorf(ctx, "unable to close an evicted stream: %v", err)
	}
	return v, nil
}

// Process classifies a frame of S16LE PCM of the stream. If the stream gets
// evicted concurrently, vad.ErrInvalidInstance is returned.
func (m *Manager) Process(ctx context.Context, id StreamID, frame []byte) (bool, error) {
	v, err := m.Get(ctx, id)
	if err != nil {
		return false, err
	}
	isSpeech, err := v.HasSpeech(ctx, frame)
	m.recordFrame(ctx, isSpeech, err)
	return isSpeech, err
}

// ProcessSamples is Process for already decoded samples.
func (m *Manager) ProcessSamples(ctx context.Context, id StreamID, frame []int16) (bool, error) {
	v, err := m.Get(ctx, id)
	if err != nil {
		return false, err
	}
	isSpeech, err := v.HasSpeechSamples(ctx, frame)
	m.recordFrame(ctx, isSpeech, err)
	return isSpeech, err
}

func (m *Manager) recordFrame(ctx context.Context, isSpeech bool, err error) {
	result := "silence"
	switch {
	case err != nil:
		result = "error"
	case isSpeech:
		result = "speech"
	}
	m.Metrics.Frames.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// Reset drops the history of the stream without closing it.
func (m *Manager) Reset(ctx context.Context, id StreamID) error {
	v := xsync.DoR1(ctx, &m.locker, func() *webrtcvad.VAD {
		v, _ := m.streams.Peek(id)
		return v
	})
	if v == nil {
		return ErrUnknownStream{ID: id}
	}
	return v.Reset(ctx)
}

// Remove closes the detector of the stream.
func (m *Manager) Remove(ctx context.Context, id StreamID) error {
	return xsync.DoR1(ctx, &m.locker, func() error {
		if !m.streams.Contains(id) {
			return ErrUnknownStream{ID: id}
		}
		logger.Debugf(ctx, "closing stream '%s'", id)
		return m.closeWithReasonNoLock(closeReasonRemoved, func() {
			m.streams.Remove(id)
		})
	})
}

func (m *Manager) Len() int {
	return m.streams.Len()
}

// IDs returns the live streams from the oldest to the most recently used.
func (m *Manager) IDs() []StreamID {
	return m.streams.Keys()
}

// Close closes all the detectors; the Manager is not usable afterwards.
func (m *Manager) Close(ctx context.Context) error {
	return xsync.DoR1(ctx, &m.locker, func() error {
		if m.isClosed {
			return nil
		}
		m.isClosed = true
		logger.Debugf(ctx, "closing %d streams", m.streams.Len())
		return m.closeWithReasonNoLock(closeReasonShutdown, m.streams.Purge)
	})
}
