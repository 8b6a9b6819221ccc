package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/webrtcvad/pkg/vad"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "vad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type testFlags struct {
	set           *pflag.FlagSet
	backend       *string
	mode          vad.Mode
	sampleRate    vad.SampleRate
	frameDuration vad.FrameDuration
	minSilence    *time.Duration
	printFrames   *bool
}

func newTestFlags() *testFlags {
	f := &testFlags{
		set:           pflag.NewFlagSet("vad", pflag.ContinueOnError),
		mode:          vad.ModeQuality,
		sampleRate:    vad.SampleRate16kHz,
		frameDuration: vad.FrameDuration30ms,
	}
	f.backend = f.set.String("backend", backendNative, "")
	f.set.Var(&f.mode, "mode", "")
	f.set.Var(&f.sampleRate, "sample-rate", "")
	f.set.Var(&f.frameDuration, "frame-duration", "")
	f.minSilence = f.set.Duration("min-silence", 0, "")
	f.printFrames = f.set.Bool("print-frames", false, "")
	return f
}

func TestFileConfigApply(t *testing.T) {
	cfg, err := readFileConfig(writeConfig(t, `
backend: dummy
mode: aggressive
sample-rate: 8000
frame-duration: 20ms
min-silence: 500ms
print-frames: "true"
`))
	require.NoError(t, err)

	flags := newTestFlags()
	require.NoError(t, flags.set.Parse([]string{"--mode", "1"}))
	require.NoError(t, cfg.apply(flags.set))

	assert.Equal(t, backendDummy, *flags.backend)
	assert.Equal(t, vad.ModeLowBitrate, flags.mode, "command line flags take precedence")
	assert.Equal(t, vad.SampleRate8kHz, flags.sampleRate)
	assert.Equal(t, vad.FrameDuration20ms, flags.frameDuration)
	assert.Equal(t, 500*time.Millisecond, *flags.minSilence)
	assert.True(t, *flags.printFrames)
}

func TestFileConfigErrors(t *testing.T) {
	_, err := readFileConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = readFileConfig(writeConfig(t, "unknown-key: 1\n"))
	require.Error(t, err)

	cfg, err := readFileConfig(writeConfig(t, "sample-rate: 44100\n"))
	require.NoError(t, err)
	err = cfg.apply(newTestFlags().set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample-rate")
}
