package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/webrtcvad/pkg/vad"
	"github.com/xaionaro-go/webrtcvad/pkg/vad/segmenter"
	"github.com/xaionaro-go/webrtcvad/pkg/vad/webrtcvad"
)

func syntaxExit(message string) {
	fmt.Fprintf(os.Stderr, "syntax error: %s\n", message)
	pflag.Usage()
	os.Exit(2)
}

func main() {
	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	backendFlag := pflag.String("backend", backendNative, "Detector implementation: native, dummy or libfvad")
	modeFlag := vad.ModeQuality
	pflag.Var(&modeFlag, "mode", "Aggressiveness: quality, low_bitrate, aggressive, very_aggressive (or 0..3)")
	sampleRateFlag := vad.SampleRate16kHz
	pflag.Var(&sampleRateFlag, "sample-rate", "Sample rate of the input: 8000, 16000, 32000 or 48000")
	frameDurationFlag := vad.FrameDuration30ms
	pflag.Var(&frameDurationFlag, "frame-duration", "Frame duration: 10ms, 20ms or 30ms")
	minSpeechFlag := pflag.Duration("min-speech", 0, "Shorter speech segments are not reported")
	minSilenceFlag := pflag.Duration("min-silence", 300*time.Millisecond, "Shorter pauses do not split a speech segment")
	printFramesFlag := pflag.Bool("print-frames", false, "Print the decision for every frame")
	configFlag := pflag.String("config", "", "Path to a YAML file with the defaults of the flags above")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <input.pcm|->\n\nThe input is raw mono signed 16-bit little-endian PCM.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() != 1 {
		syntaxExit("expected one argument (the input file, or '-' for stdin)")
	}
	inputPath := pflag.Arg(0)

	if *configFlag != "" {
		cfg, err := readFileConfig(*configFlag)
		if err != nil {
			syntaxExit(err.Error())
		}
		if err := cfg.apply(pflag.CommandLine); err != nil {
			syntaxExit(err.Error())
		}
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if err := run(
		ctx,
		inputPath,
		*backendFlag,
		*printFramesFlag,
		segmenter.New(*minSpeechFlag, *minSilenceFlag),
		webrtcvad.OptionMode(modeFlag),
		webrtcvad.OptionSampleRate(sampleRateFlag),
		webrtcvad.OptionFrameDuration(frameDurationFlag),
	); err != nil {
		logger.Error(ctx, err)
		belt.Flush(ctx)
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	inputPath string,
	backend string,
	printFrames bool,
	seg *segmenter.Segmenter,
	opts ...webrtcvad.Option,
) (_err error) {
	var input io.ReadCloser = os.Stdin
	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("unable to open the input: %w", err)
		}
		input = f
	}
	defer func() {
		if err := input.Close(); err != nil {
			_err = multierror.Append(_err, fmt.Errorf("unable to close the input: %w", err)).ErrorOrNil()
		}
	}()

	detector, err := newDetector(backend)
	if err != nil {
		return fmt.Errorf("unable to create a detector: %w", err)
	}
	v, err := openVAD(ctx, detector, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := v.Close(); err != nil {
			_err = multierror.Append(_err, fmt.Errorf("unable to close the detector: %w", err)).ErrorOrNil()
		}
	}()
	logger.Infof(ctx, "initialized the '%s' detector", backend)

	return classifyStream(ctx, input, os.Stdout, v, seg, printFrames)
}

// openVAD wraps the detector; on failure the detector is closed.
func openVAD(
	ctx context.Context,
	detector vad.Detector,
	opts ...webrtcvad.Option,
) (*webrtcvad.VAD, error) {
	v, err := webrtcvad.New(ctx, detector, opts...)
	if err == nil {
		return v, nil
	}
	err = fmt.Errorf("unable to initialize the detector: %w", err)
	if closeErr := detector.Close(); closeErr != nil {
		err = multierror.Append(err, fmt.Errorf("unable to close the detector: %w", closeErr))
	}
	return nil, err
}
