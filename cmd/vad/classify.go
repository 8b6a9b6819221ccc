package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/webrtcvad/pkg/vad/segmenter"
	"github.com/xaionaro-go/webrtcvad/pkg/vad/webrtcvad"
)

// classifyStream classifies S16LE frames read from r until EOF and prints
// the detected segments to out. An incomplete trailing frame is ignored.
func classifyStream(
	ctx context.Context,
	r io.Reader,
	out io.Writer,
	v *webrtcvad.VAD,
	seg *segmenter.Segmenter,
	printFrames bool,
) error {
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	frameSize := v.FrameSamples() * 2
	frameDuration := time.Duration(v.FrameDuration())

	frames := make(chan []byte, 16)
	var readErr error
	observability.Go(ctx, func() {
		defer close(frames)
		defer logger.Debugf(ctx, "stopped reader")
		logger.Debugf(ctx, "started reader")
		for {
			buf := make([]byte, frameSize)
			_, err := io.ReadFull(r, buf)
			switch {
			case err == nil:
			case errors.Is(err, io.EOF):
				return
			case errors.Is(err, io.ErrUnexpectedEOF):
				logger.Warnf(ctx, "ignoring the incomplete trailing frame")
				return
			default:
				readErr = err
				return
			}
			select {
			case frames <- buf:
			case <-ctx.Done():
				return
			}
		}
	})

	for frame := range frames {
		isSpeech, err := v.HasSpeech(ctx, frame)
		if err != nil {
			return fmt.Errorf("unable to classify the frame at %v: %w", seg.Position(), err)
		}
		ev := seg.Push(isSpeech, frameDuration)
		if printFrames {
			fmt.Fprintf(out, "%10v %s\n", ev.Offset, frameLabel(isSpeech))
		}
		printEvent(out, ev)
	}
	if readErr != nil {
		return fmt.Errorf("unable to read the input: %w", readErr)
	}
	if ev, ok := seg.Flush(); ok {
		printEvent(out, ev)
	}
	return nil
}

func frameLabel(isSpeech bool) string {
	if isSpeech {
		return "speech"
	}
	return "silence"
}

func printEvent(out io.Writer, ev segmenter.Event) {
	if ev.Segment == nil {
		return
	}
	fmt.Fprintf(out, "segment %v - %v (%v)\n", ev.Segment.Start, ev.Segment.End, ev.Segment.Duration())
}
