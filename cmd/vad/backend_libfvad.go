//go:build libfvad

package main

import (
	"github.com/xaionaro-go/webrtcvad/pkg/vad"
	"github.com/xaionaro-go/webrtcvad/pkg/vad/implementations/libfvad"
)

func newLibfvadDetector() (vad.Detector, error) {
	return libfvad.New()
}
