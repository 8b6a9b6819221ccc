//go:build !libfvad

package main

import (
	"fmt"

	"github.com/xaionaro-go/webrtcvad/pkg/vad"
)

func newLibfvadDetector() (vad.Detector, error) {
	return nil, fmt.Errorf("the binary is built without libfvad support, rebuild it with '-tags libfvad'")
}
