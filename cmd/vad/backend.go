package main

import (
	"fmt"

	"github.com/xaionaro-go/webrtcvad/pkg/vad"
	"github.com/xaionaro-go/webrtcvad/pkg/vad/implementations/native"
)

const (
	backendNative  = "native"
	backendDummy   = "dummy"
	backendLibfvad = "libfvad"
)

func newDetector(backend string) (vad.Detector, error) {
	switch backend {
	case backendNative:
		return native.New()
	case backendDummy:
		return vad.NewDummy(false), nil
	case backendLibfvad:
		return newLibfvadDetector()
	}
	return nil, fmt.Errorf("unknown backend '%s'", backend)
}
