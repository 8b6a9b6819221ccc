package webrtcvad

import (
	"fmt"
)

type ErrInitVAD struct {
	Err error
}

func (e ErrInitVAD) Error() string {
	return fmt.Sprintf("unable to initialize VAD: %v", e.Err)
}

func (e ErrInitVAD) Unwrap() error {
	return e.Err
}

type ErrNilDetector struct{}

func (ErrNilDetector) Error() string {
	return "the detector is nil"
}
