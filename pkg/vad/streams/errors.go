package streams

import (
	"fmt"
)

type ErrUnknownStream struct {
	ID StreamID
}

func (e ErrUnknownStream) Error() string {
	return fmt.Sprintf("unknown stream '%s'", e.ID)
}

type ErrClosed struct{}

func (ErrClosed) Error() string {
	return "the stream manager is closed"
}

type ErrInitStream struct {
	ID  StreamID
	Err error
}

func (e ErrInitStream) Error() string {
	return fmt.Sprintf("unable to initialize a detector for stream '%s': %v", e.ID, e.Err)
}

func (e ErrInitStream) Unwrap() error {
	return e.Err
}
