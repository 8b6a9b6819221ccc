package vad

import (
	"fmt"
)

type State int

const (
	StateUndefined = State(iota)
	StateCreated
	StateInitialized
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUndefined:
		return "undefined"
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("unknown_%d", int(s))
}
