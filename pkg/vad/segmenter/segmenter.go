// Package segmenter turns per-frame speech decisions into speech segments.
package segmenter

import (
	"fmt"
	"time"
)

type EventType int

const (
	EventSilence = EventType(iota)
	EventSpeechStart
	EventSpeechContinue
	EventSpeechEnd
)

func (t EventType) String() string {
	switch t {
	case EventSilence:
		return "silence"
	case EventSpeechStart:
		return "speech_start"
	case EventSpeechContinue:
		return "speech_continue"
	case EventSpeechEnd:
		return "speech_end"
	}
	return fmt.Sprintf("unknown_%d", int(t))
}

type Segment struct {
	Start time.Duration
	End   time.Duration
}

func (s Segment) Duration() time.Duration {
	return s.End - s.Start
}

func (s Segment) String() string {
	return fmt.Sprintf("%v-%v", s.Start, s.End)
}

type Event struct {
	Type   EventType
	Offset time.Duration

	// Segment is set on EventSpeechEnd if the closed segment is
	// at least MinSpeech long.
	Segment *Segment
}

// Segmenter is not safe for concurrent use.
type Segmenter struct {
	// MinSpeech is the shortest segment reported; shorter ones are dropped.
	MinSpeech time.Duration
	// MinSilence is the shortest pause which ends a segment; shorter
	// pauses are merged into the surrounding speech.
	MinSilence time.Duration

	position    time.Duration
	inSpeech    bool
	speechStart time.Duration
	voicedEnd   time.Duration
	silence     time.Duration
	segments    []Segment
}

func New(minSpeech, minSilence time.Duration) *Segmenter {
	return &Segmenter{
		MinSpeech:  minSpeech,
		MinSilence: minSilence,
	}
}

// Push accounts a frame of the given duration.
func (s *Segmenter) Push(isSpeech bool, frameDuration time.Duration) Event {
	start := s.position
	s.position += frameDuration

	if isSpeech {
		s.silence = 0
		s.voicedEnd = s.position
		if !s.inSpeech {
			s.inSpeech = true
			s.speechStart = start
			return Event{Type: EventSpeechStart, Offset: start}
		}
		return Event{Type: EventSpeechContinue, Offset: start}
	}

	if !s.inSpeech {
		return Event{Type: EventSilence, Offset: start}
	}
	s.silence += frameDuration
	if s.silence < s.MinSilence {
		return Event{Type: EventSpeechContinue, Offset: start}
	}
	return s.closeSegment(start)
}

// Flush closes the open segment at the end of the stream, if any.
func (s *Segmenter) Flush() (Event, bool) {
	if !s.inSpeech {
		return Event{}, false
	}
	return s.closeSegment(s.position), true
}

func (s *Segmenter) closeSegment(offset time.Duration) Event {
	s.inSpeech = false
	s.silence = 0
	ev := Event{Type: EventSpeechEnd, Offset: offset}
	segment := Segment{Start: s.speechStart, End: s.voicedEnd}
	if segment.Duration() >= s.MinSpeech {
		s.segments = append(s.segments, segment)
		ev.Segment = &segment
	}
	return ev
}

// Segments returns the segments closed so far.
func (s *Segmenter) Segments() []Segment {
	return s.segments
}

func (s *Segmenter) Position() time.Duration {
	return s.position
}

func (s *Segmenter) InSpeech() bool {
	return s.inSpeech
}

func (s *Segmenter) Reset() {
	*s = Segmenter{
		MinSpeech:  s.MinSpeech,
		MinSilence: s.MinSilence,
	}
}
