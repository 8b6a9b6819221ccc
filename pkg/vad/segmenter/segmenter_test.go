package segmenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 10 * time.Millisecond

func push(s *Segmenter, pattern string) []EventType {
	var result []EventType
	for _, c := range pattern {
		result = append(result, s.Push(c == '1', frame).Type)
	}
	return result
}

func TestEvents(t *testing.T) {
	s := New(0, 0)
	events := push(s, "0110")
	assert.Equal(t, []EventType{EventSilence, EventSpeechStart, EventSpeechContinue, EventSpeechEnd}, events)
	assert.Equal(t, []Segment{{Start: 10 * time.Millisecond, End: 30 * time.Millisecond}}, s.Segments())
	assert.False(t, s.InSpeech())
	assert.Equal(t, 40*time.Millisecond, s.Position())
}

func TestMinSilenceMergesGaps(t *testing.T) {
	s := New(0, 30*time.Millisecond)
	push(s, "11001100011")
	require.Len(t, s.Segments(), 1)
	assert.Equal(t, Segment{Start: 0, End: 60 * time.Millisecond}, s.Segments()[0])

	ev, ok := s.Flush()
	require.True(t, ok)
	assert.Equal(t, EventSpeechEnd, ev.Type)
	require.NotNil(t, ev.Segment)
	assert.Equal(t, Segment{Start: 90 * time.Millisecond, End: 110 * time.Millisecond}, *ev.Segment)

	_, ok = s.Flush()
	assert.False(t, ok)
}

func TestMinSpeechDropsShortSegments(t *testing.T) {
	s := New(30*time.Millisecond, 0)
	push(s, "1011100")
	ends := 0
	for _, seg := range s.Segments() {
		assert.GreaterOrEqual(t, seg.Duration(), 30*time.Millisecond)
		ends++
	}
	assert.Equal(t, 1, ends)
	assert.Equal(t, Segment{Start: 20 * time.Millisecond, End: 50 * time.Millisecond}, s.Segments()[0])
}

func TestReset(t *testing.T) {
	s := New(10*time.Millisecond, 20*time.Millisecond)
	push(s, "111")
	s.Reset()
	assert.False(t, s.InSpeech())
	assert.Zero(t, s.Position())
	assert.Empty(t, s.Segments())
	assert.Equal(t, 20*time.Millisecond, s.MinSilence)
}
