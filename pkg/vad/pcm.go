package vad

import (
	"encoding/binary"
)

// BytesToInt16 decodes little-endian signed 16-bit PCM. A trailing odd byte
// is ignored.
func BytesToInt16(b []byte) []int16 {
	if b == nil {
		return nil
	}
	result := make([]int16, len(b)/2)
	for i := range result {
		result[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return result
}

// Int16ToBytes is the inverse of BytesToInt16.
func Int16ToBytes(samples []int16) []byte {
	if samples == nil {
		return nil
	}
	result := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(result[i*2:], uint16(s))
	}
	return result
}
