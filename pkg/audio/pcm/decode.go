package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidAudioFormat is returned when the input is not a whole number
	// of 16-bit samples.
	ErrInvalidAudioFormat = errors.New("pcm: invalid audio format")

	// ErrInvalidLayout is returned for a non-positive sample rate or channel
	// count.
	ErrInvalidLayout = errors.New("pcm: invalid layout")
)

// Buffer holds decoded audio as one float32 slice per channel, normalized to
// [-1.0, 1.0).
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Decode converts interleaved 16-bit little-endian PCM into a Buffer.
//
// The frame count is len(data)/2/channels; a trailing partial frame is
// dropped. Sample i of channel c is read from sample position
// i*channels+c of data, and divided by 32768. Decode only reads data, so a
// sub-slice of a larger buffer is decoded from its own first byte.
func Decode(data []byte, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: rate=%d channels=%d", ErrInvalidLayout, sampleRate, channels)
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of 2", ErrInvalidAudioFormat, len(data))
	}
	frames := len(data) / 2 / channels
	buf := &Buffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for c := range buf.Channels {
		ch := make([]float32, frames)
		for i := range frames {
			off := 2 * (i*channels + c)
			ch[i] = float32(int16(binary.LittleEndian.Uint16(data[off:]))) / 32768.0
		}
		buf.Channels[c] = ch
	}
	return buf, nil
}

// Interleave converts the buffer back to interleaved 16-bit samples,
// clamping values outside [-1, 1).
func (b *Buffer) Interleave() []int16 {
	n := b.NumChannels()
	frames := b.Frames()
	out := make([]int16, frames*n)
	for c, ch := range b.Channels {
		for i := 0; i < frames && i < len(ch); i++ {
			out[i*n+c] = toInt16(ch[i])
		}
	}
	return out
}

// Bytes returns the interleaved samples as little-endian bytes.
func (b *Buffer) Bytes() []byte {
	samples := b.Interleave()
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// Scale multiplies every sample by gain in place.
func (b *Buffer) Scale(gain float32) {
	if gain == 1 {
		return
	}
	for _, ch := range b.Channels {
		for i := range ch {
			ch[i] *= gain
		}
	}
}

func toInt16(v float32) int16 {
	s := math.Round(float64(v) * 32768.0)
	switch {
	case s > math.MaxInt16:
		return math.MaxInt16
	case s < math.MinInt16:
		return math.MinInt16
	}
	return int16(s)
}
