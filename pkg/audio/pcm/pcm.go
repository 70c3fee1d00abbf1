package pcm

import (
	"fmt"
	"time"
)

// Format is a mono 16-bit little-endian PCM layout at a fixed rate.
type Format int

const (
	// L16Mono16K is the recognition input layout.
	L16Mono16K Format = iota
	// L16Mono24K is the synthesized speech layout.
	L16Mono24K
	// L16Mono48K is a common device layout.
	L16Mono48K
)

const bytesPerSample = 2

var rates = [...]int{
	L16Mono16K: 16000,
	L16Mono24K: 24000,
	L16Mono48K: 48000,
}

func (f Format) valid() bool {
	return f >= 0 && int(f) < len(rates)
}

// SampleRate returns the sample rate in Hz. It panics for an unknown
// format.
func (f Format) SampleRate() int {
	if !f.valid() {
		panic(fmt.Sprintf("pcm: invalid format %d", int(f)))
	}
	return rates[f]
}

// Channels returns 1; every Format is mono.
func (f Format) Channels() int {
	return 1
}

// BytesInDuration returns the byte length of d of audio.
func (f Format) BytesInDuration(d time.Duration) int64 {
	frames := int64(time.Duration(f.SampleRate()) * d / time.Second)
	return frames * int64(f.Channels()) * bytesPerSample
}

// Duration returns the play time of n bytes of audio.
func (f Format) Duration(n int64) time.Duration {
	frames := n / bytesPerSample / int64(f.Channels())
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate())
}

// Decode decodes data in this format. See the package-level Decode.
func (f Format) Decode(data []byte) (*Buffer, error) {
	return Decode(data, f.SampleRate(), f.Channels())
}

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("pcm.Format(%d)", int(f))
	}
	return fmt.Sprintf("audio/L16; rate=%d; channels=1", f.SampleRate())
}
