package portaudio

import (
	"time"

	"github.com/haivivi/huaxiazi/pkg/audio/pcm"
)

// InputStream captures audio from the default input device.
type InputStream struct {
	s      *stream
	format pcm.Format
}

// NewInputStream opens the default input device for recording.
// bufferDuration is the length of each frame returned by ReadFrame.
func NewInputStream(format pcm.Format, bufferDuration time.Duration) (*InputStream, error) {
	frames := int(format.BytesInDuration(bufferDuration)) / 2 / format.Channels()
	s, err := openStream(true, format.Channels(), format.SampleRate(), frames)
	if err != nil {
		return nil, err
	}
	return &InputStream{s: s, format: format}, nil
}

// ReadFrame blocks for one buffer of audio and returns it as little-endian
// 16-bit PCM.
func (is *InputStream) ReadFrame() ([]byte, error) {
	samples, err := is.s.read()
	if err != nil {
		return nil, err
	}
	data := make([]byte, len(samples)*2)
	for i, v := range samples {
		data[i*2] = byte(v)
		data[i*2+1] = byte(v >> 8)
	}
	return data, nil
}

// Format returns the PCM format.
func (is *InputStream) Format() pcm.Format {
	return is.format
}

// Close stops and closes the stream.
func (is *InputStream) Close() error {
	return is.s.close()
}

// OutputStream plays interleaved samples on the default output device.
type OutputStream struct {
	s          *stream
	sampleRate int
	channels   int
}

// NewOutputStream opens the default output device for playback.
func NewOutputStream(sampleRate, channels int, bufferDuration time.Duration) (*OutputStream, error) {
	frames := int(time.Duration(sampleRate) * bufferDuration / time.Second)
	s, err := openStream(false, channels, sampleRate, frames)
	if err != nil {
		return nil, err
	}
	return &OutputStream{s: s, sampleRate: sampleRate, channels: channels}, nil
}

// Write blocks until samples have been queued to the device.
func (os *OutputStream) Write(samples []int16) error {
	return os.s.write(samples)
}

// SampleRate returns the device stream rate.
func (os *OutputStream) SampleRate() int { return os.sampleRate }

// Channels returns the device stream channel count.
func (os *OutputStream) Channels() int { return os.channels }

// Close stops and closes the stream.
func (os *OutputStream) Close() error {
	return os.s.close()
}
