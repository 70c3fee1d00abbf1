package player

import (
	"bufio"
	"io"
	"os"

	"github.com/haivivi/huaxiazi/pkg/audio/pcm"
)

// Sink receives interleaved 16-bit samples for one playback.
type Sink interface {
	Write(samples []int16) error
	Close() error
}

// SinkFactory opens a sink for the given layout.
type SinkFactory interface {
	OpenSink(sampleRate, channels int) (Sink, error)
}

// SinkFunc adapts a function to SinkFactory.
type SinkFunc func(sampleRate, channels int) (Sink, error)

func (f SinkFunc) OpenSink(sampleRate, channels int) (Sink, error) {
	return f(sampleRate, channels)
}

// WriterSink streams raw little-endian PCM to an io.Writer. Close does not
// close the underlying writer.
type WriterSink struct {
	w *bufio.Writer
}

// NewWriterSink returns a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

func (s *WriterSink) Write(samples []int16) error {
	for _, v := range samples {
		if err := s.w.WriteByte(byte(v)); err != nil {
			return err
		}
		if err := s.w.WriteByte(byte(v >> 8)); err != nil {
			return err
		}
	}
	return nil
}

func (s *WriterSink) Close() error {
	return s.w.Flush()
}

// WAVFileSink collects samples and writes them as a WAV file on Close.
type WAVFileSink struct {
	path       string
	sampleRate int
	channels   int
	data       []byte
}

// WAVFile returns a factory whose sinks each write path on Close.
func WAVFile(path string) SinkFactory {
	return SinkFunc(func(sampleRate, channels int) (Sink, error) {
		return &WAVFileSink{path: path, sampleRate: sampleRate, channels: channels}, nil
	})
}

func (s *WAVFileSink) Write(samples []int16) error {
	for _, v := range samples {
		s.data = append(s.data, byte(v), byte(v>>8))
	}
	return nil
}

func (s *WAVFileSink) Close() error {
	return os.WriteFile(s.path, pcm.WAV(s.data, s.sampleRate, s.channels), 0o644)
}
