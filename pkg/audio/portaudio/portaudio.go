// Package portaudio plays and records 16-bit PCM on the default audio
// devices through the PortAudio C library.
//
// Requires portaudio installed via pkg-config (brew install portaudio,
// apt install portaudio19-dev).
package portaudio

/*
#cgo pkg-config: portaudio-2.0

#include <portaudio.h>
#include <stdlib.h>
#include <string.h>

// Wrapper functions using void* to avoid CGO type issues with PaStream
static PaError pa_open_stream(void **stream,
                              const PaStreamParameters *inputParams,
                              const PaStreamParameters *outputParams,
                              double sampleRate,
                              unsigned long framesPerBuffer,
                              PaStreamFlags streamFlags) {
    return Pa_OpenStream((PaStream**)stream, inputParams, outputParams, sampleRate,
                         framesPerBuffer, streamFlags, NULL, NULL);
}

static PaError pa_start_stream(void *stream) {
    return Pa_StartStream((PaStream*)stream);
}

static PaError pa_stop_stream(void *stream) {
    return Pa_StopStream((PaStream*)stream);
}

static PaError pa_close_stream(void *stream) {
    return Pa_CloseStream((PaStream*)stream);
}

static PaError pa_read_stream(void *stream, void *buffer, unsigned long frames) {
    return Pa_ReadStream((PaStream*)stream, buffer, frames);
}

static PaError pa_write_stream(void *stream, const void *buffer, unsigned long frames) {
    return Pa_WriteStream((PaStream*)stream, buffer, frames);
}
*/
import "C"

import (
	"errors"
	"sync"
	"unsafe"
)

// ErrStreamClosed is returned by reads and writes on a closed stream.
var ErrStreamClosed = errors.New("portaudio: stream closed")

var (
	initOnce sync.Once
	initErr  error
)

func paError(code C.PaError) error {
	if code == C.paNoError {
		return nil
	}
	return errors.New("portaudio: " + C.GoString(C.Pa_GetErrorText(code)))
}

// Initialize initializes the PortAudio library.
// It is safe to call multiple times.
func Initialize() error {
	initOnce.Do(func() {
		initErr = paError(C.Pa_Initialize())
	})
	return initErr
}

// Terminate terminates the PortAudio library.
func Terminate() error {
	return paError(C.Pa_Terminate())
}

// Device describes an audio device.
type Device struct {
	Index             int     `json:"index" yaml:"index"`
	Name              string  `json:"name" yaml:"name"`
	InputChannels     int     `json:"input_channels" yaml:"input_channels"`
	OutputChannels    int     `json:"output_channels" yaml:"output_channels"`
	DefaultSampleRate float64 `json:"default_sample_rate" yaml:"default_sample_rate"`
	DefaultInput      bool    `json:"default_input,omitempty" yaml:"default_input,omitempty"`
	DefaultOutput     bool    `json:"default_output,omitempty" yaml:"default_output,omitempty"`
}

// Devices lists the available audio devices.
func Devices() ([]Device, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	count := int(C.Pa_GetDeviceCount())
	if count < 0 {
		return nil, paError(C.PaError(count))
	}

	defaultInput := int(C.Pa_GetDefaultInputDevice())
	defaultOutput := int(C.Pa_GetDefaultOutputDevice())

	devices := make([]Device, 0, count)
	for i := 0; i < count; i++ {
		info := C.Pa_GetDeviceInfo(C.PaDeviceIndex(i))
		if info == nil {
			continue
		}
		devices = append(devices, Device{
			Index:             i,
			Name:              C.GoString(info.name),
			InputChannels:     int(info.maxInputChannels),
			OutputChannels:    int(info.maxOutputChannels),
			DefaultSampleRate: float64(info.defaultSampleRate),
			DefaultInput:      i == defaultInput,
			DefaultOutput:     i == defaultOutput,
		})
	}
	return devices, nil
}

// stream is a blocking-mode PortAudio stream of interleaved int16 samples.
type stream struct {
	mu       sync.Mutex
	pa       unsafe.Pointer
	buf      unsafe.Pointer
	channels int
	frames   int // capacity of buf in frames
	closed   bool
}

func streamParams(input bool, channels int) (*C.PaStreamParameters, error) {
	var dev C.PaDeviceIndex
	if input {
		dev = C.Pa_GetDefaultInputDevice()
	} else {
		dev = C.Pa_GetDefaultOutputDevice()
	}
	if dev == C.paNoDevice {
		if input {
			return nil, errors.New("portaudio: no default input device")
		}
		return nil, errors.New("portaudio: no default output device")
	}
	info := C.Pa_GetDeviceInfo(dev)
	if info == nil {
		return nil, errors.New("portaudio: failed to get device info")
	}
	latency := info.defaultLowOutputLatency
	if input {
		latency = info.defaultLowInputLatency
	}
	return &C.PaStreamParameters{
		device:           dev,
		channelCount:     C.int(channels),
		sampleFormat:     C.paInt16,
		suggestedLatency: latency,
	}, nil
}

// openStream opens and starts a one-directional stream on the default device.
func openStream(input bool, channels, sampleRate, framesPerBuffer int) (*stream, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	params, err := streamParams(input, channels)
	if err != nil {
		return nil, err
	}
	var in, out *C.PaStreamParameters
	if input {
		in = params
	} else {
		out = params
	}

	var pa unsafe.Pointer
	if err := paError(C.pa_open_stream(&pa, in, out, C.double(sampleRate), C.ulong(framesPerBuffer), C.paClipOff)); err != nil {
		return nil, err
	}
	if err := paError(C.pa_start_stream(pa)); err != nil {
		C.pa_close_stream(pa)
		return nil, err
	}
	return &stream{
		pa:       pa,
		buf:      C.malloc(C.size_t(framesPerBuffer * channels * 2)),
		channels: channels,
		frames:   framesPerBuffer,
	}, nil
}

// read blocks until one buffer of frames has been captured.
func (s *stream) read() ([]int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStreamClosed
	}
	if err := paError(C.pa_read_stream(s.pa, s.buf, C.ulong(s.frames))); err != nil {
		return nil, err
	}
	samples := make([]int16, s.frames*s.channels)
	C.memcpy(unsafe.Pointer(&samples[0]), s.buf, C.size_t(len(samples)*2))
	return samples, nil
}

// write blocks until all samples have been handed to the device. A trailing
// partial frame is dropped.
func (s *stream) write(samples []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	step := s.frames * s.channels
	for len(samples) >= s.channels {
		n := min(step, len(samples)/s.channels*s.channels)
		C.memcpy(s.buf, unsafe.Pointer(&samples[0]), C.size_t(n*2))
		if err := paError(C.pa_write_stream(s.pa, s.buf, C.ulong(n/s.channels))); err != nil {
			return err
		}
		samples = samples[n:]
	}
	return nil
}

func (s *stream) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	C.pa_stop_stream(s.pa)
	err := paError(C.pa_close_stream(s.pa))
	C.free(s.buf)
	return err
}
