package resampler

import (
	"errors"
	"math"
	"testing"

	"github.com/haivivi/huaxiazi/pkg/audio/pcm"
)

func sine(n, rate int, hz float64) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(0.5 * math.Sin(2*math.Pi*hz*float64(i)/float64(rate)))
	}
	return s
}

func TestConvert_SameRateCopies(t *testing.T) {
	src := &pcm.Buffer{SampleRate: 24000, Channels: [][]float32{{0.1, 0.2, 0.3}}}
	out, err := Convert(src, Format{SampleRate: 24000})
	if err != nil {
		t.Fatal(err)
	}
	out.Channels[0][0] = 9
	if src.Channels[0][0] != 0.1 {
		t.Error("Convert aliased the source samples")
	}
}

func TestConvert_MonoToStereo(t *testing.T) {
	src := &pcm.Buffer{SampleRate: 24000, Channels: [][]float32{{0.25, -0.25}}}
	out, err := Convert(src, Format{SampleRate: 24000, Stereo: true})
	if err != nil {
		t.Fatal(err)
	}
	if out.NumChannels() != 2 {
		t.Fatalf("channels = %d", out.NumChannels())
	}
	for i := range 2 {
		if out.Channels[0][i] != out.Channels[1][i] {
			t.Errorf("frame %d: L=%v R=%v", i, out.Channels[0][i], out.Channels[1][i])
		}
	}
}

func TestConvert_StereoToMono(t *testing.T) {
	src := &pcm.Buffer{SampleRate: 16000, Channels: [][]float32{{1, 0.5}, {0, -0.5}}}
	out, err := Convert(src, Format{SampleRate: 16000})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Channels[0]; got[0] != 0.5 || got[1] != 0 {
		t.Errorf("mono = %v", got)
	}
}

func TestConvert_Upsample(t *testing.T) {
	const n = 2400
	src := &pcm.Buffer{SampleRate: 24000, Channels: [][]float32{sine(n, 24000, 440)}}
	out, err := Convert(src, Format{SampleRate: 48000})
	if err != nil {
		t.Fatal(err)
	}
	if out.SampleRate != 48000 {
		t.Errorf("rate = %d", out.SampleRate)
	}
	if got := out.Frames(); got > 2*n*11/10 {
		t.Errorf("frames = %d, want at most about %d", got, 2*n)
	}
}

func TestConvert_Invalid(t *testing.T) {
	src := &pcm.Buffer{SampleRate: 24000, Channels: [][]float32{{0}}}
	if _, err := Convert(src, Format{}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("zero rate error = %v", err)
	}
	three := &pcm.Buffer{SampleRate: 24000, Channels: [][]float32{{0}, {0}, {0}}}
	if _, err := Convert(three, Format{SampleRate: 24000}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("three channel error = %v", err)
	}
}
