package resampler

import (
	"errors"
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/haivivi/huaxiazi/pkg/audio/pcm"
)

// ErrInvalidFormat is returned for a non-positive target sample rate or a
// source buffer with an unsupported channel count.
var ErrInvalidFormat = errors.New("resampler: invalid format")

// Convert returns a new buffer holding b remixed to dst's channel count and
// resampled to dst's rate. b is not modified. When b already matches dst
// the samples are copied unchanged.
func Convert(b *pcm.Buffer, dst Format) (*pcm.Buffer, error) {
	if dst.SampleRate <= 0 || b.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: rate %d -> %d", ErrInvalidFormat, b.SampleRate, dst.SampleRate)
	}
	channels, err := remix(b.Channels, dst.Channels())
	if err != nil {
		return nil, err
	}
	out := &pcm.Buffer{SampleRate: dst.SampleRate, Channels: channels}
	if b.SampleRate == dst.SampleRate {
		return out, nil
	}

	// Channels are resampled independently as mono streams.
	for i, ch := range channels {
		r, err := resampling.New(&resampling.Config{
			InputRate:  float64(b.SampleRate),
			OutputRate: float64(dst.SampleRate),
			Channels:   1,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create resampler: %w", err)
		}
		input := make([]float64, len(ch))
		for j, v := range ch {
			input[j] = float64(v)
		}
		output, err := r.Process(input)
		if err != nil {
			return nil, fmt.Errorf("resample error: %w", err)
		}
		res := make([]float32, len(output))
		for j, v := range output {
			res[j] = float32(v)
		}
		out.Channels[i] = res
	}
	return out, nil
}

// remix returns copies of src converted to n channels. Stereo to mono
// averages L and R; mono to stereo duplicates the channel.
func remix(src [][]float32, n int) ([][]float32, error) {
	switch {
	case len(src) == n:
		out := make([][]float32, n)
		for i, ch := range src {
			out[i] = append([]float32(nil), ch...)
		}
		return out, nil
	case len(src) == 2 && n == 1:
		l, r := src[0], src[1]
		m := make([]float32, min(len(l), len(r)))
		for i := range m {
			m[i] = (l[i] + r[i]) / 2
		}
		return [][]float32{m}, nil
	case len(src) == 1 && n == 2:
		return [][]float32{
			append([]float32(nil), src[0]...),
			append([]float32(nil), src[0]...),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d -> %d channels", ErrInvalidFormat, len(src), n)
	}
}
