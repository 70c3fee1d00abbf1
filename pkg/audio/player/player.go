// Package player plays synthesized speech payloads.
//
// A payload is base64 text wrapping raw 16-bit little-endian mono PCM at
// 24 kHz. Play decodes it, converts it to the sink's layout, applies gain
// and streams it to a freshly opened Sink in fixed-size chunks. Every call
// is an independent playback; concurrent calls overlap.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/haivivi/huaxiazi/pkg/audio/pcm"
	"github.com/haivivi/huaxiazi/pkg/audio/resampler"
	"github.com/haivivi/huaxiazi/pkg/encoding"
)

// SourceFormat is the layout of speech payloads.
const SourceFormat = pcm.L16Mono24K

// DefaultChunkDuration is the amount of audio handed to the sink per write.
const DefaultChunkDuration = 20 * time.Millisecond

// ErrInvalidPayload is returned when the payload is not valid base64.
var ErrInvalidPayload = errors.New("player: invalid payload")

// ErrStopped is returned by Playback.Wait after Stop or context
// cancellation interrupted playback.
var ErrStopped = errors.New("player: playback stopped")

// Player decodes speech payloads and plays them through sinks opened by
// Sinks.
type Player struct {
	// Sinks opens one sink per playback. Required.
	Sinks SinkFactory

	// Output is the sink layout. Zero means the source layout (24 kHz mono).
	Output resampler.Format

	// Gain scales samples before output. Zero means unity gain.
	Gain float32

	// ChunkDuration defaults to DefaultChunkDuration.
	ChunkDuration time.Duration

	Logger *slog.Logger
}

func (p *Player) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Player) output() resampler.Format {
	if p.Output.SampleRate > 0 {
		return p.Output
	}
	return resampler.Format{SampleRate: SourceFormat.SampleRate()}
}

// Prepare decodes payload and converts it to the output layout with gain
// applied. It does not touch any sink.
func (p *Player) Prepare(payload string) (*pcm.Buffer, error) {
	data, err := encoding.DecodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	buf, err := SourceFormat.Decode(data)
	if err != nil {
		return nil, err
	}
	if out := p.output(); out.SampleRate != buf.SampleRate || out.Channels() != buf.NumChannels() {
		if buf, err = resampler.Convert(buf, out); err != nil {
			return nil, err
		}
	}
	if p.Gain != 0 && p.Gain != 1 {
		buf.Scale(p.Gain)
	}
	return buf, nil
}

// Play starts playing payload and returns once the sink is open and audio
// is flowing. Decoding and sink errors are returned before playback starts;
// errors during playback are reported by the Playback handle. Cancelling
// ctx stops playback.
func (p *Player) Play(ctx context.Context, payload string) (*Playback, error) {
	if p.Sinks == nil {
		return nil, errors.New("player: no sink factory")
	}
	buf, err := p.Prepare(payload)
	if err != nil {
		return nil, err
	}
	sink, err := p.Sinks.OpenSink(buf.SampleRate, buf.NumChannels())
	if err != nil {
		return nil, fmt.Errorf("player: open sink: %w", err)
	}

	chunk := p.ChunkDuration
	if chunk <= 0 {
		chunk = DefaultChunkDuration
	}
	step := int(time.Duration(buf.SampleRate)*chunk/time.Second) * buf.NumChannels()
	if step <= 0 {
		step = buf.NumChannels()
	}

	pb := &Playback{
		duration: buf.Duration(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	p.logger().Debug("playback start", "duration", pb.duration, "rate", buf.SampleRate, "channels", buf.NumChannels())
	go pb.run(ctx, sink, buf.Interleave(), step, p.logger())
	return pb, nil
}

// Playback is a handle to one running playback.
type Playback struct {
	duration time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	err      error
}

func (pb *Playback) run(ctx context.Context, sink Sink, samples []int16, step int, log *slog.Logger) {
	defer close(pb.done)
	for len(samples) > 0 {
		select {
		case <-ctx.Done():
			pb.err = ErrStopped
		case <-pb.stop:
			pb.err = ErrStopped
		default:
		}
		if pb.err != nil {
			break
		}
		n := min(step, len(samples))
		if err := sink.Write(samples[:n]); err != nil {
			pb.err = fmt.Errorf("player: write: %w", err)
			break
		}
		samples = samples[n:]
	}
	if err := sink.Close(); err != nil && pb.err == nil {
		pb.err = fmt.Errorf("player: close sink: %w", err)
	}
	if pb.err != nil && !errors.Is(pb.err, ErrStopped) {
		log.Warn("playback failed", "err", pb.err)
	}
}

// Duration returns the length of the audio being played.
func (pb *Playback) Duration() time.Duration { return pb.duration }

// Stop interrupts playback. It is safe to call more than once and after
// playback has finished.
func (pb *Playback) Stop() {
	pb.stopOnce.Do(func() { close(pb.stop) })
}

// Done is closed when playback has finished or been stopped.
func (pb *Playback) Done() <-chan struct{} { return pb.done }

// Wait blocks until playback ends and returns its error, if any.
func (pb *Playback) Wait() error {
	<-pb.done
	return pb.err
}
