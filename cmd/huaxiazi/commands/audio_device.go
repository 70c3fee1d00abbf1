//go:build !noaudio

package commands

import (
	"time"

	"github.com/haivivi/huaxiazi/pkg/audio/pcm"
	"github.com/haivivi/huaxiazi/pkg/audio/player"
	"github.com/haivivi/huaxiazi/pkg/audio/portaudio"
	"github.com/haivivi/huaxiazi/pkg/capture"
)

const deviceBuffer = 40 * time.Millisecond

func deviceSinks() (player.SinkFactory, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	return player.SinkFunc(func(rate, channels int) (player.Sink, error) {
		return portaudio.NewOutputStream(rate, channels, deviceBuffer)
	}), nil
}

func deviceSource() (capture.AudioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	return portaudio.NewInputStream(pcm.L16Mono16K, deviceBuffer)
}

func listDevices() ([]audioDevice, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	out := make([]audioDevice, 0, len(devs))
	for _, d := range devs {
		out = append(out, audioDevice(d))
	}
	return out, nil
}
