//go:build noaudio

package commands

import (
	"errors"

	"github.com/haivivi/huaxiazi/pkg/audio/player"
	"github.com/haivivi/huaxiazi/pkg/capture"
)

var errNoAudio = errors.New("built without audio device support; use --out to write a WAV file")

func deviceSinks() (player.SinkFactory, error) { return nil, errNoAudio }

func deviceSource() (capture.AudioSource, error) { return nil, errNoAudio }

func listDevices() ([]audioDevice, error) { return nil, errNoAudio }
