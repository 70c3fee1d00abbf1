package commands

import (
	"github.com/spf13/cobra"
)

// audioDevice mirrors portaudio.Device so builds without audio support
// still compile.
type audioDevice struct {
	Index             int     `json:"index" yaml:"index"`
	Name              string  `json:"name" yaml:"name"`
	InputChannels     int     `json:"input_channels" yaml:"input_channels"`
	OutputChannels    int     `json:"output_channels" yaml:"output_channels"`
	DefaultSampleRate float64 `json:"default_sample_rate" yaml:"default_sample_rate"`
	DefaultInput      bool    `json:"default_input,omitempty" yaml:"default_input,omitempty"`
	DefaultOutput     bool    `json:"default_output,omitempty" yaml:"default_output,omitempty"`
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input and output devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		devs, err := listDevices()
		if err != nil {
			return err
		}
		return output(cmd, deviceTable(devs))
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
