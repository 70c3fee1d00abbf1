package resampler

// Format describes a target layout for conversion.
type Format struct {
	// SampleRate is the sample rate in Hz (e.g., 44100, 48000).
	SampleRate int

	// Stereo indicates stereo (2 channels) if true, mono (1 channel) if false.
	Stereo bool
}

// Channels returns the channel count of the format.
func (f Format) Channels() int {
	if f.Stereo {
		return 2
	}
	return 1
}

func (f Format) sampleBytes() int {
	return f.Channels() * 2
}

// BytesPerSecond returns the byte rate of 16-bit interleaved audio in f.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.sampleBytes()
}
