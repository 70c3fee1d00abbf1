// Package resampler converts decoded PCM buffers between sample rates and
// channel layouts using a pure Go polyphase resampler.
//
// Example usage:
//
//	buf, _ := pcm.L16Mono24K.Decode(raw)
//	out, err := resampler.Convert(buf, resampler.Format{SampleRate: 48000, Stereo: true})
//	if err != nil {
//	    return err
//	}
package resampler
