// Package pcm provides types and utilities for working with 16-bit PCM audio.
//
// The package defines the mono formats used by the speech services (16kHz
// for recognition input, 24kHz for synthesized output) and decodes raw
// interleaved little-endian samples into normalized float buffers.
//
// Key types:
//   - Format: 16-bit mono format at a fixed sample rate
//   - Buffer: decoded per-channel float32 samples
//
// Example usage:
//
//	// Decode a synthesized speech payload
//	buf, err := pcm.L16Mono24K.Decode(raw)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(buf.Frames(), buf.Duration())
//
//	// Save it as a WAV file
//	err = buf.WriteWAV(f)
package pcm
