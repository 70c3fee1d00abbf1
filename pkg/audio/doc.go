// Package audio groups the audio sub-packages used for dialect speech:
//
//   - pcm: 16-bit PCM formats, decoding and WAV wrapping
//   - resampler: sample-rate and channel conversion
//   - player: playback of synthesized speech payloads
//   - portaudio: default input and output devices
package audio
