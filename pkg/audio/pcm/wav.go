package pcm

import (
	"bytes"
	"encoding/binary"
	"io"
)

// WAV wraps interleaved 16-bit PCM in a canonical 44-byte-header WAV
// container.
func WAV(data []byte, sampleRate, channels int) []byte {
	const bytesPerSample = 2
	buf := &bytes.Buffer{}
	buf.Grow(44 + len(data))

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*bytesPerSample))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels*bytesPerSample))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bytesPerSample*8))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

// WriteWAV writes the buffer to w as a WAV file.
func (b *Buffer) WriteWAV(w io.Writer) error {
	_, err := w.Write(WAV(b.Bytes(), b.SampleRate, b.NumChannels()))
	return err
}
