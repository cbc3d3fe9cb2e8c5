package audio

import (
	"bytes"
)

const (
	// MPEG1 Layer III, 128 kbit/s, 44.1 kHz, no padding: 417 bytes and
	// 1152 samples (~26.12 ms) per frame.
	testFrameSize = 417
	testFrameMS   = 1152.0 * 1000 / 44100
)

var testFrameHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

// testFrame returns a frame whose payload is filled with marker.
func testFrame(marker byte) []byte {
	frame := make([]byte, testFrameSize)
	copy(frame, testFrameHeader)
	for i := len(testFrameHeader); i < testFrameSize; i++ {
		frame[i] = marker
	}
	return frame
}

// testStream returns n frames, frame i carrying the marker i%200.
func testStream(n int) []byte {
	var buf bytes.Buffer
	for i := range n {
		buf.Write(testFrame(byte(i % 200)))
	}
	return buf.Bytes()
}

// xingFrame returns a frame carrying a Xing header instead of audio.
func xingFrame() []byte {
	frame := testFrame(0)
	for i := 4; i < testFrameSize; i++ {
		frame[i] = 0
	}
	copy(frame[36:], "Xing")
	return frame
}

// id3Tag returns an ID3v2.3 tag with a body of size bytes. The body is
// filled with sync-like bytes to trip up a decoder that does not skip it.
func id3Tag(size int) []byte {
	tag := []byte{'I', 'D', '3', 3, 0, 0,
		byte(size >> 21 & 0x7F), byte(size >> 14 & 0x7F), byte(size >> 7 & 0x7F), byte(size & 0x7F)}
	return append(tag, bytes.Repeat([]byte{0xFF}, size)...)
}

// markers returns the payload marker of each frame in out.
func markers(out []byte) []byte {
	var m []byte
	for i := 0; i+testFrameSize <= len(out); i += testFrameSize {
		m = append(m, out[i+len(testFrameHeader)])
	}
	return m
}
