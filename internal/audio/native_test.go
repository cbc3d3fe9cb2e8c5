package audio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/showcut/internal/timeline"
)

func TestCutStream(t *testing.T) {
	tests := []struct {
		name      string
		keepmarks []timeline.Interval
		expected  int
	}{
		{
			name:      "two keepmarks with a gap",
			keepmarks: []timeline.Interval{{Start: 0, End: 1_000}, {Start: 3_000, End: 4_000}},
			expected:  78,
		},
		{
			name:      "adjacent keepmarks lose no frame",
			keepmarks: []timeline.Interval{{Start: 0, End: 1_000}, {Start: 1_000, End: 2_000}},
			expected:  77,
		},
		{
			name:      "keepmark past the end of the audio",
			keepmarks: []timeline.Interval{{Start: 4_000, End: 60_000}},
			expected:  200 - 154,
		},
		{
			name:      "single full span",
			keepmarks: timeline.FullSpan(60_000),
			expected:  200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			stats, err := CutStream(bytes.NewReader(testStream(200)), &out, tt.keepmarks)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats.FramesWritten)
			assert.Equal(t, tt.expected*testFrameSize, out.Len())
			assert.InDelta(t, float64(tt.expected)*testFrameMS, float64(stats.Output.Milliseconds()), 1)
		})
	}
}

func TestCutStream_KeepsFramesInOrder(t *testing.T) {
	var out bytes.Buffer
	keepmarks := []timeline.Interval{{Start: 0, End: 100}, {Start: 1_000, End: 1_100}}

	_, err := CutStream(bytes.NewReader(testStream(200)), &out, keepmarks)
	require.NoError(t, err)

	// Frames 0-3 start before 100ms; frames 39-42 start in [1000, 1100).
	assert.Equal(t, []byte{0, 1, 2, 3, 39, 40, 41, 42}, markers(out.Bytes()))
}

func TestCutStream_StopsAfterLastKeepmark(t *testing.T) {
	var out bytes.Buffer
	stats, err := CutStream(bytes.NewReader(testStream(200)), &out, []timeline.Interval{{Start: 0, End: 50}})

	require.NoError(t, err)
	assert.Equal(t, 2, stats.FramesWritten)
	assert.Less(t, stats.FramesRead, 200)
}

func TestCutStream_SkipsTagAndInfoFrame(t *testing.T) {
	var in bytes.Buffer
	in.Write(id3Tag(64))
	in.Write(xingFrame())
	in.Write(testStream(10))

	var out bytes.Buffer
	stats, err := CutStream(&in, &out, []timeline.Interval{{Start: 0, End: 26}})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.FramesWritten)
	assert.Equal(t, []byte{0}, markers(out.Bytes()))
	assert.Equal(t, testFrame(0), out.Bytes())
}

func TestCutStream_KeepsFirstFrameWithTagLikeAudio(t *testing.T) {
	first := testFrame(7)
	copy(first[100:], "Info")

	var in bytes.Buffer
	in.Write(first)
	in.Write(testStream(3))

	var out bytes.Buffer
	stats, err := CutStream(&in, &out, timeline.FullSpan(1_000))

	require.NoError(t, err)
	assert.Equal(t, 4, stats.FramesWritten)
	assert.Equal(t, first, out.Bytes()[:testFrameSize])
}

func TestIsInfoFrame(t *testing.T) {
	frame := func(header []byte, offset int, tag string) []byte {
		f := make([]byte, testFrameSize)
		copy(f, header)
		copy(f[offset:], tag)
		return f
	}
	var (
		mpeg1Stereo = []byte{0xFF, 0xFB, 0x90, 0x00}
		mpeg1Mono   = []byte{0xFF, 0xFB, 0x90, 0xC0}
		mpeg2Mono   = []byte{0xFF, 0xF3, 0x90, 0xC0}
		mpeg2Stereo = []byte{0xFF, 0xF3, 0x90, 0x00}
	)

	tests := []struct {
		name     string
		frame    []byte
		expected bool
	}{
		{"xing mpeg1 stereo", frame(mpeg1Stereo, 36, "Xing"), true},
		{"info mpeg1 mono", frame(mpeg1Mono, 21, "Info"), true},
		{"info mpeg2 mono", frame(mpeg2Mono, 13, "Info"), true},
		{"xing mpeg2 stereo", frame(mpeg2Stereo, 21, "Xing"), true},
		{"vbri", frame(mpeg1Mono, 36, "VBRI"), true},
		{"xing at the stereo offset of a mono frame", frame(mpeg1Mono, 36, "Xing"), false},
		{"tag bytes inside audio data", frame(mpeg1Stereo, 40, "Info"), false},
		{"plain audio", testFrame(3), false},
		{"truncated", []byte{0xFF, 0xFB}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isInfoFrame(tt.frame))
		})
	}
}

func TestCutStream_Errors(t *testing.T) {
	var out bytes.Buffer

	_, err := CutStream(bytes.NewReader(testStream(10)), &out, nil)
	assert.ErrorIs(t, err, ErrNoKeepmarks)

	_, err = CutStream(bytes.NewReader(nil), &out, timeline.FullSpan(1_000))
	assert.ErrorIs(t, err, ErrNoFrames)

	_, err = CutStream(bytes.NewReader([]byte("this is not audio at all")), &out, timeline.FullSpan(1_000))
	assert.ErrorIs(t, err, ErrNoFrames)
}

func TestSkipID3v2_RejectsCorruptSize(t *testing.T) {
	tag := []byte{'I', 'D', '3', 3, 0, 0, 0x80, 0, 0, 0}
	var out bytes.Buffer

	_, err := CutStream(bytes.NewReader(append(tag, testStream(2)...)), &out, timeline.FullSpan(1_000))
	assert.ErrorIs(t, err, ErrCorruptID3)
}

func TestNativeCutter_Cut(t *testing.T) {
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "in.mp3")
	output := filepath.Join(tempDir, "out", "cut.mp3")
	require.NoError(t, os.WriteFile(input, testStream(200), 0644))

	cutter := NewNativeCutter()
	err := cutter.Cut(context.Background(), CutParams{
		InputPath:  input,
		OutputPath: output,
		Keepmarks:  []timeline.Interval{{Start: 0, End: 1_000}, {Start: 3_000, End: 4_000}},
	})

	require.NoError(t, err)
	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, int64(78*testFrameSize), info.Size())
}

func TestNativeCutter_MissingInput(t *testing.T) {
	cutter := NewNativeCutter()
	err := cutter.Cut(context.Background(), CutParams{
		InputPath:  filepath.Join(t.TempDir(), "missing.mp3"),
		OutputPath: filepath.Join(t.TempDir(), "out.mp3"),
		Keepmarks:  timeline.FullSpan(1_000),
	})

	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestNativeCutter_RemovesOutputOnFailure(t *testing.T) {
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "in.mp3")
	output := filepath.Join(tempDir, "out.mp3")
	require.NoError(t, os.WriteFile(input, []byte("garbage"), 0644))

	err := NewNativeCutter().Cut(context.Background(), CutParams{
		InputPath:  input,
		OutputPath: output,
		Keepmarks:  timeline.FullSpan(1_000),
	})

	assert.ErrorIs(t, err, ErrNoFrames)
	assert.NoFileExists(t, output)
}
