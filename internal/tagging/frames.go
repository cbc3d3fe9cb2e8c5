package tagging

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf16"

	"github.com/jaki95/showcut/internal/images"
)

// Frame ids written by the tagger that bogem/id3v2 has no frame type for.
const (
	frameChapter = "CHAP"
	frameTOC     = "CTOC"
	frameSource  = "WOAS"
	frameStation = "WORS"
)

// CTOC flags.
const (
	tocOrdered  = 0x01
	tocTopLevel = 0x02
)

// maxTOCEntries is the largest entry count a CTOC frame can hold.
const maxTOCEntries = math.MaxUint8

// noOffset marks CHAP byte offsets as unused.
const noOffset = math.MaxUint32

// Text encodings as written in frame bodies.
const (
	encodingISO   = 0x00
	encodingUTF16 = 0x01
	encodingUTF8  = 0x03
)

// pictureOther is the APIC picture type "Other".
const pictureOther = 0x00

// rawFrame is a frame whose body is assembled by the tagger. The tag
// writes the frame header itself.
type rawFrame struct {
	id   string
	body []byte
}

func (f rawFrame) Size() int {
	return len(f.body)
}

func (f rawFrame) UniqueIdentifier() string {
	return f.id
}

func (f rawFrame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.body)
	return int64(n), err
}

// urlFrame builds a W*** frame. URLs are always ISO-8859-1 without an
// encoding byte.
func urlFrame(url string) rawFrame {
	return rawFrame{body: latin1(url)}
}

// chapterBody builds the body of a CHAP frame.
func chapterBody(version byte, elementID string, start, end int64, title string, pic *images.Picture) []byte {
	var buf bytes.Buffer
	buf.Write(latin1(elementID))
	buf.WriteByte(0)
	writeUint32(&buf, clampMillis(start))
	writeUint32(&buf, clampMillis(end))
	writeUint32(&buf, noOffset)
	writeUint32(&buf, noOffset)

	if title != "" {
		writeSubframe(&buf, version, "TIT2", textBody(version, title))
	}
	if pic != nil && len(pic.Data) > 0 {
		writeSubframe(&buf, version, "APIC", pictureBody(pic))
	}
	return buf.Bytes()
}

// tocBody builds the body of a top level, ordered CTOC frame.
func tocBody(version byte, elementID string, children []string, title string) []byte {
	var buf bytes.Buffer
	buf.Write(latin1(elementID))
	buf.WriteByte(0)
	buf.WriteByte(tocTopLevel | tocOrdered)
	buf.WriteByte(byte(len(children)))
	for _, id := range children {
		buf.Write(latin1(id))
		buf.WriteByte(0)
	}
	writeSubframe(&buf, version, "TIT2", textBody(version, title))
	return buf.Bytes()
}

// textBody encodes a text frame body. ID3v2.3 has no UTF-8, so it gets
// UTF-16 with a byte order mark.
func textBody(version byte, text string) []byte {
	if version == 4 {
		return append([]byte{encodingUTF8}, text...)
	}

	body := []byte{encodingUTF16, 0xFF, 0xFE}
	for _, u := range utf16.Encode([]rune(text)) {
		body = binary.LittleEndian.AppendUint16(body, u)
	}
	return body
}

func pictureBody(pic *images.Picture) []byte {
	var buf bytes.Buffer
	buf.WriteByte(encodingISO)
	buf.Write(latin1(pic.MimeType))
	buf.WriteByte(0)
	buf.WriteByte(pictureOther)
	buf.WriteByte(0) // empty description
	buf.Write(pic.Data)
	return buf.Bytes()
}

// writeSubframe writes a complete embedded frame. ID3v2.4 sizes are
// synchsafe, ID3v2.3 sizes are plain big endian.
func writeSubframe(buf *bytes.Buffer, version byte, id string, body []byte) {
	buf.WriteString(id)
	if version == 4 {
		writeUint32(buf, synchsafe(uint32(len(body))))
	} else {
		writeUint32(buf, uint32(len(body)))
	}
	buf.Write([]byte{0, 0})
	buf.Write(body)
}

func synchsafe(n uint32) uint32 {
	return n&0x7F | (n>>7&0x7F)<<8 | (n>>14&0x7F)<<16 | (n>>21&0x7F)<<24
}

func writeUint32(buf *bytes.Buffer, n uint32) {
	buf.Write(binary.BigEndian.AppendUint32(nil, n))
}

func clampMillis(ms int64) uint32 {
	return uint32(min(max(ms, 0), math.MaxUint32-1))
}

// latin1 encodes s as ISO-8859-1, replacing what does not fit with '?'.
func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return out
}
