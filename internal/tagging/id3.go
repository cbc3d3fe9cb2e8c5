// Package tagging writes the ID3v2 tag of a finished broadcast, including
// chapter and table of contents frames.
package tagging

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bogem/id3v2/v2"

	"github.com/jaki95/showcut/config"
	"github.com/jaki95/showcut/internal/chapters"
	"github.com/jaki95/showcut/internal/textutil"
)

const tocTitle = "Table Of Contents"

// Writer replaces the ID3v2 tag of MP3 files.
type Writer struct {
	station config.StationConfig
	version byte
}

func NewWriter(station config.StationConfig, version byte) *Writer {
	if version != 4 {
		version = 3
	}
	return &Writer{station: station, version: version}
}

// Write removes any tag present in the file at path and writes a new one
// built from m.
func (w *Writer) Write(path string, m Metadata) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: false})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer tag.Close()

	tag.DeleteAllFrames()
	tag.SetVersion(w.version)
	enc := w.encoding()
	tag.SetDefaultEncoding(enc)

	station := textutil.StripHTML(w.station.Name)
	tag.AddTextFrame("TRSN", enc, station)
	if w.station.Owner != "" {
		tag.AddTextFrame("TRSO", enc, w.station.Owner)
	}
	if m.URL != "" {
		tag.AddFrame(frameSource, urlFrame(m.URL))
	}
	if w.station.Website != "" {
		tag.AddFrame(frameStation, urlFrame(w.station.Website))
	}

	tag.AddTextFrame("TPE1", enc, station)
	tag.AddTextFrame("TALB", enc, m.Title)
	tag.AddTextFrame("TIT2", enc, m.Title)
	tag.AddTextFrame("TRCK", enc, "1/1")

	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    enc,
		Language:    w.station.CommentLanguage,
		Description: "desc",
		Text:        m.Comment,
	})

	for id, text := range w.dateFrames(m) {
		tag.AddTextFrame(id, enc, text)
	}
	tag.AddTextFrame("TLEN", enc, strconv.FormatInt(m.Duration, 10))

	if m.Cover != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    enc,
			MimeType:    m.Cover.MimeType,
			PictureType: id3v2.PTFrontCover,
			Picture:     m.Cover.Data,
		})
	}

	for _, c := range m.Chapters {
		tag.AddFrame(frameChapter, rawFrame{
			id:   c.ID,
			body: chapterBody(w.version, c.ID, c.Start, c.End, c.Title, m.ChapterArt[c.ID]),
		})
	}

	toc := chapters.TableOfContents(m.Chapters)
	if len(toc) > maxTOCEntries {
		slog.Warn("Table of contents truncated", "chapters", len(toc), "max", maxTOCEntries)
		toc = toc[:maxTOCEntries]
	}
	tag.AddFrame(frameTOC, rawFrame{
		id:   chapters.TOCElementID,
		body: tocBody(w.version, chapters.TOCElementID, toc, tocTitle),
	})

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tag: %w", err)
	}

	slog.Debug("Wrote tag",
		"path", path,
		"version", w.version,
		"chapters", len(m.Chapters),
		"toc", len(toc))
	return nil
}

// dateFrames returns the frames holding the airdate. ID3v2.3 splits it
// into year, day/month and time; ID3v2.4 has a single timestamp.
func (w *Writer) dateFrames(m Metadata) map[string]string {
	if w.version == 4 {
		return map[string]string{"TDRC": m.Airdate.Format("2006-01-02T15:04")}
	}
	return map[string]string{
		"TYER": m.Airdate.Format("2006"),
		"TDAT": m.Airdate.Format("0201"),
		"TIME": m.Airdate.Format("1504"),
	}
}

func (w *Writer) encoding() id3v2.Encoding {
	if w.version == 4 {
		return id3v2.EncodingUTF8
	}
	return id3v2.EncodingUTF16
}
