package tagging

import (
	"strings"
	"time"

	"github.com/jaki95/showcut/internal/chapters"
	"github.com/jaki95/showcut/internal/domain"
	"github.com/jaki95/showcut/internal/images"
	"github.com/jaki95/showcut/internal/textutil"
	"github.com/jaki95/showcut/internal/timeline"
)

// AirdateLayout is how airdates appear in comments and file names.
const AirdateLayout = "2006-01-02 15:04"

// Metadata is everything written into the tag of one output file.
type Metadata struct {
	Title    string
	URL      string
	Comment  string
	Airdate  time.Time
	Duration int64 // retained audio in milliseconds

	// Chapters are expected in emission order, see chapters.Schedule.
	Chapters []domain.Chapter

	Cover      *images.Picture
	ChapterArt map[string]*images.Picture
}

// BroadcastMetadata builds the metadata of a broadcast whose audio was cut
// down to keepmarks. chs must already be aligned to keepmarks.
func BroadcastMetadata(b domain.Broadcast, chs []domain.Chapter, keepmarks []timeline.Interval, loc *time.Location) Metadata {
	airdate := time.UnixMilli(b.Start).In(loc)
	total := timeline.TotalDuration(keepmarks)

	return Metadata{
		Title:    textutil.StripHTML(b.Title),
		URL:      b.URL,
		Comment:  comment(b, airdate),
		Airdate:  airdate,
		Duration: total,
		Chapters: chapters.Schedule(chs, total),
	}
}

// comment joins the descriptive texts of a broadcast, falling back to the
// airdate when there are none.
func comment(b domain.Broadcast, airdate time.Time) string {
	var parts []string
	for _, s := range []string{b.Subtitle, b.Description, b.PressRelease} {
		if s = textutil.StripHTML(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return airdate.Format(AirdateLayout)
	}
	return strings.Join(parts, "\n")
}
