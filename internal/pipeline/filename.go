package pipeline

import (
	"regexp"
	"strings"
	"time"

	"github.com/jaki95/showcut/internal/domain"
	"github.com/jaki95/showcut/internal/tagging"
	"github.com/jaki95/showcut/internal/textutil"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.\[\]]`)

// Filename returns the output file name of a broadcast, e.g.
// "FM4 Morning Show 2024-03-05 06_00.mp3". The station is left out when
// the show title already starts with it.
func Filename(station string, b domain.Broadcast, loc *time.Location) string {
	show := textutil.StripHTML(b.Title)
	airdate := time.UnixMilli(b.Start).In(loc).Format(tagging.AirdateLayout)

	var parts []string
	if !strings.HasPrefix(strings.ToLower(show), strings.ToLower(station)) {
		parts = append(parts, station)
	}
	parts = append(parts, show, airdate)

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return unsafeFilenameChars.ReplaceAllString(strings.Join(nonEmpty, " ")+".mp3", "_")
}
