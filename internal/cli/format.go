package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/jaki95/showcut/internal/domain"
)

// clock formats a millisecond offset as H:MM:SS.mmm.
func clock(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	sign := ""
	if d < 0 {
		sign, d = "-", -d
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	milli := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%s%d:%02d:%02d.%03d", sign, h, m, s, milli)
}

// chapterTypesHelp lists the known chapter types for flag help.
func chapterTypesHelp() string {
	codes := slices.Sorted(maps.Keys(domain.ChapterTypes))
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s = %s", code, domain.ChapterTypes[code]))
	}
	return strings.Join(parts, ", ")
}
