// Package chapters turns broadcast items into chapters and prepares them
// for the ID3 chapter frames.
package chapters

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jaki95/showcut/internal/domain"
	"github.com/jaki95/showcut/internal/textutil"
)

const (
	advertisementTitle = "* WERBUNG *"
	jingleTitle        = "* JINGLE *"
)

// Extract builds the chapter list of a broadcast from its items.
//
// Items are ordered by start, longer items first on ties, and numbered in
// that order; the number becomes the chapter id. Items that are not
// broadcast items are skipped but still consume a number, so ids stay
// stable across runs. Chapter times are relative to the broadcast start;
// items with nothing inside the broadcast are dropped.
func Extract(b domain.Broadcast) []domain.Chapter {
	items := slices.Clone(b.Items)
	slices.SortStableFunc(items, func(x, y domain.Item) int {
		if c := cmp.Compare(x.Start, y.Start); c != 0 {
			return c
		}
		return cmp.Compare(y.End, x.End)
	})

	chapters := make([]domain.Chapter, 0, len(items))
	for i, item := range items {
		if item.Entity != domain.EntityBroadcastItem {
			slog.Debug("skipping item", "entity", item.Entity, "start", item.Start)
			continue
		}

		start := max(0, item.Start-b.Start)
		end := min(item.End, b.End) - b.Start
		if end <= start {
			slog.Debug("skipping empty item", "start", item.Start, "end", item.End)
			continue
		}

		c := domain.Chapter{
			ID:     fmt.Sprintf("chp%d", i+1),
			Start:  start,
			End:    end,
			Title:  title(item),
			Type:   item.Type,
			Images: item.Images,
		}

		switch item.Type {
		case domain.TypeAdvertisement:
			c.Title = advertisementTitle
			c.Hidden = true
		case domain.TypeJingle:
			c.Title = jingleTitle
			c.Hidden = true
		}
		if c.Title == "" {
			c.Hidden = true
		}

		chapters = append(chapters, c)
	}
	return chapters
}

// title prefers "interpreter: title" and falls back to the description,
// which is usually less useful.
func title(item domain.Item) string {
	var parts []string
	for _, s := range []string{item.Interpreter, item.Title} {
		if s = textutil.StripHTML(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return textutil.StripHTML(item.Description)
}
