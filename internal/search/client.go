// Package search finds the broadcasts of a show through the station's
// search API.
package search

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/jaki95/showcut/config"
	"github.com/jaki95/showcut/internal/domain"
	"github.com/jaki95/showcut/internal/fetch"
)

// Getter is the part of fetch.Client the search client needs.
type Getter interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

type results struct {
	Hits []hit `json:"hits"`
}

type hit struct {
	Data struct {
		Entity string `json:"entity"`
		Start  int64  `json:"start"`
		Href   string `json:"href"`
	} `json:"data"`
}

type Client struct {
	getter  Getter
	station config.StationConfig
}

func NewClient(getter Getter, station config.StationConfig) *Client {
	return &Client{getter: getter, station: station}
}

// Search returns the available broadcasts of show, newest first. The show
// may be given with or without the station name in front.
func (c *Client) Search(ctx context.Context, show string) ([]domain.Broadcast, error) {
	show = strings.TrimSpace(show)
	matcher, err := c.titleMatcher(show)
	if err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf(c.station.SearchURL, url.QueryEscape(show))
	slog.Debug("Searching broadcasts", "show", show, "url", searchURL)

	resp, err := c.getter.Get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var res results
	if err := json.Unmarshal(resp.Body, &res); err != nil {
		return nil, fmt.Errorf("invalid search response: %w", err)
	}

	slices.SortStableFunc(res.Hits, func(a, b hit) int {
		return cmp.Compare(b.Data.Start, a.Data.Start)
	})

	var broadcasts []domain.Broadcast
	for _, h := range res.Hits {
		if h.Data.Entity != domain.EntityBroadcast || h.Data.Href == "" {
			continue
		}

		b, err := c.broadcast(ctx, h.Data.Href)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("Skipping broadcast", "url", h.Data.Href, "error", err)
			continue
		}

		if !matcher.MatchString(b.Title) {
			slog.Debug("Broadcast title does not match", "title", b.Title)
			continue
		}
		broadcasts = append(broadcasts, *b)
	}

	slog.Info("Found broadcasts", "show", show, "hits", len(res.Hits), "broadcasts", len(broadcasts))
	return broadcasts, nil
}

// broadcast fetches a single broadcast record.
func (c *Client) broadcast(ctx context.Context, href string) (*domain.Broadcast, error) {
	resp, err := c.getter.Get(ctx, href)
	if err != nil {
		return nil, err
	}

	var b domain.Broadcast
	if err := json.Unmarshal(resp.Body, &b); err != nil {
		return nil, fmt.Errorf("invalid broadcast: %w", err)
	}
	return &b, nil
}

// titleMatcher matches broadcast titles equal to show, ignoring case,
// surrounding whitespace and an optional station name prefix.
func (c *Client) titleMatcher(show string) (*regexp.Regexp, error) {
	station := regexp.QuoteMeta(c.station.Name)

	prefix, err := regexp.Compile(`(?i)^` + station + `[\-\s]*`)
	if err != nil {
		return nil, err
	}
	clean := prefix.ReplaceAllString(show, "")

	return regexp.Compile(`(?i)^\s*(?:` + station + `)?[\s\-]*` + regexp.QuoteMeta(clean) + `\s*$`)
}
