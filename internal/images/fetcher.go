// Package images downloads cover and chapter artwork.
package images

import (
	"cmp"
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jaki95/showcut/internal/domain"
	"github.com/jaki95/showcut/internal/fetch"
)

// Picture is a downloaded image.
type Picture struct {
	MimeType string
	Data     []byte
}

// Getter is the part of fetch.Client the fetcher needs.
type Getter interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

// Fetcher downloads the largest available version of an image.
type Fetcher struct {
	getter  Getter
	workers int
}

func NewFetcher(getter Getter, workers int) *Fetcher {
	return &Fetcher{getter: getter, workers: max(workers, 1)}
}

// Fetch returns the first image of images, or nil when there is none or no
// version could be downloaded. Versions are tried from widest to narrowest.
func (f *Fetcher) Fetch(ctx context.Context, images []domain.Image) *Picture {
	if len(images) == 0 {
		return nil
	}

	versions := slices.Clone(images[0].Versions)
	slices.SortStableFunc(versions, func(a, b domain.ImageVersion) int {
		return cmp.Compare(b.Width, a.Width)
	})

	for _, v := range versions {
		if v.Path == "" {
			continue
		}
		resp, err := f.getter.Get(ctx, v.Path)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("image version unavailable", "url", v.Path, "error", err)
			continue
		}
		if len(resp.Body) == 0 {
			continue
		}
		return &Picture{MimeType: mimeType(resp), Data: resp.Body}
	}

	slog.Warn("Could not fetch image", "versions", len(versions))
	return nil
}

// FetchChapters downloads the artwork of every chapter concurrently and
// returns it by chapter id. Chapters without artwork are left out.
func (f *Fetcher) FetchChapters(ctx context.Context, chapters []domain.Chapter) map[string]*Picture {
	pictures := make([]*Picture, len(chapters))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, c := range chapters {
		if len(c.Images) == 0 {
			continue
		}
		g.Go(func() error {
			pictures[i] = f.Fetch(ctx, c.Images)
			return nil
		})
	}
	_ = g.Wait()

	byID := make(map[string]*Picture)
	for i, p := range pictures {
		if p != nil {
			byID[chapters[i].ID] = p
		}
	}
	return byID
}

func mimeType(resp *fetch.Response) string {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		ct, _, _ = strings.Cut(ct, ";")
		return strings.TrimSpace(ct)
	}
	return http.DetectContentType(resp.Body)
}
