package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/jaki95/showcut/internal/progress"
)

// barListener draws a download progress bar for each broadcast.
type barListener struct {
	mu     sync.Mutex
	w      io.Writer
	bar    *progressbar.ProgressBar
	prefix string
}

func newBarListener(w io.Writer) *barListener {
	return &barListener{w: w}
}

func (l *barListener) handle(e progress.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.Broadcast != nil {
		l.prefix = fmt.Sprintf("[cyan][%d/%d][reset]", e.Broadcast.Index, e.Broadcast.Total)
	}

	if e.Transfer == nil {
		if e.Stage != progress.StageDownloading {
			l.finish()
		}
		return
	}

	if l.bar == nil {
		l.bar = progressbar.NewOptions64(
			e.Transfer.Total,
			progressbar.OptionSetWriter(l.w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionShowBytes(true),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetDescription(l.prefix+" Downloading..."),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(l.w)
			}),
		)
	}
	_ = l.bar.Set64(e.Transfer.Written)
}

// close finishes a bar left open by an interrupted download.
func (l *barListener) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finish()
}

func (l *barListener) finish() {
	if l.bar == nil {
		return
	}
	_ = l.bar.Finish()
	l.bar = nil
}
