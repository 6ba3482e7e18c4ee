// Package progress reports extraction progress during a recursive walk,
// adapted from the teacher's pkg/spinners + pkg/operator mpb/v8 usage: a
// spinner when the file count isn't known up front, replaced here by a
// counting bar since the walk driver can report a running total.
package progress

import (
	"io"
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Reporter tracks one bar across an entire recursive extraction run.
type Reporter struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// IsTerminal reports whether stdout is attached to a TTY, gating whether a
// bar is rendered at all (matches the teacher's Options.IsTerminal() gate).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewReporter starts a bar titled name. When quiet is true or stdout isn't
// a terminal, output is discarded but the Reporter remains safe to drive.
func NewReporter(name string, total int, quiet bool) *Reporter {
	out := io.Writer(os.Stderr)
	if quiet || !IsTerminal() {
		out = io.Discard
	}

	p := mpb.New(mpb.WithOutput(out), mpb.WithWidth(40))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(decor.Name(name+" ")),
		mpb.AppendDecorators(decor.CountersNoUnit("%d / %d"), decor.Name(" "), decor.Elapsed(decor.ET_STYLE_GO)),
	)

	return &Reporter{progress: p, bar: bar}
}

// Advance increments the bar by one completed file.
func (r *Reporter) Advance() {
	if r.bar != nil {
		r.bar.Increment()
	}
}

// Done waits for the bar's render goroutine to finish, matching mpb's
// required shutdown sequence.
func (r *Reporter) Done() {
	if r.bar != nil {
		r.bar.SetTotal(-1, true)
	}
	if r.progress != nil {
		r.progress.Wait()
	}
}
