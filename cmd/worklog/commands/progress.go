// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/bartekus/worklog/internal/gitlog"
	"github.com/bartekus/worklog/internal/repo"
)

func newBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// extractProgress drives a progress bar from extractor callbacks.
type extractProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (p *extractProgress) RepositoryStarted(_ string, _, total int) {
	if p.bar == nil {
		p.bar = newBar(p.w, total, "[cyan]Reading history[reset]")
	}
}

func (p *extractProgress) RepositoryDone(o gitlog.RepoOutcome) {
	if p.bar == nil {
		return
	}
	p.bar.Describe("[cyan]" + o.Name + "[reset]")
	_ = p.bar.Add(1)
}

func (p *extractProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// probeProgress returns an OnDone callback for repo.Prober plus a finish func.
func probeProgress(w io.Writer, total int, description string) (func(repo.Outcome), func()) {
	bar := newBar(w, total, description)
	return func(repo.Outcome) { _ = bar.Add(1) }, func() { _ = bar.Finish() }
}
