// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"

	"github.com/bartekus/worklog/cmd/worklog/internal/clierr"
	"github.com/bartekus/worklog/internal/config"
	"github.com/bartekus/worklog/internal/gitcmd"
	"github.com/bartekus/worklog/internal/gitlog"
	"github.com/bartekus/worklog/internal/report"
)

// classify attaches the exit code that matches err's cause.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		ec     clierr.ExitCoder
		launch *gitcmd.LaunchError
		write  *report.WriteError
	)
	switch {
	case errors.As(err, &ec):
		return err
	case errors.Is(err, config.ErrInvalid), errors.Is(err, gitlog.ErrInvalidRange):
		return clierr.Wrap(clierr.ExitUsage, "", err)
	case errors.As(err, &launch):
		return clierr.Wrap(clierr.ExitGit, "", err)
	case errors.As(err, &write):
		return clierr.Wrap(clierr.ExitReportIO, "", err)
	default:
		return err
	}
}
