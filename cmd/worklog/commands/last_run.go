// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bartekus/worklog/internal/gitlog"
	"github.com/bartekus/worklog/internal/runstate"
)

func newLastRunCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		reset  bool
	)

	cmd := &cobra.Command{
		Use:   "last-run",
		Short: "Show what the previous extract, report or stats run did",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := runstate.NewStore(a.cfg.StateDir)
			out := cmd.OutOrStdout()

			if reset {
				if err := store.Reset(); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, "Run state cleared.")
				return nil
			}

			last, err := store.ReadLastRun()
			if err != nil {
				return err
			}
			if last == nil {
				_, _ = fmt.Fprintln(out, "No previous run recorded.")
				return nil
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(last)
			}

			_, _ = fmt.Fprintf(out, "%s %s to %s: %s, %d commits (finished %s)\n",
				last.Command, last.Since, last.Until, statusColor(last.Status), last.Commits,
				last.FinishedAt.Local().Format(time.DateTime))
			if skipped := last.Skipped(); len(skipped) > 0 {
				_, _ = fmt.Fprintln(out, skippedStyle.Sprint(
					fmt.Sprintf("skipped: %d of %d repositories", len(skipped), len(last.Repositories))))
			}
			for _, r := range last.Repositories {
				line := fmt.Sprintf("  %-8s %s (%d commits)", r.Status, r.Path, r.Commits)
				if r.Note != "" {
					line += ": " + r.Note
				}
				switch r.Status {
				case gitlog.RepoOK:
					_, _ = fmt.Fprintln(out, line)
				case gitlog.RepoSkipped:
					_, _ = fmt.Fprintln(out, skippedStyle.Sprint(line))
				default:
					_, _ = fmt.Fprintln(out, failedStyle.Sprint(line))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored state as JSON")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the stored state")
	return cmd
}

var (
	okStyle      = color.New(color.FgGreen)
	skippedStyle = color.New(color.FgYellow)
	failedStyle  = color.New(color.FgRed)
)

func statusColor(status string) string {
	switch status {
	case runstate.StatusOK:
		return okStyle.Sprint(status)
	case runstate.StatusPartial:
		return skippedStyle.Sprint(status)
	default:
		return failedStyle.Sprint(status)
	}
}
