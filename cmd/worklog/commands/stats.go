// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bartekus/worklog/internal/config"
	"github.com/bartekus/worklog/internal/report"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		flags  collectFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats [repos...]",
		Short: "Summarise activity: commit types, daily counts, top authors",
		RunE: func(cmd *cobra.Command, args []string) error {
			got, err := a.collect(cmd, "stats", &flags, args)
			if err != nil {
				return err
			}

			summary := report.Summarize(got.commits, report.NewAliasResolver(reportAliases(a.cfg.Aliases)))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(cmd.OutOrStdout(), got.since, got.until, summary)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func reportAliases(in []config.Alias) []report.Alias {
	out := make([]report.Alias, 0, len(in))
	for _, a := range in {
		out = append(out, report.Alias{Original: a.Original, Alias: a.Alias})
	}
	return out
}

func printSummary(w io.Writer, since, until string, s report.Summary) {
	heading := color.New(color.Bold, color.FgCyan)

	_, _ = heading.Fprintf(w, "Activity %s to %s\n", since, until)
	_, _ = fmt.Fprintf(w, "  commits:     %d\n", s.TotalCommits)
	_, _ = fmt.Fprintf(w, "  active days: %d\n", s.ActiveDays)
	_, _ = fmt.Fprintf(w, "  authors:     %d\n", s.Authors)
	_, _ = fmt.Fprintf(w, "  changes:     %s %s\n",
		color.GreenString("+%d", s.Insertions), color.RedString("-%d", s.Deletions))

	printCounts(w, heading, "Commit types", s.Types)
	printCounts(w, heading, "Top authors", s.TopAuthors)
	printCounts(w, heading, "Daily", s.Daily)
}

func printCounts(w io.Writer, heading *color.Color, title string, counts []report.Count) {
	if len(counts) == 0 {
		return
	}
	_, _ = heading.Fprintf(w, "%s\n", title)

	width := 0
	for _, c := range counts {
		width = max(width, len(c.Label))
	}
	for _, c := range counts {
		_, _ = fmt.Fprintf(w, "  %-*s %4d %s\n", width, c.Label, c.Count, strings.Repeat("#", min(c.Count, 40)))
	}
}
