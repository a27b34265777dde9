// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/worklog/cmd/worklog/internal/clierr"
	"github.com/bartekus/worklog/internal/gitlog"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		flags   collectFlags
		asJSON  bool
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "extract [repos...]",
		Short: "List the commits of a date range",
		Long: `Extract reads the commits of every repository in the date range and prints
them one per line, or as JSON with --json. The JSON form can be fed back to
"worklog report --from-json".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			got, err := a.collect(cmd, "extract", &flags, args)
			if err != nil {
				return err
			}

			if !asJSON {
				printCommits(cmd.OutOrStdout(), got.commits)
				return nil
			}
			if outPath == "" {
				return writeCommitsJSON(cmd.OutOrStdout(), got.commits)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return clierr.Wrap(clierr.ExitReportIO, "create "+outPath, err)
			}
			if err := writeCommitsJSON(f, got.commits); err != nil {
				_ = f.Close()
				return clierr.Wrap(clierr.ExitReportIO, "write "+outPath, err)
			}
			if err := f.Close(); err != nil {
				return clierr.Wrap(clierr.ExitReportIO, "close "+outPath, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d commits to %s\n", len(got.commits), outPath)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print commits as JSON")
	cmd.Flags().StringVar(&outPath, "out", "", "with --json, write to this file instead of stdout")
	return cmd
}

func printCommits(w io.Writer, commits []gitlog.Commit) {
	for _, c := range commits {
		subject, _, _ := strings.Cut(c.Message, "\n")
		_, _ = fmt.Fprintf(w, "%s %s %s/%s %s: %s (+%d -%d)\n",
			c.Date, shortHash(c.Hash), c.RepoName, c.Branch, c.Author, subject, c.Insertions, c.Deletions)
	}
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

func writeCommitsJSON(w io.Writer, commits []gitlog.Commit) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(commits)
}

func readCommitsJSON(path string) ([]gitlog.Commit, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input file
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitUsage, "read "+path, err)
	}
	var commits []gitlog.Commit
	if err := json.Unmarshal(data, &commits); err != nil {
		return nil, clierr.Wrap(clierr.ExitUsage, "decode "+path, err)
	}
	return commits, nil
}
