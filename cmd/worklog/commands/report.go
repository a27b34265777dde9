// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bartekus/worklog/internal/gitlog"
	"github.com/bartekus/worklog/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		flags      collectFlags
		onlyAuthor string
		onlyRepo   string
		outputRoot string
		fromJSON   string
	)

	cmd := &cobra.Command{
		Use:   "report [repos...]",
		Short: "Write per-author and total work-log reports",
		Long: `Report writes one text file per author plus a TOTAL file into
<output-root>/<since>~<until>/, grouping commit messages by date, project
and branch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				commits      []gitlog.Commit
				since, until string
				err          error
			)
			if fromJSON != "" {
				since, until, err = flags.rng.resolve(a.now())
				if err != nil {
					return err
				}
				if commits, err = readCommitsJSON(fromJSON); err != nil {
					return err
				}
				commits = report.FilterAuthor(commits, flags.author)
			} else {
				got, err := a.collect(cmd, "report", &flags, args)
				if err != nil {
					return err
				}
				commits, since, until = got.commits, got.since, got.until
			}

			commits = report.FilterExport(commits, onlyAuthor, onlyRepo)

			root := outputRoot
			if root == "" {
				root = a.cfg.OutputRoot
			}
			written, err := report.NewWriter(root, a.logger).Write(commits, since, until)
			if err != nil {
				return classify(err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s %d commits\n", color.GreenString("Reports written to %s:", written.Dir), len(commits))
			authors := make([]string, 0, len(written.Authors))
			for author := range written.Authors {
				authors = append(authors, author)
			}
			sort.Strings(authors)
			for _, author := range authors {
				_, _ = fmt.Fprintf(out, "  %s\n", written.Authors[author])
			}
			_, _ = fmt.Fprintf(out, "  %s\n", written.Total)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&onlyAuthor, "only-author", "", "only include this exact author")
	cmd.Flags().StringVar(&onlyRepo, "only-repo", "", "only include this exact repository name")
	cmd.Flags().StringVar(&outputRoot, "output-root", "", "directory to write reports under (default from config)")
	cmd.Flags().StringVar(&fromJSON, "from-json", "", "read commits from a file written by extract --json instead of git")
	return cmd
}
