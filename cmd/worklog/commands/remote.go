// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bartekus/worklog/cmd/worklog/internal/clierr"
	"github.com/bartekus/worklog/internal/repo"
)

func (a *app) prober(cmd *cobra.Command, total int, description string) (*repo.Prober, func()) {
	opts := []repo.Option{
		repo.WithLogger(a.logger),
		repo.WithGitBinary(a.cfg.GitBinary),
		repo.WithConcurrency(a.cfg.FetchConcurrency),
	}
	if a.noProgress {
		return repo.NewProber(a.runner, opts...), func() {}
	}
	onDone, finish := probeProgress(cmd.ErrOrStderr(), total, description)
	return repo.NewProber(a.runner, append(opts, repo.WithOnDone(onDone))...), finish
}

func newFetchCmd(a *app) *cobra.Command {
	var repos repoFlags

	cmd := &cobra.Command{
		Use:   "fetch [repos...]",
		Short: "Run git fetch --all in every repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := repos.resolve(a, args)
			if err != nil {
				return err
			}

			p, finish := a.prober(cmd, len(paths), "[cyan]Fetching[reset]")
			outcomes, err := p.FetchAll(cmd.Context(), paths)
			finish()
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					_, _ = fmt.Fprintf(out, "%s %s: %v\n", color.RedString("failed"), o.Path, o.Err)
					continue
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", color.GreenString("fetched"), o.Path)
			}
			if failed > 0 {
				return clierr.Newf(clierr.ExitFailure, "%d of %d repositories could not be fetched", failed, len(outcomes))
			}
			return nil
		},
	}
	repos.register(cmd)
	return cmd
}

func newCheckUpdatesCmd(a *app) *cobra.Command {
	var repos repoFlags

	cmd := &cobra.Command{
		Use:   "check-updates [repos...]",
		Short: "Report which repositories have upstream changes",
		Long: `Check-updates runs "git fetch --all --dry-run" in every repository. Any
output from git is taken to mean that updates are available, so warnings can
produce false positives.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := repos.resolve(a, args)
			if err != nil {
				return err
			}

			p, finish := a.prober(cmd, len(paths), "[cyan]Checking[reset]")
			outcomes, err := p.CheckAll(cmd.Context(), paths)
			finish()
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, o := range outcomes {
				switch {
				case o.Err != nil:
					failed++
					_, _ = fmt.Fprintf(out, "%s %s: %v\n", color.RedString("error"), o.Path, o.Err)
				case o.Updates:
					_, _ = fmt.Fprintf(out, "%s %s\n", color.YellowString("updates"), o.Path)
				default:
					_, _ = fmt.Fprintf(out, "%s %s\n", color.GreenString("current"), o.Path)
				}
			}
			if failed > 0 {
				return clierr.Newf(clierr.ExitFailure, "%d of %d repositories could not be checked", failed, len(outcomes))
			}
			return nil
		},
	}
	repos.register(cmd)
	return cmd
}

func newRemoteURLCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remote-url <repo>",
		Short: "Print the origin URL of a repository, or its first remote's",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := repo.RemoteURL(args[0])
			if err != nil {
				return clierr.Wrap(clierr.ExitUsage, "", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
