// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Worklog - turns the commit history of local git repositories into per-author
work-log reports for a date range.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bartekus/worklog/cmd/worklog/internal/clierr"
	"github.com/bartekus/worklog/internal/config"
	"github.com/bartekus/worklog/internal/gitcmd"
	wlog "github.com/bartekus/worklog/internal/log"
)

// app is the state shared by every subcommand of one root command.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool
	noProgress bool

	cfg    config.Config
	logger *slog.Logger
	runner gitcmd.Runner
	now    func() time.Time
}

// NewRootCmd constructs the worklog root Cobra command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{runner: gitcmd.NewExecRunner(), now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	version := os.Getenv("WORKLOG_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:   "worklog",
		Short: "Worklog - work-log reports from local git history",
		Long: `Worklog reads the commit history of local git repositories and writes
per-author and total work-log reports grouped by date, project and branch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultFile+")")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: DEBUG, INFO, WARN or ERROR")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: pretty or json")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVar(&a.noProgress, "no-progress", false, "do not draw progress bars on stderr")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of worklog",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "worklog version %s\n", version)
		},
	})

	cmd.AddCommand(newExtractCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newFetchCmd(a))
	cmd.AddCommand(newCheckUpdatesCmd(a))
	cmd.AddCommand(newRemoteURLCmd(a))
	cmd.AddCommand(newLastRunCmd(a))

	return cmd
}

// load resolves configuration (flags > env > file > defaults) and builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = config.DefaultFile
	}

	cfg, err := config.Resolve(path, "")
	if err != nil {
		return classify(err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = config.LogFormat(strings.ToLower(a.logFormat))
	}
	if a.verbose {
		cfg.LogLevel = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		return classify(err)
	}

	a.cfg = cfg
	a.logger = wlog.NewLoggerWithWriter(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
	a.logger.Debug("configuration loaded",
		slog.String("config", path),
		slog.String("git", cfg.GitBinary),
		slog.String("output_root", cfg.OutputRoot),
	)
	return nil
}

// usageErrorf reports bad invocations with ExitUsage.
func usageErrorf(format string, args ...any) error {
	return clierr.Newf(clierr.ExitUsage, format, args...)
}
