package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"siteqa/internal/chrono"
	"siteqa/internal/report"
	"siteqa/internal/store"
	"siteqa/internal/suite"
	"siteqa/lib/telemetry"
	"siteqa/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	runOnly   *string
	runDb     *string
	runReport *string
	runList   *bool
)

func init() {
	runOnly = runCmd.Flags().String("only", "", "Comma separated check ids or groups (form, visual, seo, links) to run.")
	runDb = runCmd.Flags().String("db", "", "The sqlite database to record the run in, defaults to db_path of the config.")
	runReport = runCmd.Flags().String("report", "", "The directory to write the html report to, defaults to <output_dir>/report.")
	runList = runCmd.Flags().Bool("list", false, "List the selected checks without running them.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--only <ids or groups>] [--db <path/to/history.db>] [--report <dir>]",
	Short: "Runs the checks against the site and writes a report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := loadEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		checks := suite.Select(suite.Checks(env), textutil.SplitList(*runOnly))
		if len(checks) == 0 {
			return fmt.Errorf("no checks match %q", *runOnly)
		}
		if *runList {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"ID", "Group", "Browser", "Name"})
			for _, c := range checks {
				t.AppendRow(table.Row{c.ID, c.Group, c.Browser, c.Name})
			}
			t.Render()
			return nil
		}
		if !env.BrowserAvailable() {
			slog.Warn("no browser found, browser checks will be skipped")
		}

		runner := suite.NewRunner(env, chrono.NewStandardTime(), telemetry.SlogAPI{})
		out := runner.Run(ctx, checks)
		out.RenderTable(os.Stdout)

		reportDir := *runReport
		if reportDir == "" {
			reportDir = filepath.Join(env.Config.OutputDir, "report")
		}
		err = out.Save(reportDir)
		if err != nil {
			slog.Error("failed to save report", "dir", reportDir, "err", err)
		} else {
			slog.Info("wrote report", "path", filepath.Join(reportDir, "index.html"))
		}

		dbpath := *runDb
		if dbpath == "" {
			dbpath = env.Config.DbPath
		}
		if dbpath != "" {
			err = record(cmd, dbpath, out)
			if err != nil {
				slog.Error("failed to record run", "db", dbpath, "err", err)
			}
		}

		if out.Failed() {
			return errFailed
		}
		return nil
	},
}

func record(cmd *cobra.Command, dbpath string, out report.Report) error {
	ctx := cmd.Context()
	history, database, err := store.Open(ctx, dbpath)
	if err != nil {
		return err
	}
	defer database.Close()

	runId, err := history.Push(ctx, out)
	if err != nil {
		return err
	}
	slog.Debug("recorded run", "id", runId)

	for _, e := range out.Entries {
		if e.Status != report.StatusFailed {
			continue
		}
		streak, err := history.FailureStreak(ctx, e.ID)
		if err != nil {
			return err
		}
		if streak > 1 {
			slog.Warn("check keeps failing", "id", e.ID, "runs", streak)
		}
	}
	return nil
}
