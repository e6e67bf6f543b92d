package commands

import (
	"fmt"
	"os"
	"siteqa/internal/report"
	"siteqa/internal/store"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	historyDb    *string
	historyLimit *int
	historyRun   *int64
)

func init() {
	historyDb = historyCmd.Flags().String("db", "", "The sqlite database runs were recorded in, defaults to db_path of the config.")
	historyLimit = historyCmd.Flags().Int("limit", 20, "The amount of runs to show.")
	historyRun = historyCmd.Flags().Int64("run", 0, "Show the results of a single run.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--db <path/to/history.db>] [--run <id>]",
	Short: "Shows previously recorded runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dbpath := *historyDb
		if dbpath == "" {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			dbpath = config.DbPath
		}
		if dbpath == "" {
			return fmt.Errorf("no database given, pass --db or set db_path")
		}

		history, database, err := store.Open(ctx, dbpath)
		if err != nil {
			return err
		}
		defer database.Close()

		if *historyRun > 0 {
			entries, err := history.Results(ctx, *historyRun)
			if err != nil {
				return err
			}
			report.Report{Entries: entries}.RenderTable(os.Stdout)
			return nil
		}

		runs, err := history.Runs(ctx, *historyLimit)
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Run", "Site", "Started", "Duration", "Passed", "Failed", "Skipped"})
		for _, r := range runs {
			t.AppendRow(table.Row{
				r.ID,
				r.BaseUrl,
				r.Started.Local().Format(time.DateTime),
				r.Finished.Sub(r.Started).Round(time.Millisecond).String(),
				r.Summary.Passed,
				r.Summary.Failed,
				r.Summary.Skipped,
			})
		}
		t.Render()
		return nil
	},
}
