package commands

import (
	"fmt"
	"log/slog"
	"siteqa/internal/linkcheck"
	"siteqa/internal/site"

	"github.com/spf13/cobra"
)

var linksPath *string

func init() {
	linksPath = linksCmd.Flags().String("path", site.Home, "The page to collect links from.")
	rootCmd.AddCommand(linksCmd)
}

var linksCmd = &cobra.Command{
	Use:   "links [--path </page/>]",
	Short: "Checks that no link on a page responds with 404.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := loadEnv()
		if err != nil {
			return err
		}

		pageUrl, err := site.Join(env.Config.BaseUrl, *linksPath)
		if err != nil {
			return err
		}
		links, err := linkcheck.ExtractFromUrl(ctx, env.Http, pageUrl)
		if err != nil {
			return err
		}
		links = linkcheck.Filter(links)
		slog.Info("checking links", "page", pageUrl, "count", len(links))

		checker := linkcheck.NewChecker(env.Http, linkcheck.CheckerOptions{
			Concurrency: env.Config.Http.Concurrency,
		}, env.Tel)
		broken, err := checker.Check(ctx, links)
		if err != nil {
			if len(broken) > 0 {
				fmt.Printf("Broken links so far:\n%s\n", linkcheck.Format(broken))
			}
			return fmt.Errorf("link check did not finish: %w", err)
		}
		if len(broken) == 0 {
			fmt.Println("No broken links.")
			return nil
		}
		fmt.Printf("Broken links:\n%s\n", linkcheck.Format(broken))
		return errFailed
	},
}
