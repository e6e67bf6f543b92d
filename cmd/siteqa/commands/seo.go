package commands

import (
	"fmt"
	"log/slog"
	"os"
	"siteqa/internal/robots"
	"siteqa/internal/site"
	"siteqa/internal/sitemap"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var sitemapLimit *int

func init() {
	sitemapLimit = sitemapCmd.Flags().Int("limit", 0, "The amount of urls to check, defaults to sitemap_limit of the config.")
	rootCmd.AddCommand(sitemapCmd)
	rootCmd.AddCommand(robotsCmd)
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap [--limit <n>]",
	Short: "Fetches sitemap.xml and checks that its first urls respond with 200.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := loadEnv()
		if err != nil {
			return err
		}

		limit := *sitemapLimit
		if limit <= 0 {
			limit = env.Config.SitemapLimit
		}
		endpoint, err := site.Join(env.Config.BaseUrl, site.SitemapPath)
		if err != nil {
			return err
		}
		urls, err := sitemap.Fetch(ctx, env.Http, endpoint, limit)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"URL", "Status"})
		failed := false
		for _, u := range urls {
			res, err := env.Http.R().SetContext(ctx).Get(u)
			if err != nil {
				slog.Warn("failed to get url", "url", u, "err", err)
				t.AppendRow(table.Row{u, "error"})
				failed = true
				continue
			}
			t.AppendRow(table.Row{u, res.StatusCode()})
			failed = failed || res.StatusCode() != 200
		}
		t.Render()

		if failed {
			return errFailed
		}
		return nil
	},
}

var robotsCmd = &cobra.Command{
	Use:   "robots",
	Short: "Prints the rules of robots.txt and whether the important pages are allowed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		endpoint, err := site.Join(env.Config.BaseUrl, site.RobotsTxtPath)
		if err != nil {
			return err
		}
		file, err := robots.Fetch(cmd.Context(), env.Http, endpoint)
		if err != nil {
			return err
		}

		rules := table.NewWriter()
		rules.SetOutputMirror(os.Stdout)
		rules.SetStyle(table.StyleRounded)
		rules.AppendHeader(table.Row{"User-agent", "Allow", "Disallow"})
		for _, g := range file.Rules() {
			rules.AppendRow(table.Row{
				strings.Join(g.UserAgents, "\n"),
				strings.Join(g.Allow, "\n"),
				strings.Join(g.Disallow, "\n"),
			})
		}
		rules.Render()

		for _, s := range file.Sitemaps() {
			fmt.Println("Sitemap:", s)
		}

		paths := env.Config.ImportantPaths
		if len(paths) == 0 {
			paths = site.ImportantPaths()
		}
		failed := false
		for _, p := range paths {
			if file.Disallows(p) {
				slog.Error("important page is disallowed", "path", p)
				failed = true
			}
		}
		if failed {
			return errFailed
		}
		return nil
	},
}
