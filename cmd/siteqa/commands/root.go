package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	devenv "siteqa/dev/env"
	"siteqa/internal/fixtures"
	"siteqa/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose *bool
	baseUrl *string
)

var rootCmd = &cobra.Command{
	Use:           "siteqa",
	Short:         "siteqa runs end to end quality checks against a marketing site.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
	baseUrl = rootCmd.PersistentFlags().String("base-url", "", "Overrides the base url of the site under test.")
}

// errFailed is returned by commands that ran fine but found problems, it
// exits with 1 without printing anything else.
var errFailed = errors.New("checks failed")

// ExecuteContext runs the cli and returns the exit code.
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if errors.Is(err, errFailed) {
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func loadConfig() (devenv.SuiteConfig, error) {
	config, err := devenv.LoadSuiteConfig()
	if err != nil {
		return config, fmt.Errorf("load config: %w", err)
	}
	if *baseUrl != "" {
		config.BaseUrl = *baseUrl
	}
	slog.Debug("loaded config", "base_url", config.BaseUrl, "output_dir", config.OutputDir)
	return config, nil
}

func loadEnv() (*fixtures.Env, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return fixtures.NewEnv(config, telemetry.SlogAPI{})
}
