//go:build e2e

// Package e2e runs the suite against the live site, select it with
// `go test -tags e2e ./test/e2e/...`.
package e2e

import (
	"context"
	devenv "siteqa/dev/env"
	"siteqa/internal/chrono"
	"siteqa/internal/fixtures"
	"siteqa/internal/report"
	"siteqa/internal/suite"
	"siteqa/lib/telemetry"
	"testing"

	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T) devenv.SuiteConfig {
	t.Helper()
	config, err := devenv.LoadSuiteConfig()
	require.NoError(t, err)
	return config
}

// setup returns an Env for checks that need a browser, the test is skipped
// without one.
func setup(t *testing.T) *fixtures.Env {
	t.Helper()
	return fixtures.SetupEnv(t, loadConfig(t))
}

// runChecks runs the checks of the suite matching only as subtests and
// requires every one of them to pass.
func runChecks(t *testing.T, only ...string) {
	cleanup := telemetry.SetupForTesting("test:siteqa.e2e")
	t.Cleanup(cleanup)

	env, err := fixtures.NewEnv(loadConfig(t), telemetry.SlogAPI{})
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })

	runner := suite.NewRunner(env, chrono.NewStandardTime(), telemetry.SlogAPI{})

	checks := suite.Select(suite.Checks(env), only)
	require.NotEmpty(t, checks)
	for _, check := range checks {
		t.Run(check.ID, func(t *testing.T) {
			result := runner.RunCheck(context.Background(), check)
			for _, a := range result.Attachments {
				t.Logf("attachment %s: %s", a.Label, a.Path)
			}
			switch result.Status {
			case report.StatusSkipped:
				t.Skip(result.Message)
			case report.StatusFailed:
				t.Fatalf("%s: %s", check.Name, result.Message)
			}
		})
	}
}
