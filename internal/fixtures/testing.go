package fixtures

import (
	"context"
	devenv "siteqa/dev/env"
	"siteqa/lib/telemetry"
	"testing"
)

// SetupEnv creates an Env for a test, skipping the test when no browser is
// available. The browser is closed when the test ends.
func SetupEnv(t testing.TB, config devenv.SuiteConfig) *Env {
	t.Helper()

	cleanup := telemetry.SetupForTesting("test:siteqa")
	t.Cleanup(cleanup)

	env, err := NewEnv(config, telemetry.SlogAPI{})
	if err != nil {
		t.Fatal(err)
	}
	if !env.BrowserAvailable() {
		t.Skip("no chrome binary found and no remote browser configured")
	}
	t.Cleanup(func() { env.Close() })
	return env
}

// HomePage opens the home page for a test, the page is closed when the
// test ends.
func HomePage(t testing.TB, env *Env) Session {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), env.Config.Timeouts.TestTimeout())
	t.Cleanup(cancel)

	session, err := env.OpenHome(ctx)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

// TestContext returns a context bounded by the test timeout.
func TestContext(t testing.TB, env *Env) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), env.Config.Timeouts.TestTimeout())
	t.Cleanup(cancel)
	return ctx
}
