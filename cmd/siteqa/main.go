package main

import (
	"context"
	"log/slog"
	"os"
	"siteqa/cmd/siteqa/commands"
	"siteqa/lib/serviceutil"
	"siteqa/lib/telemetry"
	"time"
)

func main() {
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "siteqa")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	code := commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	err = tel.Shutdown(shutdownCtx)
	cancel()
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
	os.Exit(code)
}
