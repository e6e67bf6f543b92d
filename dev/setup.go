package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	devenv "siteqa/dev/env"
	"siteqa/internal/browser"
	"siteqa/internal/store"

	"github.com/go-rod/rod/lib/launcher"
)

const localConfig = `// local overrides of siteqa.json5, not checked in
{
	browser: {
		// headless: false,
	},
	http: {
		// dump_dir: "<dev_state>/siteqa/http",
	},
}
`

func CreateLocalConfig() error {
	path := "siteqa.local.json5"
	_, err := os.Stat(path)
	if err == nil {
		fmt.Println("local config already exists at", path)
		return nil
	}
	fmt.Println("creating local config at", path)
	return os.WriteFile(path, []byte(localConfig), 0644)
}

func CreateHistoryDB() error {
	config, err := devenv.LoadSuiteConfig()
	if err != nil {
		return err
	}
	if config.DbPath == "" {
		fmt.Println("db_path is not set, skipping history database")
		return nil
	}

	_, err = os.Stat(config.DbPath)
	if err == nil {
		fmt.Println("database already created at", config.DbPath)
		return nil
	}

	fmt.Println("creating database at", config.DbPath)
	_, db, err := store.Open(context.Background(), config.DbPath)
	if err != nil {
		return err
	}
	return db.Close()
}

func EnsureBrowser(download bool) error {
	config, err := devenv.LoadSuiteConfig()
	if err != nil {
		return err
	}
	if browser.Available(browser.OptionsFromConfig(config.Browser)) {
		fmt.Println("found a browser")
		return nil
	}
	if !download {
		slog.Warn("no chrome install found, browser checks will be skipped. rerun with -download-browser to fetch chromium.")
		return nil
	}
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return err
	}
	fmt.Println("downloaded chromium to", path)
	fmt.Println("set browser.bin in siteqa.local.json5 to use it")
	return nil
}

func PrintConfigLocations() {
	slog.Info("siteqa.json5 holds the shared config, put machine specific overrides in siteqa.local.json5. run reports and screenshots are written under dev/.state/siteqa.")
}
