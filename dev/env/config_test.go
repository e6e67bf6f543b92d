package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSuiteConfig(t *testing.T) {
	config := DefaultSuiteConfig()
	require.Equal(t, "https://www.netlify.com", config.BaseUrl)
	require.Equal(t, 1440, config.Browser.ViewportWidth)
	require.Equal(t, 900, config.Browser.ViewportHeight)
	require.True(t, config.Browser.ShouldIgnoreHTTPSErrors())
	require.Equal(t, "30s", config.Timeouts.TestTimeout().String())
	require.Equal(t, "5s", config.Timeouts.ExpectTimeout().String())
	require.Equal(t, "10s", config.Timeouts.NavigationTimeout().String())
	require.Equal(t, 10, config.SitemapLimit)
}

func TestHeadless(t *testing.T) {
	yes := true
	no := false
	require.True(t, BrowserConfig{Headless: &yes}.IsHeadless())
	require.False(t, BrowserConfig{Headless: &no}.IsHeadless())

	t.Setenv("CI", "1")
	require.True(t, BrowserConfig{}.IsHeadless())
}

func TestResolveRelativeToConfigDir(t *testing.T) {
	config := SuiteConfig{OutputDir: "out", DbPath: "history.db"}
	resolved, err := config.Resolve("/srv/qa")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/srv/qa", "out"), resolved.OutputDir)
	require.Equal(t, filepath.Join("/srv/qa", "history.db"), resolved.DbPath)

	config = SuiteConfig{OutputDir: "/abs/out", DbPath: ":memory:"}
	resolved, err = config.Resolve("/srv/qa")
	require.NoError(t, err)
	require.Equal(t, "/abs/out", resolved.OutputDir)
	require.Equal(t, ":memory:", resolved.DbPath)
}

func TestLoadSuiteConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName), []byte(`{
		base_url: "https://staging.example.com",
		output_dir: "artifacts",
		browser: { headless: false },
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "siteqa.local.json5"), []byte(`{
		sitemap_limit: 3,
	}`), 0644))

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { os.Chdir(wd) })

	config, err := LoadSuiteConfig()
	require.NoError(t, err)
	require.Equal(t, "https://staging.example.com", config.BaseUrl)
	require.Equal(t, 3, config.SitemapLimit)
	require.False(t, config.Browser.IsHeadless())
	require.Equal(t, filepath.Join(dir, "artifacts"), config.OutputDir)
	// untouched fields keep their defaults
	require.Equal(t, 1440, config.Browser.ViewportWidth)
	require.Equal(t, "label.hs-error-msg", config.Selectors.ErrorMessage.Selector)
}
