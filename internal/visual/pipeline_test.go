package visual_test

import (
	"path/filepath"
	"siteqa/internal/fixtures"
	"siteqa/internal/report"
	"siteqa/internal/site"
	"siteqa/internal/visual"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunErrorComparison(t *testing.T) {
	_, config := fixtures.FakeSite(t)
	env := fixtures.SetupEnv(t, config)
	ctx := fixtures.TestContext(t, env)

	dir := filepath.Join(t.TempDir(), "invalid-email")
	var attachments report.Attachments
	comparison, err := visual.RunErrorComparison(ctx, env, site.InvalidEmail, dir, "Invalid Email", &attachments)
	require.NoError(t, err)
	require.NoError(t, comparison.Expect())
	require.Len(t, attachments.List(), 4)

	home, err := visual.ReadPNG(comparison.HomepagePath)
	require.NoError(t, err)
	thanks, err := visual.ReadPNG(comparison.ThankYouPath)
	require.NoError(t, err)
	require.Equal(t, home.Bounds(), thanks.Bounds())
}
