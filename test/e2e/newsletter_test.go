//go:build e2e

package e2e

import (
	"siteqa/internal/fixtures"
	"siteqa/internal/site"
	"siteqa/internal/suite"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewsletterForm(t *testing.T) {
	runChecks(t, suite.GroupForm)
}

func TestVisualComparison(t *testing.T) {
	runChecks(t, suite.GroupVisual)
}

func TestInvalidEmailStaysOnHome(t *testing.T) {
	env := setup(t)
	session := fixtures.HomePage(t, env)
	ctx := fixtures.TestContext(t, env)

	require.NoError(t, session.Home.SubscribeToNewsletter(ctx, site.InvalidEmail))
	require.NoError(t, session.Home.AssertNotRedirectedToThankYou(ctx))
	url, err := session.Home.URL()
	require.NoError(t, err)
	require.False(t, site.IsThankYou(url))
}
