package site

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	testCases := []struct {
		base     string
		path     string
		expected string
	}{
		{base: "https://www.netlify.com", path: SitemapPath, expected: "https://www.netlify.com/sitemap.xml"},
		{base: "https://www.netlify.com/", path: ThankYou, expected: "https://www.netlify.com/thanks-for-signing-up/"},
		{base: "https://www.netlify.com/sub/", path: Home, expected: "https://www.netlify.com/"},
		{base: "https://www.netlify.com", path: "https://other.test/x", expected: "https://other.test/x"},
	}
	for _, test := range testCases {
		out, err := Join(test.base, test.path)
		require.NoError(t, err)
		require.Equal(t, test.expected, out)
	}
}

func TestImportantPathsAreFresh(t *testing.T) {
	paths := ImportantPaths()
	paths[0] = "/changed"
	require.Equal(t, "/", ImportantPaths()[0])
}

func TestIsThankYou(t *testing.T) {
	require.True(t, IsThankYou("https://www.netlify.com/thanks-for-signing-up/"))
	require.True(t, IsThankYou("https://www.netlify.com/Thanks-For-Signing-Up/?x=1"))
	require.False(t, IsThankYou("https://www.netlify.com/"))
}

var emailPattern = regexp.MustCompile(`^qa-[a-z0-9]+@gmail\.com$`)

func TestRandomEmail(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		email, err := RandomEmail()
		require.NoError(t, err)
		require.Regexp(t, emailPattern, email)
		require.False(t, seen[email], "duplicate email %s", email)
		seen[email] = true
	}
}
