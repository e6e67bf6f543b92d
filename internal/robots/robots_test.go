package robots

import (
	"context"
	"errors"
	"siteqa/lib/testutil"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const robotsTxt = `# robots for example
User-agent: Googlebot
User-agent: Bingbot
Disallow: /private/
Allow: /private/press/

User-agent: *
Disallow: /admin   # comment
disallow: /pricing/
Disallow:

Sitemap: https://example.test/sitemap.xml
`

func TestDisallows(t *testing.T) {
	file := File{Raw: robotsTxt}

	testCases := []struct {
		path     string
		expected bool
	}{
		{path: "/private/", expected: true},
		{path: "/admin", expected: true},
		{path: "/pricing/", expected: true},
		{path: "/", expected: false},
		{path: "/blog/", expected: false},
		{path: "/private/press/", expected: false},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, file.Disallows(test.path), test.path)
	}
}

func TestDisallowsPatterns(t *testing.T) {
	file := File{Raw: "User-agent: *\nDisallow: /pricing/*\nDisallow: /contact/$\nDisallow: /blog/drafts*\n"}

	testCases := []struct {
		path     string
		expected bool
	}{
		{path: "/pricing/", expected: true},
		{path: "/contact/", expected: true},
		{path: "/blog/", expected: false},
		{path: "/", expected: false},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, file.Disallows(test.path), test.path)
	}
}

func TestRules(t *testing.T) {
	file := File{Raw: robotsTxt}
	expected := []Group{
		{
			UserAgents: []string{"Googlebot", "Bingbot"},
			Allow:      []string{"/private/press/"},
			Disallow:   []string{"/private/"},
		},
		{
			UserAgents: []string{"*"},
			Disallow:   []string{"/admin", "/pricing/"},
		},
	}
	if diff := cmp.Diff(expected, file.Rules()); diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, []string{"https://example.test/sitemap.xml"}, file.Sitemaps())
}

func TestFetch(t *testing.T) {
	site := testutil.NewFakeSite(t, map[string]testutil.Page{
		"/robots.txt": {ContentType: "text/plain", Body: robotsTxt},
	})
	client := resty.New()

	file, err := Fetch(context.Background(), client, site.URL+"/robots.txt")
	require.NoError(t, err)
	require.Equal(t, robotsTxt, file.Raw)

	_, err = Fetch(context.Background(), client, site.URL+"/missing.txt")
	require.True(t, errors.Is(err, ErrNotFound))
}
