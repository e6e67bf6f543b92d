package sitemap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"siteqa/lib/testutil"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func makeSitemap(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "<url>\n  <loc>\n    https://example.test/page-%d/\n  </loc><lastmod>2024-01-01</lastmod></url>", i)
	}
	b.WriteString(`</urlset>`)
	return b.String()
}

func TestFetch(t *testing.T) {
	site := testutil.NewFakeSite(t, map[string]testutil.Page{
		"/sitemap.xml": {ContentType: "application/xml", Body: makeSitemap(15)},
		"/small.xml":   {ContentType: "application/xml", Body: makeSitemap(3)},
		"/index.xml": {ContentType: "application/xml", Body: `<sitemapindex>
			<sitemap><loc>https://example.test/a.xml</loc></sitemap>
		</sitemapindex>`},
		"/broken.xml": {ContentType: "application/xml", Body: `<urlset><url>`},
		"/gone.xml":   {Status: http.StatusGone},
	})
	client := resty.New()
	ctx := context.Background()

	urls, err := Fetch(ctx, client, site.URL+"/sitemap.xml", 0)
	require.NoError(t, err)
	expected := []string{}
	for i := 0; i < 10; i++ {
		expected = append(expected, fmt.Sprintf("https://example.test/page-%d/", i))
	}
	if diff := cmp.Diff(expected, urls); diff != "" {
		t.Fatal(diff)
	}

	urls, err = Fetch(ctx, client, site.URL+"/sitemap.xml", 2)
	require.NoError(t, err)
	require.Equal(t, expected[:2], urls)

	urls, err = Fetch(ctx, client, site.URL+"/small.xml", 10)
	require.NoError(t, err)
	require.Len(t, urls, 3)

	_, err = Fetch(ctx, client, site.URL+"/index.xml", 10)
	require.Error(t, err)

	_, err = Fetch(ctx, client, site.URL+"/broken.xml", 10)
	require.Error(t, err)

	_, err = Fetch(ctx, client, site.URL+"/missing.xml", 10)
	require.True(t, errors.Is(err, ErrNotFound))
	require.Equal(t, "sitemap.xml not found. Status: 404", err.Error())

	_, err = Fetch(ctx, client, site.URL+"/gone.xml", 10)
	require.EqualError(t, err, "sitemap.xml not found. Status: 410")
}

func TestExists(t *testing.T) {
	site := testutil.NewFakeSite(t, map[string]testutil.Page{
		"/sitemap.xml": {Body: makeSitemap(1)},
	})
	client := resty.New()

	status, err := Exists(context.Background(), client, site.URL+"/sitemap.xml")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	status, err = Exists(context.Background(), client, site.URL+"/nope.xml")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, status)
}
