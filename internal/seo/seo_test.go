package seo

import (
	"context"
	"siteqa/lib/testutil"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestIsNoIndex(t *testing.T) {
	testCases := []struct {
		content  string
		expected bool
	}{
		{content: "noindex", expected: true},
		{content: "NOINDEX, nofollow", expected: true},
		{content: "index, follow", expected: false},
		{content: "nofollow", expected: false},
		{content: "", expected: false},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, IsNoIndex(test.content), test.content)
	}
}

func TestRobotsMeta(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><meta name="robots" content="index, follow"></head></html>`,
	))
	require.NoError(t, err)
	content, ok := RobotsMeta(doc)
	require.True(t, ok)
	require.Equal(t, "index, follow", content)

	doc, err = goquery.NewDocumentFromReader(strings.NewReader(`<html><head></head></html>`))
	require.NoError(t, err)
	_, ok = RobotsMeta(doc)
	require.False(t, ok)
}

func TestFetchPageMeta(t *testing.T) {
	site := testutil.NewFakeSite(t, map[string]testutil.Page{
		"/":        {Body: `<html><head><title>home</title></head></html>`},
		"/hidden/": {Body: `<html><head><meta name="robots" content="noindex"></head></html>`},
	})
	client := resty.New()
	ctx := context.Background()

	meta, err := FetchPageMeta(ctx, client, site.URL+"/")
	require.NoError(t, err)
	require.False(t, meta.HasRobots)
	require.False(t, meta.NoIndex())

	meta, err = FetchPageMeta(ctx, client, site.URL+"/hidden/")
	require.NoError(t, err)
	require.True(t, meta.HasRobots)
	require.True(t, meta.NoIndex())

	meta, err = FetchPageMeta(ctx, client, site.URL+"/missing/")
	require.Error(t, err)
	require.Equal(t, 404, meta.Status)
}
