package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, `<html><body>
		<a href="/pricing/">  Pricing
			plans </a>
		<a href="https://other.test/x">Other</a>
		<a>no href</a>
		<a href="blog/post?id=1#top">Post</a>
		<a href="mailto:hi@example.com">Mail</a>
	</body></html>`)

	base, err := url.Parse("https://www.example.com/docs/")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), base, doc.Find("a"))
	expected := []Anchor{
		{Name: "Pricing plans", Href: "https://www.example.com/pricing/"},
		{Name: "Other", Href: "https://other.test/x"},
		{Name: "Post", Href: "https://www.example.com/docs/blog/post?id=1#top"},
		{Name: "Mail", Href: "mailto:hi@example.com"},
	}
	if diff := cmp.Diff(expected, anchors); diff != "" {
		t.Fatal(diff)
	}
}

func TestGetAnchorsWithoutBase(t *testing.T) {
	doc := parse(t, `<a href="/relative">Rel</a>`)
	anchors := GetAnchors(context.Background(), nil, doc.Find("a"))
	require.Equal(t, []Anchor{{Name: "Rel", Href: "/relative"}}, anchors)
}

func TestMetaContent(t *testing.T) {
	doc := parse(t, `<html><head>
		<meta name="description" content="hello">
		<meta name="ROBOTS" content="noindex, nofollow">
		<meta name="robots" content="index">
	</head></html>`)

	content, ok := MetaContent(doc, "robots")
	require.True(t, ok)
	require.Equal(t, "noindex, nofollow", content)

	_, ok = MetaContent(doc, "googlebot")
	require.False(t, ok)
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "a b", CleanText("\n\t a \u0007   b \n"))
}
