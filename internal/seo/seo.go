package seo

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"siteqa/lib/htmlutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// RobotsMeta returns the content of the first <meta name="robots">.
func RobotsMeta(doc *goquery.Document) (string, bool) {
	return htmlutil.MetaContent(doc, "robots")
}

// IsNoIndex reports whether a robots meta content forbids indexing.
func IsNoIndex(content string) bool {
	return strings.Contains(strings.ToLower(content), "noindex")
}

// PageMeta is the indexing information of a single page.
type PageMeta struct {
	Url    string
	Status int
	// empty if the page has no robots meta
	Robots    string
	HasRobots bool
	// X-Robots-Tag response header
	RobotsHeader string
}

// NoIndex is true when either the meta tag or the response header
// forbids indexing.
func (m PageMeta) NoIndex() bool {
	return IsNoIndex(m.Robots) || IsNoIndex(m.RobotsHeader)
}

// FetchPageMeta gets the page at url and inspects its robots meta.
func FetchPageMeta(ctx context.Context, client *resty.Client, url string) (PageMeta, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return PageMeta{}, fmt.Errorf("get %s: %w", url, err)
	}
	meta := PageMeta{
		Url:          url,
		Status:       res.StatusCode(),
		RobotsHeader: res.Header().Get("x-robots-tag"),
	}
	if res.StatusCode() != http.StatusOK {
		return meta, fmt.Errorf("get %s: unexpected status %d", url, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return meta, fmt.Errorf("parse %s: %w", url, err)
	}
	meta.Robots, meta.HasRobots = RobotsMeta(doc)
	return meta, nil
}
