package site

import (
	"fmt"
	"net/url"
	"strings"
)

// Routes of the pages the suite visits.
const (
	Home     = "/"
	ThankYou = "/thanks-for-signing-up/"
)

// Inputs submitted to the newsletter form.
const (
	EmptyEmail   = ""
	InvalidEmail = "invalid-email"
)

// SEO endpoints.
const (
	SitemapPath   = "/sitemap.xml"
	RobotsTxtPath = "/robots.txt"
)

// ImportantPaths returns the paths that must stay crawlable.
func ImportantPaths() []string {
	return []string{
		"/",
		"/pricing/",
		"/blog/",
		"/platform/",
		"/contact/",
	}
}

// Join resolves path against baseUrl, absolute urls are returned as is.
func Join(baseUrl, path string) (string, error) {
	base, err := url.Parse(baseUrl)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if base.Path == "" {
		base.Path = "/"
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path %s: %w", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// MustJoin is Join for paths known at compile time.
func MustJoin(baseUrl, path string) string {
	out, err := Join(baseUrl, path)
	if err != nil {
		panic(err)
	}
	return out
}

// IsThankYou reports whether rawUrl points at the thank-you page, matching
// the path case-insensitively anywhere in the url.
func IsThankYou(rawUrl string) bool {
	return strings.Contains(strings.ToLower(rawUrl), strings.ToLower(ThankYou))
}
