package sitemap

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DefaultLimit is the amount of urls returned when no limit is given.
const DefaultLimit = 10

// ErrNotFound is returned when the sitemap does not respond with 200.
var ErrNotFound = errors.New("sitemap.xml not found")

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Urls    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// Parse returns the <loc> of every <url> of a <urlset> document in
// document order, capped at limit.
func Parse(data []byte, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var doc urlset
	err := xml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	urls := []string{}
	for _, u := range doc.Urls {
		if len(urls) >= limit {
			break
		}
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			continue
		}
		urls = append(urls, loc)
	}
	return urls, nil
}

// Fetch gets the sitemap at endpoint and returns up to limit of the page
// urls it lists, a limit <= 0 means DefaultLimit.
func Fetch(ctx context.Context, client *resty.Client, endpoint string, limit int) ([]string, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("get sitemap: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w. Status: %d", ErrNotFound, res.StatusCode())
	}
	return Parse(res.Body(), limit)
}

// Exists returns the status code the sitemap endpoint responds with.
func Exists(ctx context.Context, client *resty.Client, endpoint string) (int, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return 0, fmt.Errorf("get sitemap: %w", err)
	}
	return res.StatusCode(), nil
}
