package linkcheck

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"siteqa/internal/assert"
	"siteqa/lib/htmlutil"
	"siteqa/lib/telemetry"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	report_checker_check = "checker.check"
	report_checker_probe = "checker.probe"
	report_checker_total = "checker.total"
)

var skippedSchemes = []string{"mailto:", "tel:", "javascript:"}

// Filter drops links that cannot be probed over http (mailto:, tel:,
// javascript: and anything with a fragment) and removes duplicates, keeping
// the order links were first seen in.
func Filter(links []string) []string {
	seen := map[string]bool{}
	out := []string{}
outer:
	for _, link := range links {
		for _, scheme := range skippedSchemes {
			if strings.HasPrefix(link, scheme) {
				continue outer
			}
		}
		if strings.Contains(link, "#") || seen[link] {
			continue
		}
		seen[link] = true
		out = append(out, link)
	}
	return out
}

// Extract returns the absolute hrefs of every anchor in doc, base is the
// url the document was loaded from.
func Extract(ctx context.Context, base *url.URL, doc *goquery.Document) []string {
	anchors := htmlutil.GetAnchors(ctx, base, doc.Find("a[href]"))
	links := make([]string, len(anchors))
	for i, a := range anchors {
		links[i] = a.Href
	}
	return links
}

// ExtractFromUrl fetches pageUrl and extracts its links.
func ExtractFromUrl(ctx context.Context, client *resty.Client, pageUrl string) ([]string, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", pageUrl, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", pageUrl, res.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageUrl, err)
	}
	// resolve against where redirects ended up
	base := res.RawResponse.Request.URL
	return Extract(ctx, base, doc), nil
}

// Broken is a link that responded with 404.
type Broken struct {
	Url    string
	Status int
}

func (b Broken) String() string {
	return fmt.Sprintf("%s - Status: %d", b.Url, b.Status)
}

type Checker struct {
	client      *resty.Client
	concurrency int
	limiter     *rate.Limiter
	tel         telemetry.API
}

type CheckerOptions struct {
	// defaults to 1
	Concurrency int
	// optional, shared between every probe
	Limiter *rate.Limiter
}

func NewChecker(client *resty.Client, opts CheckerOptions, tel telemetry.API) Checker {
	assert.NotNil(client)
	assert.NotNil(tel)
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return Checker{
		client:      client,
		concurrency: opts.Concurrency,
		limiter:     opts.Limiter,
		tel:         telemetry.NewScopedAPI("linkcheck", tel),
	}
}

func (c Checker) probe(ctx context.Context, link string) (int, error) {
	if c.limiter != nil {
		err := c.limiter.Wait(ctx)
		if err != nil {
			return 0, err
		}
	}
	res, err := c.client.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return 0, err
	}
	return res.StatusCode(), nil
}

// Check probes every link and returns the ones that responded with 404,
// in the order they were given. Links that could not be reached at all are
// reported as warnings and not counted as broken. If ctx ends before every
// link was probed, the links found so far are returned with ctx's error.
func (c Checker) Check(ctx context.Context, links []string) ([]Broken, error) {
	statuses := make([]int, len(links))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.concurrency)
	for i, link := range links {
		i, link := i, link
		group.Go(func() error {
			status, err := c.probe(groupCtx, link)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return fmt.Errorf("probe %s: %w", link, ctxErr)
				}
				c.tel.ReportWarning(report_checker_probe, link, err)
				return nil
			}
			c.tel.ReportDebug(report_checker_probe, link, status)
			statuses[i] = status
			return nil
		})
	}
	err := group.Wait()
	c.tel.ReportCount(report_checker_total, int64(len(links)))

	broken := []Broken{}
	for i, status := range statuses {
		if status == http.StatusNotFound {
			broken = append(broken, Broken{Url: links[i], Status: status})
		}
	}
	if err != nil {
		c.tel.ReportWarning(report_checker_check, err)
		return broken, err
	}
	return broken, nil
}

// Format renders broken links one per line.
func Format(broken []Broken) string {
	lines := make([]string, len(broken))
	for i, b := range broken {
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
