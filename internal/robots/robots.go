package robots

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound is returned when robots.txt does not respond with 200.
var ErrNotFound = errors.New("robots.txt not found")

// File is a fetched robots.txt.
type File struct {
	Raw string
}

// Group is a set of user-agents sharing the same rules.
type Group struct {
	UserAgents []string
	Allow      []string
	Disallow   []string
}

func Fetch(ctx context.Context, client *resty.Client, endpoint string) (File, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return File{}, fmt.Errorf("get robots.txt: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return File{}, fmt.Errorf("%w. Status: %d", ErrNotFound, res.StatusCode())
	}
	return File{Raw: res.String()}, nil
}

type directive struct {
	key   string
	value string
}

func (f File) directives() []directive {
	var out []directive
	scanner := bufio.NewScanner(strings.NewReader(f.Raw))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out = append(out, directive{
			key:   strings.ToLower(strings.TrimSpace(key)),
			value: strings.TrimSpace(value),
		})
	}
	return out
}

// Disallows returns true if any group has a `Disallow: <path>` directive
// for exactly path, optionally followed by a `*` or `$` pattern suffix.
func (f File) Disallows(path string) bool {
	for _, d := range f.directives() {
		if d.key != "disallow" {
			continue
		}
		switch d.value {
		case path, path + "*", path + "$":
			return true
		}
	}
	return false
}

// Rules groups the directives by the user-agents they apply to.
func (f File) Rules() []Group {
	var groups []Group
	var current *Group
	// consecutive user-agent lines share one group
	collectingAgents := false

	for _, d := range f.directives() {
		switch d.key {
		case "user-agent":
			if current == nil || !collectingAgents {
				groups = append(groups, Group{})
				current = &groups[len(groups)-1]
			}
			current.UserAgents = append(current.UserAgents, d.value)
			collectingAgents = true
		case "allow", "disallow":
			collectingAgents = false
			if current == nil || d.value == "" {
				continue
			}
			if d.key == "allow" {
				current.Allow = append(current.Allow, d.value)
			} else {
				current.Disallow = append(current.Disallow, d.value)
			}
		default:
			collectingAgents = false
		}
	}
	return groups
}

// Sitemaps returns the urls of the `Sitemap:` directives.
func (f File) Sitemaps() []string {
	var out []string
	for _, d := range f.directives() {
		if d.key == "sitemap" && d.value != "" {
			out = append(out, d.value)
		}
	}
	return out
}
