// Package pages wraps the pages of the site under test behind named
// actions and assertions.
package pages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	devenv "siteqa/dev/env"
	"siteqa/internal/assert"
	"siteqa/internal/site"
	"siteqa/lib/telemetry"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

const (
	report_page_goto       = "page.goto"
	report_page_screenshot = "page.screenshot"
)

const pollInterval = 100 * time.Millisecond

// ErrTimeout is wrapped by every failed expectation.
var ErrTimeout = errors.New("timed out")

// BasePage holds the actions every page supports.
type BasePage struct {
	Page     *rod.Page
	BaseUrl  string
	Timeouts devenv.TimeoutConfig

	tel telemetry.API
}

func NewBasePage(page *rod.Page, baseUrl string, timeouts devenv.TimeoutConfig, tel telemetry.API) BasePage {
	assert.NotNil(page)
	assert.NotEmptyStr(baseUrl)
	assert.NotNil(tel)
	return BasePage{
		Page:     page,
		BaseUrl:  baseUrl,
		Timeouts: timeouts,
		tel:      telemetry.NewScopedAPI("pages", tel),
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// poll calls cond until it returns true or timeout elapses, errors returned
// by cond are retried and the last one is included in the timeout error.
func poll(ctx context.Context, timeout time.Duration, what string, cond func(ctx context.Context) (bool, error)) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("%s: %w after %s: %w", what, ErrTimeout, timeout, lastErr)
			}
			return fmt.Errorf("%s: %w after %s", what, ErrTimeout, timeout)
		case <-ticker.C:
		}
	}
}

// Goto navigates to path relative to the base url and waits for the page
// to load.
func (b BasePage) Goto(ctx context.Context, path string) error {
	target, err := site.Join(b.BaseUrl, path)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, b.Timeouts.NavigationTimeout())
	defer cancel()

	page := b.Page.Context(ctx)
	err = page.Navigate(target)
	if err != nil {
		b.tel.ReportWarning(report_page_goto, target, err)
		return fmt.Errorf("navigate to %s: %w", target, err)
	}
	err = page.WaitLoad()
	if err != nil {
		return fmt.Errorf("wait for %s to load: %w", target, err)
	}
	b.tel.ReportDebug("navigated", target)
	return nil
}

func (b BasePage) find(ctx context.Context, loc devenv.Locator) (*rod.Element, error) {
	page := b.Page.Context(ctx)
	var el *rod.Element
	var err error
	if loc.Text != "" {
		el, err = page.ElementR(loc.Selector, loc.Text)
	} else {
		el, err = page.Element(loc.Selector)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", describe(loc), err)
	}
	return el, nil
}

// lookup is find without waiting for the element to appear.
func (b BasePage) lookup(ctx context.Context, loc devenv.Locator) (bool, *rod.Element, error) {
	page := b.Page.Context(ctx)
	if loc.Text != "" {
		return page.HasR(loc.Selector, loc.Text)
	}
	return page.Has(loc.Selector)
}

func describe(loc devenv.Locator) string {
	if loc.Text == "" {
		return fmt.Sprintf("'%s'", loc.Selector)
	}
	return fmt.Sprintf("'%s' with text /%s/", loc.Selector, loc.Text)
}

func (b BasePage) Click(ctx context.Context, loc devenv.Locator) error {
	ctx, cancel := withTimeout(ctx, b.Timeouts.ActionTimeout())
	defer cancel()

	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	err = el.Click(proto.InputMouseButtonLeft, 1)
	if err != nil {
		return fmt.Errorf("click %s: %w", describe(loc), err)
	}
	return nil
}

// Type replaces the value of an input with text.
func (b BasePage) Type(ctx context.Context, loc devenv.Locator, text string) error {
	ctx, cancel := withTimeout(ctx, b.Timeouts.ActionTimeout())
	defer cancel()

	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	err = el.SelectAllText()
	if err != nil {
		return fmt.Errorf("select text of %s: %w", describe(loc), err)
	}
	if text == "" {
		err = el.Type(input.Backspace)
	} else {
		err = el.Input(text)
	}
	if err != nil {
		return fmt.Errorf("type into %s: %w", describe(loc), err)
	}
	return nil
}

// IsVisible checks the visibility of an element right now, without
// waiting, a missing element is not visible.
func (b BasePage) IsVisible(ctx context.Context, loc devenv.Locator) (bool, error) {
	has, el, err := b.lookup(ctx, loc)
	if err != nil || !has {
		return false, err
	}
	return el.Visible()
}

// ExpectVisible waits until the element is visible.
func (b BasePage) ExpectVisible(ctx context.Context, loc devenv.Locator) error {
	return b.ExpectVisibleWithin(ctx, loc, b.Timeouts.ExpectTimeout())
}

func (b BasePage) ExpectVisibleWithin(ctx context.Context, loc devenv.Locator, timeout time.Duration) error {
	return poll(ctx, timeout, fmt.Sprintf("expect %s to be visible", describe(loc)), func(ctx context.Context) (bool, error) {
		return b.IsVisible(ctx, loc)
	})
}

// ExpectAttached waits until the element exists in the document, whether
// or not it is visible.
func (b BasePage) ExpectAttached(ctx context.Context, loc devenv.Locator) error {
	ctx, cancel := withTimeout(ctx, b.Timeouts.ExpectTimeout())
	defer cancel()

	_, err := b.find(ctx, loc)
	if err != nil {
		return fmt.Errorf("expect %s to be attached: %w", describe(loc), err)
	}
	return nil
}

// ExpectHidden waits until the element is hidden or gone.
func (b BasePage) ExpectHidden(ctx context.Context, loc devenv.Locator) error {
	return b.ExpectHiddenWithin(ctx, loc, b.Timeouts.ExpectTimeout())
}

func (b BasePage) ExpectHiddenWithin(ctx context.Context, loc devenv.Locator, timeout time.Duration) error {
	return poll(ctx, timeout, fmt.Sprintf("expect %s to be hidden", describe(loc)), func(ctx context.Context) (bool, error) {
		visible, err := b.IsVisible(ctx, loc)
		return !visible, err
	})
}

// URL returns the current url of the page.
func (b BasePage) URL() (string, error) {
	info, err := b.Page.Info()
	if err != nil {
		return "", fmt.Errorf("get page info: %w", err)
	}
	return info.URL, nil
}

// WaitForURLContains waits for the page to end up on a url containing
// fragment.
func (b BasePage) WaitForURLContains(ctx context.Context, fragment string) error {
	return poll(ctx, b.Timeouts.NavigationTimeout(), fmt.Sprintf("wait for url containing '%s'", fragment), func(ctx context.Context) (bool, error) {
		current, err := b.URL()
		return strings.Contains(current, fragment), err
	})
}

// ExpectURLToContain waits until the current url matches the regular
// expression pattern.
func (b BasePage) ExpectURLToContain(ctx context.Context, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	return poll(ctx, b.Timeouts.ExpectTimeout(), fmt.Sprintf("expect url to match /%s/", pattern), func(ctx context.Context) (bool, error) {
		current, err := b.URL()
		return re.MatchString(current), err
	})
}

// AssertNotRedirectedToThankYou succeeds as soon as the page is not on
// the thank-you route, and fails if it stays there for the whole expect
// timeout.
func (b BasePage) AssertNotRedirectedToThankYou(ctx context.Context) error {
	var last string
	err := poll(ctx, b.Timeouts.ExpectTimeout(), "expect not to be redirected to the thank-you page", func(ctx context.Context) (bool, error) {
		current, err := b.URL()
		last = current
		return !site.IsThankYou(current), err
	})
	if err != nil {
		return fmt.Errorf("%w (url: %s)", err, last)
	}
	return nil
}

const computedStylesJs = `(selector) => {
	const el = document.querySelector(selector);
	if (!el) {
		return null;
	}
	const cs = window.getComputedStyle(el);
	return {
		display: cs.display,
		clip: cs.clip,
		clipPath: cs.clipPath,
		width: cs.width,
		height: cs.height,
	};
}`

// ComputedStyles returns the computed style snapshot of the first element
// matching loc's selector.
func (b BasePage) ComputedStyles(ctx context.Context, loc devenv.Locator) (StyleSnapshot, error) {
	ctx, cancel := withTimeout(ctx, b.Timeouts.ActionTimeout())
	defer cancel()

	res, err := b.Page.Context(ctx).Eval(computedStylesJs, loc.Selector)
	if err != nil {
		return StyleSnapshot{}, fmt.Errorf("get computed styles of %s: %w", describe(loc), err)
	}
	if res.Value.Nil() {
		return StyleSnapshot{}, fmt.Errorf("get computed styles: no element matches %s", describe(loc))
	}
	var snapshot StyleSnapshot
	err = res.Value.Unmarshal(&snapshot)
	if err != nil {
		return StyleSnapshot{}, fmt.Errorf("decode computed styles: %w", err)
	}
	return snapshot, nil
}

// Anchors returns the resolved href of every anchor on the page.
func (b BasePage) Anchors(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx, b.Timeouts.ActionTimeout())
	defer cancel()

	res, err := b.Page.Context(ctx).Eval(`() => Array.from(document.querySelectorAll('a[href]'), (a) => a.href)`)
	if err != nil {
		return nil, fmt.Errorf("collect anchors: %w", err)
	}
	values := res.Value.Arr()
	links := make([]string, len(values))
	for i, v := range values {
		links[i] = v.Str()
	}
	return links, nil
}

// RobotsMeta returns the content of the first <meta name="robots">.
func (b BasePage) RobotsMeta(ctx context.Context) (string, bool, error) {
	ctx, cancel := withTimeout(ctx, b.Timeouts.ActionTimeout())
	defer cancel()

	res, err := b.Page.Context(ctx).Eval(`() => {
		const meta = document.querySelector('meta[name="robots"]');
		return meta ? (meta.getAttribute('content') ?? '') : null;
	}`)
	if err != nil {
		return "", false, fmt.Errorf("read robots meta: %w", err)
	}
	if res.Value.Nil() {
		return "", false, nil
	}
	return res.Value.Str(), true, nil
}

// Screenshot waits for the element to be visible and writes a png of it
// to path.
func (b BasePage) Screenshot(ctx context.Context, loc devenv.Locator, path string) error {
	err := b.ExpectVisible(ctx, loc)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, b.Timeouts.ActionTimeout())
	defer cancel()

	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		b.tel.ReportWarning(report_page_screenshot, describe(loc), err)
		return fmt.Errorf("screenshot %s: %w", describe(loc), err)
	}
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}
