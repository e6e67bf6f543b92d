package suite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"siteqa/internal/fixtures"
	"siteqa/internal/linkcheck"
	"siteqa/internal/pages"
	"siteqa/internal/report"
	"siteqa/internal/robots"
	"siteqa/internal/seo"
	"siteqa/internal/site"
	"siteqa/internal/sitemap"
	"siteqa/internal/visual"
	"strings"
)

// the keys that must differ between a visible and a visually hidden error
var hiddenStyleKeys = []string{"clip", "clipPath", "width", "height"}

// ScreenshotsDir is where the visual checks keep their artifacts.
func ScreenshotsDir(env *fixtures.Env) string {
	return filepath.Join(env.Config.OutputDir, "screenshots")
}

const (
	invalidEmailDir = "invalidEmail"
	withoutEmailDir = "withoutEmail"
)

// PrepareScreenshots clears the artifacts of earlier runs, only the first
// call on an env does anything.
func PrepareScreenshots(env *fixtures.Env) error {
	return env.Once("screenshots", func() error {
		return visual.PrepareDir(ScreenshotsDir(env), invalidEmailDir, withoutEmailDir)
	})
}

// Checks returns every check of the suite in the order they should run.
func Checks(env *fixtures.Env) []Check {
	checks := []Check{
		{ID: "TC1-001", Name: "newsletter form is visible on homepage", Group: GroupForm, Browser: true, Run: formVisible},
		{ID: "TC1-002", Name: "valid email submission shows success message", Group: GroupForm, Browser: true, Run: validSubmission},
		{ID: "TC1-003", Name: "empty email shows required field error", Group: GroupForm, Browser: true, Run: rejectedSubmission(site.EmptyEmail)},
		{ID: "TC1-004", Name: "invalid email shows validation error", Group: GroupForm, Browser: true, Run: rejectedSubmission(site.InvalidEmail)},
		{ID: "TC1-005", Name: "compare required field error styles between homepage and thank-you page", Group: GroupForm, Browser: true, Run: errorStyles(site.EmptyEmail)},
		{ID: "TC1-006", Name: "compare invalid email error styles between homepage and thank-you page", Group: GroupForm, Browser: true, Run: errorStyles(site.InvalidEmail)},
		{ID: "TC1-007", Name: "compare invalid email error on homepage vs thank-you", Group: GroupVisual, Browser: true, Run: visualComparison(site.InvalidEmail, invalidEmailDir, "Invalid Email")},
		{ID: "TC1-008", Name: "compare required field error on homepage vs thank-you", Group: GroupVisual, Browser: true, Run: visualComparison(site.EmptyEmail, withoutEmailDir, "Required Field")},
		{ID: "TC2-001", Name: "sitemap.xml should exist", Group: GroupSEO, Run: sitemapExists},
		{ID: "TC2-002", Name: "URLs listed in sitemap.xml should be accessible (status 200)", Group: GroupSEO, Run: sitemapAccessible},
		{ID: "TC2-003", Name: "important pages should NOT be disallowed in robots.txt", Group: GroupSEO, Run: robotsAllowed},
	}
	for i, path := range importantPaths(env) {
		checks = append(checks, Check{
			ID:    fmt.Sprintf("TC2-%03d", i+4),
			Name:  fmt.Sprintf(`"%s" should NOT have <meta name="robots" content="noindex">`, path),
			Group: GroupSEO,
			Run:   noIndexMeta(path),
		})
	}
	checks = append(checks, Check{
		ID:    "TC3-001",
		Name:  "verify that no links on the homepage return 404 status",
		Group: GroupLinks,
		Run:   noBrokenLinks,
	})
	return checks
}

func importantPaths(env *fixtures.Env) []string {
	if len(env.Config.ImportantPaths) > 0 {
		return env.Config.ImportantPaths
	}
	return site.ImportantPaths()
}

func openHome(ctx context.Context, env *fixtures.Env) (fixtures.Session, error) {
	session, err := env.OpenHome(ctx)
	if err != nil {
		return fixtures.Session{}, fmt.Errorf("open home page: %w", err)
	}
	return session, nil
}

func formVisible(ctx context.Context, env *fixtures.Env, _ report.Attacher) error {
	session, err := openHome(ctx, env)
	if err != nil {
		return err
	}
	defer session.Close()
	return session.Home.VerifyNewsletterFormIsVisible(ctx)
}

func validSubmission(ctx context.Context, env *fixtures.Env, _ report.Attacher) error {
	session, err := openHome(ctx, env)
	if err != nil {
		return err
	}
	defer session.Close()

	email, err := site.RandomEmail()
	if err != nil {
		return err
	}
	env.Tel.ReportDebug("subscribing", email)
	err = session.Home.SubscribeToNewsletter(ctx, email)
	if err != nil {
		return err
	}
	return session.Thanks.ExpectThankYouMessageVisible(ctx)
}

func rejectedSubmission(input string) CheckFunc {
	return func(ctx context.Context, env *fixtures.Env, _ report.Attacher) error {
		session, err := openHome(ctx, env)
		if err != nil {
			return err
		}
		defer session.Close()
		home := session.Home

		if input == site.EmptyEmail {
			err = home.ExpectRequiredFieldErrorNotVisible(ctx)
		} else {
			err = home.ExpectInvalidEmailErrorNotVisible(ctx)
		}
		if err != nil {
			return fmt.Errorf("error shown before submitting: %w", err)
		}
		err = home.SubscribeToNewsletter(ctx, input)
		if err != nil {
			return err
		}
		err = home.AssertNotRedirectedToThankYou(ctx)
		if err != nil {
			return err
		}
		if input == site.EmptyEmail {
			return home.ExpectRequiredFieldErrorVisible(ctx)
		}
		return home.ExpectInvalidEmailErrorVisible(ctx)
	}
}

func errorStyles(input string) CheckFunc {
	return func(ctx context.Context, env *fixtures.Env, _ report.Attacher) error {
		session, err := openHome(ctx, env)
		if err != nil {
			return err
		}
		defer session.Close()
		home := session.Home

		err = home.SubscribeToNewsletter(ctx, input)
		if err != nil {
			return err
		}
		homeStyles, err := home.ErrorMessageStyles(ctx)
		if err != nil {
			return err
		}
		env.Tel.ReportDebug("homepage styles", homeStyles.String())

		err = home.Goto(ctx, site.ThankYou)
		if err == nil {
			err = home.AcceptCookiesIfVisible(ctx)
		}
		if err == nil {
			err = home.SubscribeToNewsletter(ctx, input)
		}
		if err != nil {
			return err
		}

		var thanksStyles pages.StyleSnapshot
		if input == site.EmptyEmail {
			thanksStyles, err = session.Thanks.GetRequiredFieldErrorStyles(ctx)
		} else {
			thanksStyles, err = session.Thanks.GetInvalidEmailErrorStyles(ctx)
		}
		if err != nil {
			return err
		}
		env.Tel.ReportDebug("thank-you styles", thanksStyles.String())

		return homeStyles.ExpectDiffers(thanksStyles, hiddenStyleKeys...)
	}
}

func visualComparison(input, dirname, label string) CheckFunc {
	return func(ctx context.Context, env *fixtures.Env, attach report.Attacher) error {
		err := PrepareScreenshots(env)
		if err != nil {
			return fmt.Errorf("prepare screenshots: %w", err)
		}
		dir := filepath.Join(ScreenshotsDir(env), dirname)
		comparison, err := visual.RunErrorComparison(ctx, env, input, dir, label, attach)
		if err != nil {
			return err
		}
		return comparison.Expect()
	}
}

func sitemapUrl(env *fixtures.Env) (string, error) {
	return site.Join(env.Config.BaseUrl, site.SitemapPath)
}

func sitemapExists(ctx context.Context, env *fixtures.Env, _ report.Attacher) error {
	endpoint, err := sitemapUrl(env)
	if err != nil {
		return err
	}
	status, err := sitemap.Exists(ctx, env.Http, endpoint)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("expected %s to respond with 200, got %d", endpoint, status)
	}
	return nil
}

func sitemapAccessible(ctx context.Context, env *fixtures.Env, _ report.Attacher) error {
	endpoint, err := sitemapUrl(env)
	if err != nil {
		return err
	}
	urls, err := sitemap.Fetch(ctx, env.Http, endpoint, env.Config.SitemapLimit)
	if err != nil {
		return err
	}

	var errs []error
	for _, u := range urls {
		res, err := env.Http.R().SetContext(ctx).Get(u)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed on url %s: %w", u, err))
			continue
		}
		if res.StatusCode() != http.StatusOK {
			errs = append(errs, fmt.Errorf("failed on url %s: status %d", u, res.StatusCode()))
		}
	}
	return errors.Join(errs...)
}

func robotsAllowed(ctx context.Context, env *fixtures.Env, _ report.Attacher) error {
	endpoint, err := site.Join(env.Config.BaseUrl, site.RobotsTxtPath)
	if err != nil {
		return err
	}
	file, err := robots.Fetch(ctx, env.Http, endpoint)
	if err != nil {
		return err
	}

	var disallowed []string
	for _, path := range importantPaths(env) {
		if file.Disallows(path) {
			disallowed = append(disallowed, path)
		}
	}
	if len(disallowed) > 0 {
		return fmt.Errorf("robots.txt disallows: %s", strings.Join(disallowed, ", "))
	}
	return nil
}

// noIndexMeta reads the robots meta through the browser when there is one,
// so client rendered tags are seen, and over plain http otherwise.
func noIndexMeta(path string) CheckFunc {
	return func(ctx context.Context, env *fixtures.Env, _ report.Attacher) error {
		var content string
		var found bool

		if env.BrowserAvailable() {
			session, err := env.NewSession(ctx)
			if err != nil {
				return err
			}
			defer session.Close()
			err = session.Base.Goto(ctx, path)
			if err != nil {
				return err
			}
			content, found, err = session.Base.RobotsMeta(ctx)
			if err != nil {
				return err
			}
		} else {
			pageUrl, err := site.Join(env.Config.BaseUrl, path)
			if err != nil {
				return err
			}
			meta, err := seo.FetchPageMeta(ctx, env.Http, pageUrl)
			if err != nil {
				return err
			}
			content, found = meta.Robots, meta.HasRobots
		}

		if found && seo.IsNoIndex(content) {
			return fmt.Errorf(`%s has <meta name="robots" content="%s">`, path, content)
		}
		return nil
	}
}

func noBrokenLinks(ctx context.Context, env *fixtures.Env, _ report.Attacher) error {
	var links []string
	if env.BrowserAvailable() {
		session, err := env.NewSession(ctx)
		if err != nil {
			return err
		}
		defer session.Close()
		err = session.Base.Goto(ctx, site.Home)
		if err != nil {
			return err
		}
		links, err = session.Base.Anchors(ctx)
		if err != nil {
			return err
		}
	} else {
		home, err := site.Join(env.Config.BaseUrl, site.Home)
		if err != nil {
			return err
		}
		links, err = linkcheck.ExtractFromUrl(ctx, env.Http, home)
		if err != nil {
			return err
		}
	}

	checker := linkcheck.NewChecker(env.Http, linkcheck.CheckerOptions{
		Concurrency: env.Config.Http.Concurrency,
	}, env.Tel)
	broken, err := checker.Check(ctx, linkcheck.Filter(links))
	if err != nil {
		return fmt.Errorf("link check did not finish: %w", err)
	}
	if len(broken) > 0 {
		return fmt.Errorf("Broken links:\n%s", linkcheck.Format(broken))
	}
	return nil
}
