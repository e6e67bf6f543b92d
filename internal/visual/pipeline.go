package visual

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"siteqa/internal/fixtures"
	"siteqa/internal/report"
	"siteqa/internal/site"
)

const (
	homepageFile = "homepage.png"
	thankyouFile = "thankyou.png"
	combinedFile = "combined.png"
	diffFile     = "diff.png"
)

// Comparison holds the artifacts of one error message comparison.
type Comparison struct {
	Label        string
	HomepagePath string
	ThankYouPath string
	CombinedPath string
	DiffPath     string
	DiffPixels   int
}

func (c Comparison) Different() bool {
	return c.DiffPixels > 0
}

// Expect returns an error if the two error messages look the same.
func (c Comparison) Expect() error {
	if c.Different() {
		return nil
	}
	return fmt.Errorf("expected visual difference for %s", c.Label)
}

func newComparison(dir, label string) Comparison {
	return Comparison{
		Label:        label,
		HomepagePath: filepath.Join(dir, homepageFile),
		ThankYouPath: filepath.Join(dir, thankyouFile),
		CombinedPath: filepath.Join(dir, combinedFile),
		DiffPath:     filepath.Join(dir, diffFile),
	}
}

// PrepareDir clears and recreates a screenshot directory along with the
// given subdirectories.
func PrepareDir(dir string, subdirs ...string) error {
	err := os.RemoveAll(dir)
	if err != nil {
		return err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}
	for _, sub := range subdirs {
		err = os.MkdirAll(filepath.Join(dir, sub), 0777)
		if err != nil {
			return err
		}
	}
	return nil
}

// AttachScreenshots attaches the homepage, thank-you and combined
// screenshots of a comparison.
func AttachScreenshots(attach report.Attacher, c Comparison) {
	attach.Attach(report.Attachment{
		Label:       fmt.Sprintf("Homepage Screenshot - %s", c.Label),
		Path:        c.HomepagePath,
		ContentType: "image/png",
	})
	attach.Attach(report.Attachment{
		Label:       fmt.Sprintf("Thank-you Screenshot - %s", c.Label),
		Path:        c.ThankYouPath,
		ContentType: "image/png",
	})
	attach.Attach(report.Attachment{
		Label:       fmt.Sprintf("Combined Screenshot - %s", c.Label),
		Path:        c.CombinedPath,
		ContentType: "image/png",
	})
}

// CompareScreenshots combines and diffs the two captured screenshots of a
// comparison.
func CompareScreenshots(attach report.Attacher, c Comparison) (Comparison, error) {
	err := CombineFiles(c.HomepagePath, c.ThankYouPath, c.CombinedPath)
	if err != nil {
		return c, fmt.Errorf("combine screenshots: %w", err)
	}
	AttachScreenshots(attach, c)

	c.DiffPixels, err = Compare(c.HomepagePath, c.ThankYouPath, c.DiffPath, DefaultThreshold)
	if err != nil {
		return c, fmt.Errorf("compare screenshots: %w", err)
	}
	attach.Attach(report.Attachment{
		Label:       fmt.Sprintf("Diff - %s", c.Label),
		Path:        c.DiffPath,
		ContentType: "image/png",
	})
	return c, nil
}

// RunErrorComparison submits input to the newsletter form on the home page
// and on the thank-you page, screenshots the form holding the validation
// error on both, then combines and diffs the screenshots inside dir.
func RunErrorComparison(ctx context.Context, env *fixtures.Env, input, dir, label string, attach report.Attacher) (Comparison, error) {
	c := newComparison(dir, label)
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return c, err
	}

	session, err := env.NewSession(ctx)
	if err != nil {
		return c, err
	}
	defer session.Close()
	home := session.Home

	err = home.Open(ctx)
	if err == nil {
		err = home.AcceptCookiesIfVisible(ctx)
	}
	if err == nil {
		err = home.SubscribeToNewsletter(ctx, input)
	}
	if err == nil {
		err = home.ScreenshotErrorBlock(ctx, c.HomepagePath)
	}
	if err != nil {
		return c, fmt.Errorf("capture homepage error: %w", err)
	}

	err = home.Goto(ctx, site.ThankYou)
	if err == nil {
		err = home.AcceptCookiesIfVisible(ctx)
	}
	if err == nil {
		err = home.SubscribeToNewsletter(ctx, input)
	}
	if err == nil {
		err = home.ScreenshotErrorBlock(ctx, c.ThankYouPath)
	}
	if err != nil {
		return c, fmt.Errorf("capture thank-you error: %w", err)
	}

	return CompareScreenshots(attach, c)
}
