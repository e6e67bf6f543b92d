package pages

import (
	"context"
	devenv "siteqa/dev/env"
	"siteqa/internal/site"
	"time"
)

const cookieBannerTimeout = 5 * time.Second

// HomePage is the landing page carrying the newsletter form.
type HomePage struct {
	BasePage
	selectors devenv.SelectorConfig
}

func NewHomePage(base BasePage, selectors devenv.SelectorConfig) HomePage {
	return HomePage{BasePage: base, selectors: selectors}
}

func (h HomePage) Open(ctx context.Context) error {
	return h.Goto(ctx, site.Home)
}

// AcceptCookiesIfVisible dismisses the cookie consent banner when it is
// showing.
func (h HomePage) AcceptCookiesIfVisible(ctx context.Context) error {
	visible, err := h.IsVisible(ctx, h.selectors.AcceptCookies)
	if err != nil {
		return err
	}
	if !visible {
		h.tel.ReportDebug("no cookie banner")
		return nil
	}
	err = h.Click(ctx, h.selectors.AcceptCookies)
	if err != nil {
		return err
	}
	return h.ExpectHiddenWithin(ctx, h.selectors.AcceptCookies, cookieBannerTimeout)
}

func (h HomePage) VerifyNewsletterFormIsVisible(ctx context.Context) error {
	err := h.ExpectVisible(ctx, h.selectors.EmailInput)
	if err != nil {
		return err
	}
	return h.ExpectVisible(ctx, h.selectors.SubscribeButton)
}

// SubscribeToNewsletter fills the email into the form and submits it.
func (h HomePage) SubscribeToNewsletter(ctx context.Context, email string) error {
	err := h.Click(ctx, h.selectors.EmailInput)
	if err != nil {
		return err
	}
	err = h.Type(ctx, h.selectors.EmailInput, email)
	if err != nil {
		return err
	}
	return h.Click(ctx, h.selectors.SubscribeButton)
}

func (h HomePage) ExpectRequiredFieldErrorVisible(ctx context.Context) error {
	return h.ExpectVisible(ctx, h.selectors.ErrorMessage)
}

func (h HomePage) ExpectRequiredFieldErrorNotVisible(ctx context.Context) error {
	return h.ExpectHidden(ctx, h.selectors.ErrorMessage)
}

func (h HomePage) ExpectInvalidEmailErrorVisible(ctx context.Context) error {
	return h.ExpectVisible(ctx, h.selectors.ErrorMessage)
}

func (h HomePage) ExpectInvalidEmailErrorNotVisible(ctx context.Context) error {
	return h.ExpectHidden(ctx, h.selectors.ErrorMessage)
}

// ErrorMessageStyles waits for the validation error to be rendered and
// returns its computed styles.
func (h HomePage) ErrorMessageStyles(ctx context.Context) (StyleSnapshot, error) {
	err := h.ExpectAttached(ctx, h.selectors.ErrorMessage)
	if err != nil {
		return StyleSnapshot{}, err
	}
	return h.ComputedStyles(ctx, h.selectors.ErrorMessage)
}

// ScreenshotErrorBlock captures the form that holds the validation error.
func (h HomePage) ScreenshotErrorBlock(ctx context.Context, path string) error {
	return h.Screenshot(ctx, h.selectors.ErrorBlock, path)
}
