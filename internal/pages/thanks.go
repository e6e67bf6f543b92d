package pages

import (
	"context"
	devenv "siteqa/dev/env"
)

// ThanksSigningUpPage is where a successful newsletter signup lands.
type ThanksSigningUpPage struct {
	BasePage
	selectors devenv.SelectorConfig
}

func NewThanksSigningUpPage(base BasePage, selectors devenv.SelectorConfig) ThanksSigningUpPage {
	return ThanksSigningUpPage{BasePage: base, selectors: selectors}
}

func (t ThanksSigningUpPage) ExpectThankYouMessageVisible(ctx context.Context) error {
	return t.ExpectVisible(ctx, t.selectors.ThankYouHeading)
}

func (t ThanksSigningUpPage) errorStyles(ctx context.Context) (StyleSnapshot, error) {
	err := t.ExpectAttached(ctx, t.selectors.ErrorMessage)
	if err != nil {
		return StyleSnapshot{}, err
	}
	return t.ComputedStyles(ctx, t.selectors.ErrorMessage)
}

func (t ThanksSigningUpPage) GetRequiredFieldErrorStyles(ctx context.Context) (StyleSnapshot, error) {
	return t.errorStyles(ctx)
}

func (t ThanksSigningUpPage) GetInvalidEmailErrorStyles(ctx context.Context) (StyleSnapshot, error) {
	return t.errorStyles(ctx)
}
