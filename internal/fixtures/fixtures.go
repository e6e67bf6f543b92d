// Package fixtures supplies ready to use page objects: a browser, an http
// client and pages already opened on the site under test.
package fixtures

import (
	"context"
	"fmt"
	devenv "siteqa/dev/env"
	"siteqa/internal/browser"
	"siteqa/internal/httpclient"
	"siteqa/internal/pages"
	"siteqa/lib/telemetry"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/go-rod/rod"
)

// Env is everything a check needs to talk to the site under test.
type Env struct {
	Config  devenv.SuiteConfig
	Http    *resty.Client
	Browser *browser.Manager
	Tel     telemetry.API

	onceMu sync.Mutex
	once   map[string]error
}

// NewEnv creates the http client and a browser manager, the browser is
// only launched when the first page is opened.
func NewEnv(config devenv.SuiteConfig, tel telemetry.API) (*Env, error) {
	client, err := httpclient.New(httpclient.Options{
		BaseUrl: config.BaseUrl,
		Http:    config.Http,
	}, tel)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	return &Env{
		Config:  config,
		Http:    client,
		Browser: browser.NewManager(browser.OptionsFromConfig(config.Browser), tel),
		Tel:     tel,
	}, nil
}

// Once runs fn the first time it is called with key, later calls with the
// same key return the error of that first run without calling fn.
func (e *Env) Once(key string, fn func() error) error {
	e.onceMu.Lock()
	defer e.onceMu.Unlock()
	if e.once == nil {
		e.once = map[string]error{}
	}
	if err, ok := e.once[key]; ok {
		return err
	}
	err := fn()
	e.once[key] = err
	return err
}

func (e *Env) Close() error {
	return e.Browser.Close()
}

// BrowserAvailable reports whether pages can be opened without downloading
// a browser.
func (e *Env) BrowserAvailable() bool {
	return browser.Available(browser.OptionsFromConfig(e.Config.Browser))
}

// Session is one browser page and the page objects wrapping it.
type Session struct {
	Page   *rod.Page
	Base   pages.BasePage
	Home   pages.HomePage
	Thanks pages.ThanksSigningUpPage
}

func (s Session) Close() error {
	return s.Page.Close()
}

// NewSession opens a blank page.
func (e *Env) NewSession(ctx context.Context) (Session, error) {
	page, err := e.Browser.NewPage(ctx)
	if err != nil {
		return Session{}, err
	}
	base := pages.NewBasePage(page, e.Config.BaseUrl, e.Config.Timeouts, e.Tel)
	return Session{
		Page:   page,
		Base:   base,
		Home:   pages.NewHomePage(base, e.Config.Selectors),
		Thanks: pages.NewThanksSigningUpPage(base, e.Config.Selectors),
	}, nil
}

// OpenHome opens a page on the home route with the cookie banner
// dismissed.
func (e *Env) OpenHome(ctx context.Context) (Session, error) {
	session, err := e.NewSession(ctx)
	if err != nil {
		return Session{}, err
	}
	err = session.Home.Open(ctx)
	if err == nil {
		err = session.Home.AcceptCookiesIfVisible(ctx)
	}
	if err != nil {
		session.Close()
		return Session{}, err
	}
	return session, nil
}
