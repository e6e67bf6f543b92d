// Package browser manages the chrome instance the page checks run in:
// launching or connecting to it, opening pages and tearing it down.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	devenv "siteqa/dev/env"
	"siteqa/internal/assert"
	"siteqa/lib/telemetry"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const (
	report_manager_start       = "manager.start"
	report_manager_ignore_cert = "manager.ignore-cert-errors"
	report_manager_close       = "manager.close"
)

var ErrClosed = errors.New("browser: manager is closed")

type Options struct {
	Headless bool
	// RemoteURL is the devtools websocket url of an external chrome
	// instance, empty launches a local chrome.
	RemoteURL        string
	Bin              string
	Stealth          bool
	IgnoreCertErrors bool
	ViewportWidth    int
	ViewportHeight   int
}

func OptionsFromConfig(config devenv.BrowserConfig) Options {
	return Options{
		Headless:         config.IsHeadless(),
		RemoteURL:        config.RemoteURL,
		Bin:              config.Bin,
		Stealth:          config.UseStealth(),
		IgnoreCertErrors: config.ShouldIgnoreHTTPSErrors(),
		ViewportWidth:    config.ViewportWidth,
		ViewportHeight:   config.ViewportHeight,
	}
}

// Available reports whether a browser can be used without downloading
// one, it is used to skip browser tests on machines without chrome.
func Available(opts Options) bool {
	if opts.RemoteURL != "" || opts.Bin != "" {
		return true
	}
	_, found := launcher.LookPath()
	return found
}

// Manager owns a single chrome process.
type Manager struct {
	opts Options
	tel  telemetry.API

	// the browser outlives the contexts of the calls that start it
	lifetime context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

func NewManager(opts Options, tel telemetry.API) *Manager {
	assert.NotNil(tel)
	lifetime, cancel := context.WithCancel(context.Background())
	return &Manager{
		opts:     opts,
		tel:      telemetry.NewScopedAPI("browser", tel),
		lifetime: lifetime,
		cancel:   cancel,
	}
}

// Start launches chrome (or connects to the remote instance), calling it
// again returns the already running browser.
func (m *Manager) Start(ctx context.Context) (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.browser != nil {
		return m.browser, nil
	}
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	b, err := m.launch()
	if err != nil {
		m.tel.ReportBroken(report_manager_start, err)
		return nil, err
	}
	m.browser = b
	return b, nil
}

func (m *Manager) launch() (*rod.Browser, error) {
	wsURL := m.opts.RemoteURL
	if wsURL != "" {
		m.tel.ReportDebug("connecting to remote browser", wsURL)
	} else {
		l := launcher.New().
			Context(m.lifetime).
			Headless(m.opts.Headless).
			Set("disable-blink-features", "AutomationControlled")
		if m.opts.Bin != "" {
			l = l.Bin(m.opts.Bin)
		}
		// chrome refuses to start sandboxed as root, which is the norm in
		// containers
		if os.Geteuid() == 0 {
			l = l.NoSandbox(true)
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		m.tel.ReportDebug("launched local browser", wsURL, m.opts.Headless)
	}

	b := rod.New().Context(m.lifetime).ControlURL(wsURL)
	err := b.Connect()
	if err != nil {
		if m.lnch != nil {
			m.lnch.Cleanup()
			m.lnch = nil
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	if m.opts.IgnoreCertErrors {
		err = b.IgnoreCertErrors(true)
		if err != nil {
			m.tel.ReportWarning(report_manager_ignore_cert, err)
		}
	}

	return b, nil
}

// NewPage opens a blank page with the configured viewport, starting the
// browser if it isn't running yet.
func (m *Manager) NewPage(ctx context.Context) (*rod.Page, error) {
	b, err := m.Start(ctx)
	if err != nil {
		return nil, err
	}

	var page *rod.Page
	if m.opts.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}

	if m.opts.ViewportWidth > 0 && m.opts.ViewportHeight > 0 {
		err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             m.opts.ViewportWidth,
			Height:            m.opts.ViewportHeight,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			page.Close()
			return nil, fmt.Errorf("browser: set viewport: %w", err)
		}
	}

	return page, nil
}

// Close shuts down chrome, the manager cannot be started again after.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true

	var err error
	if m.browser != nil {
		err = m.browser.Close()
		if err != nil {
			m.tel.ReportWarning(report_manager_close, err)
		}
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	m.cancel()
	return err
}
