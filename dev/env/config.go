package devenv

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"siteqa/lib/configutil"
	"strings"
	"time"
)

// ConfigName is the file searched for from the working directory upwards.
const ConfigName = "siteqa.json5"

// Locator finds an element by css selector, Text (a regular expression)
// optionally narrows the match down to elements whose text matches it.
type Locator struct {
	Selector string `json:"selector"`
	Text     string `json:"text,omitempty"`
}

type BrowserConfig struct {
	// if unspecified, the browser is headless when running in CI or
	// when no display is available.
	Headless *bool `json:"headless,omitempty"`

	// connects to an already running browser's devtools url instead of
	// launching one.
	RemoteURL string `json:"remote_url,omitempty"`

	// path to the chrome binary, if unspecified it is looked up.
	Bin string `json:"bin,omitempty"`

	// if unspecified, pages hide the usual automation fingerprints.
	Stealth *bool `json:"stealth,omitempty"`

	ViewportWidth     int   `json:"viewport_width"`
	ViewportHeight    int   `json:"viewport_height"`
	IgnoreHTTPSErrors *bool `json:"ignore_https_errors,omitempty"`
}

func (b BrowserConfig) IsHeadless() bool {
	if b.Headless != nil {
		return *b.Headless
	}
	if os.Getenv("CI") != "" {
		return true
	}
	return runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}

func (b BrowserConfig) UseStealth() bool {
	return b.Stealth == nil || *b.Stealth
}

func (b BrowserConfig) ShouldIgnoreHTTPSErrors() bool {
	return b.IgnoreHTTPSErrors == nil || *b.IgnoreHTTPSErrors
}

// TimeoutConfig holds timeouts in milliseconds.
type TimeoutConfig struct {
	Test       int `json:"test"`
	Expect     int `json:"expect"`
	Action     int `json:"action"`
	Navigation int `json:"navigation"`
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func (t TimeoutConfig) TestTimeout() time.Duration       { return ms(t.Test) }
func (t TimeoutConfig) ExpectTimeout() time.Duration     { return ms(t.Expect) }
func (t TimeoutConfig) ActionTimeout() time.Duration     { return ms(t.Action) }
func (t TimeoutConfig) NavigationTimeout() time.Duration { return ms(t.Navigation) }

type SelectorConfig struct {
	AcceptCookies   Locator `json:"accept_cookies"`
	EmailInput      Locator `json:"email_input"`
	SubscribeButton Locator `json:"subscribe_button"`
	ErrorMessage    Locator `json:"error_message"`
	ErrorBlock      Locator `json:"error_block"`
	ThankYouHeading Locator `json:"thank_you_heading"`
}

type HttpConfig struct {
	UserAgent         string  `json:"user_agent"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Concurrency       int     `json:"concurrency"`
	// milliseconds
	Timeout          int  `json:"timeout"`
	CloudflareBypass bool `json:"cloudflare_bypass"`

	// if specified, every request and response is dumped into this directory.
	DumpDir string `json:"dump_dir,omitempty"`
}

func (h HttpConfig) TimeoutDuration() time.Duration {
	return ms(h.Timeout)
}

type SuiteConfig struct {
	BaseUrl string `json:"base_url"`
	// supports <dev_state> paths
	OutputDir string `json:"output_dir"`
	// sqlite history database, empty disables history.
	DbPath         string   `json:"db_path,omitempty"`
	SitemapLimit   int      `json:"sitemap_limit"`
	ImportantPaths []string `json:"important_paths,omitempty"`

	Browser   BrowserConfig  `json:"browser"`
	Timeouts  TimeoutConfig  `json:"timeouts"`
	Selectors SelectorConfig `json:"selectors"`
	Http      HttpConfig     `json:"http"`
}

// DefaultSuiteConfig returns the configuration used against netlify.com.
func DefaultSuiteConfig() SuiteConfig {
	return SuiteConfig{
		BaseUrl:      "https://www.netlify.com",
		OutputDir:    "<dev_state>/siteqa",
		SitemapLimit: 10,
		Browser: BrowserConfig{
			ViewportWidth:  1440,
			ViewportHeight: 900,
		},
		Timeouts: TimeoutConfig{
			Test:       30000,
			Expect:     5000,
			Action:     5000,
			Navigation: 10000,
		},
		Selectors: SelectorConfig{
			AcceptCookies:   Locator{Selector: "button", Text: "^Accept All$"},
			EmailInput:      Locator{Selector: `form input[name="email"]`},
			SubscribeButton: Locator{Selector: `form input[type="submit"][value="Subscribe"], form button[type="submit"]`},
			ErrorMessage:    Locator{Selector: "label.hs-error-msg"},
			ErrorBlock:      Locator{Selector: "form:has(label.hs-error-msg)"},
			ThankYouHeading: Locator{Selector: "h1, h2", Text: "Thank you for signing up!"},
		},
		Http: HttpConfig{
			UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
			RequestsPerSecond: 10,
			Concurrency:       8,
			Timeout:           10000,
		},
	}
}

// LoadSuiteConfig searches for siteqa.json5 from the working directory
// upwards, falling back to the defaults when there is none. Relative
// OutputDir and DbPath values are relative to the config's directory.
func LoadSuiteConfig() (SuiteConfig, error) {
	config, dir, err := configutil.FindRecursively(ConfigName, DefaultSuiteConfig())
	if errors.Is(err, os.ErrNotExist) {
		config = DefaultSuiteConfig()
	} else if err != nil {
		return SuiteConfig{}, err
	}
	return config.Resolve(dir)
}

func resolveIn(dir, path string) (string, error) {
	if strings.HasPrefix(path, StatePrefix) {
		resolved, err := ResolvePath(path)
		if errors.Is(err, os.ErrNotExist) {
			// outside of the siteqa workspace, keep state next to the
			// working directory instead
			return filepath.Join(".siteqa", strings.TrimPrefix(path, StatePrefix)), nil
		}
		return resolved, err
	}
	if dir == "" || filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join(dir, path), nil
}

// Resolve expands <dev_state> paths and makes relative paths relative to dir.
func (c SuiteConfig) Resolve(dir string) (SuiteConfig, error) {
	var err error
	c.OutputDir, err = resolveIn(dir, c.OutputDir)
	if err != nil {
		return c, err
	}
	if c.DbPath != "" && c.DbPath != ":memory:" {
		c.DbPath, err = resolveIn(dir, c.DbPath)
		if err != nil {
			return c, err
		}
	}
	return c, nil
}
