package httpclient

import (
	"net/http/cookiejar"
	devenv "siteqa/dev/env"
	"siteqa/internal/assert"
	"siteqa/lib/restyutil"
	"siteqa/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const report_client_dump_output = "client.dump-output"

type Options struct {
	BaseUrl string
	Http    devenv.HttpConfig
}

// New creates the resty client shared by the http checks. It follows
// redirects, keeps cookies, is rate limited and traced.
func New(opts Options, tel telemetry.API) (*resty.Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("http_client", tel)

	client := resty.New()
	if opts.BaseUrl != "" {
		client.SetBaseURL(opts.BaseUrl)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.Http.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	if opts.Http.UserAgent != "" {
		client.SetHeader("user-agent", opts.Http.UserAgent)
	}
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(20))
	if timeout := opts.Http.TimeoutDuration(); timeout > 0 {
		client.SetTimeout(timeout)
	}

	if opts.Http.RequestsPerSecond > 0 {
		burst := int(opts.Http.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.Http.RequestsPerSecond), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	var output restyutil.InstrumentOutput
	if opts.Http.DumpDir != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(opts.Http.DumpDir)
		if err != nil {
			tel.ReportBroken(report_client_dump_output, err, opts.Http.DumpDir)
		} else {
			output = fsOutput
		}
	}
	telemetry.InstrumentResty(client, "siteqa/internal/httpclient", tel, output)

	return client, nil
}
