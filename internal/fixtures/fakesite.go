package fixtures

import (
	devenv "siteqa/dev/env"
	"siteqa/lib/testutil"
	"testing"
)

const newsletterForm = `
<form id="newsletter" novalidate style="width: 600px; height: 160px; overflow: hidden;">
	<label for="email">Email<span>*</span></label>
	<input id="email" name="email" type="email">
	<div class="hs-error-msgs"></div>
	<input type="submit" value="Subscribe">
</form>
<script>
	document.getElementById('newsletter').addEventListener('submit', (e) => {
		e.preventDefault();
		const value = document.getElementById('email').value;
		const errors = document.querySelector('.hs-error-msgs');
		errors.innerHTML = '';
		let message = '';
		if (value === '') {
			message = 'Please complete this required field.';
		} else if (!/^[^@\s]+@[^@\s]+\.[^@\s]+$/.test(value)) {
			message = 'Email must be formatted correctly.';
		}
		if (message === '') {
			window.location.href = '/thanks-for-signing-up/';
			return;
		}
		const label = document.createElement('label');
		label.className = 'hs-error-msg';
		label.textContent = message;
		errors.appendChild(label);
	});
</script>`

const cookieBanner = `
<div id="consent">
	<p>We use cookies.</p>
	<button onclick="document.getElementById('consent').style.display = 'none'">Accept All</button>
</div>`

// FakeSitePages is a small rendition of the marketing site: a home page and
// a thank-you page with the newsletter form, where the thank-you page
// renders its validation errors visually hidden.
func FakeSitePages() map[string]testutil.Page {
	return map[string]testutil.Page{
		"/": {Body: `<!doctype html><html><head>
			<title>Home</title>
			<meta name="robots" content="index, follow">
			<style>label.hs-error-msg { display: block; color: #c00; width: 320px; height: 18px; }</style>
		</head><body>` + cookieBanner + `
			<h1>Welcome</h1>
			<a href="/pricing/">Pricing</a>
			<a href="/missing/">Missing</a>
			<a href="mailto:hello@example.test">Mail</a>
			` + newsletterForm + `
		</body></html>`},
		"/thanks-for-signing-up/": {Body: `<!doctype html><html><head>
			<title>Thanks</title>
			<style>
				label.hs-error-msg {
					display: block; position: absolute; width: 1px; height: 1px;
					clip: rect(0px, 0px, 0px, 0px); clip-path: inset(50%); overflow: hidden;
				}
			</style>
		</head><body>` + cookieBanner + `
			<h1>Thank you for signing up!</h1>
			` + newsletterForm + `
		</body></html>`},
		"/pricing/": {Body: `<html><head><meta name="robots" content="noindex"></head><body>Pricing</body></html>`},
		"/robots.txt": {ContentType: "text/plain", Body: "User-agent: *\nDisallow: /admin/\n"},
		"/sitemap.xml": {ContentType: "application/xml", Body: `<urlset>
			<url><loc>{{base}}/</loc></url>
			<url><loc>{{base}}/pricing/</loc></url>
		</urlset>`},
	}
}

// FakeSite serves FakeSitePages and returns a config pointing at it.
func FakeSite(t testing.TB) (*testutil.FakeSite, devenv.SuiteConfig) {
	site := testutil.NewFakeSite(t, FakeSitePages())

	headless := true
	config := devenv.DefaultSuiteConfig()
	config.BaseUrl = site.URL
	config.OutputDir = t.TempDir()
	config.Browser.Headless = &headless
	config.ImportantPaths = []string{"/", "/pricing/"}
	config.Http.RequestsPerSecond = 0
	return site, config
}
