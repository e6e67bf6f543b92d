package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	devenv "siteqa/dev/env"
	"siteqa/lib/telemetry"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientHeadersAndRedirects(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/old":
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		case "/new":
			userAgent = r.Header.Get("user-agent")
			w.Write([]byte("ok"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	rec := &telemetry.Recorder{}
	client, err := New(Options{
		BaseUrl: server.URL,
		Http: devenv.HttpConfig{
			UserAgent:         "siteqa-test",
			RequestsPerSecond: 100,
			Timeout:           2000,
		},
	}, rec)
	require.NoError(t, err)

	res, err := client.R().SetContext(context.Background()).Get("/old")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
	require.Equal(t, "ok", res.String())
	require.Equal(t, "siteqa-test", userAgent)

	require.True(t, rec.Has("debug", "resty.request"))
	require.True(t, rec.Has("debug", "resty.response"))
}

func TestClientDumpsExchanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<urlset></urlset>"))
	}))
	defer server.Close()

	dumpDir := filepath.Join(t.TempDir(), "dump")
	client, err := New(Options{
		Http: devenv.HttpConfig{DumpDir: dumpDir},
	}, &telemetry.Recorder{})
	require.NoError(t, err)

	_, err = client.R().Get(server.URL + "/sitemap.xml")
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dumpDir, "1.txt"))
	require.NoError(t, err)
	require.Contains(t, string(contents), "<urlset></urlset>")
}
