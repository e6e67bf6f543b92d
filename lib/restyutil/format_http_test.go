package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFormatHttpMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	res, err := resty.New().R().
		SetHeader("X-Request", "1").
		Get(srv.URL + "/pot")
	require.NoError(t, err)

	msg := FormatHttpMessage(res)
	require.Contains(t, msg, "GET "+srv.URL+"/pot")
	require.Contains(t, msg, "X-Request: 1")
	require.Contains(t, msg, "418 ")
	require.Contains(t, msg, "X-Test: yes")
	require.Contains(t, msg, "short and stout")
}

func TestFormatHeadersSorted(t *testing.T) {
	headers := http.Header{}
	headers.Add("B", "2")
	headers.Add("A", "1")
	headers.Add("A", "3")
	require.Equal(t, "A: 1\nA: 3\nB: 2", formatHeaders(headers))
	require.Equal(t, "", formatHeaders(nil))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resty")
	require.NoError(t, os.MkdirAll(dir, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("x"), 0600))

	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	out.Write("1", "hello")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}
