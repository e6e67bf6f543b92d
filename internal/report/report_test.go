package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleReport(dir string) Report {
	started := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return Report{
		BaseUrl:  "https://www.netlify.com",
		Started:  started,
		Finished: started.Add(3 * time.Second),
		Entries: []Entry{
			{ID: "TC2-001", Name: "sitemap.xml should exist", Status: StatusPassed, Duration: 120 * time.Millisecond},
			{
				ID:       "TC3-001",
				Name:     "no links on the homepage return 404",
				Status:   StatusFailed,
				Message:  "https://www.netlify.com/gone/ - Status: 404",
				Duration: time.Second,
			},
			{
				ID:     "TC1-007",
				Name:   "required field error visual comparison",
				Status: StatusSkipped,
				Attachments: []Attachment{
					{Label: "Homepage Screenshot - empty", Path: filepath.Join(dir, "empty", "homepage.png"), ContentType: "image/png"},
					{Label: "log", Path: filepath.Join(dir, "log.txt"), ContentType: "text/plain"},
				},
			},
		},
	}
}

func TestSummary(t *testing.T) {
	r := sampleReport("/tmp")
	require.Equal(t, Summary{Passed: 1, Failed: 1, Skipped: 1}, r.Summary())
	require.True(t, r.Failed())

	r.Entries = r.Entries[:1]
	require.False(t, r.Failed())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	sampleReport("/tmp").RenderTable(&buf)
	out := buf.String()
	require.Contains(t, out, "TC2-001")
	require.Contains(t, out, "1 passed, 1 failed, 1 skipped")
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, sampleReport(dir).WriteHTML(&buf, dir))

	out := buf.String()
	require.Contains(t, out, "<table")
	require.Contains(t, out, `<img src="empty/homepage.png" alt="Homepage Screenshot - empty">`)
	require.Contains(t, out, `<a href="log.txt">log.txt</a>`)
	require.Contains(t, out, "<h2>TC1-007: required field error visual comparison</h2>")
	// entries without attachments get no section
	require.False(t, strings.Contains(out, "<h2>TC2-001"))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport(dir)
	require.NoError(t, r.Save(dir))

	_, err := os.Stat(filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(contents, &decoded))
	require.Len(t, decoded.Entries, 3)
	require.Equal(t, StatusFailed, decoded.Entries[1].Status)
	// json keeps absolute paths
	require.Equal(t, filepath.Join(dir, "empty", "homepage.png"), decoded.Entries[2].Attachments[0].Path)
}

func TestSaveSurfacesFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	// a file that is already closed fails on the final Close
	err := writeFile(path, func(w io.Writer) error {
		return w.(*os.File).Close()
	})
	require.ErrorIs(t, err, os.ErrClosed)

	err = writeFile(path, func(w io.Writer) error {
		return errors.New("disk full")
	})
	require.EqualError(t, err, "write "+path+": disk full")

	notDir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0644))
	require.Error(t, sampleReport(dir).Save(notDir))
}

func TestAttachments(t *testing.T) {
	var a Attachments
	a.Attach(Attachment{Label: "one", ContentType: "image/png"})
	list := a.List()
	list[0].Label = "changed"
	require.Equal(t, "one", a.List()[0].Label)
	require.True(t, a.List()[0].IsImage())
}
