package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

var pageTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html>
<head>
	<meta charset="utf-8">
	<title>siteqa report - {{ .Report.BaseUrl }}</title>
	<style>
		body { font-family: sans-serif; margin: 2rem; }
		table { border-collapse: collapse; }
		th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; vertical-align: top; }
		figure { display: inline-block; margin: 0 1rem 1rem 0; }
		figure img { max-width: 720px; border: 1px solid #ccc; }
	</style>
</head>
<body>
	<h1>{{ .Report.BaseUrl }}</h1>
	<p>{{ .Report.Started.Format "2006-01-02 15:04:05" }}, took {{ .Took }}</p>
	{{ .Table }}
	{{ range .Report.Entries }}{{ if .Attachments }}
	<h2>{{ .ID }}: {{ .Name }}</h2>
	{{ range .Attachments }}
	<figure>
		{{ if .IsImage }}<img src="{{ .Path }}" alt="{{ .Label }}">{{ else }}<a href="{{ .Path }}">{{ .Path }}</a>{{ end }}
		<figcaption>{{ .Label }}</figcaption>
	</figure>
	{{ end }}
	{{ end }}{{ end }}
</body>
</html>
`))

// relativeTo rewrites attachment paths relative to dir so the report can be
// moved around with its artifacts.
func (r Report) relativeTo(dir string) Report {
	out := r
	out.Entries = make([]Entry, len(r.Entries))
	for i, e := range r.Entries {
		attachments := make([]Attachment, len(e.Attachments))
		for j, a := range e.Attachments {
			rel, err := filepath.Rel(dir, a.Path)
			if err == nil {
				a.Path = filepath.ToSlash(rel)
			}
			attachments[j] = a
		}
		e.Attachments = attachments
		out.Entries[i] = e
	}
	return out
}

// WriteHTML renders the report as a standalone html page, attachment
// paths are made relative to dir.
func (r Report) WriteHTML(w io.Writer, dir string) error {
	rel := r.relativeTo(dir)
	t := rel.table(false)
	t.SetStyle(table.StyleDefault)
	return pageTemplate.Execute(w, struct {
		Report Report
		Took   string
		Table  template.HTML
	}{
		Report: rel,
		Took:   r.Finished.Sub(r.Started).Round(time.Millisecond).String(),
		Table:  template.HTML(t.RenderHTML()),
	})
}

// Save writes index.html and report.json into dir.
func (r Report) Save(dir string) error {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}

	err = writeFile(filepath.Join(dir, "index.html"), func(w io.Writer) error {
		return r.WriteHTML(w, dir)
	})
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "report.json"), r.WriteJSON)
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = write(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
