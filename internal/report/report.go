package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Attachment is a file produced by a check, like a screenshot.
type Attachment struct {
	Label       string `json:"label"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
}

func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}

// Attacher collects the attachments of a single check.
type Attacher interface {
	Attach(a Attachment)
}

// Attachments is an Attacher that keeps attachments in memory.
type Attachments struct {
	mu    sync.Mutex
	items []Attachment
}

func (a *Attachments) Attach(attachment Attachment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, attachment)
}

func (a *Attachments) List() []Attachment {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Attachment, len(a.items))
	copy(out, a.items)
	return out
}

// Entry is the outcome of one check.
type Entry struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	Duration    time.Duration `json:"duration"`
	Attachments []Attachment  `json:"attachments,omitempty"`
}

type Report struct {
	BaseUrl  string    `json:"base_url"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Entries  []Entry   `json:"entries"`
}

type Summary struct {
	Passed  int
	Failed  int
	Skipped int
}

func (r Report) Summary() Summary {
	var s Summary
	for _, e := range r.Entries {
		switch e.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

func (r Report) Failed() bool {
	return r.Summary().Failed > 0
}

func statusText(s Status) string {
	switch s {
	case StatusPassed:
		return text.FgGreen.Sprint(s)
	case StatusFailed:
		return text.FgRed.Sprint(s)
	}
	return text.FgYellow.Sprint(s)
}

func (r Report) table(colored bool) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Name", "Status", "Duration", "Message"})
	for _, e := range r.Entries {
		status := string(e.Status)
		if colored {
			status = statusText(e.Status)
		}
		t.AppendRow(table.Row{
			e.ID,
			e.Name,
			status,
			e.Duration.Round(time.Millisecond).String(),
			e.Message,
		})
	}
	s := r.Summary()
	t.AppendFooter(table.Row{
		"", "",
		fmt.Sprintf("%d passed, %d failed, %d skipped", s.Passed, s.Failed, s.Skipped),
		r.Finished.Sub(r.Started).Round(time.Millisecond).String(),
		"",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Message", WidthMax: 80},
	})
	return t
}

// RenderTable writes the results as a terminal table.
func (r Report) RenderTable(w io.Writer) {
	t := r.table(true)
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
