package testutil

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"siteqa/lib/telemetry"
	"strings"
	"sync"
	"testing"

	_ "modernc.org/sqlite"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService initializes testing telemetry and an optional sqlite
// database, both are torn down with t.Cleanup.
func SetupService(t testing.TB, params ServiceParams) ServiceResult {
	cleanup := telemetry.SetupForTesting(fmt.Sprintf("test:%s", params.Name))
	t.Cleanup(cleanup)

	if params.DbSchema == "" {
		return ServiceResult{}
	}

	dbpath := ":memory:"
	if params.DbPath != "" {
		dbpath = params.DbPath
	}
	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(params.DbSchema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatal(err)
	}

	return ServiceResult{DB: db}
}

// Page is a canned response of a FakeSite.
type Page struct {
	Status      int
	ContentType string
	Body        string
}

// FakeSite is an httptest server serving canned pages by path, any path
// without a page responds with 404.
type FakeSite struct {
	*httptest.Server

	mu    sync.Mutex
	pages map[string]Page
	hits  map[string]int
}

func NewFakeSite(t testing.TB, pages map[string]Page) *FakeSite {
	site := &FakeSite{
		pages: map[string]Page{},
		hits:  map[string]int{},
	}
	for path, page := range pages {
		site.pages[path] = page
	}
	site.Server = httptest.NewServer(http.HandlerFunc(site.serve))
	t.Cleanup(site.Close)
	return site
}

func (s *FakeSite) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page, ok := s.pages[r.URL.Path]
	s.hits[r.URL.Path]++
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	contentType := page.ContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	status := page.Status
	if status == 0 {
		status = http.StatusOK
	}
	body := strings.ReplaceAll(page.Body, "{{base}}", s.URL)

	w.Header().Set("content-type", contentType)
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// Set replaces the page at path.
func (s *FakeSite) Set(path string, page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[path] = page
}

// Hits returns how many times path was requested.
func (s *FakeSite) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}
