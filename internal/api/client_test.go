package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zhstats/genrep/internal/config"
)

func testClient() *Client {
	return New(config.APIConfig{Timeout: 5 * time.Second, UserAgent: "genrep-test", MaxBytes: 1 << 20})
}

func TestNew(t *testing.T) {
	c := testClient()

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.userAgent != "genrep-test" {
		t.Errorf("expected userAgent=genrep-test, got %s", c.userAgent)
	}
	if c.httpClient == nil {
		t.Error("httpClient is nil")
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a.rep", true},
		{"http://example.com", true},
		{"replays/a.rep", false},
		{"ftp://example.com/a.rep", false},
		{"http://", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHealthcheck_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "genrep-test" {
			t.Errorf("expected User-Agent genrep-test, got %s", ua)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := testClient().Healthcheck(context.Background(), server.URL); err != nil {
		t.Errorf("Healthcheck failed: %v", err)
	}
}

func TestHealthcheck_ServerDown(t *testing.T) {
	err := testClient().Healthcheck(context.Background(), "http://localhost:59999") // unlikely to be listening
	if err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := testClient().Healthcheck(context.Background(), server.URL); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("GENREP"))
	}))
	defer server.Close()

	data, err := testClient().Download(context.Background(), server.URL+"/a.rep")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if string(data) != "GENREP" {
		t.Errorf("expected body GENREP, got %q", data)
	}
}

func TestDownload_TooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	c := New(config.APIConfig{Timeout: time.Second, MaxBytes: 16})
	if _, err := c.Download(context.Background(), server.URL); err == nil {
		t.Error("expected error for oversized body")
	}
}

func TestReplayLinks(t *testing.T) {
	page := `<html><body>
<a href="one.rep">one</a>
<a href="/sub/two.REP">two</a>
<a href="https://cdn.example.com/three.rep?x=1">three</a>
<a href="one.rep">again</a>
<a href="notes.txt">notes</a>
<a>no href</a>
</body></html>`
	base, _ := url.Parse("http://example.com/replays/")

	links, err := ReplayLinks(base, strings.NewReader(page))
	if err != nil {
		t.Fatalf("ReplayLinks failed: %v", err)
	}
	want := []string{
		"http://example.com/replays/one.rep",
		"http://example.com/sub/two.REP",
		"https://cdn.example.com/three.rep?x=1",
	}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d: %v", len(want), len(links), links)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link %d: expected %s, got %s", i, want[i], links[i])
		}
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://example.com/replays/match%201.rep", "match 1.rep"},
		{"http://example.com/get?id=5", "get.rep"},
		{"http://example.com/", "replay.rep"},
		{"http://example.com/a:b.rep", "a_b.rep"},
	}
	for _, tt := range tests {
		if got := FileName(tt.in); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetch_IndexPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<a href="files/a.rep">a</a><a href="files/missing.rep">b</a>`))
	})
	mux.HandleFunc("/files/a.rep", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("replay-a"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	paths, err := testClient().Fetch(context.Background(), server.URL+"/index", dir)
	if err == nil {
		t.Error("expected error for the missing link")
	}
	if len(paths) != 1 || paths[0] != filepath.Join(dir, "a.rep") {
		t.Fatalf("unexpected paths: %v", paths)
	}
	data, _ := os.ReadFile(paths[0])
	if string(data) != "replay-a" {
		t.Errorf("expected replay-a, got %q", data)
	}
}

func TestFetch_SingleReplay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("single"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := testClient().Fetch(context.Background(), server.URL+"/x/b.rep", dir)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "b.rep" {
		t.Fatalf("unexpected paths: %v", paths)
	}
}
