package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":                         "<h1>Atlas</h1>",
		"buddhism/early-buddhism/index.html": "<h1>Early Buddhism</h1>",
		"sitemap.xml":                        "<urlset/>",
	}
	for rel, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return dir
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func expectPage(t *testing.T, rec *httptest.ResponseRecorder, body string) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), body) {
		t.Fatalf("expected body to contain %q, got %q", body, rec.Body.String())
	}
}

func TestHandler_RootBase(t *testing.T) {
	h := NewHandler(writeSite(t), "/")

	rec := get(t, h, "/buddhism/early-buddhism/")
	expectPage(t, rec, "Early Buddhism")
	if got := rec.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Fatalf("unexpected Cache-Control: %q", got)
	}

	expectPage(t, get(t, h, "/"), "Atlas")
	expectPage(t, get(t, h, "/sitemap.xml"), "urlset")
}

func TestHandler_NoDirectoryListing(t *testing.T) {
	h := NewHandler(writeSite(t), "/")

	for _, target := range []string{"/empty/", "/missing/"} {
		if code := get(t, h, target).Code; code != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", target, code)
		}
	}
}

func TestHandler_BasePath(t *testing.T) {
	h := NewHandler(writeSite(t), "/atlas/")

	expectPage(t, get(t, h, "/atlas/buddhism/early-buddhism/"), "Early Buddhism")

	rec := get(t, h, "/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/atlas/" {
		t.Fatalf("expected redirect to /atlas/, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	if code := get(t, h, "/buddhism/early-buddhism/").Code; code != http.StatusNotFound {
		t.Fatalf("expected 404 outside the base path, got %d", code)
	}
}

func TestHandler_Healthz(t *testing.T) {
	rec := get(t, NewHandler(t.TempDir(), "/"), "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	if err := ln.Close(); err != nil {
		t.Fatalf("close listener: %v", err)
	}

	handler := NewHandler(writeSite(t), "/")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ListenAndServe(ctx, addr, handler) }()

	healthy := func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}
	deadline := time.Now().Add(2 * time.Second)
	for !healthy() {
		if time.Now().After(deadline) {
			t.Fatal("server did not come up")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected shutdown error: %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
