package assets

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestFetchCachesAndSkipsNetwork(t *testing.T) {
	var hits int32
	body := bytes.Repeat([]byte("a"), 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(body)
	}))
	defer srv.Close()

	cache, err := NewCache(t.TempDir(), map[string]string{"bgm:calm": srv.URL + "/calm.mp3"})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	p1, err := cache.Fetch("bgm:calm")
	if err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	p2, err := cache.Fetch("bgm:calm")
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("cached path changed: %q vs %q", p1, p2)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected exactly 1 network call, got %d", got)
	}
	data, err := os.ReadFile(p1)
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if !bytes.Equal(data, body) {
		t.Fatalf("cached bytes differ from downloaded bytes")
	}
}

func TestFetchRejectsTinyDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not found</html>"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	cache, err := NewCache(dir, map[string]string{"sfx:whoosh": srv.URL + "/whoosh.mp3"})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if _, err := cache.Fetch("sfx:whoosh"); err == nil {
		t.Fatal("expected size-floor rejection, got nil error")
	}
	// Nothing durable may remain under the key's name.
	if _, err := os.Stat(filepath.Join(dir, CacheFileName("sfx:whoosh", srv.URL+"/whoosh.mp3"))); !os.IsNotExist(err) {
		t.Fatalf("rejected download left a cache entry: %v", err)
	}
}

func TestFetchUnknownKey(t *testing.T) {
	cache, err := NewCache(t.TempDir(), map[string]string{})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if _, err := cache.Fetch("bgm:unmapped"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestPrefetchReportsPerKey(t *testing.T) {
	big := bytes.Repeat([]byte("b"), 2048)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Write(big)
	}))
	defer srv.Close()

	cache, err := NewCache(t.TempDir(), map[string]string{
		"font:default": srv.URL + "/font.ttf",
		"bgm:calm":     srv.URL + "/bad",
	})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	errs := cache.Prefetch("font:default", "bgm:calm")
	if _, ok := errs["font:default"]; ok {
		t.Fatalf("font fetch should succeed: %v", errs["font:default"])
	}
	if _, ok := errs["bgm:calm"]; !ok {
		t.Fatal("bad key should report an error")
	}
}

func TestCacheFileName(t *testing.T) {
	cases := []struct {
		key, url, want string
	}{
		{"bgm:calm", "https://cdn.example.com/track.mp3", "bgm_calm.mp3"},
		{"font:default", "https://example.com/f.ttf?raw=true", "font_default.ttf"},
		{"sfx:Big Impact", "https://example.com/noext", "sfx_big_impact.bin"},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			if got := CacheFileName(c.key, c.url); got != c.want {
				t.Fatalf("CacheFileName(%q, %q) = %q; want %q", c.key, c.url, got, c.want)
			}
		})
	}
}
