package assets

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"aigongjang/config"
	"aigongjang/types"
)

// Cache is a download-once store for shared read-only assets (font, background
// music, sound effects). Entries are keyed by a filesystem-safe derivation of
// the logical name and written append-only: concurrent fetchers of the same
// key converge on the same bytes, so no locking is needed for correctness.
type Cache struct {
	dir     string
	client  *http.Client
	catalog map[string]string
}

// NewCache creates a cache rooted at dir. The catalog maps logical keys
// (bgm mood, sfx name, font name) to their source URLs.
func NewCache(dir string, catalog map[string]string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{
		dir:     dir,
		client:  &http.Client{Timeout: config.AssetFetchTimeout},
		catalog: catalog,
	}, nil
}

// Fetch returns the local path for a logical key, downloading it on first use.
// A cached copy is returned without any network call. Downloads smaller than
// the size floor are rejected as corrupt (likely an error page).
func (c *Cache) Fetch(key string) (string, error) {
	url, ok := c.catalog[key]
	if !ok {
		return "", types.AssetFetchError(key, fmt.Errorf("unknown asset key"))
	}

	path := filepath.Join(c.dir, CacheFileName(key, url))
	if info, err := os.Stat(path); err == nil && info.Size() >= config.MinAssetBytes {
		return path, nil
	}

	if err := c.download(url, path); err != nil {
		return "", types.AssetFetchError(key, err)
	}
	return path, nil
}

// Prefetch downloads several independent keys concurrently. Failures are
// returned per key; a failed optional asset never blocks the others.
func (c *Cache) Prefetch(keys ...string) map[string]error {
	var g errgroup.Group
	errSlots := make([]error, len(keys))
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			_, errSlots[i] = c.Fetch(key)
			return nil
		})
	}
	g.Wait()

	errs := make(map[string]error)
	for i, key := range keys {
		if errSlots[i] != nil {
			errs[key] = errSlots[i]
		}
	}
	return errs
}

func (c *Cache) download(url, path string) error {
	resp, err := c.client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	// Write to a temp name first so a cached path is always a complete file.
	tmp, err := os.CreateTemp(c.dir, ".partial-*")
	if err != nil {
		return err
	}
	n, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return closeErr
	}
	if n < config.MinAssetBytes {
		os.Remove(tmp.Name())
		return fmt.Errorf("download too small (%d bytes), rejecting as corrupt", n)
	}
	return os.Rename(tmp.Name(), path)
}

// CacheFileName derives a stable filesystem-safe name for a logical key,
// preserving the source URL's extension so ffmpeg can sniff the container.
func CacheFileName(key, url string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	ext := filepath.Ext(url)
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	if ext == "" || len(ext) > 5 {
		ext = ".bin"
	}
	return b.String() + ext
}
