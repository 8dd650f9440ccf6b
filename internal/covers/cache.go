// Package covers keeps a disk cache of favorite book covers so the API can
// serve them without going back to the cover host.
package covers

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix   = "cover_"
	maxRedirects = 5
)

// DefaultOrigin is where OpenLibrary serves cover images.
const DefaultOrigin = "https://covers.openlibrary.org"

// ErrOriginNotAllowed is returned for cover URLs outside the allowed origins.
var ErrOriginNotAllowed = errors.New("cover origin not allowed")

// Cache handles local caching of book cover images.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
	origins    map[string]struct{}
}

// NewCache creates a new cover cache at the specified directory. Only covers
// from the given origins (scheme://host[:port]) are downloaded; none means
// DefaultOrigin.
func NewCache(cacheDir string, origins ...string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if len(origins) == 0 {
		origins = []string{DefaultOrigin}
	}

	c := &Cache{
		cacheDir: cacheDir,
		origins:  make(map[string]struct{}, len(origins)),
	}
	for _, o := range origins {
		u, err := url.Parse(strings.TrimSpace(o))
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid cover origin %q", o)
		}
		c.origins[originOf(u)] = struct{}{}
	}
	c.httpClient = &http.Client{
		Timeout:       30 * time.Second,
		CheckRedirect: c.checkRedirect,
	}
	return c, nil
}

// Allows reports whether coverURL points at one of the allowed origins.
func (c *Cache) Allows(coverURL string) bool {
	u, err := url.Parse(coverURL)
	if err != nil || u.User != nil {
		return false
	}
	_, ok := c.origins[originOf(u)]
	return ok
}

// checkRedirect follows OpenLibrary's hops to its archive.org image hosts
// and nothing else.
func (c *Cache) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.New("too many redirects")
	}
	host := req.URL.Hostname()
	if c.Allows(req.URL.String()) ||
		(req.URL.Scheme == "https" && (host == "archive.org" || strings.HasSuffix(host, ".archive.org"))) {
		return nil
	}
	return fmt.Errorf("%w: redirect to %s", ErrOriginNotAllowed, host)
}

func originOf(u *url.URL) string {
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}

// GetCover returns the cached cover for a book, or fetches and caches it if not present.
// Returns the file path to the cached cover, or empty string if unavailable.
func (c *Cache) GetCover(ctx context.Context, bookID, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}
	if !c.Allows(coverURL) {
		return "", ErrOriginNotAllowed
	}

	cachePath := filepath.Join(c.cacheDir, coverFilename(bookID, coverURL))

	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.fetchAndCache(ctx, coverURL, cachePath); err != nil {
		return "", err
	}

	return cachePath, nil
}

// Invalidate removes every cached cover of a book.
func (c *Cache) Invalidate(bookID string) error {
	matches, err := filepath.Glob(filepath.Join(c.cacheDir, filePrefix+safeID(bookID)+"_*"))
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// Prune removes cached covers whose book id is not in keep and returns how
// many files were deleted.
func (c *Cache) Prune(keep map[string]struct{}) (int, error) {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	kept := make(map[string]struct{}, len(keep))
	for id := range keep {
		kept[safeID(id)] = struct{}{}
	}

	removed := 0
	for _, entry := range entries {
		id, ok := idFromFilename(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}
		if _, found := kept[id]; found {
			continue
		}
		if err := os.Remove(filepath.Join(c.cacheDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			log.Printf("[COVERS] Failed to remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// coverFilename generates a unique filename based on book ID and URL hash.
func coverFilename(bookID, coverURL string) string {
	hash := sha256.Sum256([]byte(coverURL))
	return fmt.Sprintf("%s%s_%x.jpg", filePrefix, safeID(bookID), hash[:8])
}

// idFromFilename is the inverse of coverFilename for the id part.
func idFromFilename(name string) (string, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".jpg") {
		return "", false
	}
	rest := strings.TrimPrefix(name, filePrefix)
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 {
		return "", false
	}
	return rest[:idx], true
}

// safeID keeps book ids usable as file name components.
func safeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '-'
	}, id)
}

// fetchAndCache downloads a cover image and saves it to the cache.
func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Bookie/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch cover: status %d", resp.StatusCode)
	}

	// Temp file in the same directory keeps the rename atomic
	tmpFile, err := os.CreateTemp(c.cacheDir, "tmp_cover_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}

	tmpFile.Close()

	return os.Rename(tmpPath, cachePath)
}
