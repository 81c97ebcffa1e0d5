// ABOUTME: Avatar image preload check with a short-lived success cache
// ABOUTME: Uses bigcache so repeated config polls skip re-downloading

package avatar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/2389/chatwidget/internal/assets"
)

const (
	// DefaultCacheTTL is how long a successful preload is trusted.
	DefaultCacheTTL = 10 * time.Minute

	maxImageBytes = 5 << 20
	sniffBytes    = 512
)

// ErrNotImage is returned when the URL answered with something other than
// an image.
var ErrNotImage = errors.New("not an image")

// Preloader checks that avatar URLs resolve to images.
type Preloader struct {
	http   *http.Client
	cache  *bigcache.BigCache
	logger *slog.Logger
}

// NewPreloader creates a preloader whose successes are cached for ttl.
func NewPreloader(httpClient *http.Client, ttl time.Duration, logger *slog.Logger) (*Preloader, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 16
	cfg.MaxEntriesInWindow = 1024
	cfg.MaxEntrySize = 64
	cfg.CleanWindow = time.Minute
	cfg.Verbose = false

	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating avatar cache: %w", err)
	}

	return &Preloader{
		http:   httpClient,
		cache:  cache,
		logger: logger.With("component", "avatar"),
	}, nil
}

// Preload fetches rawURL and reports whether it is a usable image.
// data:image URLs are accepted without a request.
func (p *Preloader) Preload(ctx context.Context, rawURL string) error {
	if strings.HasPrefix(rawURL, "data:image/") {
		return nil
	}
	if _, err := p.cache.Get(rawURL); err == nil {
		return nil
	}

	if err := p.fetch(ctx, rawURL); err != nil {
		p.logger.Debug("avatar preload failed", "url", rawURL, "error", err)
		return err
	}

	if err := p.cache.Set(rawURL, []byte{1}); err != nil {
		p.logger.Debug("avatar cache write failed", "url", rawURL, "error", err)
	}
	return nil
}

func (p *Preloader) fetch(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetching avatar: HTTP %d", resp.StatusCode)
	}

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading avatar: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return fmt.Errorf("%w: empty body", ErrNotImage)
	}
	// Drain so the connection can be reused; oversize bodies are rejected.
	rest, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return fmt.Errorf("reading avatar: %w", err)
	}
	if int64(n)+rest >= maxImageBytes {
		return fmt.Errorf("%w: larger than %d bytes", ErrNotImage, maxImageBytes)
	}

	if !isImage(resp.Header.Get("Content-Type"), rawURL, head) {
		return ErrNotImage
	}
	return nil
}

// isImage accepts an explicit image/* content type; otherwise it falls back
// to the file extension and finally to content sniffing.
func isImage(contentType, rawURL string, head []byte) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if strings.HasPrefix(mt, "image/") {
			return true
		}
		if mt != "application/octet-stream" && mt != "binary/octet-stream" {
			return false
		}
	}

	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && strings.HasPrefix(assets.MimeFromExt(ext), "image/") {
			return true
		}
	}
	return strings.HasPrefix(http.DetectContentType(head), "image/")
}

// Close releases the cache.
func (p *Preloader) Close() error {
	return p.cache.Close()
}
