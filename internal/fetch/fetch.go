// Package fetch downloads source workbooks into the local cache.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/amrtables-cli/internal/utils"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// DefaultFilename is used when the URL path has no usable file name.
const DefaultFilename = "source.xlsx"

const maxErrorBody = 512

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Options configures a Fetcher. Zero values fall back to the defaults used by
// the config layer.
type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	CacheDir    string
}

// Fetcher downloads files over HTTP with retry and backoff.
type Fetcher struct {
	client   *resty.Client
	cacheDir string
	logger   *logrus.Logger
}

// New returns a Fetcher writing into opt.CacheDir.
func New(opt Options, logger *logrus.Logger) *Fetcher {
	if opt.Timeout <= 0 {
		opt.Timeout = 60 * time.Second
	}
	if opt.MaxAttempts <= 0 {
		opt.MaxAttempts = 3
	}
	if opt.BaseDelay <= 0 {
		opt.BaseDelay = 500 * time.Millisecond
	}
	if opt.MaxDelay < opt.BaseDelay {
		opt.MaxDelay = opt.BaseDelay
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	client := resty.New().
		SetTimeout(opt.Timeout).
		SetRetryCount(opt.MaxAttempts-1).
		SetRetryWaitTime(opt.BaseDelay).
		SetRetryMaxWaitTime(opt.MaxDelay).
		SetLogger(logger).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	return &Fetcher{client: client, cacheDir: opt.CacheDir, logger: logger}
}

// Fetch downloads rawURL and stores it in the cache directory, returning the
// local path. An existing file with the same name is replaced.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid url %q", rawURL)
	}
	if f.cacheDir == "" {
		return "", fmt.Errorf("no cache directory configured")
	}
	dest := filepath.Join(f.cacheDir, Filename(u))
	log := f.logger.WithFields(logrus.Fields{"url": rawURL, "path": dest})

	log.Debug("downloading source")
	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	if !resp.IsSuccess() {
		body := strings.TrimSpace(resp.String())
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody] + "..."
		}
		return "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode(), Body: body}
	}
	if err := utils.SafeWriteFile(dest, resp.Body()); err != nil {
		return "", fmt.Errorf("save download: %w", err)
	}
	log.WithField("bytes", len(resp.Body())).Info("source downloaded")
	return dest, nil
}

// Filename derives the cache file name from the last URL path segment.
func Filename(u *url.URL) string {
	name := path.Base(u.EscapedPath())
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	switch {
	case name == "", name == ".", name == "..", name == "/":
		return DefaultFilename
	case strings.ContainsAny(name, `/\`):
		return DefaultFilename
	}
	return name
}
