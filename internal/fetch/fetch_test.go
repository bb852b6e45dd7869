package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KaramelBytes/amrtables-cli/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(t *testing.T) (*Fetcher, string) {
	t.Helper()
	dir := t.TempDir()
	f := New(Options{
		Timeout:     5 * time.Second,
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		CacheDir:    dir,
	}, logging.Discard())
	return f, dir
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("workbook-bytes"))
	}))
	defer srv.Close()

	f, dir := newFetcher(t)
	got, err := f.Fetch(context.Background(), srv.URL+"/data/amr_units.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "amr_units.xlsx"), got)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))

	b, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "workbook-bytes", string(b))
}

func TestFetchStatusErrorNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "no such dataset", http.StatusNotFound)
	}))
	defer srv.Close()

	f, _ := newFetcher(t)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing.xlsx")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "no such dataset", se.Body)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f, dir := newFetcher(t)
	_, err := f.Fetch(context.Background(), srv.URL+"/amr.xlsx")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))

	_, statErr := os.Stat(filepath.Join(dir, "amr.xlsx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f, _ := newFetcher(t)
	_, err := f.Fetch(ctx, srv.URL+"/amr.xlsx")
	assert.Error(t, err)
}

func TestFetchRejectsBadURL(t *testing.T) {
	f, _ := newFetcher(t)
	_, err := f.Fetch(context.Background(), "not a url")
	assert.ErrorContains(t, err, "invalid url")
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"https://example.org/files/amr%20units.xlsx": "amr units.xlsx",
		"https://example.org/":                       DefaultFilename,
		"https://example.org":                        DefaultFilename,
		"https://example.org/a/b/report.csv?x=1":     "report.csv",
		"https://example.org/a/..%2F..%2Fetc":        DefaultFilename,
	}
	for raw, want := range tests {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, want, Filename(u), raw)
	}
}
