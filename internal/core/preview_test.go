package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPreview_InvalidURLMakesNoRequest(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer proxy.Close()
	svc := NewPreviewFetcher(proxy.Client(), proxy.URL+"/?url=", nil)

	for _, raw := range []string{"", "notaurl", "ftp://example.com", "https://", "::bad"} {
		assert.Nil(t, svc.FetchPreview(context.Background(), raw), raw)
	}
	assert.Zero(t, hits.Load())
}

func TestFetchPreview_FailureDegradesToMinimal(t *testing.T) {
	t.Parallel()
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer proxy.Close()
	svc := NewPreviewFetcher(proxy.Client(), proxy.URL+"/?url=", nil)

	got := svc.FetchPreview(context.Background(), "https://example.com/song")
	require.NotNil(t, got)
	assert.Equal(t, &PreviewMetadata{
		Title:    "example.com",
		SiteName: "example.com",
		URL:      "https://example.com/song",
		Type:     "link",
		Domain:   "example.com",
	}, got)
}

func TestFetchPreview_ParsesOpenGraphTags(t *testing.T) {
	t.Parallel()
	var requested string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Query().Get("url")
		_, _ = w.Write([]byte(`<!doctype html><html><head>
			<title>Page Title</title>
			<meta property="og:title" content="OG Title">
			<meta property="og:description" content="OG Description">
			<meta property="og:image" content="https://img.example.com/a.jpg">
			<meta property="og:site_name" content="Example Site">
		</head><body></body></html>`))
	}))
	defer proxy.Close()
	svc := NewPreviewFetcher(proxy.Client(), proxy.URL+"/?url=", nil)

	got := svc.FetchPreview(context.Background(), "https://example.com/page?a=1")
	require.NotNil(t, got)
	assert.Equal(t, "OG Title", got.Title)
	assert.Equal(t, "OG Description", got.Description)
	assert.Equal(t, "https://img.example.com/a.jpg", got.Image)
	assert.Equal(t, "Example Site", got.SiteName)
	assert.Equal(t, "link", got.Type)
	assert.Equal(t, "example.com", got.Domain)
	// The target is url-encoded into the relay query.
	assert.Equal(t, "https://example.com/page?a=1", requested)
}

func TestFetchPreview_FallsBackThroughTitleChain(t *testing.T) {
	t.Parallel()
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta name="twitter:title" content="Twitter Title">
			<meta name="description" content="Plain Description">
		</head></html>`))
	}))
	defer proxy.Close()
	svc := NewPreviewFetcher(proxy.Client(), proxy.URL+"/?url=", nil)

	got := svc.FetchPreview(context.Background(), "https://example.com/x")
	require.NotNil(t, got)
	assert.Equal(t, "Twitter Title", got.Title)
	assert.Equal(t, "Plain Description", got.Description)
	assert.Equal(t, "example.com", got.SiteName)
}

func TestFetchPreview_KnownPlatforms(t *testing.T) {
	t.Parallel()
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>x</title></head></html>`))
	}))
	defer proxy.Close()
	svc := NewPreviewFetcher(proxy.Client(), proxy.URL+"/?url=", nil)

	got := svc.FetchPreview(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NotNil(t, got)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", got.Image)
	assert.Equal(t, "YouTube", got.SiteName)
	assert.Equal(t, "video", got.Type)

	got = svc.FetchPreview(context.Background(), "https://open.spotify.com/track/abc123")
	require.NotNil(t, got)
	assert.Equal(t, "Spotify", got.SiteName)
	assert.Equal(t, "music", got.Type)

	got = svc.FetchPreview(context.Background(), "https://soundcloud.com/artist/track")
	require.NotNil(t, got)
	assert.Equal(t, "SoundCloud", got.SiteName)
	assert.Equal(t, "music", got.Type)
}

func TestExtractYouTubeID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=short", ""},
		{"https://example.com/watch?v=dQw4w9WgXcQ2345", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, extractYouTubeID(tc.rawURL), tc.rawURL)
	}
}
