package core

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// PreviewMetadata is the best-effort metadata extracted for a link share.
// A minimal result (hostname only) and a nil result (unparseable URL) are
// both valid, displayable outcomes for callers.
type PreviewMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SiteName    string `json:"siteName"`
	URL         string `json:"url"`
	Type        string `json:"type"` // "link", "video" or "music"
	Domain      string `json:"domain"`
}

// maxPreviewBodyBytes bounds how much remote markup is read per fetch.
const maxPreviewBodyBytes = 2 << 20

var youTubeIDPattern = regexp.MustCompile(`^.*((youtu\.be/)|(v/)|(/u/\w/)|(embed/)|(watch\?))\??v?=?([^#&?]*).*`)

// previewFetcher implements PreviewService by fetching the target through
// a CORS-relaxing proxy and scraping Open Graph / Twitter-card / generic
// meta tags.
type previewFetcher struct {
	httpClient *http.Client
	proxyBase  string
	logger     *zap.Logger
}

// NewPreviewFetcher creates a PreviewService. proxyBase is the relay
// prefix the url-encoded target is appended to.
func NewPreviewFetcher(httpClient *http.Client, proxyBase string, logger *zap.Logger) PreviewService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &previewFetcher{httpClient: httpClient, proxyBase: proxyBase, logger: logger}
}

// FetchPreview extracts metadata for rawURL. Malformed input returns nil
// without any network call; any network or parse failure degrades to a
// minimal hostname-only result rather than propagating the failure.
func (f *previewFetcher) FetchPreview(ctx context.Context, rawURL string) *PreviewMetadata {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil
	}
	host := parsed.Hostname()

	minimal := &PreviewMetadata{
		Title:    host,
		SiteName: host,
		URL:      rawURL,
		Type:     "link",
		Domain:   host,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.proxyBase+url.QueryEscape(rawURL), nil)
	if err != nil {
		return minimal
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Debug("Preview fetch failed", zap.String("url", rawURL), zap.Error(err))
		return minimal
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		f.logger.Debug("Preview fetch returned non-OK status",
			zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
		return minimal
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPreviewBodyBytes))
	if err != nil {
		return minimal
	}

	meta, pageTitle := collectMeta(doc)
	getMeta := func(names ...string) string {
		for _, name := range names {
			if v, ok := meta[name]; ok && v != "" {
				return v
			}
		}
		return ""
	}

	title := getMeta("og:title", "twitter:title")
	if title == "" {
		title = strings.TrimSpace(pageTitle)
	}
	if title == "" {
		title = host
	}

	result := &PreviewMetadata{
		Title:       title,
		Description: getMeta("og:description", "twitter:description", "description"),
		Image:       getMeta("og:image", "twitter:image"),
		SiteName:    getMeta("og:site_name"),
		URL:         rawURL,
		Type:        "link",
		Domain:      host,
	}
	if result.SiteName == "" {
		result.SiteName = host
	}

	// Known platforms get a substituted label and, for YouTube, a
	// derivable thumbnail.
	switch {
	case strings.Contains(rawURL, "youtube.com/watch") || strings.Contains(rawURL, "youtu.be/"):
		if id := extractYouTubeID(rawURL); id != "" {
			result.Image = "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
			result.SiteName = "YouTube"
			result.Type = "video"
		}
	case strings.Contains(rawURL, "spotify.com"):
		result.SiteName = "Spotify"
		result.Type = "music"
	case strings.Contains(rawURL, "soundcloud.com"):
		result.SiteName = "SoundCloud"
		result.Type = "music"
	}

	return result
}

// collectMeta walks the parsed document collecting meta tag name/property
// to content pairs and the <title> element text.
func collectMeta(doc *html.Node) (map[string]string, string) {
	meta := make(map[string]string)
	var title string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				var key, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "name", "property":
						key = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if key != "" {
					if _, exists := meta[key]; !exists {
						meta[key] = content
					}
				}
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = n.FirstChild.Data
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return meta, title
}

// extractYouTubeID pulls the 11-character video id out of the common
// YouTube URL shapes.
func extractYouTubeID(rawURL string) string {
	m := youTubeIDPattern.FindStringSubmatch(rawURL)
	if len(m) > 7 && len(m[7]) == 11 {
		return m[7]
	}
	return ""
}
