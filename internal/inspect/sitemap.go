package inspect

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// sitemapPath is the well-known path for XML sitemaps.
const sitemapPath = "/sitemap.xml"

// Valid sitemap root elements per the sitemaps.org protocol.
const (
	sitemapRootURLSet = "urlset"
	sitemapRootIndex  = "sitemapindex"
)

// SitemapChecker validates that an origin serves an XML sitemap whose root
// element is a urlset or sitemap index.
type SitemapChecker struct {
	httpClient *http.Client
	userAgent  string
}

// NewSitemapChecker creates a sitemap checker. A nil httpClient gets a
// default client bounded by the helper timeout.
func NewSitemapChecker(httpClient *http.Client, userAgent string) *SitemapChecker {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: helperTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &SitemapChecker{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// IsValid reports whether origin/sitemap.xml responds 200 with a
// recognizable sitemap document.
func (s *SitemapChecker) IsValid(ctx context.Context, origin string) bool {
	body, statusCode, err := s.fetch(ctx, origin+sitemapPath)
	if err != nil || statusCode != http.StatusOK {
		return false
	}

	return hasSitemapRoot(body)
}

// hasSitemapRoot scans for the document's first element and checks its name.
// Anything before it (XML declaration, comments, doctype) is skipped.
func hasSitemapRoot(body []byte) bool {
	decoder := xml.NewDecoder(bytes.NewReader(body))

	for {
		token, err := decoder.Token()
		if err != nil {
			return false
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		name := strings.ToLower(start.Name.Local)
		return name == sitemapRootURLSet || name == sitemapRootIndex
	}
}

func (s *SitemapChecker) fetch(ctx context.Context, rawURL string) (body []byte, statusCode int, err error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if reqErr != nil {
		return nil, 0, fmt.Errorf("create request: %w", reqErr)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, doErr := s.httpClient.Do(req)
	if doErr != nil {
		return nil, 0, fmt.Errorf("fetch sitemap: %w", doErr)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBodyBytes)

	body, readErr := io.ReadAll(limited)
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("read sitemap: %w", readErr)
	}

	return body, resp.StatusCode, nil
}
