package inspect

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/temoto/robotstxt"
)

// robotsTxtPath is the well-known path for robots.txt files.
const robotsTxtPath = "/robots.txt"

// maxRobotsBodyBytes limits the size of robots.txt responses we will read.
const maxRobotsBodyBytes = 512 * 1024 // 512 KB

// RobotsChecker detects origins whose robots.txt blocks all crawling.
// Missing, errored, or unparseable robots.txt never flags: only an explicit
// catch-all disallow does.
type RobotsChecker struct {
	httpClient *http.Client
	userAgent  string
}

// NewRobotsChecker creates a robots.txt checker. A nil httpClient gets a
// default client bounded by the helper timeout.
func NewRobotsChecker(httpClient *http.Client, userAgent string) *RobotsChecker {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: helperTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &RobotsChecker{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// DisallowsAll reports whether the origin's robots.txt denies the site
// root to the catch-all agent group.
func (r *RobotsChecker) DisallowsAll(ctx context.Context, origin string) bool {
	body, statusCode, err := r.fetch(ctx, origin+robotsTxtPath)
	if err != nil || statusCode != http.StatusOK {
		return false
	}

	robots, parseErr := robotstxt.FromBytes(body)
	if parseErr != nil {
		return false
	}

	group := robots.FindGroup("*")
	if group == nil {
		return false
	}

	return !group.Test("/")
}

func (r *RobotsChecker) fetch(ctx context.Context, rawURL string) (body []byte, statusCode int, err error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if reqErr != nil {
		return nil, 0, fmt.Errorf("create request: %w", reqErr)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, doErr := r.httpClient.Do(req)
	if doErr != nil {
		return nil, 0, fmt.Errorf("fetch robots.txt: %w", doErr)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxRobotsBodyBytes)

	body, readErr := io.ReadAll(limited)
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("read robots.txt: %w", readErr)
	}

	return body, resp.StatusCode, nil
}
