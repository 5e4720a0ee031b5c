package inspect

import (
	"context"
	"sync"
	"time"

	colly "github.com/gocolly/colly/v2"
)

// probeParallelism bounds concurrent link probe requests per audit.
const probeParallelism = 4

// Prober checks candidate internal links with a bounded async collector.
// A fresh collector per call keeps visited-URL state from leaking between
// audits.
type Prober struct {
	userAgent string
	timeout   time.Duration
}

// NewProber creates a link prober.
func NewProber(userAgent string) *Prober {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Prober{
		userAgent: userAgent,
		timeout:   helperTimeout,
	}
}

// BrokenCount probes each URL and returns how many failed: transport
// errors, unvisitable URLs, and 4xx/5xx statuses all count as broken.
func (p *Prober) BrokenCount(ctx context.Context, urls []string) int {
	if len(urls) == 0 {
		return 0
	}

	c := colly.NewCollector(
		colly.Async(true),
		colly.ParseHTTPErrorResponse(),
		colly.IgnoreRobotsTxt(),
		colly.UserAgent(p.userAgent),
	)
	c.SetRequestTimeout(p.timeout)

	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: probeParallelism,
	}); err != nil {
		// Probe every URL sequentially rather than skip the check.
		c.Async = false
	}

	var mu sync.Mutex
	broken := 0
	markBroken := func() {
		mu.Lock()
		broken++
		mu.Unlock()
	}

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	c.OnResponse(func(r *colly.Response) {
		if r.StatusCode >= 400 {
			markBroken()
		}
	})

	c.OnError(func(_ *colly.Response, _ error) {
		markBroken()
	})

	for _, u := range urls {
		if err := c.Visit(u); err != nil {
			markBroken()
		}
	}
	c.Wait()

	return broken
}
