package domain

// PageSnapshot is the immutable record of one page fetch: the structural
// and content signals the audit rules evaluate. It is produced by the page
// inspector and never persisted directly; derived metrics are.
type PageSnapshot struct {
	// Transport
	StatusCode   int    `json:"status_code"`
	ResponseMS   int64  `json:"response_ms"`
	FinalURL     string `json:"final_url"`
	HTTPSEnabled bool   `json:"https_enabled"`

	// Head signals
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	Canonical       string `json:"canonical"`
	MetaRobots      string `json:"meta_robots"`
	OGTitle         string `json:"og_title"`
	OGDescription   string `json:"og_description"`

	// Body signals
	H1Count          int `json:"h1_count"`
	H2Count          int `json:"h2_count"`
	ImagesWithoutAlt int `json:"images_without_alt"`
	WordCount        int `json:"word_count"`

	// Links
	InternalLinks       int `json:"internal_links"`
	BrokenInternalLinks int `json:"broken_internal_links"`

	// Security
	MixedContentCount int `json:"mixed_content_count"`

	// International targeting
	HreflangCount        int `json:"hreflang_count"`
	InvalidHreflangCount int `json:"invalid_hreflang_count"`

	// Site-level signals
	RobotsDisallowAll bool `json:"robots_disallow_all"`
	SitemapOK         bool `json:"sitemap_ok"`
}
