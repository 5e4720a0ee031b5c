package inspect

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// strippedSelectors lists elements removed before counting visible words.
const strippedSelectors = "script, style, noscript"

// hreflang region variants are either a bare language code ("en"), a
// language-region pair ("en-US"), or the x-default marker.
const (
	hreflangLangLength   = 2
	hreflangRegionLength = 5
	hreflangDefault      = "x-default"
)

// srcTags holds the tags whose mixed-content URL lives in src; everything
// else checked (link) carries href.
var srcTags = map[string]bool{
	"img":    true,
	"script": true,
	"iframe": true,
	"source": true,
	"audio":  true,
	"video":  true,
}

// pageTitle extracts the trimmed <title> text.
func pageTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// metaDescription extracts the trimmed meta description content.
func metaDescription(doc *goquery.Document) string {
	if desc, exists := doc.Find("meta[name='description']").Attr("content"); exists {
		return strings.TrimSpace(desc)
	}
	return ""
}

// canonicalURL extracts the canonical link and resolves it against the
// final page URL, so relative canonicals compare equal to absolute ones.
func canonicalURL(doc *goquery.Document, base *url.URL) string {
	href, exists := doc.Find("link[rel='canonical']").Attr("href")
	if !exists {
		return ""
	}

	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	resolved, err := base.Parse(href)
	if err != nil {
		return href
	}
	return resolved.String()
}

// metaRobots extracts the robots directive, lowercased for matching.
func metaRobots(doc *goquery.Document) string {
	if robots, exists := doc.Find("meta[name='robots']").Attr("content"); exists {
		return strings.ToLower(strings.TrimSpace(robots))
	}
	return ""
}

// openGraph extracts the og:title and og:description contents.
func openGraph(doc *goquery.Document) (title, description string) {
	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists {
		title = strings.TrimSpace(ogTitle)
	}
	if ogDesc, exists := doc.Find("meta[property='og:description']").Attr("content"); exists {
		description = strings.TrimSpace(ogDesc)
	}
	return title, description
}

// visibleWordCount counts whitespace-separated tokens across the document's
// text nodes. Call after stripping script, style, and noscript elements.
// Counting per text node keeps adjacent elements from merging into one word.
func visibleWordCount(doc *goquery.Document) int {
	words := 0
	for _, node := range doc.Selection.Nodes {
		words += countTextWords(node)
	}
	return words
}

func countTextWords(node *html.Node) int {
	if node.Type == html.TextNode {
		return len(strings.Fields(node.Data))
	}

	words := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		words += countTextWords(child)
	}
	return words
}

// hreflangCounts tallies alternate links carrying an hreflang value and how
// many of those values are malformed.
func hreflangCounts(doc *goquery.Document) (total, invalid int) {
	doc.Find("link[rel='alternate']").Each(func(_ int, sel *goquery.Selection) {
		value := strings.TrimSpace(sel.AttrOr("hreflang", ""))
		if value == "" {
			return
		}

		total++
		valid := value == hreflangDefault ||
			len(value) == hreflangLangLength ||
			len(value) == hreflangRegionLength
		if !valid {
			invalid++
		}
	})
	return total, invalid
}

// imagesWithoutAlt counts img elements with a missing or blank alt attribute.
func imagesWithoutAlt(doc *goquery.Document) int {
	count := 0
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		alt, exists := sel.Attr("alt")
		if !exists || strings.TrimSpace(alt) == "" {
			count++
		}
	})
	return count
}

// internalLinkTargets counts anchors pointing at the page's own origin and
// collects their absolute targets, deduplicated in first-seen order. The
// count includes duplicates and self-links; the target list carries
// neither, so probe slots are never spent refetching the audited page.
func internalLinkTargets(doc *goquery.Document, base *url.URL, origin string) (count int, targets []string) {
	// The page's own URL is seeded in both slash forms: a homepage fetched
	// as https://example.com resolves its href="/" to the slashed variant.
	self := strings.TrimSuffix(base.String(), "/")
	seen := map[string]bool{self: true, self + "/": true}

	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if !strings.HasPrefix(href, "/") && !strings.HasPrefix(href, origin) {
			return
		}

		count++

		absolute := href
		if resolved, err := base.Parse(href); err == nil {
			absolute = resolved.String()
		}
		if !seen[absolute] {
			seen[absolute] = true
			targets = append(targets, absolute)
		}
	})

	return count, targets
}

// mixedContentCount counts resources loaded over plain HTTP. Only called
// for pages served over HTTPS.
func mixedContentCount(doc *goquery.Document) int {
	count := 0
	doc.Find("img, script, iframe, source, audio, video, link").Each(func(_ int, sel *goquery.Selection) {
		attr := "href"
		if srcTags[goquery.NodeName(sel)] {
			attr = "src"
		}

		value := strings.TrimSpace(sel.AttrOr(attr, ""))
		if strings.HasPrefix(value, "http://") {
			count++
		}
	})
	return count
}
