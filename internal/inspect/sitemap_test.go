package inspect_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/goseo/internal/inspect"
)

func sitemapServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestSitemapIsValid_URLSet(t *testing.T) {
	t.Parallel()

	body := `<?xml version="1.0" encoding="UTF-8"?>
<!-- generated -->
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc></url>
</urlset>`

	server := sitemapServer(t, body, http.StatusOK)
	defer server.Close()

	checker := inspect.NewSitemapChecker(nil, "TestBot/1.0")

	if !checker.IsValid(context.Background(), server.URL) {
		t.Error("expected urlset sitemap to be valid")
	}
}

func TestSitemapIsValid_SitemapIndex(t *testing.T) {
	t.Parallel()

	body := `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap-1.xml</loc></sitemap>
</sitemapindex>`

	server := sitemapServer(t, body, http.StatusOK)
	defer server.Close()

	checker := inspect.NewSitemapChecker(nil, "TestBot/1.0")

	if !checker.IsValid(context.Background(), server.URL) {
		t.Error("expected sitemap index to be valid")
	}
}

func TestSitemapIsValid_HTMLErrorPage(t *testing.T) {
	t.Parallel()

	// Some sites serve a styled 200 page at /sitemap.xml; the root element
	// gives it away.
	server := sitemapServer(t, "<html><body>Not a sitemap</body></html>", http.StatusOK)
	defer server.Close()

	checker := inspect.NewSitemapChecker(nil, "TestBot/1.0")

	if checker.IsValid(context.Background(), server.URL) {
		t.Error("expected html body not to validate as sitemap")
	}
}

func TestSitemapIsValid_Missing404(t *testing.T) {
	t.Parallel()

	server := sitemapServer(t, "not found", http.StatusNotFound)
	defer server.Close()

	checker := inspect.NewSitemapChecker(nil, "TestBot/1.0")

	if checker.IsValid(context.Background(), server.URL) {
		t.Error("expected missing sitemap to be invalid")
	}
}

func TestSitemapIsValid_Garbage(t *testing.T) {
	t.Parallel()

	server := sitemapServer(t, "definitely not xml", http.StatusOK)
	defer server.Close()

	checker := inspect.NewSitemapChecker(nil, "TestBot/1.0")

	if checker.IsValid(context.Background(), server.URL) {
		t.Error("expected non-xml body to be invalid")
	}
}

func TestSitemapIsValid_Empty(t *testing.T) {
	t.Parallel()

	server := sitemapServer(t, "", http.StatusOK)
	defer server.Close()

	checker := inspect.NewSitemapChecker(nil, "TestBot/1.0")

	if checker.IsValid(context.Background(), server.URL) {
		t.Error("expected empty body to be invalid")
	}
}
