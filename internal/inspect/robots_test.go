package inspect_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/goseo/internal/inspect"
)

// robotsServer serves the given robots.txt body on every path.
func robotsServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestDisallowsAll_ExplicitCatchAllDisallow(t *testing.T) {
	t.Parallel()

	server := robotsServer(t, "User-agent: *\nDisallow: /\n", http.StatusOK)
	defer server.Close()

	checker := inspect.NewRobotsChecker(nil, "TestBot/1.0")

	if !checker.DisallowsAll(context.Background(), server.URL) {
		t.Error("expected disallow-all for User-agent: * with Disallow: /")
	}
}

func TestDisallowsAll_PartialDisallow(t *testing.T) {
	t.Parallel()

	server := robotsServer(t, "User-agent: *\nDisallow: /private/\n", http.StatusOK)
	defer server.Close()

	checker := inspect.NewRobotsChecker(nil, "TestBot/1.0")

	if checker.DisallowsAll(context.Background(), server.URL) {
		t.Error("expected partial disallow not to flag the origin")
	}
}

func TestDisallowsAll_SpecificAgentOnly(t *testing.T) {
	t.Parallel()

	// Only a named agent is blocked; the catch-all group stays open.
	server := robotsServer(t, "User-agent: badbot\nDisallow: /\n", http.StatusOK)
	defer server.Close()

	checker := inspect.NewRobotsChecker(nil, "TestBot/1.0")

	if checker.DisallowsAll(context.Background(), server.URL) {
		t.Error("expected a named-agent block not to flag the origin")
	}
}

func TestDisallowsAll_Missing404(t *testing.T) {
	t.Parallel()

	server := robotsServer(t, "not found", http.StatusNotFound)
	defer server.Close()

	checker := inspect.NewRobotsChecker(nil, "TestBot/1.0")

	if checker.DisallowsAll(context.Background(), server.URL) {
		t.Error("expected missing robots.txt not to flag the origin")
	}
}

func TestDisallowsAll_EmptyFile(t *testing.T) {
	t.Parallel()

	server := robotsServer(t, "", http.StatusOK)
	defer server.Close()

	checker := inspect.NewRobotsChecker(nil, "TestBot/1.0")

	if checker.DisallowsAll(context.Background(), server.URL) {
		t.Error("expected empty robots.txt not to flag the origin")
	}
}

func TestDisallowsAll_UnreachableOrigin(t *testing.T) {
	t.Parallel()

	server := robotsServer(t, "", http.StatusOK)
	server.Close()

	checker := inspect.NewRobotsChecker(nil, "TestBot/1.0")

	if checker.DisallowsAll(context.Background(), server.URL) {
		t.Error("expected unreachable origin not to flag")
	}
}
