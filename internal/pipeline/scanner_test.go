package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a11yscan/a11yscan/internal/config"
)

// testConfig returns a config suitable for fast tests: no politeness
// delays and no external state.
func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.CrawlDelay = 0
	return cfg
}

// testSite serves a small three-page site with known violations.
func testSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		// Homepage: missing alt, links to the other pages.
		_, _ = w.Write([]byte(`<html><body>
<h1>Acme Widgets</h1>
<img src="hero.jpg">
<a href="/products">Our products</a>
<a href="/contact">Contact Acme</a>
</body></html>`))
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		// Missing h1 plus a generic link.
		_, _ = w.Write([]byte(`<html><body>
<h2>Products</h2>
<a href="/spec.pdf">click here</a>
</body></html>`))
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		// Unlabeled input.
		_, _ = w.Write([]byte(`<html><body>
<h1>Contact</h1>
<form><input type="email" name="email"></form>
</body></html>`))
	})

	return httptest.NewServer(mux)
}

// TestScanWebsite tests the end-to-end scan flow.
func TestScanWebsite(t *testing.T) {
	t.Parallel()

	t.Run("scans a site and aggregates violations", func(t *testing.T) {
		t.Parallel()

		server := testSite(t)
		defer server.Close()

		scanner := NewScanner(testConfig(), WithHTTPClient(server.Client()))
		result, err := scanner.ScanWebsite(context.Background(), server.URL, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Target != server.URL {
			t.Errorf("expected target %q, got %q", server.URL, result.Target)
		}
		if result.PagesScanned != 3 {
			t.Errorf("expected 3 pages scanned, got %d", result.PagesScanned)
		}
		// homepage: missing alt; products: missing h1 + click here; contact: unlabeled input.
		if result.TotalViolations != 4 {
			t.Errorf("expected 4 violations, got %d: %v", result.TotalViolations, result.Violations)
		}
		if result.PagesWithViolations != 3 {
			t.Errorf("expected 3 pages with violations, got %d", result.PagesWithViolations)
		}
		if result.ComplianceScore != 92 {
			t.Errorf("expected score 92, got %d", result.ComplianceScore)
		}
		if result.Partial {
			t.Error("expected complete scan, got partial")
		}
	})

	t.Run("unreachable site returns ErrScanUnavailable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		scanner := NewScanner(testConfig(), WithHTTPClient(server.Client()))
		_, err := scanner.ScanWebsite(context.Background(), server.URL, 10)
		if !errors.Is(err, ErrScanUnavailable) {
			t.Errorf("expected ErrScanUnavailable, got %v", err)
		}
	})

	t.Run("page budget is clamped to the ceiling", func(t *testing.T) {
		t.Parallel()

		server := testSite(t)
		defer server.Close()

		scanner := NewScanner(testConfig(), WithHTTPClient(server.Client()))
		result, err := scanner.ScanWebsite(context.Background(), server.URL, 100000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PagesScanned > config.DefaultMaxPages {
			t.Errorf("expected at most %d pages, got %d", config.DefaultMaxPages, result.PagesScanned)
		}
	})

	t.Run("single page budget audits only the homepage", func(t *testing.T) {
		t.Parallel()

		server := testSite(t)
		defer server.Close()

		scanner := NewScanner(testConfig(), WithHTTPClient(server.Client()))
		result, err := scanner.ScanWebsite(context.Background(), server.URL, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PagesScanned != 1 {
			t.Errorf("expected 1 page scanned, got %d", result.PagesScanned)
		}
		if result.TotalViolations != 1 {
			t.Errorf("expected 1 violation from homepage, got %d", result.TotalViolations)
		}
	})

	t.Run("site config cookie is sent", func(t *testing.T) {
		t.Parallel()

		var gotCookie string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCookie = r.Header.Get("Cookie")
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body><h1>ok</h1></body></html>"))
		}))
		defer server.Close()

		cfg := testConfig()
		cfg.File.Sites[hostOf(server.URL)] = config.SiteConfig{Cookie: "session=test123"}

		scanner := NewScanner(cfg, WithHTTPClient(server.Client()))
		if _, err := scanner.ScanWebsite(context.Background(), server.URL, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotCookie != "session=test123" {
			t.Errorf("expected site cookie, got %q", gotCookie)
		}
	})
}

// TestAssessRisk tests the assessment entry point.
func TestAssessRisk(t *testing.T) {
	t.Parallel()

	server := testSite(t)
	defer server.Close()

	scanner := NewScanner(testConfig(), WithHTTPClient(server.Client()))
	result, err := scanner.ScanWebsite(context.Background(), server.URL, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assessment := scanner.AssessRisk(result)
	if assessment == nil {
		t.Fatal("expected assessment")
	}
	if assessment.CleanSite {
		t.Error("expected non-clean assessment for site with violations")
	}
	if assessment.FinancialExposure.Min <= 0 {
		t.Errorf("expected positive exposure, got %v", assessment.FinancialExposure.Min)
	}

	// Same result, same assessment.
	again := scanner.AssessRisk(result)
	if assessment.FinancialExposure != again.FinancialExposure {
		t.Error("expected deterministic assessment")
	}
}

// TestBatchProcessor tests concurrent multi-target scanning.
func TestBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("scans all targets and preserves order", func(t *testing.T) {
		t.Parallel()

		siteA := testSite(t)
		defer siteA.Close()
		siteB := testSite(t)
		defer siteB.Close()

		scanner := NewScanner(testConfig(), WithHTTPClient(siteA.Client()))
		bp := NewBatchProcessor(scanner, WithBatchConcurrency(2))

		targets := []string{siteA.URL, siteB.URL}
		results, err := bp.ProcessBatch(context.Background(), targets, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		for i, outcome := range results {
			if outcome.Target != targets[i] {
				t.Errorf("result %d: expected target %q, got %q", i, targets[i], outcome.Target)
			}
			if outcome.Err != nil {
				t.Errorf("result %d: unexpected error: %v", i, outcome.Err)
			}
			if outcome.Assessment == nil {
				t.Errorf("result %d: expected assessment", i)
			}
		}
	})

	t.Run("one failed target does not abort the batch", func(t *testing.T) {
		t.Parallel()

		good := testSite(t)
		defer good.Close()
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer bad.Close()

		scanner := NewScanner(testConfig(), WithHTTPClient(good.Client()))
		bp := NewBatchProcessor(scanner)

		results, err := bp.ProcessBatch(context.Background(), []string{bad.URL, good.URL}, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !errors.Is(results[0].Err, ErrScanUnavailable) {
			t.Errorf("expected ErrScanUnavailable for bad target, got %v", results[0].Err)
		}
		if results[1].Err != nil {
			t.Errorf("expected good target to succeed, got %v", results[1].Err)
		}
	})

	t.Run("callback receives every outcome", func(t *testing.T) {
		t.Parallel()

		site := testSite(t)
		defer site.Close()

		scanner := NewScanner(testConfig(), WithHTTPClient(site.Client()))
		bp := NewBatchProcessor(scanner)

		seen := make(chan struct{}, 3)
		err := bp.ProcessBatchWithCallback(context.Background(),
			[]string{site.URL, site.URL, site.URL}, 2,
			func(outcome *TargetResult, _ int) {
				if outcome.Result == nil && outcome.Err == nil {
					t.Error("expected result or error")
				}
				seen <- struct{}{}
			})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seen) != 3 {
			t.Errorf("expected 3 callbacks, got %d", len(seen))
		}
	})
}
