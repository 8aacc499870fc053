package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"go-emprego-automation/internal/config"
	"go-emprego-automation/internal/scraper"
	"go-emprego-automation/internal/store"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//helper start mock browser
func setupPlaywright(t *testing.T) (*playwright.Playwright, playwright.Browser, playwright.Page) {
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("could not launch playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("could not launch browser: %v", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	return pw, browser, page
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.MinDelayMs = 1
	cfg.MaxDelayMs = 2
	return cfg
}

func testStore(t *testing.T) *store.Store {
	dir := t.TempDir()
	return store.Open(
		filepath.Join(dir, "jobs.json"),
		filepath.Join(dir, "categories.json"),
		filepath.Join(dir, "locations.json"),
	)
}

// stubExtractor stands in for the Gemini client. URLs containing "aifail"
// simulate a model failure.
type stubExtractor struct{}

func (stubExtractor) ExtractJob(ctx context.Context, html, sourceURL string, knownCategories, knownLocations []string) (*scraper.Job, error) {
	if strings.Contains(sourceURL, "aifail") {
		return nil, fmt.Errorf("model returned garbage")
	}
	return &scraper.Job{Title: "Analista", Company: "ACME", SourceURL: sourceURL}, nil
}

func TestExtractJobs_DeadlineLeavesRemainderUnvisited(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	urls := []string{
		"https://mock.test/jobs/1",
		"https://mock.test/jobs/2",
	}

	jobs, visited := extractJobs(ctx, testConfig(), nil, stubExtractor{}, testStore(t), urls)

	assert.Empty(t, jobs)
	assert.Empty(t, visited, "URLs abandoned by the deadline must stay eligible for the next run")
}

func TestExtractJobs_OnlyCommittedOutcomesAreVisited(t *testing.T) {
	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	expiredHTML := `<html><body>
		<span class="column-1-3">Expira</span>
		<span class="column-2-3">01.01.2020</span>
	</body></html>`
	jobHTML := `<html><body><h1>Analista de Dados</h1></body></html>`

	err := page.Route("**/*", func(route playwright.Route) {
		url := route.Request().URL()
		switch {
		case strings.Contains(url, "broken"):
			route.Abort()
		case strings.Contains(url, "expired"):
			route.Fulfill(playwright.RouteFulfillOptions{
				ContentType: playwright.String("text/html"),
				Body:        expiredHTML,
			})
		default:
			route.Fulfill(playwright.RouteFulfillOptions{
				ContentType: playwright.String("text/html"),
				Body:        jobHTML,
			})
		}
	})
	require.NoError(t, err)

	urls := []string{
		"https://mock.test/jobs/expired",
		"https://mock.test/jobs/broken",
		"https://mock.test/jobs/aifail",
		"https://mock.test/jobs/good",
	}

	jobs, visited := extractJobs(context.Background(), testConfig(), page, stubExtractor{}, testStore(t), urls)

	require.Len(t, jobs, 1)
	assert.Equal(t, "https://mock.test/jobs/good", jobs[0].SourceURL)

	//expired and extracted URLs are settled; the load failure and the AI
	//failure must be retried later
	assert.ElementsMatch(t, []string{
		"https://mock.test/jobs/expired",
		"https://mock.test/jobs/good",
	}, visited)
}
