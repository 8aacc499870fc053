package emprego

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go-emprego-automation/internal/config"

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

func TestDiscoverJobURLs_MockedBoard(t *testing.T) {
	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	homeHTML := `<html><body>
		<div class="content-container-1-4">
			<h2>Categoria</h2>
			<ul><li><a href="/category/informatica">Informática</a></li></ul>
		</div>
	</body></html>`

	listingHTML := `<html><body>
		<ul>
			<li class="clearfix"><h3 class="normal-text"><a href="/vaga/analista">Analista</a></h3></li>
			<li class="clearfix"><h3 class="normal-text"><a href="/vaga/tecnico">Técnico</a></h3></li>
			<li class="clearfix"><h3 class="normal-text"><a href="/vaga/conhecido">Conhecido</a></h3></li>
		</ul>
	</body></html>`

	//serve mock pages for every request to the board
	page.Route("**/*", func(route playwright.Route) {
		url := route.Request().URL()
		body := homeHTML
		if strings.Contains(url, "/category/") {
			body = listingHTML
		}
		route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        body,
		})
	})

	s := New(testConfig())
	known := map[string]bool{BaseURL + "/vaga/conhecido": true}

	urls, err := s.DiscoverJobURLs(context.Background(), page, known)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		BaseURL + "/vaga/analista",
		BaseURL + "/vaga/tecnico",
	}, urls)
}

func TestDiscoverJobURLs_EmptyBoard(t *testing.T) {
	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	page.Route("**/*", func(route playwright.Route) {
		route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        "<html><body><p>manutenção</p></body></html>",
		})
	})

	s := New(testConfig())
	urls, err := s.DiscoverJobURLs(context.Background(), page, nil)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

//integration test: run against the real site
func TestDiscoverJobURLs_Real(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	s := New(testConfig())
	urls, err := s.DiscoverJobURLs(context.Background(), page, nil)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(urls), 0)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "http"), fmt.Sprintf("unexpected url %s", u))
	}
}
