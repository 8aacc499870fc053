package emprego

import (
	"context"
	"log"
	"strings"

	"go-emprego-automation/internal/config"
	"go-emprego-automation/utils"

	"github.com/playwright-community/playwright-go"
)

const BaseURL = "https://www.emprego.co.mz"

type Scraper struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{
		cfg: cfg,
	}
}

func (s *Scraper) Name() string {
	return "EmpregoMZ"
}

// DiscoverJobURLs walks every category of emprego.co.mz and collects job
// detail links not yet in knownURLs.
func (s *Scraper) DiscoverJobURLs(ctx context.Context, page playwright.Page, knownURLs map[string]bool) ([]string, error) {
	log.Println("📋 Phase 1: Discovering categories on emprego.co.mz...")

	if _, err := page.Goto(BaseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(60000),
	}); err != nil {
		return nil, err
	}

	categoryLinks, err := page.Locator(`div.content-container-1-4 h2:has-text("Categoria") + ul a`).All()
	if err != nil {
		return nil, err
	}

	var categoryURLs []string
	for _, link := range categoryLinks {
		href, err := link.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		categoryURLs = append(categoryURLs, resolveURL(href))
	}
	log.Printf("  📦 Found %d job categories", len(categoryURLs))

	log.Println("📋 Phase 2: Collecting job links...")
	seen := make(map[string]bool)
	var newURLs []string

	for _, categoryURL := range categoryURLs {
		if err := ctx.Err(); err != nil {
			return newURLs, err
		}

		log.Printf("  🔍 Scraping category: %s", categoryURL)
		currentURL := categoryURL
		pageNum := 1

		for {
			if _, err := page.Goto(currentURL, playwright.PageGotoOptions{
				WaitUntil: playwright.WaitUntilStateDomcontentloaded,
				Timeout:   playwright.Float(60000),
			}); err != nil {
				log.Printf("    ⚠️ Error loading %s: %v", currentURL, err)
				break
			}

			jobLinks, err := page.Locator("li.clearfix h3.normal-text a").All()
			if err != nil || len(jobLinks) == 0 {
				break
			}

			for _, link := range jobLinks {
				href, err := link.GetAttribute("href")
				if err != nil || href == "" {
					continue
				}
				jobURL := resolveURL(href)
				if knownURLs[jobURL] || seen[jobURL] {
					continue
				}
				seen[jobURL] = true
				newURLs = append(newURLs, jobURL)
			}

			log.Printf("    - Page %d: total unique new links so far: %d", pageNum, len(newURLs))

			//follow pagination
			nextButton := page.Locator("div.pagination a.nextpostslink")
			count, _ := nextButton.Count()
			if count == 0 {
				break
			}
			nextHref, err := nextButton.First().GetAttribute("href")
			if err != nil || nextHref == "" {
				break
			}
			currentURL = resolveURL(nextHref)
			pageNum++

			//be respectful between pages
			utils.RandomDelay(s.cfg.MinDelayMs, s.cfg.MaxDelayMs)
		}
	}

	return newURLs, nil
}

func resolveURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return BaseURL + href
	}
	return href
}
