package unjobs

import (
	"context"
	"log"
	"strings"

	"go-emprego-automation/internal/config"
	"go-emprego-automation/utils"

	"github.com/playwright-community/playwright-go"
)

const (
	BaseURL        = "https://unjobs.org"
	dutyStationURL = BaseURL + "/duty_stations/mozambique"
)

type Scraper struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{
		cfg: cfg,
	}
}

func (s *Scraper) Name() string {
	return "UNJobs"
}

// DiscoverJobURLs collects job links from the unjobs.org Mozambique duty
// station page. unjobs.org sits behind Cloudflare, so a blocked page is
// logged with a screenshot and returns no links rather than an error.
func (s *Scraper) DiscoverJobURLs(ctx context.Context, page playwright.Page, knownURLs map[string]bool) ([]string, error) {
	log.Println("🌍 Collecting UN job links for Mozambique...")

	screenshotDebugger := utils.NewScreenShotDebugger()

	if _, err := page.Goto(dutyStationURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(60000),
	}); err != nil {
		log.Printf("    ⚠️ Error loading %s: %v", dutyStationURL, err)
		return nil, nil
	}

	if blocked(page) {
		log.Println("    🛡️ Cloudflare challenge detected. Waiting 7s...")
		screenshotDebugger.CaptureAndLog(page, "unjobs-cloudflare", "🚨 UNJobs: Cloudflare challenge detected")
		page.WaitForTimeout(7000)
		if blocked(page) {
			log.Println("❌ Cloudflare challenge failed. Skipping UNJobs...")
			return nil, nil
		}
	}

	//human behavior before touching the listing
	utils.RandomDelay(s.cfg.MinDelayMs, s.cfg.MaxDelayMs)
	utils.MouseJiggle(page)
	utils.SmoothScroll(page)

	links, err := page.Locator(`a[href*="/jobs/"]`).All()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var newURLs []string
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return newURLs, err
		}
		href, err := link.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		jobURL := href
		if strings.HasPrefix(href, "/") {
			jobURL = BaseURL + href
		}
		if knownURLs[jobURL] || seen[jobURL] {
			continue
		}
		seen[jobURL] = true
		newURLs = append(newURLs, jobURL)
	}

	log.Printf("    📦 Found %d new UN job links", len(newURLs))
	return newURLs, nil
}

func blocked(page playwright.Page) bool {
	title, _ := page.Title()
	return strings.Contains(title, "Attention Required") ||
		strings.Contains(title, "Just a moment") ||
		strings.Contains(title, "Cloudflare")
}
