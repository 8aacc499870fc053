package mmo

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-emprego-automation/internal/config"
	"go-emprego-automation/utils"

	"github.com/playwright-community/playwright-go"
)

const (
	BaseURL  = "https://emprego.mmo.co.mz"
	startURL = BaseURL + "/vagas-em-mocambique/"
)

// maxPages caps pagination: MMO keeps hundreds of archive pages and the old
// ones never contain live postings.
const maxPages = 30

type Scraper struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{
		cfg: cfg,
	}
}

func (s *Scraper) Name() string {
	return "MMO"
}

// DiscoverJobURLs walks the MMO listing pages collecting /vaga/ links not
// yet in knownURLs.
func (s *Scraper) DiscoverJobURLs(ctx context.Context, page playwright.Page, knownURLs map[string]bool) ([]string, error) {
	log.Println("📋 Collecting job links from emprego.mmo.co.mz...")

	seen := make(map[string]bool)
	var newURLs []string

	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return newURLs, err
		}

		pageURL := startURL
		if pageNum > 1 {
			pageURL = fmt.Sprintf("%spage/%d/", startURL, pageNum)
		}

		if _, err := page.Goto(pageURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(60000),
		}); err != nil {
			log.Printf("    ⚠️ Error loading %s: %v", pageURL, err)
			break
		}

		//wait for dynamic listing content
		page.WaitForTimeout(2000)

		links, err := page.Locator(`a[href*="/vaga/"]`).All()
		if err != nil {
			return newURLs, err
		}
		if len(links) == 0 {
			break
		}

		found := 0
		for _, link := range links {
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
			found++
		}

		log.Printf("    - Page %d: %d new links (%d total)", pageNum, found, len(newURLs))

		//a page with only known links means we caught up with the archive
		if found == 0 {
			break
		}

		utils.RandomDelay(s.cfg.MinDelayMs, s.cfg.MaxDelayMs)
	}

	return newURLs, nil
}
