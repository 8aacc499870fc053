// Define an interface for all job board scrapers
// Ensure consistency

package scraper

import (
	"context"

	"github.com/playwright-community/playwright-go"
)

// Job is one extracted job posting. JSON tags match the fields stored in
// emprego_mz_jobs.json so data files written by earlier runs keep loading.
type Job struct {
	Title           string `json:"job_title"`
	Company         string `json:"company_name"`
	Location        string `json:"location"`
	Category        string `json:"category"`
	PublicationDate string `json:"publication_date"`
	ExpiringDate    string `json:"expiring_date"`
	Description     string `json:"job_description"`
	Tasks           string `json:"tasks_of_the_role"`
	Requirements    string `json:"requirements"`
	SourceURL       string `json:"source_url"`
}

//Scraper defines the interface that all job board scrapers must implement
type Scraper interface {
	//DiscoverJobURLs walks the board's listings and returns detail page URLs.
	//URLs already present in knownURLs are skipped so stored jobs are not
	//re-extracted.
	DiscoverJobURLs(ctx context.Context, page playwright.Page, knownURLs map[string]bool) ([]string, error)

	//Name is the board name (EmpregoMZ, MMO, ...)
	Name() string
}
