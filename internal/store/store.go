// JSON file store for scraped jobs and the category/location master lists,
// kept in three files: emprego_mz_jobs.json, categories.json, locations.json.

package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go-emprego-automation/internal/filter"
	"go-emprego-automation/internal/scraper"
)

type Store struct {
	mu sync.Mutex

	jobsFile       string
	categoriesFile string
	locationsFile  string

	jobs       []scraper.Job
	categories []string
	locations  []string
}

type Stats struct {
	Jobs       int `json:"jobs"`
	Categories int `json:"categories"`
	Locations  int `json:"locations"`
	//mtime of the jobs file, zero when it does not exist yet
	LastModified time.Time `json:"last_modified"`
}

// Open loads the store from disk. Missing or corrupt files start empty, a
// fresh deployment has no data yet.
func Open(jobsFile, categoriesFile, locationsFile string) *Store {
	s := &Store{
		jobsFile:       jobsFile,
		categoriesFile: categoriesFile,
		locationsFile:  locationsFile,
	}

	s.jobs = loadJobs(jobsFile)
	s.categories = loadStrings(categoriesFile)
	s.locations = loadStrings(locationsFile)

	//fold categories/locations from stored jobs into the master lists, so
	//the lists survive even if their files were deleted
	for _, job := range s.jobs {
		s.categories = addTerm(s.categories, firstCategory(job.Category))
		s.locations = addTerm(s.locations, strings.TrimSpace(job.Location))
	}
	sort.Strings(s.categories)
	sort.Strings(s.locations)

	log.Printf("📋 Loaded %d jobs, %d categories, %d locations", len(s.jobs), len(s.categories), len(s.locations))
	return s
}

// ExistingURLs returns the set of source URLs already stored.
func (s *Store) ExistingURLs() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	urls := make(map[string]bool, len(s.jobs))
	for _, job := range s.jobs {
		if job.SourceURL != "" {
			urls[job.SourceURL] = true
		}
	}
	return urls
}

func (s *Store) Jobs() []scraper.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scraper.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.categories...)
}

func (s *Store) Locations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.locations...)
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Jobs: len(s.jobs), Categories: len(s.categories), Locations: len(s.locations)}
	if info, err := os.Stat(s.jobsFile); err == nil {
		stats.LastModified = info.ModTime()
	}
	return stats
}

// Append adds newly extracted jobs, skipping source URLs already present,
// and folds their category/location into the master lists. Returns how many
// jobs were actually added.
func (s *Store) Append(jobs []scraper.Job) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.jobs))
	for _, job := range s.jobs {
		seen[job.SourceURL] = true
	}

	added := 0
	for _, job := range jobs {
		if job.SourceURL == "" || seen[job.SourceURL] {
			continue
		}
		seen[job.SourceURL] = true
		s.jobs = append(s.jobs, job)
		s.categories = addTerm(s.categories, firstCategory(job.Category))
		s.locations = addTerm(s.locations, strings.TrimSpace(job.Location))
		added++
	}
	sort.Strings(s.categories)
	sort.Strings(s.locations)
	return added
}

// Save writes all three files with indented UTF-8 JSON.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.jobsFile, s.jobs); err != nil {
		return fmt.Errorf("failed to save jobs db: %w", err)
	}
	if err := writeJSON(s.categoriesFile, s.categories); err != nil {
		return fmt.Errorf("failed to save categories: %w", err)
	}
	if err := writeJSON(s.locationsFile, s.locations); err != nil {
		return fmt.Errorf("failed to save locations: %w", err)
	}
	log.Printf("💾 Saved %d jobs, %d categories, %d locations", len(s.jobs), len(s.categories), len(s.locations))
	return nil
}

// addTerm appends term unless it is empty or an accent/case variant of an
// existing entry.
func addTerm(list []string, term string) []string {
	if term == "" {
		return list
	}
	for _, existing := range list {
		if filter.SameTerm(existing, term) {
			return list
		}
	}
	return append(list, term)
}

// firstCategory takes the first entry of a comma-separated category string.
func firstCategory(category string) string {
	first, _, _ := strings.Cut(category, ",")
	return strings.TrimSpace(first)
}

func loadJobs(path string) []scraper.Job {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read %s: %v", path, err)
		}
		return nil
	}

	var jobs []scraper.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		log.Printf("⚠️ Failed to parse %s: %v", path, err)
		return nil
	}
	return jobs
}

func loadStrings(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("⚠️ Failed to parse %s: %v", path, err)
		return nil
	}
	return items
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
