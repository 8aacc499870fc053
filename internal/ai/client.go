package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"go-emprego-automation/internal/scraper"
)

// Client is the interface for AI extraction providers
type Client interface {
	// ExtractJob takes the raw HTML of a job posting page and returns the
	// structured Job. Known categories and locations are passed so the model
	// reuses canonical values instead of inventing new spellings.
	ExtractJob(ctx context.Context, html, sourceURL string, knownCategories, knownLocations []string) (*scraper.Job, error)
}

// buildSystemPrompt creates the extraction instruction for the AI model
func buildSystemPrompt(knownCategories, knownLocations []string) string {
	cats, _ := json.Marshal(knownCategories)
	locs, _ := json.Marshal(knownLocations)

	return fmt.Sprintf(`You are an expert data extraction bot. Your task is to analyze the raw HTML content of a job posting page from Mozambique and extract the specified information into a clean, valid JSON object.

Instructions:
1. Analyze the entire HTML content provided below.
2. Extract the following fields and format them into a JSON object.
3. For 'tasks_of_the_role' and 'requirements', extract the list items and combine them into a single string with newline characters.
4. For 'category', if it's not explicitly mentioned, analyze the job title and description and assign the most appropriate category from the provided 'Known Categories' list.
5. Do not invent information. If a field cannot be found, use null as the value.
6. The 'expiring_date' might say "Expirado". If so, use that value.
7. Ensure the final output is ONLY a valid JSON object and nothing else.

Known Categories: %s
Known Locations: %s

Required JSON Output Format:
{
  "job_title": "string",
  "company_name": "string",
  "location": "string",
  "category": "string",
  "publication_date": "string (DD.MM.YYYY or YYYY-MM-DD)",
  "expiring_date": "string (DD.MM.YYYY or YYYY-MM-DD or 'Expirado')",
  "job_description": "string",
  "tasks_of_the_role": "string (with newlines for each item)",
  "requirements": "string (with newlines for each item)"
}`, cats, locs)
}

// buildUserPrompt wraps the page HTML for the model
func buildUserPrompt(html string) string {
	return fmt.Sprintf("HTML Content:\n```html\n%s\n```", html)
}
