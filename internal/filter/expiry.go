package filter

import (
	"regexp"
	"strings"
	"time"
)

var (
	//matches the "Expira" label span followed by its value span on
	//emprego.co.mz detail pages
	expirySpanRegex = regexp.MustCompile(`(?is)<span[^>]*class="[^"]*column-1-3[^"]*"[^>]*>\s*Expira\s*</span>\s*<span[^>]*class="[^"]*column-2-3[^"]*"[^>]*>(.*?)</span>`)
	htmlTagRegex    = regexp.MustCompile(`<[^<]+?>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	isoDateRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// ExtractExpiry pulls the raw expiry string out of a job page's HTML without
// parsing the full document. Returns "" when the page has no recognizable
// expiry field; the AI extraction then gets the final say.
func ExtractExpiry(html string) string {
	match := expirySpanRegex.FindStringSubmatch(html)
	if match == nil {
		return ""
	}
	return CleanHTMLText(match[1])
}

// CleanHTMLText strips tags and collapses whitespace.
func CleanHTMLText(s string) string {
	clean := htmlTagRegex.ReplaceAllString(s, "")
	clean = whitespaceRegex.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// IsExpired reports whether an expiry string marks a dead posting. Handles
// the literal "Expirado", DD.MM.YYYY and YYYY-MM-DD dates. Unparseable
// strings are NOT treated as expired: the job goes to the AI for a full check.
func IsExpired(dateStr string, now time.Time) bool {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return false
	}

	if strings.Contains(strings.ToLower(dateStr), "expirado") {
		return true
	}

	//case 1: DD.MM.YYYY (board's native format)
	if expiry, err := time.Parse("02.01.2006", dateStr); err == nil {
		return expiry.Before(startOfDay(now))
	}

	//case 2: ISO YYYY-MM-DD, possibly with a time suffix
	if isoDateRegex.MatchString(dateStr) {
		if expiry, err := time.Parse("2006-01-02", dateStr[:10]); err == nil {
			return expiry.Before(startOfDay(now))
		}
	}

	//default: let the AI decide
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
