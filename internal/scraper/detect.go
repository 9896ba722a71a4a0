package scraper

import "strings"

// loginWallKeywords are the indicator terms that show up on the
// anonymous-access gate. A single hit is too noisy ("sign in" appears in
// most footers), so detection requires wallThreshold distinct hits.
var loginWallKeywords = []string{
	"sign in",
	"sign up",
	"join linkedin",
	"login-submit",
	"session_key",
	"authwall",
	"please log in",
	"join now",
}

// invalidCompanyNames are values the wall page leaks into the title
// position; extracting one of these means we never saw the real page.
var invalidCompanyNames = []string{
	"sign in",
	"linkedin",
	"join now",
	"sign up",
}

const DefaultWallThreshold = 2

// isLoginWall reports whether raw page content looks like the
// authentication gate. Empty content counts as a wall: the page never
// rendered anything we could use.
func isLoginWall(content string, threshold int) bool {
	if content == "" {
		return true
	}
	if threshold <= 0 {
		threshold = DefaultWallThreshold
	}

	lower := strings.ToLower(content)

	hits := 0
	for _, keyword := range loginWallKeywords {
		if strings.Contains(lower, keyword) {
			hits++
			if hits >= threshold {
				return true
			}
		}
	}

	// The login form's field name is unambiguous on its own.
	if strings.Contains(lower, `name="session_key"`) || strings.Contains(lower, `id="session_key"`) {
		return true
	}

	return false
}

// ValidCompanyName is the validity predicate applied to the extracted
// primary identifying field. Failing it is treated as a wall even when
// no wall text matched. The orchestrator applies it to every extractor
// payload, not just ones from the live implementation.
func ValidCompanyName(name string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return false
	}
	for _, invalid := range invalidCompanyNames {
		if trimmed == invalid {
			return false
		}
	}
	return len(trimmed) >= 2
}
