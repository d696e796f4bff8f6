package memorials

import (
	"fmt"
	"regexp"
	"strings"
)

/*
	Slug / custom URL helpers
	-------------------------
	- Responsible ONLY for:
	  • generating fallback slugs
	  • checking custom URL rules
	  • building public URLs
	- No access logic, no billing logic here
*/

const (
	CustomURLMinLen = 3
	CustomURLMaxLen = 50
)

var (
	customURLPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
	nonSlug          = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash        = regexp.MustCompile(`-+`)
)

// CustomURLIssues returns one message per violated custom URL rule.
// Length is checked regardless of the character-set result.
func CustomURLIssues(s string) []string {
	var issues []string
	if !customURLPattern.MatchString(s) {
		issues = append(issues, "Custom URL may only contain lowercase letters, numbers, and hyphens")
	}
	if len(s) < CustomURLMinLen {
		issues = append(issues, fmt.Sprintf("Custom URL must be at least %d characters", CustomURLMinLen))
	}
	if len(s) > CustomURLMaxLen {
		issues = append(issues, fmt.Sprintf("Custom URL must be at most %d characters", CustomURLMaxLen))
	}
	return issues
}

// MakeSlug generates a URL-safe base slug from the person's name.
// Example: "John Doe" -> "john-doe"
func MakeSlug(first, last string) string {
	base := strings.ToLower(strings.TrimSpace(first + " " + last))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "memorial"
	}
	return base
}

// PublicURL builds the public page URL for a published memorial. The
// custom URL wins when set; otherwise the record id is used.
func PublicURL(appURL string, m *Memorial) string {
	slug := m.ID
	if m.CustomURL != nil && *m.CustomURL != "" {
		slug = *m.CustomURL
	}
	return appURL + "/m/" + slug
}
