package obituary

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`[+(]?\d[\d\s().\-]{7,}\d`)
	runPattern   = regexp.MustCompile(`\n{3,}`)
)

// Scrub cleans generated text before it reaches the draft: markup is
// stripped, contact details the provider may have echoed back are
// removed, and blank-line runs are collapsed.
func Scrub(text string) string {
	out := stripPolicy.Sanitize(text)
	out = emailPattern.ReplaceAllString(out, "")
	out = phonePattern.ReplaceAllString(out, "")
	out = runPattern.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
