package pose

import (
	"regexp"
	"strings"
)

var (
	slugStrip   = regexp.MustCompile(`[^\w\s-]`)
	slugHyphens = regexp.MustCompile(`[\s_-]+`)
)

// Slugify derives a URL-safe slug from a display name: lowercase, strip
// non-word characters, collapse whitespace and punctuation runs to single
// hyphens, trim leading/trailing hyphens.
//
//	Slugify("Adho Mukha Svanasana (Down Dog)") == "adho-mukha-svanasana-down-dog"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
