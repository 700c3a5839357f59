package transform

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^A-Z0-9]+`)

// VariantSKU builds the {style}-{color}-{size} variant identifier. The same
// constructor runs at transform time and lookup time, so a SKU generated
// while normalizing a product always resolves on a later lookup: segments
// are upper-cased and every run of non-alphanumerics (slashes, spaces,
// ampersands) collapses to a single dash.
//
//	VariantSKU("G200", "Navy/White", "L") == "G200-NAVY-WHITE-L"
func VariantSKU(styleID, color, size string) string {
	parts := make([]string, 0, 3)
	for _, raw := range []string{styleID, color, size} {
		if s := sanitizeSegment(raw); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}

func sanitizeSegment(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
