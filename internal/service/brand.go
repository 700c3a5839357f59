package service

import "strings"

// brandTable maps a lowercase needle found anywhere in a style name to the
// canonical brand. Order matters: entries are checked first to last, so
// names mentioning several brands resolve to the earliest entry.
var brandTable = []struct {
	needle string
	brand  string
}{
	{"next level", "Next Level"},
	{"gildan", "Gildan"},
	{"bella+canvas", "Bella+Canvas"},
	{"bella canvas", "Bella+Canvas"},
	{"comfort colors", "Comfort Colors"},
	{"port & company", "Port & Company"},
	{"district", "District"},
	{"jerzees", "JERZEES"},
	{"hanes", "Hanes"},
	{"champion", "Champion"},
	{"american apparel", "American Apparel"},
	{"as colour", "AS Colour"},
	{"independent trading", "Independent Trading"},
	{"lane seven", "Lane Seven"},
	{"los angeles apparel", "Los Angeles Apparel"},
}

// DetectBrand extracts a brand from a free-text style name. Known brands
// match wherever they appear in the name; failing that, a leading
// "Brand - Product" segment is used; failing that, "Unknown".
func DetectBrand(styleName string) string {
	lower := strings.ToLower(styleName)
	for _, e := range brandTable {
		if strings.Contains(lower, e.needle) {
			return e.brand
		}
	}

	if parts := strings.Split(styleName, " - "); len(parts) > 1 {
		if head := strings.TrimSpace(parts[0]); head != "" {
			return head
		}
	}
	return "Unknown"
}
