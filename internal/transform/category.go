package transform

import (
	"strings"

	"github.com/printshop-os/inventory_api/internal/models"
)

// categoryKeywords is scanned in order and the first substring hit wins,
// so specific garment terms sit above generic ones: "hoodie" before
// "sweat", "polo" and "tee" before the catch-all "shirt". Mapping is lossy;
// anything unmatched lands in other.
var categoryKeywords = []struct {
	keyword  string
	category models.Category
}{
	{"hoodie", models.CategoryHoodies},
	{"hooded", models.CategoryHoodies},
	{"polo", models.CategoryPolos},
	{"sweatshirt", models.CategorySweatshirts},
	{"crewneck", models.CategorySweatshirts},
	{"sweat", models.CategorySweatshirts},
	{"fleece", models.CategorySweatshirts},
	{"jacket", models.CategoryOuterwear},
	{"coat", models.CategoryOuterwear},
	{"vest", models.CategoryOuterwear},
	{"windbreaker", models.CategoryOuterwear},
	{"pullover", models.CategoryOuterwear},
	{"workwear", models.CategoryWorkwear},
	{"work shirt", models.CategoryWorkwear},
	{"safety", models.CategoryWorkwear},
	{"hi-vis", models.CategoryWorkwear},
	{"youth", models.CategoryYouth},
	{"toddler", models.CategoryYouth},
	{"infant", models.CategoryYouth},
	{"tank", models.CategoryTShirts},
	{"tee", models.CategoryTShirts},
	{"t-shirt", models.CategoryTShirts},
	{"tshirt", models.CategoryTShirts},
	{"cap", models.CategoryHeadwear},
	{"hat", models.CategoryHeadwear},
	{"beanie", models.CategoryHeadwear},
	{"visor", models.CategoryHeadwear},
	{"bag", models.CategoryBags},
	{"tote", models.CategoryBags},
	{"backpack", models.CategoryBags},
	{"duffel", models.CategoryBags},
	{"performance", models.CategoryAthletic},
	{"athletic", models.CategoryAthletic},
	{"jersey", models.CategoryAthletic},
	{"shirt", models.CategoryTShirts},
}

// InferCategory maps free-text supplier category and product names onto
// the fixed category set.
func InferCategory(text string) models.Category {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.category
		}
	}
	return models.CategoryOther
}
