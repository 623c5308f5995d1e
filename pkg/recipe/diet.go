package recipe

import (
	"strings"

	"tastebook/domain"
)

// Keyword tables for the derived diet classifier. Matching is
// case-insensitive substring over the raw ingredient text; meat is checked
// before dairy, so a recipe with both classifies as non-vegetarian.
var meatKeywords = []string{
	"chicken", "beef", "pork", "lamb", "mutton", "veal", "bacon", "ham",
	"sausage", "turkey", "duck", "fish", "salmon", "tuna", "cod", "anchovy",
	"sardine", "shrimp", "prawn", "crab", "lobster", "squid", "octopus",
	"egg", "gelatin", "lard",
}

var dairyKeywords = []string{
	"milk", "butter", "cheese", "cream", "yogurt", "yoghurt", "ghee",
	"paneer", "whey", "custard", "honey",
}

// ClassifyDiet derives the diet type from newline-joined ingredient text.
// Empty ingredients classify as vegan.
func ClassifyDiet(ingredients string) string {
	text := strings.ToLower(ingredients)
	for _, keyword := range meatKeywords {
		if strings.Contains(text, keyword) {
			return domain.DietNonVegetarian
		}
	}
	for _, keyword := range dairyKeywords {
		if strings.Contains(text, keyword) {
			return domain.DietVegetarian
		}
	}
	return domain.DietVegan
}

// SplitLines parses newline-joined text back into an ordered list,
// trimming whitespace and dropping blank lines.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
