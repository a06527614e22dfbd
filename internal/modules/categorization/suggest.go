package categorization

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxSuggestions caps how many slugs Suggest returns.
const MaxSuggestions = 3

type keywordRule struct {
	slug     string
	keywords []string
}

// Ordered; earlier rules win when more than MaxSuggestions match.
var keywordRules = []keywordRule{
	{slug: "mizah", keywords: []string{"😂", "🤣", "komik", "gülmek", "şaka", "mizah", "eğlence"}},
	{slug: "spor", keywords: []string{"⚽", "🏀", "maç", "gol", "spor", "futbol", "basketbol"}},
	{slug: "teknoloji", keywords: []string{"💻", "📱", "yazılım", "teknoloji", "kod", "program", "ai"}},
	{slug: "yemek", keywords: []string{"🍴", "🍕", "yemek", "tarif", "leziz", "restoran"}},
	{slug: "gezi", keywords: []string{"✈️", "🗺️", "gezi", "seyahat", "tatil", "tur"}},
}

// Suggest proposes category slugs for post content by keyword and emoji
// matching. Matching is substring based on Turkish lower-cased content, so
// "GOL" and "Gol" both hit "gol". It never fails; no match yields an empty
// slice.
func Suggest(content string) []string {
	out := []string{}
	if strings.TrimSpace(content) == "" {
		return out
	}
	lowered := cases.Lower(language.Turkish).String(content)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				out = append(out, rule.slug)
				break
			}
		}
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
