package slots

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/lexicon"
	"github.com/MikeSquared-Agency/haven/internal/report"
)

// A place phrase runs until a conjunction, a time word, another preposition
// or punctuation.
const placeTail = `([a-z0-9][a-z0-9' -]*?)(?:\s+(?:when|and|but|because|while|where|with|as|after|before|yesterday|today|tonight|last|this|then|at about|around|about|near|outside|by|in|at)\b|[.!?,;]|$)`

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bit happened (?:in|at|near|outside|on|by) ` + placeTail),
	regexp.MustCompile(`(?i)\b(?:it|this|the incident) (?:occurred|took place|was) (?:in|at|near|on|outside) ` + placeTail),
	regexp.MustCompile(`(?i)\bi was (?:walking |waiting |standing |sitting )?(?:in|at|near|outside|on|by|through|along) ` + placeTail),
	regexp.MustCompile(`(?i)\b(?:the )?(?:location|place|area) (?:was|is) ` + placeTail),
	regexp.MustCompile(`(?i)\b(?:near|outside|inside|close to|next to|by) ` + placeTail),
	regexp.MustCompile(`(?i)\b(?:at|in|on) ` + placeTail),
}

var (
	leadingArticles = regexp.MustCompile(`(?i)^(?:(?:in|at|near|outside|by|around|on) )?(?:(?:the|a|an|my|some|this|that) )*`)
	startsWithDigit = regexp.MustCompile(`^\d`)

	// Words that follow "in"/"at" without naming a place.
	nonPlaces = map[string]bool{
		"pain": true, "shock": true, "tears": true, "trouble": true, "danger": true,
		"distress": true, "wheelchair": true, "time": true, "all": true, "least": true,
		"first": true, "fact": true, "case": true, "me": true, "him": true, "her": true,
		"them": true, "it": true, "his": true, "their": true, "school uniform": true,
	}
)

// cleanPlace strips leading prepositions and articles and rejects phrases
// that are not places.
func cleanPlace(phrase string) (string, bool) {
	p := strings.TrimSpace(leadingArticles.ReplaceAllString(strings.TrimSpace(phrase), ""))
	if p == "" || startsWithDigit.MatchString(p) {
		return "", false
	}
	first := strings.ToLower(strings.Fields(p)[0])
	if lexicon.IsFiller(first) || nonPlaces[first] || nonPlaces[strings.ToLower(p)] {
		return "", false
	}
	return p, true
}

type placeCategory struct {
	re    *regexp.Regexp
	label string
}

var placeCategories = []placeCategory{
	{regexp.MustCompile(`\b(?:toilets?|bathrooms?|restrooms?|loos?|public conveniences)\b`), "near public toilets"},
	{regexp.MustCompile(`\b(?:shops?|shopping|mall|store|supermarket|market)\b`), "shopping area"},
	{regexp.MustCompile(`\b(?:park|playground|field|garden|common)\b`), "park or public space"},
	{regexp.MustCompile(`\b(?:station|bus|train|tube|tram|platform|bus stop|underground)\b`), "transport hub"},
	{regexp.MustCompile(`\b(?:street|road|avenue|lane|alley|pavement|high street)\b`), "street or road"},
	{regexp.MustCompile(`\b(?:building|office|workplace|work|school|college|university)\b`), "building or workplace"},
}

// CategorizePlace returns the location category for folded text, or "".
func CategorizePlace(folded string) string {
	for _, c := range placeCategories {
		if c.re.MatchString(folded) {
			return c.label
		}
	}
	return ""
}

func extractLocation(t *turn) {
	if label := CategorizePlace(t.folded); label != "" {
		t.set(report.IncidentLocationDetail, label)
	}

	if place := bestPlace(t.raw); place != "" {
		t.set(report.TownCity, place)
		return
	}

	// A short direct answer to "where did this happen?".
	if t.intent == intent.ProvideLocation && len(strings.Fields(t.raw)) <= 5 {
		if place, ok := cleanPlace(strings.TrimRight(t.raw, ".!")); ok {
			t.set(report.TownCity, place)
		}
	}
}

// bestPlace returns the first place phrase in raw, unless a later one is a
// proper name and the first is not: "the park near Camden" yields Camden.
func bestPlace(raw string) string {
	var first string
	for _, re := range locationPatterns {
		for _, m := range re.FindAllStringSubmatch(raw, -1) {
			place, ok := cleanPlace(m[1])
			if !ok {
				continue
			}
			if properName(place) {
				return place
			}
			if first == "" {
				first = place
			}
		}
	}
	return first
}

func properName(place string) bool {
	r, _ := utf8.DecodeRuneInString(place)
	return unicode.IsUpper(r)
}
