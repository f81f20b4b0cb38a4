package slots

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/lexicon"
	"github.com/MikeSquared-Agency/haven/internal/report"
)

var (
	surnamePattern = regexp.MustCompile(`(?i)\bmy (?:surname|last name|family name) is\s+([a-z][a-z'-]*)`)

	// Ordered; the first pattern yielding a plausible name wins.
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:my name is|my name's|my names|i'm called|i am called|you can call me|call me|i go by|people call me|my first name is|introducing myself as|name is|name's)\s+([a-z][a-z'-]*(?:\s+[a-z][a-z'-]*){0,2})`),
		regexp.MustCompile(`(?i)^(?:(?:hi|hello|hey)[\s,!.]*)?(?:i'm|i am|im|it's|this is)\s+([a-z][a-z'-]*(?:\s+[a-z][a-z'-]*)?)[\s.!]*$`),
		regexp.MustCompile(`(?i)^(?:(?:hi|hello|hey)[\s,!.]*)?(?:i'm|i am|im)\s+([a-z][a-z'-]*)\b`),
	}
	bareName = regexp.MustCompile(`(?i)^([a-z][a-z'-]{1,19})[.!]?$`)
)

func extractName(t *turn) {
	if m := surnamePattern.FindStringSubmatch(t.raw); m != nil {
		if lexicon.IsNameCandidate(m[1]) {
			t.set(report.Surname, capitalize(m[1]))
		}
		return
	}

	for _, re := range namePatterns {
		m := re.FindStringSubmatch(t.raw)
		if m == nil {
			continue
		}
		if setName(t, m[1]) {
			return
		}
	}

	if t.intent == intent.ProvideName {
		if m := bareName.FindStringSubmatch(strings.TrimSpace(t.raw)); m != nil {
			setName(t, m[1])
		}
	}
}

// setName splits a captured phrase into first name and surname, stopping at
// the first word that cannot be part of a name.
func setName(t *turn, phrase string) bool {
	var parts []string
	for _, w := range strings.Fields(phrase) {
		if !lexicon.IsNameCandidate(w) {
			break
		}
		parts = append(parts, capitalize(w))
	}
	if len(parts) == 0 {
		return false
	}
	t.set(report.FirstName, parts[0])
	if len(parts) > 1 {
		t.set(report.Surname, strings.Join(parts[1:], " "))
	}
	return true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var (
	agePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,3})\s*(?:years?|yrs?)\s*old\b`),
		regexp.MustCompile(`\b(?:i'm|i am|im)\s+(\d{1,3})\b`),
		regexp.MustCompile(`\bmy age is\s+(\d{1,3})\b`),
		regexp.MustCompile(`\baged?\s+(\d{1,3})\b`),
		regexp.MustCompile(`\bturn(?:ing|ed)\s+(\d{1,3})\b`),
		regexp.MustCompile(`^(\d{1,3})[.!]?$`),
	}
	teenager = regexp.MustCompile(`\b(?:a teenager|teen)\b`)
	minor    = regexp.MustCompile(`\b(?:a minor|under 18|under eighteen|underage)\b`)
)

const (
	teenagerAge = 15
	minorAge    = 17
	adultAge    = 18
)

func extractAge(t *turn) {
	age := 0
	for _, re := range agePatterns {
		m := re.FindStringSubmatch(t.folded)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 120 {
			age = n
			break
		}
	}
	if age == 0 {
		switch {
		case teenager.MatchString(t.folded):
			age = teenagerAge
		case minor.MatchString(t.folded):
			age = minorAge
		default:
			return
		}
	}

	t.set(report.Age, strconv.Itoa(age))
	if age < adultAge {
		t.set(report.Under18, report.Yes)
	} else {
		t.set(report.Under18, report.No)
	}
}

// AgeOf parses the age field, reporting false when absent or malformed.
func AgeOf(f report.Fields) (int, bool) {
	n, err := strconv.Atoi(f[report.Age])
	if err != nil {
		return 0, false
	}
	return n, true
}
