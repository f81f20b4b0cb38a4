package slots

import (
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/report"
)

// Narrative summaries. The raw disclosure is never stored.
const (
	NarrativeViolence   = "Physical violence occurred"
	NarrativeContact    = "Physical contact occurred"
	NarrativeThreats    = "Threats were made"
	NarrativeVerbal     = "Verbal abuse or harassment occurred"
	NarrativeStalking   = "Someone was following me"
	NarrativeEntrapment = "I was trapped or prevented from leaving"
	NarrativeGeneric    = "Incident details provided"
)

type family struct {
	re      *regexp.Regexp
	summary string
}

// narrativeFamilies is in precedence order: the most specific summary wins.
var narrativeFamilies = []family{
	{regexp.MustCompile(`\b(?:hit|hits|hitting|punch(?:ed|es|ing)?|slap(?:ped|s|ping)?|kick(?:ed|s|ing)?|beat(?:en|ing)?|chok(?:e|ed|ing)|strangl(?:e|ed|ing)|stab(?:bed|bing)?|assault(?:ed)?|attack(?:ed)?)\b`), NarrativeViolence},
	{regexp.MustCompile(`\b(?:touch(?:ed|es|ing)?|grab(?:bed|s|bing)?|push(?:ed|es|ing)?|pull(?:ed|s|ing)?|held|hold(?:s|ing)?|forc(?:e|ed|es|ing)|grop(?:e|ed|ing)|kiss(?:ed)?)\b`), NarrativeContact},
	{regexp.MustCompile(`\b(?:threat(?:en|ened|ening|ens|s)?|said (?:he|she|they)(?:'d| would)|going to (?:hurt|kill|get)|would (?:hurt|kill) me)\b`), NarrativeThreats},
	{regexp.MustCompile(`\b(?:called me|call(?:ed|ing)? me names|names|shout(?:ed|ing)?|yell(?:ed|ing)?|swore|swearing|insult(?:ed|s|ing)?|slurs?|abuse at me|verbal(?:ly)?|comments?)\b`), NarrativeVerbal},
	{regexp.MustCompile(`\b(?:follow(?:ed|ing|s)?|stalk(?:ed|ing|s)?|watching me|watched me)\b`), NarrativeStalking},
	{regexp.MustCompile(`\b(?:wouldn't let|would not let|couldn't (?:leave|get away|escape|get out)|could not (?:leave|get away|escape)|trapped|blocked|locked|cornered)\b`), NarrativeEntrapment},
}

// An approach on its own is not yet a disclosure; the selector probes for it.
var approachOnly = regexp.MustCompile(`^(?:a |an |some |this )?(?:man|woman|guy|person|stranger|someone|somebody|boy|girl|group)(?: of \w+)? (?:came up to|approached|walked up to|come up to) me[.!]?$`)

// ClassifyNarrative returns the categorical summary for folded text, or ""
// when no specific family matches.
func ClassifyNarrative(folded string) string {
	for _, f := range narrativeFamilies {
		if f.re.MatchString(folded) {
			return f.summary
		}
	}
	return ""
}

func extractNarrative(t *turn) {
	if summary := ClassifyNarrative(t.folded); summary != "" {
		t.set(report.IncidentNarrative, summary)
		return
	}

	if t.intent != intent.IncidentNarrative && t.intent != intent.ReportIncident {
		return
	}
	if approachOnly.MatchString(strings.TrimSpace(t.folded)) {
		return
	}
	signalled := t.ind.Incident || t.ind.PhysicalContact || t.ind.Threat || t.ind.Perpetrator
	if signalled && len(strings.Fields(t.folded)) >= 4 {
		t.set(report.IncidentNarrative, NarrativeGeneric)
	}
}
