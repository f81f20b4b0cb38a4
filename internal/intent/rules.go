package intent

import (
	"regexp"
	"strings"

	"github.com/MikeSquared-Agency/haven/internal/indicators"
	"github.com/MikeSquared-Agency/haven/internal/lexicon"
)

// input is everything a rule may look at.
type input struct {
	text      string // folded
	ind       indicators.Indicators
	ctx       Context
	candidate Match
	threshold float64
}

// rule maps a predicate over the input to an intent. Rules are evaluated in
// table order and the first match wins.
type rule struct {
	name   string
	source Source
	match  func(in *input) (Intent, float64, bool)
}

const (
	overrideConfidence = 0.85
	contextConfidence  = 0.75
	ruleConfidence     = 0.7
	defaultConfidence  = 0.5
)

var (
	nameIntro     = regexp.MustCompile(`\b(?:my name is|my name's|my names|i'm called|i am called|you can call me|call me|i go by|people call me|my first name is|name is|name's)\s+([a-z][a-z'-]*)`)
	greetingIntro = regexp.MustCompile(`^(?:(?:hi|hello|hey)[\s,!.]*)?(?:i'm|i am|im|it's|this is)\s+([a-z][a-z'-]*)(?:\s+[a-z][a-z'-]*)?[\s.!]*$`)
	greetingLead  = regexp.MustCompile(`^(?:(?:hi|hello|hey)[\s,!.]*)?(?:i'm|i am|im)\s+([a-z][a-z'-]*)\b`)
	surnameIntro  = regexp.MustCompile(`\bmy (?:surname|last name|family name) is\s+[a-z]`)
	bareWord      = regexp.MustCompile(`^([a-z][a-z'-]{1,19})[.!]?$`)

	ageStatement = regexp.MustCompile(`\b\d{1,3}\s*(?:years?|yrs?)\s*old\b|\b(?:i'm|i am|im|aged?|age is|turning|turned)\s+\d{1,3}\b|\b(?:teenager|minor|under 18|under eighteen)\b`)
	bareNumber   = regexp.MustCompile(`^\d{1,3}[.!]?$`)
	ageCue       = regexp.MustCompile(`\d`)
	ageWord      = regexp.MustCompile(`\b(?:old|age|aged|years?)\b`)

	timingCue = regexp.MustCompile(`\b(?:yesterday|today|tonight|earlier|last (?:night|week|month|year|monday|tuesday|wednesday|thursday|friday|saturday|sunday)|this (?:morning|afternoon|evening)|(?:\d+|a|an|one|two|three|few|couple of) (?:minutes?|hours?|days?|weeks?|months?) ago|\d{1,2}(?::\d{2})?\s*(?:am|pm)|\d{1,2}/\d{1,2}/\d{2,4}|on (?:monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`)
	clockAnswer = regexp.MustCompile(`^(?:at |around |about |maybe )?\d{1,2}(?::\d{2})?\s*(?:am|pm|o'clock)?[.!]?$`)

	locationCue    = regexp.MustCompile(`\b(?:it happened (?:in|at|near|outside|on)|i was (?:in|at|near|outside|walking)|(?:near|outside|inside|at|in|on) the|location (?:was|is)|took place (?:in|at)|close to|central)\b`)
	locationAnswer = regexp.MustCompile(`^(?:(?:in|at|near|outside|by|around|on) )?(?:the )?[a-z][a-z' -]{1,40}[.!]?$`)

	suspectCue = regexp.MustCompile(`\b(?:i know who|i can describe|don't know who|(?:his|her|their) name (?:is|was)|(?:he|she) (?:was|is) (?:about|around) \d|(?:he's|she's) (?:about|around)|registration|number plate|driving|(?:he|she) was (?:tall|short|wearing)|stranger)\b`)

	evidenceCue  = regexp.MustCompile(`\b(?:photos?|pictures?|video|footage|recorded|recording|screenshots?|cctv|security cameras?|surveillance|evidence|left (?:his|her|their|a|some))\b`)
	witnessCue   = regexp.MustCompile(`\b(?:witness(?:es)?|saw (?:it|what happened|everything)|people saw|someone saw|nobody saw|no one saw|no one else)\b`)
	contactCue   = regexp.MustCompile(`[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}|\+?\d[\d\s\-()]{8,}\d|\b(?:my email|my phone|my number|email me|text me)\b`)
	transportCue = regexp.MustCompile(`\b(?:bus|train|tube|tram|underground|overground|metro|oyster|contactless|public transport)\b`)
	vulnCue      = regexp.MustCompile(`\b(?:wheelchair|disab(?:led|ility)|mobility|health (?:condition|issues?)|medical condition|alone|by myself|on my own|without my (?:mum|mom|dad|parents?))\b`)

	reportCue = regexp.MustCompile(`\b(?:report|something happened|i was (?:assaulted|attacked|harassed|abused))\b`)
	helpCue   = regexp.MustCompile(`\b(?:i need help|help me|can you help|need support|i don't know what to do|not safe)\b`)
)

func hit(i Intent, conf float64) (Intent, float64, bool) { return i, conf, true }

func miss() (Intent, float64, bool) { return "", 0, false }

func narrativeIntent(in *input) Intent {
	if in.ctx.NarrativeKnown {
		return ContinueIncidentNarrative
	}
	return ReportIncident
}

// rules is the single ordered classification table. Overrides come first so
// an incident disclosure is never mistaken for a personal detail, then the
// semantic match, then conversation context, then surface patterns.
var rules = []rule{
	{"complex_trauma", SourceOverride, func(in *input) (Intent, float64, bool) {
		if in.ind.ComplexTrauma {
			return hit(narrativeIntent(in), 0.9)
		}
		return miss()
	}},
	{"incident_continuation", SourceOverride, func(in *input) (Intent, float64, bool) {
		if !in.ctx.NarrativeKnown {
			return miss()
		}
		confidentNarrative := in.candidate.Score >= in.threshold && in.candidate.Intent.IsNarrative()
		if in.ind.PhysicalContact || in.ind.Threat || in.ind.Incident || confidentNarrative {
			return hit(ContinueIncidentNarrative, overrideConfidence)
		}
		return miss()
	}},
	{"incident_report", SourceOverride, func(in *input) (Intent, float64, bool) {
		if in.ctx.NarrativeKnown {
			return miss()
		}
		if in.ind.PhysicalContact || (in.ind.Incident && (in.ind.Threat || in.ind.Perpetrator)) {
			if in.candidate.Intent == IncidentNarrative && in.candidate.Score >= in.threshold {
				return hit(IncidentNarrative, in.candidate.Score)
			}
			return hit(ReportIncident, 0.8)
		}
		return miss()
	}},
	{"help_request", SourceOverride, func(in *input) (Intent, float64, bool) {
		if in.ind.Urgency && in.ind.Vulnerability {
			return hit(RequestHelp, 0.8)
		}
		return miss()
	}},
	{"semantic", SourceSemantic, func(in *input) (Intent, float64, bool) {
		if in.candidate.Intent != "" && in.candidate.Score >= in.threshold {
			return hit(in.candidate.Intent, in.candidate.Score)
		}
		return miss()
	}},

	{"age_after_name", SourceContext, func(in *input) (Intent, float64, bool) {
		if in.ctx.AgeKnown || !(in.ctx.NameKnown || in.ctx.PreviousIntent == ProvideName) {
			return miss()
		}
		if bareNumber.MatchString(in.text) || (ageCue.MatchString(in.text) && ageWord.MatchString(in.text)) {
			return hit(ProvideAge, contextConfidence)
		}
		return miss()
	}},
	{"clock_after_age", SourceContext, func(in *input) (Intent, float64, bool) {
		if !in.ctx.AgeKnown || in.ctx.TimingKnown {
			return miss()
		}
		if bareNumber.MatchString(in.text) || clockAnswer.MatchString(in.text) || timingCue.MatchString(in.text) {
			return hit(ProvideTiming, contextConfidence)
		}
		return miss()
	}},
	{"place_after_timing", SourceContext, func(in *input) (Intent, float64, bool) {
		if !in.ctx.TimingKnown || in.ctx.LocationKnown {
			return miss()
		}
		if len(strings.Fields(in.text)) > 5 || lexicon.IsAffirmative(in.text) || lexicon.IsNegative(in.text) {
			return miss()
		}
		if locationAnswer.MatchString(in.text) && !timingCue.MatchString(in.text) && !lexicon.IsFiller(firstContentWord(in.text)) {
			return hit(ProvideLocation, contextConfidence)
		}
		return miss()
	}},
	{"perpetrator_after_location", SourceContext, func(in *input) (Intent, float64, bool) {
		if in.ctx.LocationKnown && !in.ctx.NarrativeKnown && in.ind.Perpetrator {
			return hit(IncidentNarrative, contextConfidence)
		}
		return miss()
	}},
	{"stage_answer", SourceContext, func(in *input) (Intent, float64, bool) {
		if !lexicon.IsAffirmative(in.text) && !lexicon.IsNegative(in.text) {
			return miss()
		}
		switch in.ctx.Stage {
		case "evidence":
			return hit(ProvideEvidence, contextConfidence)
		case "witnesses":
			return hit(ProvideWitnesses, contextConfidence)
		case "suspect":
			return hit(ProvideSuspect, contextConfidence)
		}
		return miss()
	}},

	{"report_cue", SourceRule, cue(reportCue, ReportIncident)},
	{"help_cue", SourceRule, cue(helpCue, RequestHelp)},
	{"name_intro", SourceRule, func(in *input) (Intent, float64, bool) {
		if m := nameIntro.FindStringSubmatch(in.text); m != nil && lexicon.IsNameCandidate(m[1]) {
			return hit(ProvideName, ruleConfidence)
		}
		for _, re := range []*regexp.Regexp{greetingIntro, greetingLead} {
			if m := re.FindStringSubmatch(in.text); m != nil && lexicon.IsNameCandidate(m[1]) {
				return hit(ProvideName, ruleConfidence)
			}
		}
		if surnameIntro.MatchString(in.text) {
			return hit(ProvideName, ruleConfidence)
		}
		return miss()
	}},
	{"bare_name", SourceRule, func(in *input) (Intent, float64, bool) {
		if in.ctx.NameKnown {
			return miss()
		}
		if m := bareWord.FindStringSubmatch(in.text); m != nil && lexicon.IsNameCandidate(m[1]) {
			return hit(ProvideName, ruleConfidence)
		}
		return miss()
	}},
	{"age_cue", SourceRule, func(in *input) (Intent, float64, bool) {
		if ageStatement.MatchString(in.text) || (!in.ctx.AgeKnown && bareNumber.MatchString(in.text)) {
			return hit(ProvideAge, ruleConfidence)
		}
		return miss()
	}},
	{"timing_cue", SourceRule, cue(timingCue, ProvideTiming)},
	{"location_cue", SourceRule, cue(locationCue, ProvideLocation)},
	{"suspect_cue", SourceRule, cue(suspectCue, ProvideSuspect)},
	{"evidence_cue", SourceRule, cue(evidenceCue, ProvideEvidence)},
	{"witness_cue", SourceRule, cue(witnessCue, ProvideWitnesses)},
	{"contact_cue", SourceRule, cue(contactCue, ProvideContact)},
	{"transport_cue", SourceRule, cue(transportCue, ProvidePublicTransport)},
	{"vulnerability_cue", SourceRule, cue(vulnCue, VulnerabilityContext)},

	{"default", SourceDefault, func(in *input) (Intent, float64, bool) {
		return hit(GeneralConversation, defaultConfidence)
	}},
}

var leadingPreposition = regexp.MustCompile(`^(?:(?:in|at|near|outside|by|around|on) )?(?:the )?`)

func firstContentWord(s string) string {
	f := strings.Fields(leadingPreposition.ReplaceAllString(s, ""))
	if len(f) == 0 {
		return ""
	}
	return strings.Trim(f[0], ".!")
}

func cue(re *regexp.Regexp, i Intent) func(in *input) (Intent, float64, bool) {
	return func(in *input) (Intent, float64, bool) {
		if re.MatchString(in.text) {
			return hit(i, ruleConfidence)
		}
		return miss()
	}
}
