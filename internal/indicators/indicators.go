// Package indicators flags trauma-relevant signals in a single utterance.
package indicators

import (
	"regexp"

	"github.com/MikeSquared-Agency/haven/internal/sanitize"
)

// Indicators is the set of signals raised by one utterance. It is computed
// fresh for every turn and never stored.
type Indicators struct {
	Incident          bool `json:"hasIncident"`
	Threat            bool `json:"hasThreat"`
	Urgency           bool `json:"hasUrgency"`
	Vulnerability     bool `json:"hasVulnerability"`
	Location          bool `json:"hasLocation"`
	Timing            bool `json:"hasTiming"`
	Perpetrator       bool `json:"hasPerpetrator"`
	PhysicalContact   bool `json:"hasPhysicalContact"`
	EmotionalDistress bool `json:"hasEmotionalDistress"`
	ComplexTrauma     bool `json:"hasComplexTrauma"`
}

// Count returns how many flags are raised.
func (in Indicators) Count() int {
	n := 0
	for _, b := range []bool{
		in.Incident, in.Threat, in.Urgency, in.Vulnerability, in.Location,
		in.Timing, in.Perpetrator, in.PhysicalContact, in.EmotionalDistress, in.ComplexTrauma,
	} {
		if b {
			n++
		}
	}
	return n
}

// Names returns the JSON names of the raised flags, in declaration order.
func (in Indicators) Names() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	add(in.Incident, "hasIncident")
	add(in.Threat, "hasThreat")
	add(in.Urgency, "hasUrgency")
	add(in.Vulnerability, "hasVulnerability")
	add(in.Location, "hasLocation")
	add(in.Timing, "hasTiming")
	add(in.Perpetrator, "hasPerpetrator")
	add(in.PhysicalContact, "hasPhysicalContact")
	add(in.EmotionalDistress, "hasEmotionalDistress")
	add(in.ComplexTrauma, "hasComplexTrauma")
	return out
}

// Complex names the sub-pattern behind a complex-trauma flag.
type Complex string

const (
	ComplexNone       Complex = ""
	ComplexEntrapment Complex = "entrapment"
	ComplexStalking   Complex = "stalking"
	ComplexThreat     Complex = "threats"
)

// Each family is its own pattern so it can be tuned without touching the rest.
var (
	incident = regexp.MustCompile(`\b(?:assault(?:ed)?|attack(?:ed)?|abus(?:e|ed|ive)|harass(?:ed|ment|ing)?|incident|situation|happened|occurred|took place|went through|came up to|come up to|approached|flashed|exposed himself|exposed herself)\b`)

	threat = regexp.MustCompile(`\b(?:hurt|kill|threat(?:en|ened|ening|s)?|scared|afraid|terrified|dangerous|fear|worried|weapon|knife)\b`)

	urgency = regexp.MustCompile(`\b(?:now|immediately|urgent|emergency|help|need|please|right away|can't speak|cannot speak)\b`)

	vulnerability = regexp.MustCompile(`\b(?:wheelchair|disab(?:led|ility)|alone|by myself|on my own|vulnerable|weak|struggling|can't|cannot|young|minor|teenager|child|mum|mom|parent|guardian)\b`)

	location = regexp.MustCompile(`\b(?:in|at|near|around|outside|inside|central|street|road|area|place|location|where|station|park|toilets?|shop)\b`)

	timing = regexp.MustCompile(`\b(?:yesterday|today|tonight|last|week|month|ago|when|time|date|morning|afternoon|evening|night|\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)

	perpetrator = regexp.MustCompile(`\b(?:he|she|they|him|them|man|woman|guy|men|person|someone|somebody|attacker|perpetrator|suspect|stranger)\b`)

	physicalContact = regexp.MustCompile(`\b(?:touch(?:ed|es|ing)?|grab(?:bed|s|bing)?|push(?:ed|es|ing)?|pull(?:ed|s|ing)?|hit(?:s|ting)?|slap(?:ped|s|ping)?|kick(?:ed|s|ing)?|punch(?:ed|es|ing)?|held|hold(?:s|ing)?|forc(?:e|ed|es|ing)|grop(?:e|ed|ing))\b`)

	emotionalDistress = regexp.MustCompile(`\b(?:scared|afraid|terrified|frightened|shocked|trauma(?:tized|tised)?|upset|angry|sad|depressed|anxious|panic(?:ked|king)?|crying|shaking|overwhelmed)\b`)

	entrapment = regexp.MustCompile(`\b(?:wouldn't let|would not let|couldn't (?:leave|get away|escape|get out)|could not (?:leave|get away|escape)|trapped|blocked (?:my way|me|the door)|locked (?:me|the door)|cornered|helpless|powerless)\b`)

	stalking = regexp.MustCompile(`\b(?:follow(?:ed|ing|s)?|stalk(?:ed|ing|s|er)?|watching|watched me|keeps? turning up)\b`)

	explicitThreat = regexp.MustCompile(`\b(?:threaten(?:ed|ing|s)?|said (?:he|she|they) would|going to (?:hurt|kill|get)|would (?:hurt|kill) me)\b`)
)

// Detect evaluates every family against text.
func Detect(text string) Indicators {
	s := sanitize.Fold(text)
	return Indicators{
		Incident:          incident.MatchString(s),
		Threat:            threat.MatchString(s),
		Urgency:           urgency.MatchString(s),
		Vulnerability:     vulnerability.MatchString(s),
		Location:          location.MatchString(s),
		Timing:            timing.MatchString(s),
		Perpetrator:       perpetrator.MatchString(s),
		PhysicalContact:   physicalContact.MatchString(s),
		EmotionalDistress: emotionalDistress.MatchString(s),
		ComplexTrauma:     complexKind(s) != ComplexNone,
	}
}

// ComplexKind reports which complex-trauma sub-pattern matches text, if any.
// Entrapment is checked before stalking, stalking before threats.
func ComplexKind(text string) Complex {
	return complexKind(sanitize.Fold(text))
}

func complexKind(folded string) Complex {
	switch {
	case entrapment.MatchString(folded):
		return ComplexEntrapment
	case stalking.MatchString(folded):
		return ComplexStalking
	case explicitThreat.MatchString(folded):
		return ComplexThreat
	}
	return ComplexNone
}
