package slots

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/haven/internal/indicators"
	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/lexicon"
	"github.com/MikeSquared-Agency/haven/internal/report"
)

var (
	disabilityWords = regexp.MustCompile(`\b(?:wheelchair|disab(?:led|ility|ilities)|mobility|crutch(?:es)?|walking stick|blind|deaf|partially sighted|autis(?:m|tic)|learning difficult(?:y|ies)|chronic (?:pain|illness)|epilep(?:sy|tic))\b`)
	aloneWords      = regexp.MustCompile(`\b(?:alone|by myself|on my own|without my (?:mum|mom|dad|parents?|friends?|carer)|no one (?:was )?around|nobody (?:was )?around|no one else)\b`)
	clauseBreak     = regexp.MustCompile(`[.!?,;]+|\s+(?:and|but)\s+`)
)

// firstClause returns the clause of raw text containing the first match of re.
func firstClause(raw string, re *regexp.Regexp) string {
	for _, c := range clauseBreak.Split(raw, -1) {
		if re.MatchString(strings.ToLower(c)) {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

func extractVulnerability(t *turn) {
	if disabilityWords.MatchString(t.folded) {
		t.set(report.Disability, report.Yes)
		t.set(report.HealthIssues, report.Yes)
		t.set(report.HealthIssuesDetails, firstClause(t.raw, disabilityWords))
	}
	if aloneWords.MatchString(t.folded) {
		t.set(report.VulnerabilityContext, "alone")
		t.set(report.AloneWhenIncident, report.Yes)
	}
}

var (
	emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-()]{8,}\d`)
)

const minPhoneDigits = 10

func extractContact(t *turn) {
	if m := emailPattern.FindString(t.raw); m != "" {
		t.set(report.Email, strings.ToLower(m))
	}
	for _, m := range phonePattern.FindAllString(t.raw, -1) {
		var b strings.Builder
		digits := 0
		for i, r := range m {
			switch {
			case r >= '0' && r <= '9':
				b.WriteRune(r)
				digits++
			case r == '+' && i == 0:
				b.WriteRune(r)
			}
		}
		if digits >= minPhoneDigits {
			t.set(report.PhoneNumber, b.String())
			return
		}
	}
}

var (
	thirdPartyVideo = regexp.MustCompile(`\b(?:cctv|security cameras?|surveillance|dash ?cam|camera footage|doorbell camera)\b`)
	personalMedia   = regexp.MustCompile(`\b(?:photos?|pictures?|pics|screenshots?|recorded|recording|filmed|video of|on my phone|took a video)\b`)
	leftItems       = regexp.MustCompile(`\b(?:left (?:his|her|their|a|an|some)|dropped (?:his|her|their|a|an|something))\b`)
)

func extractEvidence(t *turn) {
	if thirdPartyVideo.MatchString(t.folded) {
		t.set(report.ThirdPartyVideo, report.Yes)
	}
	if personalMedia.MatchString(t.folded) {
		t.set(report.HavePersonalMedia, report.Yes)
	}
	if leftItems.MatchString(t.folded) {
		t.set(report.SuspectLeftItems, report.Yes)
	}
	// A bare yes or no answers the evidence question itself.
	if t.intent == intent.ProvideEvidence && !t.has(report.ThirdPartyVideo) && !t.has(report.HavePersonalMedia) {
		switch {
		case lexicon.IsNegative(t.folded):
			t.set(report.HavePersonalMedia, report.No)
		case lexicon.IsAffirmative(t.folded):
			t.set(report.HavePersonalMedia, report.Yes)
		}
	}
}

var (
	noWitnesses  = regexp.MustCompile(`\b(?:no (?:one|body) (?:saw|else was|was around|around|noticed)|nobody (?:saw|was around|noticed|else)|no witness(?:es)?|there was no one|i was alone|it was just (?:me|us))\b`)
	yesWitnesses = regexp.MustCompile(`\b(?:(?:someone|somebody|people|a (?:man|woman|lady|guy)|my (?:friend|mum|mom|dad|sister|brother)) (?:saw|watched|was there|were there|noticed|helped)|witness(?:es|ed)?|saw (?:it|what happened)|people around|other people)\b`)
	witnessName  = regexp.MustCompile(`(?i)\b(?:named|called|my friend)\s+([a-z][a-z'-]+)`)
)

func extractWitnesses(t *turn) {
	switch {
	case noWitnesses.MatchString(t.folded):
		t.set(report.HasWitnesses, report.No)
	case yesWitnesses.MatchString(t.folded):
		t.set(report.HasWitnesses, report.Yes)
	case t.intent == intent.ProvideWitnesses && lexicon.IsNegative(t.folded):
		t.set(report.HasWitnesses, report.No)
	case t.intent == intent.ProvideWitnesses && lexicon.IsAffirmative(t.folded):
		t.set(report.HasWitnesses, report.Yes)
	}
	if m := witnessName.FindStringSubmatch(t.raw); m != nil && lexicon.IsNameCandidate(m[1]) {
		t.set(report.WitnessFirstName, capitalize(m[1]))
	}
}

// Suspect knowledge is tri-state.
const (
	SuspectKnownYes      = "known"
	SuspectKnownDescribe = "describe"
	SuspectKnownNo       = "unknown"
)

var (
	suspectKnown    = regexp.MustCompile(`\b(?:i know (?:him|her|them|who)|(?:he|she|they)(?:'s| is| was| are| were) my|an? (?:ex|colleague|neighbou?r|classmate|friend|relative|teacher|boss)|my (?:ex|partner|boyfriend|girlfriend|husband|wife|colleague|neighbou?r|classmate|teacher|boss|uncle|cousin|stepdad|stepfather))\b`)
	suspectDescribe = regexp.MustCompile(`\b(?:(?:he|she|they) (?:had|was wearing|wore|looked)|wearing|tall|short|beard|hair|jacket|hoodie|coat|tattoo|accent|glasses|build)\b`)
	suspectUnknown  = regexp.MustCompile(`\b(?:stranger|didn't know (?:him|her|them)|don't know (?:him|her|them|who)|never seen (?:him|her|them)|no idea who)\b`)
	suspectName     = regexp.MustCompile(`(?i)\b(?:his|her|their) name (?:is|was)\s+([a-z][a-z'-]+)`)
	suspectAge      = regexp.MustCompile(`\b(?:he|she|they)(?:'s| is| was| were| looked)(?: about| around| roughly| maybe)?\s+(\d{2})\b`)
	suspectVehicle  = regexp.MustCompile(`\b(?:driving|drove|car|van|vehicle|motorbike|motorcycle|moped|scooter|lorry|truck)\b`)
	vehicleReg      = regexp.MustCompile(`(?i)\b(?:registration|reg|number plate|plate)(?: number)?(?: was| is|:)?\s+([a-z0-9]{2,4}\s?[a-z0-9]{3,4})\b`)
)

func extractSuspect(t *turn) {
	switch {
	case suspectUnknown.MatchString(t.folded):
		t.set(report.SuspectKnown, SuspectKnownNo)
	case suspectKnown.MatchString(t.folded):
		t.set(report.SuspectKnown, SuspectKnownYes)
	case suspectDescribe.MatchString(t.folded):
		t.set(report.SuspectKnown, SuspectKnownDescribe)
	case t.intent == intent.ProvideSuspect && lexicon.IsNegative(t.folded):
		t.set(report.SuspectKnown, SuspectKnownNo)
	}
	if m := suspectName.FindStringSubmatch(t.raw); m != nil && lexicon.IsNameCandidate(m[1]) {
		t.set(report.SuspectFirstName, capitalize(m[1]))
	}
	if m := suspectAge.FindStringSubmatch(t.folded); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 10 && n <= 100 {
			t.set(report.SuspectApproxAge, m[1])
		}
	}
	if suspectVehicle.MatchString(t.folded) {
		t.set(report.SuspectInVehicle, report.Yes)
	}
	if m := vehicleReg.FindStringSubmatch(t.raw); m != nil {
		t.set(report.SuspectVehicleReg, m[1])
	}
}

var (
	transportMode = regexp.MustCompile(`\b(?:bus|train|tube|underground|tram|overground|metro|coach|on the platform)\b`)
	oysterCard    = regexp.MustCompile(`\boyster\b`)
	contactless   = regexp.MustCompile(`\b(?:contactless|bank card|debit card|credit card|tapped in)\b`)
)

func extractTransport(t *turn) {
	if transportMode.MatchString(t.folded) {
		t.set(report.PublicTransport, report.Yes)
	}
	switch {
	case oysterCard.MatchString(t.folded):
		t.set(report.TransportCardDetails, "Oyster card")
	case contactless.MatchString(t.folded):
		t.set(report.TransportCardDetails, "Contactless card")
	}
}

func extractTraumaType(t *turn) {
	if !t.ind.ComplexTrauma {
		return
	}
	if kind := indicators.ComplexKind(t.folded); kind != indicators.ComplexNone {
		t.set(report.TraumaType, string(kind))
	}
}
