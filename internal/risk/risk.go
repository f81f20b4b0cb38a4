// Package risk scores how urgent a disclosure is.
package risk

import (
	"regexp"
	"strconv"

	"github.com/MikeSquared-Agency/haven/internal/indicators"
	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/report"
)

// Level is the assessed risk tier.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// Weights is the scoring table. The thresholds are tuned against the
// weights and change together with them.
type Weights struct {
	Incident      int
	Threat        int
	Physical      int
	ComplexTrauma int
	Urgency       int
	Vulnerability int
	Distress      int

	ReportIncident int
	RequestHelp    int

	Keyword    int
	NoContact  int
	Minor      int
	Disability int

	HighAt   int
	MediumAt int
}

// DefaultWeights is the production table.
var DefaultWeights = Weights{
	Incident:      3,
	Threat:        3,
	Physical:      3,
	ComplexTrauma: 4,
	Urgency:       2,
	Vulnerability: 2,
	Distress:      2,

	ReportIncident: 3,
	RequestHelp:    2,

	Keyword:    2,
	NoContact:  1,
	Minor:      2,
	Disability: 1,

	HighAt:   10,
	MediumAt: 5,
}

// Input is everything a single assessment looks at. Extracted is this
// turn's new fields; Accumulated is the session's fields after merging.
type Input struct {
	Indicators  indicators.Indicators
	Intent      intent.Intent
	Extracted   report.Fields
	Accumulated report.Fields
}

// Assessment is the outcome of Assess.
type Assessment struct {
	Level Level `json:"level"`
	Score int   `json:"score"`
}

var keywords = map[string]*regexp.Regexp{}

// High-risk words looked for in extracted field values.
var keywordList = []string{
	"hurt", "kill", "threaten", "trapped", "helpless", "stalked", "violated",
	"scared", "afraid", "terrified", "dangerous", "forced", "weapon", "knife",
}

func init() {
	for _, k := range keywordList {
		keywords[k] = regexp.MustCompile(`(?i)\b` + k)
	}
}

// Assess scores in with DefaultWeights.
func Assess(in Input) Assessment {
	return DefaultWeights.Assess(in)
}

// Assess scores in with w.
func (w Weights) Assess(in Input) Assessment {
	score := 0
	add := func(cond bool, n int) {
		if cond {
			score += n
		}
	}

	ind := in.Indicators
	add(ind.Incident, w.Incident)
	add(ind.Threat, w.Threat)
	add(ind.PhysicalContact, w.Physical)
	add(ind.ComplexTrauma, w.ComplexTrauma)
	add(ind.Urgency, w.Urgency)
	add(ind.Vulnerability, w.Vulnerability)
	add(ind.EmotionalDistress, w.Distress)

	add(in.Intent == intent.ReportIncident, w.ReportIncident)
	add(in.Intent == intent.RequestHelp, w.RequestHelp)

	score += w.Keyword * keywordHits(in.Extracted)

	all := in.Accumulated.Clone()
	all.Merge(in.Extracted)
	add(!all.Has(report.FirstName) && !all.Has(report.Email) && !all.Has(report.PhoneNumber), w.NoContact)
	if age, err := strconv.Atoi(all[report.Age]); err == nil {
		add(age < 18, w.Minor)
	}
	add(all[report.Disability] == report.Yes, w.Disability)

	return Assessment{Level: w.level(score), Score: score}
}

func (w Weights) level(score int) Level {
	switch {
	case score >= w.HighAt:
		return High
	case score >= w.MediumAt:
		return Medium
	}
	return Low
}

// keywordHits counts distinct high-risk keywords across field values.
func keywordHits(f report.Fields) int {
	hits := 0
	for _, k := range keywordList {
		for _, v := range f {
			if keywords[k].MatchString(v) {
				hits++
				break
			}
		}
	}
	return hits
}
