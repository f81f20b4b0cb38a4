// Package response chooses what to say next.
package response

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/haven/internal/indicators"
	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/report"
	"github.com/MikeSquared-Agency/haven/internal/risk"
	"github.com/MikeSquared-Agency/haven/internal/sanitize"
	"github.com/MikeSquared-Agency/haven/internal/slots"
	"github.com/MikeSquared-Agency/haven/internal/state"
)

// Input is one turn as seen by the selector. Before is the conversation as
// it stood when the turn began; After has this turn's fields merged.
type Input struct {
	Text       string
	Intent     intent.Intent
	Indicators indicators.Indicators
	Risk       risk.Level
	Before     *state.Conversation
	After      *state.Conversation
	Added      []string
}

// Output is the chosen reply and the rule that produced it. Question is the
// part of Text that asks something; it is what the conversation remembers
// for anti-repetition.
type Output struct {
	Text     string `json:"text"`
	Question string `json:"question,omitempty"`
	Rule     string `json:"rule"`
	Topic    string `json:"topic,omitempty"`
}

// Selector evaluates the response rules in order.
type Selector struct {
	logger *slog.Logger
}

// NewSelector returns a selector.
func NewSelector(logger *slog.Logger) *Selector {
	return &Selector{logger: logger}
}

// Select returns the first matching rule's reply. It always returns text.
func (s *Selector) Select(in Input) Output {
	in.Text = sanitize.Fold(in.Text)
	for _, r := range rules {
		if out, ok := r.match(&in); ok {
			out.Rule = r.name
			if out.Question == "" {
				out.Question = out.Text
			}
			s.logger.Debug("response selected", "rule", r.name, "topic", out.Topic)
			return out
		}
	}
	return Output{Text: Fallback, Question: Fallback, Rule: "fallback"}
}

type rule struct {
	name  string
	match func(in *Input) (Output, bool)
}

// rules is evaluated top to bottom; the order is the contract.
var rules = []rule{
	{"milestone_transition", milestoneTransition},
	{"incident_probe", incidentProbe},
	{"narrative_continuation", narrativeContinuation},
	{"complex_trauma", complexTrauma},
	{"minor_alone", minorAloneRule},
	{"next_question", nextQuestion},
	{"risk_fallback", riskFallback},
}

type transition struct {
	from, to report.Milestone
}

var transitions = []transition{
	{report.MilestoneName, report.MilestoneAge},
	{report.MilestoneAge, report.MilestoneTiming},
	{report.MilestoneTiming, report.MilestoneLocation},
	{report.MilestoneLocation, report.MilestoneNarrative},
	{report.MilestoneNarrative, report.MilestoneEvidence},
}

// ask picks a wording for topic that was not asked recently.
func ask(in *Input, topic string) Output {
	q := pick(variants(topic, in.After.FirstName()), in.After)
	return Output{Text: q, Question: q, Topic: topic}
}

// prefixed returns q with ack spoken first. Only the question is remembered.
func prefixed(ack string, q Output) Output {
	q.Text = ack + " " + q.Question
	return q
}

func completed(in *Input, m report.Milestone) bool {
	return !in.Before.Progress.Has(m) && in.After.Progress.Has(m)
}

func milestoneTransition(in *Input) (Output, bool) {
	next, ok := in.After.FirstUnmet()
	if !ok {
		if completed(in, report.MilestoneContact) {
			options := append([]string{addMore}, paraphrases(state.TopicClosing, "")...)
			q := pick(options, in.After)
			return prefixed(fmt.Sprintf(contactNoted, comma(in.After.FirstName())), Output{Question: q, Topic: state.TopicClosing}), true
		}
		return Output{}, false
	}
	for _, t := range transitions {
		if t.to == next && completed(in, t.from) {
			return ask(in, next.String()), true
		}
	}
	return Output{}, false
}

var (
	verbalContact   = regexp.MustCompile(`\b(?:said|say|saying|says|shout(?:ed|ing)?|yell(?:ed|ing)?|called me|swore|comments?|whistl(?:ed|ing)|talk(?:ed|ing) to me|asked me)\b`)
	physicalContact = regexp.MustCompile(`\b(?:touch(?:ed|ing)?|grab(?:bed|bing)?|push(?:ed|ing)?|pull(?:ed|ing)?|held|hold|forced|grop(?:e|ed))\b`)
)

// fresh returns text unless it was used recently, in which case the rule
// steps aside.
func fresh(in *Input, text string) (Output, bool) {
	if in.After.AskedRecently(text) {
		return Output{}, false
	}
	return Output{Text: text}, true
}

func incidentProbe(in *Input) (Output, bool) {
	disclosing := in.Indicators.Incident || in.Intent == intent.IncidentNarrative || in.Intent == intent.ReportIncident
	if !disclosing || !in.After.Progress.Location || in.After.Progress.Narrative {
		return Output{}, false
	}
	switch {
	case verbalContact.MatchString(in.Text):
		return fresh(in, probeVerbal)
	case physicalContact.MatchString(in.Text):
		return fresh(in, probePhysical)
	}
	return fresh(in, probeDefault)
}

func narrativeContinuation(in *Input) (Output, bool) {
	if !in.Before.Progress.Narrative || in.Intent != intent.ContinueIncidentNarrative {
		return Output{}, false
	}
	ack := ackMore
	switch slots.ClassifyNarrative(in.Text) {
	case slots.NarrativeViolence:
		ack = ackViolence
	case slots.NarrativeThreats:
		ack = ackThreats
	}

	topic := "evidence"
	if in.After.Progress.Evidence {
		topic = state.TopicClosing
		if m, ok := in.After.FirstUnmet(); ok {
			topic = m.String()
		}
	}
	return prefixed(ack, ask(in, topic)), true
}

func complexTrauma(in *Input) (Output, bool) {
	if !in.Indicators.ComplexTrauma {
		return Output{}, false
	}
	switch indicators.ComplexKind(in.Text) {
	case indicators.ComplexEntrapment:
		return fresh(in, traumaEntrapment)
	case indicators.ComplexStalking:
		return fresh(in, traumaStalking)
	case indicators.ComplexThreat:
		return fresh(in, traumaThreats)
	}
	return Output{}, false
}

var minorAloneFields = []string{report.Age, report.Under18, report.VulnerabilityContext, report.AloneWhenIncident}

func minorAloneRule(in *Input) (Output, bool) {
	f := in.After.Accumulated
	if in.After.Progress.Narrative || !isMinor(f) || f[report.VulnerabilityContext] != "alone" {
		return Output{}, false
	}
	if !addedAny(in.Added, minorAloneFields) {
		return Output{}, false
	}
	switch {
	case strings.Contains(strings.ToLower(f[report.HealthIssuesDetails]), "wheelchair"):
		return fresh(in, minorAloneWheelchair)
	case f[report.Disability] == report.Yes:
		return fresh(in, minorAloneDisabled)
	}
	return fresh(in, minorAlone)
}

func isMinor(f report.Fields) bool {
	if f[report.Under18] == report.Yes {
		return true
	}
	n, err := strconv.Atoi(f[report.Age])
	return err == nil && n < 18
}

func addedAny(added, keys []string) bool {
	for _, a := range added {
		for _, k := range keys {
			if a == k {
				return true
			}
		}
	}
	return false
}

func nextQuestion(in *Input) (Output, bool) {
	m, ok := in.After.FirstUnmet()
	if !ok {
		return Output{}, false
	}
	return ask(in, m.String()), true
}

func riskFallback(in *Input) (Output, bool) {
	if text, ok := riskResponses[riskKey{in.Intent, in.Risk}]; ok {
		return Output{Text: text}, true
	}
	return Output{Text: Fallback}, true
}
