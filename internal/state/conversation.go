// Package state tracks each conversation's progress through the report and
// keeps one conversation per session.
package state

import (
	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/report"
)

// Stage is the part of the report the conversation is currently gathering.
type Stage string

const (
	StageIntroduction    Stage = "introduction"
	StagePersonalInfo    Stage = "personal_info"
	StageIncidentDetails Stage = "incident_details"
	StageEvidence        Stage = "evidence"
	StageWitnesses       Stage = "witnesses"
	StageSuspect         Stage = "suspect"
	StageContact         Stage = "contact"
	StageComplete        Stage = "complete"
)

var stageOrder = map[Stage]int{
	StageIntroduction:    0,
	StagePersonalInfo:    1,
	StageIncidentDetails: 2,
	StageEvidence:        3,
	StageWitnesses:       4,
	StageSuspect:         5,
	StageContact:         6,
	StageComplete:        7,
}

// Position returns the stage's place in the fixed order, or -1.
func (s Stage) Position() int {
	if p, ok := stageOrder[s]; ok {
		return p
	}
	return -1
}

// Progress holds one completion flag per milestone.
type Progress struct {
	Name       bool `json:"hasName"`
	Age        bool `json:"hasAge"`
	Timing     bool `json:"hasTiming"`
	Location   bool `json:"hasLocation"`
	Narrative  bool `json:"hasNarrative"`
	Disability bool `json:"hasDisability"`
	Contact    bool `json:"hasContact"`
	Suspect    bool `json:"hasSuspect"`
	Witnesses  bool `json:"hasWitnesses"`
	Evidence   bool `json:"hasEvidence"`
}

// ProgressOf derives progress from accumulated fields.
func ProgressOf(f report.Fields) Progress {
	return Progress{
		Name:       f.Satisfies(report.MilestoneName),
		Age:        f.Satisfies(report.MilestoneAge),
		Timing:     f.Satisfies(report.MilestoneTiming),
		Location:   f.Satisfies(report.MilestoneLocation),
		Narrative:  f.Satisfies(report.MilestoneNarrative),
		Disability: f.Satisfies(report.MilestoneDisability),
		Contact:    f.Satisfies(report.MilestoneContact),
		Suspect:    f.Satisfies(report.MilestoneSuspect),
		Witnesses:  f.Satisfies(report.MilestoneWitnesses),
		Evidence:   f.Satisfies(report.MilestoneEvidence),
	}
}

// Has reports the flag for m.
func (p Progress) Has(m report.Milestone) bool {
	switch m {
	case report.MilestoneName:
		return p.Name
	case report.MilestoneAge:
		return p.Age
	case report.MilestoneTiming:
		return p.Timing
	case report.MilestoneLocation:
		return p.Location
	case report.MilestoneNarrative:
		return p.Narrative
	case report.MilestoneDisability:
		return p.Disability
	case report.MilestoneContact:
		return p.Contact
	case report.MilestoneSuspect:
		return p.Suspect
	case report.MilestoneWitnesses:
		return p.Witnesses
	case report.MilestoneEvidence:
		return p.Evidence
	}
	return false
}

func (p Progress) empty() bool {
	return p == Progress{}
}

// StageFor returns the first stage whose milestones are not yet met.
func StageFor(p Progress) Stage {
	switch {
	case p.empty():
		return StageIntroduction
	case !p.Name || !p.Age:
		return StagePersonalInfo
	case !p.Timing || !p.Location || !p.Narrative:
		return StageIncidentDetails
	case !p.Evidence:
		return StageEvidence
	case !p.Witnesses:
		return StageWitnesses
	case !p.Suspect:
		return StageSuspect
	case !p.Contact:
		return StageContact
	}
	return StageComplete
}

// RecentCapacity bounds the anti-repetition window.
const RecentCapacity = 5

// Conversation is the state of one session.
type Conversation struct {
	Progress        Progress      `json:"progress"`
	Stage           Stage         `json:"stage"`
	Accumulated     report.Fields `json:"accumulated"`
	RecentQuestions []string      `json:"recent_questions"`
	ComplexTrauma   bool          `json:"complex_trauma_detected"`
	LastIntent      intent.Intent `json:"last_intent,omitempty"`
	Turns           int           `json:"turns"`
}

// NewConversation returns an empty conversation in the introduction stage.
func NewConversation() *Conversation {
	return &Conversation{
		Stage:       StageIntroduction,
		Accumulated: report.Fields{},
	}
}

// Merge adds fields preserve-first and recomputes progress and stage. It
// returns the names of the fields actually added.
func (c *Conversation) Merge(f report.Fields) []string {
	if c.Accumulated == nil {
		c.Accumulated = report.Fields{}
	}
	added := c.Accumulated.Merge(f)
	c.Progress = ProgressOf(c.Accumulated)
	c.Stage = StageFor(c.Progress)
	return added
}

// FirstUnmet returns the first milestone still missing in question order.
// It reports false once every asked-about milestone is met.
func (c *Conversation) FirstUnmet() (report.Milestone, bool) {
	for _, m := range questionOrder {
		if !c.Progress.Has(m) {
			return m, true
		}
	}
	return 0, false
}

// FirstName returns the stored first name, or "".
func (c *Conversation) FirstName() string {
	return c.Accumulated[report.FirstName]
}

// AskedRecently reports whether q is in the recent-question window.
func (c *Conversation) AskedRecently(q string) bool {
	for _, r := range c.RecentQuestions {
		if r == q {
			return true
		}
	}
	return false
}

// RecordQuestion appends q to the window, evicting the oldest entry when full.
func (c *Conversation) RecordQuestion(q string) {
	if q == "" {
		return
	}
	c.RecentQuestions = append(c.RecentQuestions, q)
	if n := len(c.RecentQuestions); n > RecentCapacity {
		c.RecentQuestions = append([]string(nil), c.RecentQuestions[n-RecentCapacity:]...)
	}
}

// IntentContext summarises the conversation for the classifier.
func (c *Conversation) IntentContext() intent.Context {
	return intent.Context{
		PreviousIntent: c.LastIntent,
		Stage:          string(c.Stage),
		NameKnown:      c.Progress.Name,
		AgeKnown:       c.Progress.Age,
		TimingKnown:    c.Progress.Timing,
		LocationKnown:  c.Progress.Location,
		NarrativeKnown: c.Progress.Narrative,
	}
}

// Clone returns a deep copy.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Accumulated = c.Accumulated.Clone()
	out.RecentQuestions = append([]string(nil), c.RecentQuestions...)
	return &out
}
