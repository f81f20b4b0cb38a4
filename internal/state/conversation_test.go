package state

import (
	"fmt"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/haven/internal/report"
)

func TestStageFor(t *testing.T) {
	tests := []struct {
		name string
		p    Progress
		want Stage
	}{
		{"nothing known", Progress{}, StageIntroduction},
		{"name only", Progress{Name: true}, StagePersonalInfo},
		{"narrative before name", Progress{Narrative: true}, StagePersonalInfo},
		{"name and age", Progress{Name: true, Age: true}, StageIncidentDetails},
		{"incident known", Progress{Name: true, Age: true, Timing: true, Location: true, Narrative: true}, StageEvidence},
		{"evidence known", Progress{Name: true, Age: true, Timing: true, Location: true, Narrative: true, Evidence: true}, StageWitnesses},
		{"witnesses known", Progress{Name: true, Age: true, Timing: true, Location: true, Narrative: true, Evidence: true, Witnesses: true}, StageSuspect},
		{"suspect known", Progress{Name: true, Age: true, Timing: true, Location: true, Narrative: true, Evidence: true, Witnesses: true, Suspect: true}, StageContact},
		{"everything", Progress{Name: true, Age: true, Timing: true, Location: true, Narrative: true, Evidence: true, Witnesses: true, Suspect: true, Contact: true}, StageComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StageFor(tt.p); got != tt.want {
				t.Errorf("StageFor = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMerge_PreserveFirst(t *testing.T) {
	c := NewConversation()
	added := c.Merge(report.Fields{report.FirstName: "Dorothy"})
	if len(added) != 1 || added[0] != report.FirstName {
		t.Fatalf("added = %v", added)
	}

	added = c.Merge(report.Fields{report.FirstName: "Jane", report.Age: "15"})
	if c.Accumulated[report.FirstName] != "Dorothy" {
		t.Errorf("first_name overwritten with %q", c.Accumulated[report.FirstName])
	}
	if len(added) != 1 || added[0] != report.Age {
		t.Errorf("added = %v, want [age]", added)
	}
	if !c.Progress.Name || !c.Progress.Age {
		t.Errorf("progress = %+v", c.Progress)
	}
	if c.Stage != StageIncidentDetails {
		t.Errorf("stage = %s, want incident_details", c.Stage)
	}
}

func TestMerge_StageNeverRegresses(t *testing.T) {
	steps := []report.Fields{
		{report.IncidentNarrative: "Physical contact occurred"},
		{report.FirstName: "Dorothy"},
		{report.Age: "15", report.Disability: report.Yes},
		{report.StartDay: "16", report.StartMonth: "10", report.StartYear: "2026"},
		{report.TownCity: "Camden"},
		{report.ThirdPartyVideo: report.Yes},
		{report.Email: "d@example.com"},
		{report.HasWitnesses: report.No},
		{report.SuspectKnown: "unknown"},
	}

	c := NewConversation()
	last := c.Stage.Position()
	for i, f := range steps {
		c.Merge(f)
		pos := c.Stage.Position()
		if pos < last {
			t.Fatalf("step %d: stage went back to %s", i, c.Stage)
		}
		last = pos
	}
	if c.Stage != StageComplete {
		t.Errorf("final stage = %s, want complete", c.Stage)
	}
}

func TestProgressMatchesAccumulated(t *testing.T) {
	c := NewConversation()
	c.Merge(report.Fields{report.IncidentLocationDetail: "park or public space", report.PhoneNumber: "07700900123"})

	for _, m := range report.Milestones {
		if c.Progress.Has(m) != c.Accumulated.Satisfies(m) {
			t.Errorf("%s: progress %v, accumulated %v", m, c.Progress.Has(m), c.Accumulated.Satisfies(m))
		}
	}
	if !c.Progress.Location || !c.Progress.Contact {
		t.Errorf("progress = %+v", c.Progress)
	}
}

func TestNextQuestion(t *testing.T) {
	c := NewConversation()
	if q := c.NextQuestion(); q.Topic != "name" {
		t.Errorf("topic = %s, want name", q.Topic)
	}

	c.Merge(report.Fields{report.FirstName: "Dorothy"})
	q := c.NextQuestion()
	if q.Topic != "age" || !strings.Contains(q.Text, "Dorothy") {
		t.Errorf("question = %+v", q)
	}

	c.Merge(report.Fields{report.Age: "15", report.StartDay: "16", report.StartMonth: "10", report.StartYear: "2026"})
	if q := c.NextQuestion(); q.Topic != "location" {
		t.Errorf("topic = %s, want location", q.Topic)
	}

	c.Merge(report.Fields{
		report.TownCity: "Camden", report.IncidentNarrative: "Physical contact occurred",
		report.HavePersonalMedia: report.No, report.HasWitnesses: report.No,
		report.SuspectKnown: "unknown", report.Email: "d@example.com",
	})
	q = c.NextQuestion()
	if q.Topic != TopicClosing || !strings.Contains(q.Text, "Dorothy") {
		t.Errorf("question = %+v", q)
	}
}

func TestNextQuestion_EvidenceDoesNotAskWhatHappened(t *testing.T) {
	if q := CanonicalQuestion("evidence", ""); strings.Contains(strings.ToLower(q), "what happened") {
		t.Errorf("evidence question repeats the narrative prompt: %q", q)
	}
}

func TestRecordQuestion_Window(t *testing.T) {
	c := NewConversation()
	for i := 0; i < 8; i++ {
		c.RecordQuestion(fmt.Sprintf("q%d", i))
	}
	if len(c.RecentQuestions) != RecentCapacity {
		t.Fatalf("len = %d, want %d", len(c.RecentQuestions), RecentCapacity)
	}
	if c.AskedRecently("q2") {
		t.Error("q2 should have been evicted")
	}
	if !c.AskedRecently("q7") || !c.AskedRecently("q3") {
		t.Errorf("window = %v", c.RecentQuestions)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	c := NewConversation()
	c.Merge(report.Fields{report.FirstName: "Dorothy"})
	c.RecordQuestion("q")

	cp := c.Clone()
	cp.Merge(report.Fields{report.Age: "15"})
	cp.RecordQuestion("other")

	if c.Accumulated.Has(report.Age) || len(c.RecentQuestions) != 1 {
		t.Errorf("clone shares state with original: %+v", c)
	}
}
