package report

import (
	"reflect"
	"testing"
)

func TestMerge_PreservesFirst(t *testing.T) {
	f := Fields{FirstName: "Dorothy"}
	added := f.Merge(Fields{FirstName: "Sarah", Age: "15", Surname: ""})

	if f[FirstName] != "Dorothy" {
		t.Errorf("first_name = %q, want Dorothy", f[FirstName])
	}
	if f[Age] != "15" {
		t.Errorf("age = %q, want 15", f[Age])
	}
	if f.Has(Surname) {
		t.Error("empty values should not be merged")
	}
	if !reflect.DeepEqual(added, []string{Age}) {
		t.Errorf("added = %v, want [age]", added)
	}
}

func TestClone_Independent(t *testing.T) {
	f := Fields{FirstName: "Dorothy"}
	c := f.Clone()
	c[Age] = "15"
	if f.Has(Age) {
		t.Error("mutating the clone changed the original")
	}
}

func TestKeys_SortedAndNonEmpty(t *testing.T) {
	f := Fields{TownCity: "London", Age: "15", Email: ""}
	if got := f.Keys(); !reflect.DeepEqual(got, []string{Age, TownCity}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name string
		f    Fields
		m    Milestone
		want bool
	}{
		{"name", Fields{FirstName: "Dorothy"}, MilestoneName, true},
		{"surname alone is not a name", Fields{Surname: "Smith"}, MilestoneName, false},
		{"timing by year", Fields{StartYear: "2026"}, MilestoneTiming, true},
		{"time of day alone is not timing", Fields{StartTime: "20:00"}, MilestoneTiming, false},
		{"contact by phone", Fields{PhoneNumber: "07700900123"}, MilestoneContact, true},
		{"evidence by cctv", Fields{ThirdPartyVideo: Yes}, MilestoneEvidence, true},
		{"empty", Fields{}, MilestoneSuspect, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Satisfies(tt.m); got != tt.want {
				t.Errorf("Satisfies(%s) = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}

func TestMilestoneString(t *testing.T) {
	if MilestoneNarrative.String() != "narrative" {
		t.Errorf("got %q", MilestoneNarrative.String())
	}
	if Milestone(99).String() != "unknown" {
		t.Errorf("got %q", Milestone(99).String())
	}
}

func TestLoadSchema_CoversEveryField(t *testing.T) {
	s, err := LoadSchema()
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	for _, m := range Milestones {
		for _, id := range m.Fields() {
			if !s.Known(id) {
				t.Errorf("milestone %s field %q missing from schema", m, id)
			}
		}
	}
	for _, id := range []string{Surname, Under18, StartTime, TraumaType, PublicTransport, WitnessFirstName} {
		if !s.Known(id) {
			t.Errorf("field %q missing from schema", id)
		}
	}
}

func TestParseSchema_RejectsDuplicates(t *testing.T) {
	data := []byte(`
sections:
  - id: a
    fields: [{ id: age, label: Age }]
  - id: b
    fields: [{ id: age, label: Age again }]
`)
	if _, err := ParseSchema(data); err == nil {
		t.Fatal("expected duplicate field error")
	}
}

func TestGroup(t *testing.T) {
	s, err := LoadSchema()
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	views := s.Group(Fields{
		FirstName: "Dorothy",
		TownCity:  "London",
		"bogus":   "x",
	})
	if len(views) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(views))
	}
	if views[0].ID != "your_details" || views[0].Values[0].Value != "Dorothy" {
		t.Errorf("first section = %+v", views[0])
	}
	if views[1].ID != "incident_details" || views[1].Values[0].Label != "Town or city" {
		t.Errorf("second section = %+v", views[1])
	}
}
