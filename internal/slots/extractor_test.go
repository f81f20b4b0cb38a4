package slots

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/haven/internal/indicators"
	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/report"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Saturday 17 October 2026, 14:00 UTC.
var fixedNow = time.Date(2026, time.October, 17, 14, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	return NewWithClock(func() time.Time { return fixedNow }, discardLogger())
}

func extract(text string, in intent.Intent, known report.Fields) report.Fields {
	return newTestExtractor().Extract(text, in, indicators.Detect(text), known)
}

func assertFields(t *testing.T, got report.Fields, want map[string]string) {
	t.Helper()
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q (got %v)", k, got[k], v, got)
		}
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		intent intent.Intent
		want   map[string]string
	}{
		{"greeting name", "Hi, I'm Dorothy", intent.ProvideName,
			map[string]string{report.FirstName: "Dorothy"}},
		{"full name", "my name is Dorothy Smith", intent.ProvideName,
			map[string]string{report.FirstName: "Dorothy", report.Surname: "Smith"}},
		{"three-part name", "My name is Sarah Jane Smith", intent.ProvideName,
			map[string]string{report.FirstName: "Sarah", report.Surname: "Jane Smith"}},
		{"bare name", "dorothy", intent.ProvideName,
			map[string]string{report.FirstName: "Dorothy"}},
		{"name and age", "I'm Dorothy and I'm 15", intent.ProvideName,
			map[string]string{report.FirstName: "Dorothy", report.Age: "15", report.Under18: report.Yes}},
		{"adult age", "I am 34 years old", intent.ProvideAge,
			map[string]string{report.Age: "34", report.Under18: report.No}},
		{"teenager", "I'm a teenager", intent.ProvideAge,
			map[string]string{report.Age: "15", report.Under18: report.Yes}},
		{"minor", "I'm a minor", intent.ProvideAge,
			map[string]string{report.Age: "17"}},
		{"yesterday", "yesterday", intent.ProvideTiming,
			map[string]string{report.StartDay: "16", report.StartMonth: "10", report.StartYear: "2026"}},
		{"last night", "it was last night", intent.ProvideTiming,
			map[string]string{report.StartDay: "16", report.StartTime: "20:00"}},
		{"place", "It happened in Camden.", intent.ProvideLocation,
			map[string]string{report.TownCity: "Camden"}},
		{"station", "I was at the bus station", intent.ProvideLocation,
			map[string]string{report.TownCity: "bus station", report.IncidentLocationDetail: "transport hub"}},
		{"park", "near the park", intent.ProvideLocation,
			map[string]string{report.TownCity: "park", report.IncidentLocationDetail: "park or public space"}},
		{"town after a landmark", "I was at the park near Camden", intent.ProvideLocation,
			map[string]string{report.TownCity: "Camden", report.IncidentLocationDetail: "park or public space"}},
		{"place stops at next preposition", "I was walking by the river in the evening", intent.ProvideLocation,
			map[string]string{report.TownCity: "river"}},
		{"entrapment", "A man came up to me and wouldn't let me leave", intent.ReportIncident,
			map[string]string{report.IncidentNarrative: NarrativeEntrapment, report.TraumaType: "entrapment"}},
		{"violence", "he hit me", intent.ContinueIncidentNarrative,
			map[string]string{report.IncidentNarrative: NarrativeViolence}},
		{"violence outranks contact", "he grabbed my arm and hit me", intent.IncidentNarrative,
			map[string]string{report.IncidentNarrative: NarrativeViolence}},
		{"stalking", "he kept following me home", intent.IncidentNarrative,
			map[string]string{report.IncidentNarrative: NarrativeStalking}},
		{"threat to hurt", "he said he would hurt me", intent.IncidentNarrative,
			map[string]string{report.IncidentNarrative: NarrativeThreats}},
		{"conditional threat", "he would kill me if I told anyone", intent.IncidentNarrative,
			map[string]string{report.IncidentNarrative: NarrativeThreats}},
		{"verbal", "he called me names", intent.IncidentNarrative,
			map[string]string{report.IncidentNarrative: NarrativeVerbal}},
		{"disability and alone", "I'm in a wheelchair and I was alone", intent.GeneralConversation,
			map[string]string{
				report.Disability:           report.Yes,
				report.HealthIssues:         report.Yes,
				report.HealthIssuesDetails:  "I'm in a wheelchair",
				report.VulnerabilityContext: "alone",
				report.AloneWhenIncident:    report.Yes,
			}},
		{"contact details", "you can reach me on 07700 900123 or jane.doe@Example.com", intent.ProvideContact,
			map[string]string{report.PhoneNumber: "07700900123", report.Email: "jane.doe@example.com"}},
		{"cctv", "there was cctv", intent.ProvideEvidence,
			map[string]string{report.ThirdPartyVideo: report.Yes}},
		{"no evidence", "no", intent.ProvideEvidence,
			map[string]string{report.HavePersonalMedia: report.No}},
		{"photos", "I took photos on my phone", intent.ProvideEvidence,
			map[string]string{report.HavePersonalMedia: report.Yes}},
		{"no witnesses", "no one saw it", intent.ProvideWitnesses,
			map[string]string{report.HasWitnesses: report.No}},
		{"named witness", "yes, my friend Sam saw it", intent.ProvideWitnesses,
			map[string]string{report.HasWitnesses: report.Yes, report.WitnessFirstName: "Sam"}},
		{"suspect details", "he was about 30 and driving a blue van, registration AB12 CDE", intent.ProvideSuspect,
			map[string]string{
				report.SuspectApproxAge:  "30",
				report.SuspectInVehicle:  report.Yes,
				report.SuspectVehicleReg: "AB12 CDE",
			}},
		{"unknown suspect", "I didn't know him", intent.ProvideSuspect,
			map[string]string{report.SuspectKnown: SuspectKnownNo}},
		{"bare no about suspect", "no", intent.ProvideSuspect,
			map[string]string{report.SuspectKnown: SuspectKnownNo}},
		{"transport", "I was on the bus and tapped in with my oyster", intent.ProvidePublicTransport,
			map[string]string{report.PublicTransport: report.Yes, report.TransportCardDetails: "Oyster card"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFields(t, extract(tt.text, tt.intent, nil), tt.want)
		})
	}
}

func TestExtract_NothingToFind(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		intent  intent.Intent
		missing []string
	}{
		{"approach alone is not a narrative", "A man came up to me", intent.ReportIncident, []string{report.IncidentNarrative}},
		{"feeling is not a place", "in pain", intent.ProvideLocation, []string{report.TownCity}},
		{"age out of range", "200", intent.ProvideAge, []string{report.Age}},
		{"time word is not a name", "yesterday", intent.ProvideName, []string{report.FirstName}},
		{"unresolvable time", "I don't remember", intent.ProvideTiming, []string{report.StartDay, report.StartTime}},
		{"short number is not a phone", "call 12345", intent.ProvideContact, []string{report.PhoneNumber}},
		{"empty", "", intent.GeneralConversation, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extract(tt.text, tt.intent, nil)
			for _, k := range tt.missing {
				if got.Has(k) {
					t.Errorf("%s = %q, want absent", k, got[k])
				}
			}
		})
	}
}

func TestExtract_KnownFieldsNotOverwritten(t *testing.T) {
	known := report.Fields{report.FirstName: "Dorothy", report.Age: "15"}
	got := extract("my name is Jane and I'm 40", intent.ProvideName, known)

	if got.Has(report.FirstName) {
		t.Errorf("first_name re-extracted as %q", got[report.FirstName])
	}
	if got.Has(report.Age) {
		t.Errorf("age re-extracted as %q", got[report.Age])
	}
}

func TestExtract_FirstMatchWinsWithinTurn(t *testing.T) {
	got := extract("yesterday, or maybe the day before yesterday", intent.ProvideTiming, nil)
	if got[report.StartDay] != "15" {
		t.Errorf("start_day = %q, want 15 from the longest phrase", got[report.StartDay])
	}
}

func TestExtract_FailingRoutineIsSkipped(t *testing.T) {
	orig := routines["contact"]
	routines["contact"] = func(*turn) { panic("boom") }
	t.Cleanup(func() { routines["contact"] = orig })

	got := extract("Hi, I'm Dorothy", intent.ProvideName, nil)
	if got[report.FirstName] != "Dorothy" {
		t.Errorf("first_name = %q, want Dorothy", got[report.FirstName])
	}
}

func TestCategorizePlace(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"outside the public toilets", "near public toilets"},
		{"in the shopping centre", "shopping area"},
		{"on the train platform", "transport hub"},
		{"on oxford street", "street or road"},
		{"at my office", "building or workplace"},
		{"somewhere", ""},
	}
	for _, tt := range tests {
		if got := CategorizePlace(tt.text); got != tt.want {
			t.Errorf("CategorizePlace(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestAgeOf(t *testing.T) {
	if n, ok := AgeOf(report.Fields{report.Age: "15"}); !ok || n != 15 {
		t.Errorf("AgeOf = %d, %v", n, ok)
	}
	if _, ok := AgeOf(report.Fields{}); ok {
		t.Error("AgeOf on empty fields reported ok")
	}
}
