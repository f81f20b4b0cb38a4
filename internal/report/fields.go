// Package report defines the incident report schema: field names, the
// milestones they satisfy, and the form sections used to present them.
package report

import "sort"

// Report field names.
const (
	FirstName              = "first_name"
	Surname                = "surname"
	Age                    = "age"
	Under18                = "under18"
	Email                  = "email"
	PhoneNumber            = "phone_number"
	StartDay               = "start_day"
	StartMonth             = "start_month"
	StartYear              = "start_year"
	StartTime              = "start_time"
	TownCity               = "town_city"
	IncidentLocationDetail = "incident_location_detail"
	IncidentNarrative      = "incident_narrative"
	Disability             = "disability"
	HealthIssues           = "health_issues"
	HealthIssuesDetails    = "health_issues_details"
	VulnerabilityContext   = "vulnerability_context"
	AloneWhenIncident      = "alone_when_incident"
	HasWitnesses           = "has_witnesses"
	WitnessFirstName       = "wit_first_name"
	HavePersonalMedia      = "have_personal_media"
	ThirdPartyVideo        = "third_party_video"
	SuspectLeftItems       = "suspect_left_items"
	SuspectKnown           = "suspect_known"
	SuspectFirstName       = "sus_first_name"
	SuspectApproxAge       = "sus_approx_age"
	SuspectInVehicle       = "sus_in_vehicle"
	SuspectVehicleReg      = "sus_vehicle_reg"
	PublicTransport        = "public_transport"
	TransportCardDetails   = "transport_card_details"
	TraumaType             = "trauma_type"
)

// Common field values.
const (
	Yes = "Yes"
	No  = "No"
)

// Fields maps report field names to extracted values.
type Fields map[string]string

// Has reports whether key holds a non-empty value.
func (f Fields) Has(key string) bool {
	return f[key] != ""
}

// Merge copies src into f without overwriting any key f already holds.
// It returns the sorted names of the keys it added.
func (f Fields) Merge(src Fields) []string {
	var added []string
	for k, v := range src {
		if v == "" || f.Has(k) {
			continue
		}
		f[k] = v
		added = append(added, k)
	}
	sort.Strings(added)
	return added
}

// Clone returns an independent copy of f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Keys returns the populated field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k, v := range f {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
