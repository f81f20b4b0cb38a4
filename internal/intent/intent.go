// Package intent decides what a person is doing in a single turn: giving
// their name, describing the incident, asking for help, and so on.
package intent

// Intent is one label from the closed intent vocabulary.
type Intent string

const (
	ProvideName               Intent = "provide_name"
	ProvideAge                Intent = "provide_age"
	ProvideTiming             Intent = "provide_timing"
	ProvideLocation           Intent = "provide_location"
	IncidentNarrative         Intent = "incident_narrative"
	ContinueIncidentNarrative Intent = "continue_incident_narrative"
	VulnerabilityContext      Intent = "vulnerability_context"
	ProvideContact            Intent = "provide_contact"
	ProvideEvidence           Intent = "provide_evidence"
	ProvideWitnesses          Intent = "provide_witnesses"
	ProvideSuspect            Intent = "provide_suspect"
	ProvidePublicTransport    Intent = "provide_public_transport"
	ReportIncident            Intent = "report_incident"
	RequestHelp               Intent = "request_help"
	GeneralConversation       Intent = "general_conversation"
)

// All lists the vocabulary in a stable order.
var All = []Intent{
	ProvideName, ProvideAge, ProvideTiming, ProvideLocation, IncidentNarrative,
	ContinueIncidentNarrative, VulnerabilityContext, ProvideContact, ProvideEvidence,
	ProvideWitnesses, ProvideSuspect, ProvidePublicTransport, ReportIncident,
	RequestHelp, GeneralConversation,
}

// IsNarrative reports whether i describes the incident itself.
func (i Intent) IsNarrative() bool {
	return i == IncidentNarrative || i == ContinueIncidentNarrative || i == ReportIncident
}

// Source records which stage of classification produced a result.
type Source string

const (
	SourceOverride Source = "override"
	SourceSemantic Source = "semantic"
	SourceContext  Source = "context"
	SourceRule     Source = "rule"
	SourceDefault  Source = "default"
)

// Result is the outcome of classifying one utterance.
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
	Rule       string  `json:"rule,omitempty"`
}

// Context is what the classifier knows about the conversation so far.
type Context struct {
	PreviousIntent Intent
	Stage          string
	NameKnown      bool
	AgeKnown       bool
	TimingKnown    bool
	LocationKnown  bool
	NarrativeKnown bool
}
