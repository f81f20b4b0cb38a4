package intent

// Template is an example phrasing of an intent. Digits in phrases are
// written as "#num" so any number matches.
type Template struct {
	Intent Intent
	Phrase string
}

// DefaultTemplates is the curated phrase table used by the TF-IDF index.
// Order matters only for tie-breaking.
var DefaultTemplates = []Template{
	// names
	{ProvideName, "my name is"},
	{ProvideName, "my name's"},
	{ProvideName, "i'm called"},
	{ProvideName, "call me"},
	{ProvideName, "you can call me"},
	{ProvideName, "hi i'm"},
	{ProvideName, "hello i'm"},
	{ProvideName, "hello my name is"},
	{ProvideName, "i go by"},
	{ProvideName, "people call me"},
	{ProvideName, "my first name is"},
	{ProvideName, "my surname is"},
	{ProvideName, "my last name is"},

	// ages
	{ProvideAge, "i'm #num"},
	{ProvideAge, "i am #num"},
	{ProvideAge, "i'm #num years old"},
	{ProvideAge, "i am #num years old"},
	{ProvideAge, "#num years old"},
	{ProvideAge, "my age is #num"},
	{ProvideAge, "age #num"},
	{ProvideAge, "i'm turning #num"},
	{ProvideAge, "i'm a teenager"},
	{ProvideAge, "i'm a minor"},
	{ProvideAge, "i'm under eighteen"},

	// timing
	{ProvideTiming, "yesterday"},
	{ProvideTiming, "today"},
	{ProvideTiming, "last night"},
	{ProvideTiming, "this morning"},
	{ProvideTiming, "this afternoon"},
	{ProvideTiming, "this evening"},
	{ProvideTiming, "tonight"},
	{ProvideTiming, "last week"},
	{ProvideTiming, "last month"},
	{ProvideTiming, "a few days ago"},
	{ProvideTiming, "a couple of days ago"},
	{ProvideTiming, "two weeks ago"},
	{ProvideTiming, "an hour ago"},
	{ProvideTiming, "it happened yesterday"},
	{ProvideTiming, "it happened this morning"},
	{ProvideTiming, "the day before yesterday"},
	{ProvideTiming, "earlier today"},

	// location
	{ProvideLocation, "it happened in"},
	{ProvideLocation, "it happened at"},
	{ProvideLocation, "i was at the"},
	{ProvideLocation, "near the station"},
	{ProvideLocation, "at the bus stop"},
	{ProvideLocation, "in the park"},
	{ProvideLocation, "outside the shop"},
	{ProvideLocation, "on the street"},
	{ProvideLocation, "near the public toilets"},
	{ProvideLocation, "in the shopping centre"},
	{ProvideLocation, "the location was"},
	{ProvideLocation, "this took place in"},

	// narrative
	{IncidentNarrative, "a man came up to me"},
	{IncidentNarrative, "someone approached me"},
	{IncidentNarrative, "he touched me"},
	{IncidentNarrative, "he grabbed me"},
	{IncidentNarrative, "she pushed me"},
	{IncidentNarrative, "he was shouting at me"},
	{IncidentNarrative, "they called me names"},
	{IncidentNarrative, "he followed me"},
	{IncidentNarrative, "he wouldn't let me leave"},
	{IncidentNarrative, "he said he would hurt me"},
	{IncidentNarrative, "what happened was"},

	// vulnerability
	{VulnerabilityContext, "i use a wheelchair"},
	{VulnerabilityContext, "i have a disability"},
	{VulnerabilityContext, "i was alone"},
	{VulnerabilityContext, "i was by myself"},
	{VulnerabilityContext, "i was on my own"},
	{VulnerabilityContext, "my mum went to the toilet"},
	{VulnerabilityContext, "i have a health condition"},
	{VulnerabilityContext, "i have mobility issues"},

	// contact
	{ProvideContact, "my email is"},
	{ProvideContact, "my phone number is"},
	{ProvideContact, "you can email me"},
	{ProvideContact, "you can call me on"},
	{ProvideContact, "my number is"},
	{ProvideContact, "contact me by email"},

	// evidence
	{ProvideEvidence, "i took photos"},
	{ProvideEvidence, "i have pictures"},
	{ProvideEvidence, "i recorded a video"},
	{ProvideEvidence, "there was cctv"},
	{ProvideEvidence, "there are security cameras"},
	{ProvideEvidence, "i have evidence"},
	{ProvideEvidence, "he left his jacket"},

	// witnesses
	{ProvideWitnesses, "there were witnesses"},
	{ProvideWitnesses, "someone saw it"},
	{ProvideWitnesses, "other people saw what happened"},
	{ProvideWitnesses, "nobody saw"},
	{ProvideWitnesses, "no one else was there"},
	{ProvideWitnesses, "a woman saw it"},

	// suspect
	{ProvideSuspect, "i know who did it"},
	{ProvideSuspect, "i can describe them"},
	{ProvideSuspect, "i don't know who it was"},
	{ProvideSuspect, "his name is"},
	{ProvideSuspect, "her name is"},
	{ProvideSuspect, "he was about #num"},
	{ProvideSuspect, "he was driving a car"},
	{ProvideSuspect, "the registration was"},
	{ProvideSuspect, "he was tall"},

	// transport
	{ProvidePublicTransport, "i was on the bus"},
	{ProvidePublicTransport, "on the train"},
	{ProvidePublicTransport, "on the tube"},
	{ProvidePublicTransport, "on the tram"},
	{ProvidePublicTransport, "i used my oyster card"},
	{ProvidePublicTransport, "i paid contactless"},

	// reporting and help
	{ReportIncident, "i want to report something"},
	{ReportIncident, "i want to report an incident"},
	{ReportIncident, "something happened to me"},
	{ReportIncident, "i was assaulted"},
	{ReportIncident, "i was attacked"},
	{ReportIncident, "i was harassed"},
	{ReportIncident, "i need to report"},
	{RequestHelp, "i need help"},
	{RequestHelp, "please help me"},
	{RequestHelp, "can you help me"},
	{RequestHelp, "i don't know what to do"},
	{RequestHelp, "i'm not safe"},
	{RequestHelp, "i need someone to talk to"},

	// small talk
	{GeneralConversation, "hello"},
	{GeneralConversation, "hi"},
	{GeneralConversation, "thank you"},
	{GeneralConversation, "thanks"},
	{GeneralConversation, "okay"},
	{GeneralConversation, "what do i do now"},
	{GeneralConversation, "who are you"},
}
