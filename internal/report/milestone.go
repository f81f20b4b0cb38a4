package report

// Milestone is a piece of the report the conversation works towards.
type Milestone int

const (
	MilestoneName Milestone = iota
	MilestoneAge
	MilestoneTiming
	MilestoneLocation
	MilestoneNarrative
	MilestoneDisability
	MilestoneContact
	MilestoneSuspect
	MilestoneWitnesses
	MilestoneEvidence
)

// Milestones lists every milestone in declaration order.
var Milestones = []Milestone{
	MilestoneName, MilestoneAge, MilestoneTiming, MilestoneLocation, MilestoneNarrative,
	MilestoneDisability, MilestoneContact, MilestoneSuspect, MilestoneWitnesses, MilestoneEvidence,
}

var milestoneNames = map[Milestone]string{
	MilestoneName:       "name",
	MilestoneAge:        "age",
	MilestoneTiming:     "timing",
	MilestoneLocation:   "location",
	MilestoneNarrative:  "narrative",
	MilestoneDisability: "disability",
	MilestoneContact:    "contact",
	MilestoneSuspect:    "suspect",
	MilestoneWitnesses:  "witnesses",
	MilestoneEvidence:   "evidence",
}

var milestoneFields = map[Milestone][]string{
	MilestoneName:       {FirstName},
	MilestoneAge:        {Age},
	MilestoneTiming:     {StartDay, StartMonth, StartYear},
	MilestoneLocation:   {TownCity, IncidentLocationDetail},
	MilestoneNarrative:  {IncidentNarrative},
	MilestoneDisability: {Disability},
	MilestoneContact:    {Email, PhoneNumber},
	MilestoneSuspect:    {SuspectKnown, SuspectFirstName, SuspectApproxAge, SuspectInVehicle, SuspectVehicleReg},
	MilestoneWitnesses:  {HasWitnesses},
	MilestoneEvidence:   {HavePersonalMedia, ThirdPartyVideo},
}

func (m Milestone) String() string {
	if s, ok := milestoneNames[m]; ok {
		return s
	}
	return "unknown"
}

// Fields returns the report fields that satisfy m.
func (m Milestone) Fields() []string {
	return milestoneFields[m]
}

// Satisfies reports whether any field associated with m is present.
func (f Fields) Satisfies(m Milestone) bool {
	for _, k := range milestoneFields[m] {
		if f.Has(k) {
			return true
		}
	}
	return false
}
