package state

import (
	"fmt"

	"github.com/MikeSquared-Agency/haven/internal/report"
)

// TopicClosing is the question topic once every milestone is met.
const TopicClosing = "closing"

// Order in which missing milestones are asked about. Disability is never
// asked directly; it is volunteered.
var questionOrder = []report.Milestone{
	report.MilestoneName,
	report.MilestoneAge,
	report.MilestoneTiming,
	report.MilestoneLocation,
	report.MilestoneNarrative,
	report.MilestoneEvidence,
	report.MilestoneWitnesses,
	report.MilestoneSuspect,
	report.MilestoneContact,
}

// Question is the canonical question for a topic.
type Question struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

// NextQuestion returns the canonical question for the first unmet
// milestone, personalised with the stored first name.
func (c *Conversation) NextQuestion() Question {
	m, ok := c.FirstUnmet()
	if !ok {
		return Question{Topic: TopicClosing, Text: CanonicalQuestion(TopicClosing, c.FirstName())}
	}
	return Question{Topic: m.String(), Text: CanonicalQuestion(m.String(), c.FirstName())}
}

// CanonicalQuestion returns the standard wording for topic.
func CanonicalQuestion(topic, name string) string {
	switch topic {
	case "name":
		return "I'm here to listen and help. To start, could you tell me your first name? Only share what you're comfortable with."
	case "age":
		return fmt.Sprintf("Thank you%s. How old are you? This helps us provide appropriate support.", spaced(name))
	case "timing":
		return fmt.Sprintf("Thank you%s. When did this happen? An approximate time is fine, like yesterday or last week.", comma(name))
	case "location":
		return "Where did this happen? The name of the area, street or type of place is helpful."
	case "narrative":
		return "Can you tell me what happened? Take your time and share only what you feel able to."
	case "evidence":
		return "Do you have any photos, videos or messages, or do you know of any CCTV nearby that might have recorded the incident?"
	case "witnesses":
		return "Was anyone else around at the time who might have seen the incident?"
	case "suspect":
		return "Can you tell me anything about the person involved? For example, whether you know them or what they looked like."
	case "contact":
		return "If you're comfortable, could you share an email address or phone number so someone can follow up with you?"
	}
	return fmt.Sprintf("Thank you for sharing all of this%s. Is there anything else you'd like to add to your report?", comma(name))
}

func spaced(name string) string {
	if name == "" {
		return ""
	}
	return " " + name
}

func comma(name string) string {
	if name == "" {
		return ""
	}
	return ", " + name
}
