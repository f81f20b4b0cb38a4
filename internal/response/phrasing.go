package response

import (
	"fmt"

	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/risk"
	"github.com/MikeSquared-Agency/haven/internal/state"
)

const noRush = "There's no rush. "

// paraphrases returns the alternatives to the canonical question for topic.
func paraphrases(topic, name string) []string {
	switch topic {
	case "name":
		return []string{
			"Could you tell me your first name? Just a first name is fine.",
			"What would you like me to call you?",
		}
	case "age":
		return []string{
			fmt.Sprintf("Could you tell me how old you are%s? It helps us make sure you get the right support.", comma(name)),
			"May I ask your age? This helps us point you to the right support.",
		}
	case "timing":
		return []string{
			"Do you remember roughly when this was? A day or a time of day is enough.",
			"When did this take place? It's okay if you're not sure of the exact time.",
		}
	case "location":
		return []string{
			"Can you tell me roughly where you were when this happened?",
			"Whereabouts did this take place? A street, station or area name is fine.",
		}
	case "narrative":
		return []string{
			"When you're ready, could you describe what happened? Share only what you feel comfortable with.",
			"Would you be able to tell me a little about what they did? There's no pressure to share everything.",
		}
	case "evidence":
		return []string{
			"Did you take any photos or videos, or might there be CCTV or camera footage nearby?",
			"Is there anything that might help show the incident, such as messages, pictures or security cameras?",
		}
	case "witnesses":
		return []string{
			"Did anyone else see or hear anything?",
			"Were there other people nearby at the time, such as passers-by or friends?",
		}
	case "suspect":
		return []string{
			"Do you know who the person was, or could you describe them?",
			"Is there anything you remember about them, like their age, clothing or a vehicle?",
		}
	case "contact":
		return []string{
			"Is there an email address or phone number we could use to follow up, if you'd like us to?",
			"Would you like to leave a way for us to contact you, such as an email or phone number?",
		}
	}
	return []string{
		"Is there anything else you'd like to add?",
		"Is there any other detail you'd like included in your report?",
	}
}

// variants lists every wording for topic, canonical first.
func variants(topic, name string) []string {
	base := append([]string{state.CanonicalQuestion(topic, name)}, paraphrases(topic, name)...)
	out := make([]string, 0, 2*len(base))
	out = append(out, base...)
	for _, b := range base {
		out = append(out, noRush+b)
	}
	return out
}

// pick returns the first wording not asked recently, or the one asked
// longest ago when all of them were.
func pick(options []string, c *state.Conversation) string {
	for _, o := range options {
		if !c.AskedRecently(o) {
			return o
		}
	}
	oldest, at := options[0], len(c.RecentQuestions)
	for _, o := range options {
		for i, r := range c.RecentQuestions {
			if r == o && i < at {
				oldest, at = o, i
			}
		}
	}
	return oldest
}

func comma(name string) string {
	if name == "" {
		return ""
	}
	return ", " + name
}

// Acknowledgements.
const (
	probeDefault  = "I understand someone approached you. Can you tell me what happened when they came up to you? What did they do or say?"
	probeVerbal   = "It sounds like they said something to you. Can you tell me what they said, and whether they did anything else? Only share what you're comfortable with."
	probePhysical = "I'm sorry they did that. Can you tell me a bit more about how they touched or grabbed you? Only share what you feel able to."

	ackViolence = "I'm so sorry they hurt you. That should never have happened to you."
	ackThreats  = "Thank you for telling me about the threats. That must have been really frightening."
	ackMore     = "Thank you for telling me more."

	traumaEntrapment = "That sounds really frightening. Being stopped from leaving is serious, and it wasn't your fault. When you're ready, can you tell me more about what they did?"
	traumaStalking   = "Being followed or watched is frightening, and you're right to report it. Can you tell me more about when you first noticed them?"
	traumaThreats    = "Being threatened is serious and I'm glad you're telling me. Can you tell me more about what they said they would do?"

	minorAlone           = "Thank you for telling me. Being young and on your own can make something like this really frightening, and none of it is your fault. You're safe to talk here. Can you tell me what happened?"
	minorAloneDisabled   = "Thank you for telling me. Being young, on your own and living with a disability can make something like this even harder, and none of it is your fault. You're safe to talk here. Can you tell me what happened?"
	minorAloneWheelchair = "Thank you for telling me. Being young, on your own and in a wheelchair can make something like this even harder, and none of it is your fault. You're safe to talk here. Can you tell me what happened?"

	contactNoted = "Thank you%s. I've noted how we can reach you."
	addMore      = "Is there anything else you'd like to add to your report?"

	// Fallback is used when nothing more specific applies.
	Fallback = "I'm here to listen and help. Can you tell me more about what you'd like to discuss?"
)

type riskKey struct {
	intent intent.Intent
	level  risk.Level
}

var riskResponses = map[riskKey]string{
	{intent.RequestHelp, risk.High}:            "If you're in immediate danger, please call 999 now. I'm here with you, and we can keep going whenever you're ready.",
	{intent.RequestHelp, risk.Medium}:          "I'm here to help. Can you tell me a bit more about what you need right now?",
	{intent.RequestHelp, risk.Low}:             "I'm here to help. Can you tell me a bit more about what you need right now?",
	{intent.ReportIncident, risk.High}:         "Thank you for trusting me with this. You're safe to talk here and none of this is your fault. If you're in immediate danger, please call 999.",
	{intent.ReportIncident, risk.Medium}:       "Thank you for telling me. Take your time, I'm listening.",
	{intent.VulnerabilityContext, risk.High}:   "Thank you for letting me know. Your safety matters most. If you're in danger right now, please call 999.",
	{intent.VulnerabilityContext, risk.Medium}: "Thank you for letting me know. That helps us make sure you get the right support.",
	{intent.VulnerabilityContext, risk.Low}:    "Thank you for letting me know. That helps us make sure you get the right support.",
	{intent.GeneralConversation, risk.High}:    "I'm here with you. If you're in danger right now, please call 999. Otherwise we can carry on whenever you're ready.",
	{intent.GeneralConversation, risk.Low}:     "Thank you. Is there anything else you'd like to tell me?",
}
