// Package lexicon holds word lists shared by the classifier and the slot
// extractor.
package lexicon

import (
	"regexp"
	"strings"
)

var (
	timeWords = toSet(
		"yesterday", "today", "tonight", "tomorrow", "morning", "afternoon", "evening",
		"night", "week", "month", "year", "now", "then", "earlier", "later", "ago", "last",
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	)
	replyWords = toSet(
		"yes", "yeah", "yep", "yup", "no", "nope", "nah", "ok", "okay", "alright", "fine",
		"sure", "maybe", "thanks", "thank", "please", "sorry", "hello", "hi", "hey", "hmm",
		"um", "erm", "uh", "well", "so", "just", "really", "very", "not", "still", "here",
		"there", "none", "nothing", "nobody", "someone", "something", "help", "what", "why",
		"how", "when", "where", "who", "unsure", "idk", "dunno",
	)
	feelingWords = toSet(
		"scared", "afraid", "terrified", "frightened", "worried", "upset", "angry", "sad",
		"shaking", "crying", "lost", "confused", "alone", "safe", "good", "bad", "better",
		"tired", "hurt", "ill", "sick", "anxious", "nervous", "shocked", "embarrassed",
		"trying", "going", "being", "feeling", "getting", "looking", "calling", "waiting",
		"walking", "sitting", "standing", "hard", "difficult", "awful", "horrible",
		"terrible", "scary", "weird", "serious", "embarrassing", "ready", "done",
	)
	functionWords = toSet(
		"a", "an", "the", "in", "at", "on", "from", "to", "with", "by", "and", "but", "or",
		"it", "he", "she", "they", "me", "him", "her", "them", "my", "his", "their", "i",
		"im", "we", "you", "was", "is", "am", "are", "be", "been", "had", "have", "did",
		"do", "don't", "can't", "cannot", "about", "around", "near", "outside", "inside",
	)
	// Answers that name a role or a place rather than a person.
	roleWords = toSet(
		"teenager", "minor", "student", "victim", "witness", "police", "man", "woman",
		"guy", "girl", "boy", "person", "stranger", "park", "station", "street", "home",
		"school", "work", "bus", "train", "tube",
	)
)

// IsFiller reports whether word carries no report content on its own: a
// time word, a conversational reply, or a feeling.
func IsFiller(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	return inAny(w, timeWords, replyWords, feelingWords)
}

func inAny(w string, sets ...map[string]struct{}) bool {
	for _, s := range sets {
		if _, ok := s[w]; ok {
			return true
		}
	}
	return false
}

var alphaWord = regexp.MustCompile(`^[a-z][a-z'-]{1,19}$`)

// IsNameCandidate reports whether word could plausibly be a given name.
// Comparison is case-insensitive.
func IsNameCandidate(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if !alphaWord.MatchString(w) {
		return false
	}
	return !inAny(w, timeWords, replyWords, feelingWords, functionWords, roleWords)
}

var (
	affirmative = regexp.MustCompile(`^(?:yes|yeah|yep|yup|i do|i did|there (?:is|are|was|were)|correct|definitely|sure)\b`)
	negative    = regexp.MustCompile(`^(?:no|nope|nah|i don't|i do not|i didn't|none|nothing|not really|there (?:isn't|aren't|wasn't|weren't))\b`)
)

// IsAffirmative reports whether folded text opens with a yes-style answer.
func IsAffirmative(folded string) bool {
	return affirmative.MatchString(strings.TrimSpace(folded))
}

// IsNegative reports whether folded text opens with a no-style answer.
func IsNegative(folded string) bool {
	return negative.MatchString(strings.TrimSpace(folded))
}

// NumberWords maps spelled-out small numbers to their value.
var NumberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "couple of": 2, "few": 3,
}

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
