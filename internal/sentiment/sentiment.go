// Package sentiment scores the emotional polarity of an utterance on a
// [-1, 1] scale using fixed lexicons.
package sentiment

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/MikeSquared-Agency/haven/internal/sanitize"
)

const (
	positiveWeight  = 0.2
	negativeWeight  = -0.4
	intensityWeight = -0.6
	contextPenalty  = -0.2
)

var (
	positive = set("help", "support", "safe", "better", "okay", "alright", "good", "fine",
		"relief", "relieved", "hope", "thanks", "thank", "calm", "ok")

	negative = set("hurt", "pain", "scared", "afraid", "terrible", "bad", "awful", "horrible",
		"attack", "assault", "violence", "abuse", "trauma", "shock", "shocked", "upset",
		"angry", "sad", "worried", "frightened", "crying", "unsafe", "nervous", "anxious")

	// Disjoint from negative; these carry an extra penalty on top of nothing else.
	intensity = set("terrified", "assaulted", "threatened", "trapped", "helpless", "powerless",
		"violated", "attacked", "stalked", "raped", "abused", "traumatised", "traumatized",
		"petrified", "hopeless")

	alone    = regexp.MustCompile(`\b(?:alone|by myself|on my own)\b`)
	disabled = regexp.MustCompile(`\b(?:wheelchair|disab(?:led|ility)|mobility)\b`)
	minor    = regexp.MustCompile(`\b(?:minor|teenager|under ?18|i'?m 1[0-7]|i am 1[0-7]|1[0-7] years? old)\b`)
)

// Score returns the sentiment of text in [-1, 1]. Negative is distressed.
// It never panics; a failure inside scoring yields 0.
func Score(text string) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = 0
		}
	}()

	s := sanitize.Fold(text)
	for _, tok := range strings.Fields(s) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if _, ok := positive[tok]; ok {
			score += positiveWeight
		}
		if _, ok := negative[tok]; ok {
			score += negativeWeight
		}
		if _, ok := intensity[tok]; ok {
			score += intensityWeight
		}
	}

	if alone.MatchString(s) {
		score += contextPenalty
	}
	if disabled.MatchString(s) {
		score += contextPenalty
	}
	if minor.MatchString(s) {
		score += contextPenalty
	}

	if math.IsNaN(score) {
		return 0
	}
	return clamp(score)
}

func clamp(score float64) float64 {
	if score < -1.0 {
		return -1.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
