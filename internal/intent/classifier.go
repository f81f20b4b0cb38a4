package intent

import (
	"log/slog"

	"github.com/MikeSquared-Agency/haven/internal/indicators"
	"github.com/MikeSquared-Agency/haven/internal/sanitize"
)

// DefaultThreshold is the similarity above which a semantic match is
// accepted without consulting the rules.
const DefaultThreshold = 0.7

// Classifier resolves one utterance to an intent.
type Classifier struct {
	scorer    Scorer
	threshold float64
	logger    *slog.Logger
}

// NewClassifier returns a classifier over scorer. A nil scorer leaves only
// the rule table; a non-positive threshold selects DefaultThreshold.
func NewClassifier(scorer Scorer, threshold float64, logger *slog.Logger) *Classifier {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Classifier{scorer: scorer, threshold: threshold, logger: logger}
}

// NewDefaultClassifier uses a TF-IDF index over DefaultTemplates.
func NewDefaultClassifier(threshold float64, logger *slog.Logger) *Classifier {
	return NewClassifier(NewIndex(DefaultTemplates), threshold, logger)
}

// Classify evaluates the rule table against text. It always returns a
// result; general_conversation is the floor.
func (c *Classifier) Classify(text string, ind indicators.Indicators, ctx Context) Result {
	in := &input{
		text:      sanitize.Fold(text),
		ind:       ind,
		ctx:       ctx,
		threshold: c.threshold,
	}
	in.candidate = c.semantic(in.text)

	for _, r := range rules {
		if i, conf, ok := r.match(in); ok {
			return Result{Intent: i, Confidence: conf, Source: r.source, Rule: r.name}
		}
	}
	return Result{Intent: GeneralConversation, Confidence: defaultConfidence, Source: SourceDefault}
}

// semantic consults the scorer, degrading to no candidate if it panics.
func (c *Classifier) semantic(text string) (m Match) {
	if c.scorer == nil || text == "" {
		return Match{}
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("semantic scorer failed, using rules only")
			m = Match{}
		}
	}()
	return c.scorer.Best(text)
}
