package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/haven/internal/indicators"
	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/sanitize"
	"github.com/MikeSquared-Agency/haven/internal/sentiment"
)

var classifyThreshold float64

// classifyCmd classifies one utterance with no conversation context
var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Show how a single utterance is classified",
	Long: `Classify runs the sanitizer, indicator detector, sentiment scorer and
intent classifier over one utterance, with no conversation history, and
prints the result as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().Float64Var(&classifyThreshold, "threshold", intent.DefaultThreshold, "semantic similarity threshold")
}

type classifyOutput struct {
	Result     intent.Result `json:"result"`
	Semantic   intent.Match  `json:"semantic"`
	Indicators []string      `json:"indicators"`
	Sentiment  float64       `json:"sentiment"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	clean := sanitize.Clean(strings.Join(args, " "))
	ind := indicators.Detect(clean)

	index := intent.NewIndex(intent.DefaultTemplates)
	c := intent.NewClassifier(index, classifyThreshold, discard())

	out := classifyOutput{
		Result:     c.Classify(clean, ind, intent.Context{}),
		Semantic:   index.Best(sanitize.Fold(clean)),
		Indicators: ind.Names(),
		Sentiment:  sentiment.Score(clean),
	}
	if out.Indicators == nil {
		out.Indicators = []string{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
