package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/haven/internal/engine"
	"github.com/MikeSquared-Agency/haven/internal/replay"
)

var (
	replayConcurrency int
	replayState       string
	replayJSON        bool
)

// replayCmd replays a recorded transcript
var replayCmd = &cobra.Command{
	Use:   "replay <transcript.jsonl>",
	Short: "Replay a JSONL transcript and summarise the outcome",
	Long: `Replay feeds each line of a JSONL transcript ({"session_id": "...", "text": "..."})
through a fresh engine. Sessions run concurrently and turns within a session
run in order. The summary reports final stages, risk levels and failed turns.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&replayConcurrency, "concurrency", 4, "sessions replayed at once")
	replayCmd.Flags().StringVar(&replayState, "state", "", "resume file (optional)")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print the summary as JSON")
}

func runReplay(cmd *cobra.Command, args []string) error {
	t, err := replay.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parse transcript: %w", err)
	}

	eng := engine.New(engine.Options{Logger: slog.Default()})
	runner := replay.NewRunner(replay.Config{
		Concurrency: replayConcurrency,
		StatePath:   replayState,
	}, eng, slog.Default())

	sum, err := runner.Run(cmd.Context(), t)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if replayJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	fmt.Fprint(out, replay.FormatSummary(sum))
	if t.Skipped > 0 {
		fmt.Fprintf(out, "Skipped lines: %d\n", t.Skipped)
	}
	return nil
}
