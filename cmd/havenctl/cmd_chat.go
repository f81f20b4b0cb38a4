package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/haven/internal/engine"
	"github.com/MikeSquared-Agency/haven/internal/report"
	"github.com/MikeSquared-Agency/haven/internal/state"
)

var (
	chatSession string
	chatVerbose bool
)

// chatCmd holds a conversation on the terminal
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Hold a conversation with the engine on the terminal",
	Long: `Chat reads one utterance per line from stdin and prints the engine's reply.

Commands:
  /report - Show the report collected so far
  /reset  - Forget the conversation and start again
  /quit   - Leave`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session id (default: random)")
	chatCmd.Flags().BoolVar(&chatVerbose, "verbose", false, "print the full turn as JSON after each reply")
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runChat(cmd *cobra.Command, args []string) error {
	schema, err := report.LoadSchema()
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	id := chatSession
	if id == "" {
		id = uuid.NewString()
	}
	eng := engine.New(engine.Options{Logger: slog.Default()})
	return chat(cmd.Context(), eng, schema, id, cmd.InOrStdin(), cmd.OutOrStdout())
}

func chat(ctx context.Context, eng *engine.Engine, schema *report.Schema, id string, in io.Reader, out io.Writer) error {
	greeting := state.CanonicalQuestion("name", "")
	fmt.Fprintf(out, "haven> %s\n", greeting)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "/quit":
			return nil
		case "/reset":
			eng.Reset(id)
			fmt.Fprintf(out, "haven> %s\n", greeting)
			continue
		case "/report":
			printReport(out, eng, schema, id)
			continue
		}

		turn, err := eng.Process(ctx, id, line)
		if errors.Is(err, engine.ErrTurnFailed) {
			fmt.Fprintf(out, "haven> %s\n", engine.FallbackReply)
			continue
		}
		if err != nil {
			return fmt.Errorf("process: %w", err)
		}
		fmt.Fprintf(out, "haven> %s\n", turn.Response)
		if chatVerbose {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(turn); err != nil {
				return err
			}
		}
	}
}

func printReport(out io.Writer, eng *engine.Engine, schema *report.Schema, id string) {
	conv, ok := eng.Snapshot(id)
	if !ok || len(conv.Accumulated) == 0 {
		fmt.Fprintln(out, "(nothing recorded yet)")
		return
	}
	fmt.Fprintf(out, "stage: %s\n", conv.Stage)
	for _, sec := range schema.Group(conv.Accumulated) {
		fmt.Fprintf(out, "%s\n", sec.Title)
		for _, v := range sec.Values {
			fmt.Fprintf(out, "  %s: %s\n", v.Label, v.Value)
		}
	}
}
