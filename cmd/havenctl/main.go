package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "havenctl",
	Short: "Local tools for the haven intake engine",
	Long: `havenctl runs the intake engine in-process, without the HTTP service.

Available subcommands:
  chat     - Hold a conversation with the engine on the terminal
  classify - Show how a single utterance is classified
  replay   - Replay a JSONL transcript and summarise the outcome`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel == "" {
			logLevel = os.Getenv("LOG_LEVEL")
		}
		setupLogging(logLevel, cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error); defaults to LOG_LEVEL, then warn")
	rootCmd.AddCommand(chatCmd, classifyCmd, replayCmd)
}

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setupLogging writes JSON logs to w, keeping stdout for command output.
func setupLogging(level string, w io.Writer) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
