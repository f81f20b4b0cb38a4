package replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/haven/internal/engine"
	"github.com/MikeSquared-Agency/haven/internal/risk"
	"github.com/MikeSquared-Agency/haven/internal/state"
)

// Processor is the part of the engine a replay drives.
type Processor interface {
	Process(ctx context.Context, sessionID, text string) (*engine.Turn, error)
	Snapshot(sessionID string) (*state.Conversation, bool)
}

// Config holds replay settings.
type Config struct {
	Concurrency int    // sessions replayed at once (default: 4)
	StatePath   string // optional: resume file
}

// Summary aggregates the outcome of a replay. It carries no content.
type Summary struct {
	Sessions         int            `json:"sessions"`
	SessionsSkipped  int            `json:"sessions_skipped"`
	Turns            int            `json:"turns"`
	Failures         int            `json:"failures"`
	Stages           map[string]int `json:"stages"`
	RiskLevels       map[string]int `json:"risk_levels"`
	Rules            map[string]int `json:"rules"`
	HighRiskSessions []string       `json:"high_risk_sessions"`
}

func newSummary() *Summary {
	return &Summary{
		Stages:     make(map[string]int),
		RiskLevels: make(map[string]int),
		Rules:      make(map[string]int),
	}
}

// Runner replays transcripts through a Processor.
type Runner struct {
	cfg    Config
	proc   Processor
	logger *slog.Logger
}

func NewRunner(cfg Config, proc Processor, logger *slog.Logger) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Runner{cfg: cfg, proc: proc, logger: logger}
}

// Run replays every session in t. Sessions run concurrently; turns within a
// session run in order. A failed turn is counted and the session continues.
func (r *Runner) Run(ctx context.Context, t *Transcript) (*Summary, error) {
	st, err := LoadState(r.cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	var (
		mu  sync.Mutex
		sum = newSummary()
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for _, sess := range t.Sessions {
		sess := sess
		if st.IsProcessed(sess.ID) {
			sum.SessionsSkipped++
			continue
		}
		g.Go(func() error {
			res, err := r.replaySession(gctx, sess)
			if err != nil {
				return err
			}
			mu.Lock()
			sum.add(res)
			mu.Unlock()
			for _, e := range res.errors {
				st.AddError(e)
			}
			st.MarkProcessed(sess.ID)
			return nil
		})
	}

	err = g.Wait()
	if saveErr := st.Save(); saveErr != nil {
		r.logger.Warn("failed to save replay state", "error", saveErr)
	}
	if err != nil {
		return sum, fmt.Errorf("replay interrupted: %w", err)
	}
	sort.Strings(sum.HighRiskSessions)

	r.logger.Info("replay complete",
		"sessions", sum.Sessions,
		"skipped", sum.SessionsSkipped,
		"turns", sum.Turns,
		"failures", sum.Failures,
		"skipped_lines", t.Skipped,
	)
	return sum, nil
}

type sessionResult struct {
	id       string
	turns    int
	failures int
	stage    string
	highRisk bool
	risks    map[string]int
	rules    map[string]int
	errors   []string
}

func (r *Runner) replaySession(ctx context.Context, sess Session) (*sessionResult, error) {
	res := &sessionResult{id: sess.ID, risks: make(map[string]int), rules: make(map[string]int)}
	for i, text := range sess.Texts {
		turn, err := r.proc.Process(ctx, sess.ID, text)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if err != nil {
			res.failures++
			res.errors = append(res.errors, fmt.Sprintf("%s turn %d: %v", sess.ID, i+1, err))
			r.logger.Warn("replayed turn failed", "session_id", sess.ID, "turn", i+1, "error", err)
			continue
		}
		res.turns++
		res.risks[string(turn.RiskLevel)]++
		res.rules[turn.ResponseRule]++
		if turn.RiskLevel == risk.High {
			res.highRisk = true
		}
	}
	if conv, ok := r.proc.Snapshot(sess.ID); ok {
		res.stage = string(conv.Stage)
	}
	return res, nil
}

func (s *Summary) add(res *sessionResult) {
	s.Sessions++
	s.Turns += res.turns
	s.Failures += res.failures
	if res.stage != "" {
		s.Stages[res.stage]++
	}
	for k, v := range res.risks {
		s.RiskLevels[k] += v
	}
	for k, v := range res.rules {
		s.Rules[k] += v
	}
	if res.highRisk {
		s.HighRiskSessions = append(s.HighRiskSessions, res.id)
	}
}

// FormatSummary renders s for a terminal.
func FormatSummary(s *Summary) string {
	var sb strings.Builder
	sb.WriteString("=== Replay Summary ===\n")
	fmt.Fprintf(&sb, "Sessions replayed: %d (skipped %d)\n", s.Sessions, s.SessionsSkipped)
	fmt.Fprintf(&sb, "Turns processed: %d\n", s.Turns)
	fmt.Fprintf(&sb, "Failed turns: %d\n", s.Failures)
	writeCounts(&sb, "Final stages", s.Stages)
	writeCounts(&sb, "Risk levels", s.RiskLevels)
	writeCounts(&sb, "Response rules", s.Rules)
	if len(s.HighRiskSessions) > 0 {
		fmt.Fprintf(&sb, "High-risk sessions: %s\n", strings.Join(s.HighRiskSessions, ", "))
	}
	return sb.String()
}

func writeCounts(sb *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(sb, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(sb, "  - %s: %d\n", k, counts[k])
	}
}
