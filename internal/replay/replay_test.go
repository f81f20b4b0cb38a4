package replay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/haven/internal/engine"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine() *engine.Engine {
	return engine.New(engine.Options{
		Now:        func() time.Time { return time.Date(2026, time.October, 17, 14, 0, 0, 0, time.UTC) },
		SessionTTL: time.Hour,
		Logger:     discardLogger(),
	})
}

const sample = `{"session_id":"a","text":"Hi, I'm Dorothy"}
{"session_id":"b","text":"my name is Jane"}

not json
{"text":"no session"}
{"session_id":"a","text":"I'm 15"}
{"session_id":"b","text":"I'm 34"}
{"session_id":"a","text":"A man came up to me and wouldn't let me leave"}
`

func TestParseTranscript(t *testing.T) {
	tr, err := ParseTranscript(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ParseTranscript failed: %v", err)
	}
	if len(tr.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(tr.Sessions))
	}
	if tr.Sessions[0].ID != "a" || tr.Sessions[1].ID != "b" {
		t.Errorf("sessions out of order: %s, %s", tr.Sessions[0].ID, tr.Sessions[1].ID)
	}
	if got := tr.Sessions[0].Texts; len(got) != 3 || got[1] != "I'm 15" {
		t.Errorf("session a texts = %v", got)
	}
	if tr.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", tr.Skipped)
	}
	if tr.Turns() != 5 {
		t.Errorf("turns = %d, want 5", tr.Turns())
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunner_Run(t *testing.T) {
	tr, err := ParseTranscript(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ParseTranscript failed: %v", err)
	}

	sum, err := NewRunner(Config{Concurrency: 2}, newTestEngine(), discardLogger()).Run(context.Background(), tr)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sum.Sessions != 2 || sum.Turns != 5 || sum.Failures != 0 {
		t.Errorf("unexpected summary %+v", sum)
	}
	total := 0
	for _, n := range sum.Stages {
		total += n
	}
	if total != 2 {
		t.Errorf("stages counted %d sessions, want 2", total)
	}
	if sum.Rules["complex_trauma"] != 1 {
		t.Errorf("rules = %v, want one complex_trauma reply", sum.Rules)
	}

	out := FormatSummary(sum)
	for _, want := range []string{"Sessions replayed: 2", "Turns processed: 5", "Final stages:"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Dorothy") {
		t.Error("summary leaks conversation content")
	}
}

type flakyProcessor struct {
	*engine.Engine
	failOn string
}

func (f flakyProcessor) Process(ctx context.Context, id, text string) (*engine.Turn, error) {
	if text == f.failOn {
		return nil, engine.ErrTurnFailed
	}
	return f.Engine.Process(ctx, id, text)
}

func TestRunner_FailedTurnsAreCounted(t *testing.T) {
	tr, err := ParseTranscript(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ParseTranscript failed: %v", err)
	}
	proc := flakyProcessor{Engine: newTestEngine(), failOn: "I'm 34"}

	sum, err := NewRunner(Config{}, proc, discardLogger()).Run(context.Background(), tr)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sum.Failures != 1 || sum.Turns != 4 {
		t.Errorf("failures = %d turns = %d, want 1 and 4", sum.Failures, sum.Turns)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	tr, err := ParseTranscript(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ParseTranscript failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewRunner(Config{}, newTestEngine(), discardLogger()).Run(ctx, tr)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunner_ResumesFromState(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "replay-state.json")
	tr, err := ParseTranscript(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ParseTranscript failed: %v", err)
	}

	first, err := NewRunner(Config{StatePath: statePath}, newTestEngine(), discardLogger()).Run(context.Background(), tr)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Sessions != 2 {
		t.Fatalf("first run sessions = %d", first.Sessions)
	}

	second, err := NewRunner(Config{StatePath: statePath}, newTestEngine(), discardLogger()).Run(context.Background(), tr)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Sessions != 0 || second.SessionsSkipped != 2 {
		t.Errorf("second run = %+v, want everything skipped", second)
	}
}

func TestState_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	s.MarkProcessed("a")
	s.MarkProcessed("a")
	s.MarkProcessed("b")
	s.AddError("b turn 2: turn could not be processed")
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("state file not created: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !loaded.IsProcessed("a") || !loaded.IsProcessed("b") || loaded.IsProcessed("c") {
		t.Errorf("processed = %v", loaded.SessionsProcessed)
	}
	if len(loaded.SessionsProcessed) != 2 {
		t.Errorf("duplicate entries: %v", loaded.SessionsProcessed)
	}
	if len(loaded.Errors) != 1 {
		t.Errorf("errors = %v", loaded.Errors)
	}
}

func TestState_InMemory(t *testing.T) {
	s, err := LoadState("")
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	s.MarkProcessed("a")
	if err := s.Save(); err != nil {
		t.Errorf("in-memory Save should be a no-op, got %v", err)
	}
}

var _ Processor = (*engine.Engine)(nil)
