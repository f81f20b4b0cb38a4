// Package engine runs one conversational turn through the full pipeline:
// sanitize, detect, classify, extract, merge, assess and respond.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/haven/internal/indicators"
	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/report"
	"github.com/MikeSquared-Agency/haven/internal/response"
	"github.com/MikeSquared-Agency/haven/internal/risk"
	"github.com/MikeSquared-Agency/haven/internal/sanitize"
	"github.com/MikeSquared-Agency/haven/internal/sentiment"
	"github.com/MikeSquared-Agency/haven/internal/slots"
	"github.com/MikeSquared-Agency/haven/internal/state"
)

var (
	// ErrNoSession is returned when no session id is supplied.
	ErrNoSession = errors.New("session id is required")
	// ErrTurnFailed means the turn could not be processed. The session is
	// left as it was; callers reply with FallbackReply.
	ErrTurnFailed = errors.New("turn could not be processed")
)

// FallbackReply is sent when a turn fails.
const FallbackReply = "I'm here with you. Please feel free to continue whenever you're ready."

const (
	confidenceStep = 0.05
	confidenceCap  = 0.95
)

// Turn is the result of processing one utterance.
type Turn struct {
	SessionID       string                `json:"session_id"`
	ResponseID      string                `json:"response_id"`
	Sentiment       float64               `json:"sentiment"`
	Intent          intent.Intent         `json:"intent"`
	IntentSource    intent.Source         `json:"intent_source"`
	ExtractedFields report.Fields         `json:"extracted_fields"`
	RiskLevel       risk.Level            `json:"risk_level"`
	RiskScore       int                   `json:"risk_score"`
	Response        string                `json:"response"`
	ResponseRule    string                `json:"response_rule"`
	Indicators      indicators.Indicators `json:"indicators"`
	Confidence      float64               `json:"confidence"`
	NextQuestion    string                `json:"next_question"`
	Progress        state.Progress        `json:"progress"`
	Stage           state.Stage           `json:"stage"`
}

// TurnEvent describes a processed turn without any of its content.
type TurnEvent struct {
	SessionID      string        `json:"session_id"`
	ResponseID     string        `json:"response_id"`
	Intent         intent.Intent `json:"intent"`
	IntentSource   intent.Source `json:"intent_source"`
	Confidence     float64       `json:"confidence"`
	RiskLevel      risk.Level    `json:"risk_level"`
	RiskScore      int           `json:"risk_score"`
	Stage          state.Stage   `json:"stage"`
	Rule           string        `json:"rule"`
	Fields         []string      `json:"fields"`
	Indicators     []string      `json:"indicators"`
	ComplexTrauma  bool          `json:"complex_trauma"`
	Duration       time.Duration `json:"duration_ns"`
	ActiveSessions int           `json:"active_sessions"`
}

// Observer is notified after every successful turn. Implementations must
// not block.
type Observer interface {
	TurnProcessed(ctx context.Context, ev TurnEvent)
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Now        func() time.Time
	Threshold  float64
	Scorer     intent.Scorer
	SessionTTL time.Duration
	Observers  []Observer
	Logger     *slog.Logger
}

// Engine processes turns for many concurrent sessions.
type Engine struct {
	store      *state.Store
	classifier *intent.Classifier
	extractor  *slots.Extractor
	selector   *response.Selector
	observers  []Observer
	logger     *slog.Logger
}

// New builds an engine with its own session store.
func New(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scorer == nil {
		opts.Scorer = intent.NewIndex(intent.DefaultTemplates)
	}
	return &Engine{
		store:      state.NewStoreWithClock(opts.SessionTTL, opts.Now, opts.Logger),
		classifier: intent.NewClassifier(opts.Scorer, opts.Threshold, opts.Logger),
		extractor:  slots.NewWithClock(opts.Now, opts.Logger),
		selector:   response.NewSelector(opts.Logger),
		observers:  opts.Observers,
		logger:     opts.Logger,
	}
}

// AddObserver registers o for subsequent turns. It is not safe to call
// concurrently with Process.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Sessions exposes the session store, for expiry and inspection.
func (e *Engine) Sessions() *state.Store {
	return e.store
}

// Process runs text through the pipeline for sessionID. On ErrTurnFailed the
// session keeps its previous state.
func (e *Engine) Process(ctx context.Context, sessionID, text string) (*Turn, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	turn, ev, err := e.processSession(sessionID, text)
	if err != nil {
		e.logger.Error("turn failed", "session_id", sessionID, "error", err)
		return nil, err
	}
	ev.Duration = time.Since(start)
	ev.ActiveSessions = e.store.Len()

	e.logger.Info("turn processed",
		"session_id", sessionID,
		"intent", string(turn.Intent),
		"source", string(turn.IntentSource),
		"confidence", turn.Confidence,
		"risk", string(turn.RiskLevel),
		"stage", string(turn.Stage),
		"rule", turn.ResponseRule,
		"fields", ev.Fields,
	)
	for _, o := range e.observers {
		o.TurnProcessed(ctx, ev)
	}
	return turn, nil
}

func (e *Engine) processSession(sessionID, text string) (turn *Turn, ev TurnEvent, err error) {
	sess := e.store.Acquire(sessionID)
	defer sess.Release()
	defer func() {
		if r := recover(); r != nil {
			turn, ev, err = nil, TurnEvent{}, ErrTurnFailed
		}
	}()

	conv := sess.Conversation()
	turn, ev = e.step(conv, text)
	turn.SessionID = sessionID
	ev.SessionID = sessionID
	sess.Commit(conv)
	return turn, ev, nil
}

// step mutates conv with one turn.
func (e *Engine) step(conv *state.Conversation, text string) (*Turn, TurnEvent) {
	clean := sanitize.Clean(text)
	ind := indicators.Detect(clean)
	score := sentiment.Score(clean)
	before := conv.Clone()

	res := e.classifier.Classify(clean, ind, conv.IntentContext())
	extracted := e.extractor.Extract(clean, res.Intent, ind, conv.Accumulated)
	added := conv.Merge(extracted)
	if ind.ComplexTrauma {
		conv.ComplexTrauma = true
	}

	assessment := risk.Assess(risk.Input{
		Indicators:  ind,
		Intent:      res.Intent,
		Extracted:   extracted,
		Accumulated: conv.Accumulated,
	})

	out := e.selector.Select(response.Input{
		Text:       clean,
		Intent:     res.Intent,
		Indicators: ind,
		Risk:       assessment.Level,
		Before:     before,
		After:      conv,
		Added:      added,
	})
	conv.RecordQuestion(out.Question)
	conv.LastIntent = res.Intent
	conv.Turns++

	turn := &Turn{
		ResponseID:      uuid.NewString(),
		Sentiment:       score,
		Intent:          res.Intent,
		IntentSource:    res.Source,
		ExtractedFields: extracted,
		RiskLevel:       assessment.Level,
		RiskScore:       assessment.Score,
		Response:        out.Text,
		ResponseRule:    out.Rule,
		Indicators:      ind,
		Confidence:      turnConfidence(res.Confidence, len(added)),
		NextQuestion:    conv.NextQuestion().Text,
		Progress:        conv.Progress,
		Stage:           conv.Stage,
	}
	ev := TurnEvent{
		ResponseID:    turn.ResponseID,
		Intent:        turn.Intent,
		IntentSource:  turn.IntentSource,
		Confidence:    turn.Confidence,
		RiskLevel:     turn.RiskLevel,
		RiskScore:     turn.RiskScore,
		Stage:         turn.Stage,
		Rule:          turn.ResponseRule,
		Fields:        added,
		Indicators:    ind.Names(),
		ComplexTrauma: conv.ComplexTrauma,
	}
	return turn, ev
}

// turnConfidence raises the classifier's confidence for each field the turn
// added, without letting the bonus push it past the cap.
func turnConfidence(base float64, added int) float64 {
	c := base + confidenceStep*float64(added)
	if added > 0 && c > confidenceCap {
		c = math.Max(confidenceCap, base)
	}
	return math.Max(0, math.Min(c, 1))
}

// Reset discards sessionID's state. Unknown sessions are a no-op.
func (e *Engine) Reset(sessionID string) bool {
	ok := e.store.Reset(sessionID)
	if ok {
		e.logger.Info("session reset", "session_id", sessionID)
	}
	return ok
}

// Snapshot returns a copy of sessionID's conversation.
func (e *Engine) Snapshot(sessionID string) (*state.Conversation, bool) {
	return e.store.Snapshot(sessionID)
}
