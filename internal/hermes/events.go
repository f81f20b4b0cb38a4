package hermes

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/haven/internal/engine"
	"github.com/MikeSquared-Agency/haven/internal/risk"
)

const (
	// SubjectTurnProcessed carries a content-free summary of every turn.
	SubjectTurnProcessed = "haven.turn.processed"
	// SubjectSafeguardingAlert is published when a turn assesses as high risk.
	SubjectSafeguardingAlert = "haven.safeguarding.alert"
	// SubjectSessionReset asks the service to forget a session.
	SubjectSessionReset = "haven.session.reset"
)

// SafeguardingAlert flags a session for human follow-up. It never carries
// what the person said.
type SafeguardingAlert struct {
	SessionID     string    `json:"session_id"`
	ResponseID    string    `json:"response_id"`
	RiskScore     int       `json:"risk_score"`
	Stage         string    `json:"stage"`
	Indicators    []string  `json:"indicators"`
	ComplexTrauma bool      `json:"complex_trauma"`
	RaisedAt      time.Time `json:"raised_at"`
}

// ResetRequest is the payload expected on SubjectSessionReset.
type ResetRequest struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason,omitempty"`
}

type publisher interface {
	Publish(subject string, data any) error
}

// Notifier forwards engine turn events to NATS.
type Notifier struct {
	pub    publisher
	now    func() time.Time
	logger *slog.Logger
}

func NewNotifier(pub publisher, logger *slog.Logger) *Notifier {
	return &Notifier{pub: pub, now: time.Now, logger: logger}
}

// TurnProcessed implements engine.Observer.
func (n *Notifier) TurnProcessed(_ context.Context, ev engine.TurnEvent) {
	if err := n.pub.Publish(SubjectTurnProcessed, ev); err != nil {
		n.logger.Warn("publish turn event failed", "session_id", ev.SessionID, "error", err)
	}
	if ev.RiskLevel != risk.High {
		return
	}

	alert := SafeguardingAlert{
		SessionID:     ev.SessionID,
		ResponseID:    ev.ResponseID,
		RiskScore:     ev.RiskScore,
		Stage:         string(ev.Stage),
		Indicators:    ev.Indicators,
		ComplexTrauma: ev.ComplexTrauma,
		RaisedAt:      n.now().UTC(),
	}
	if err := n.pub.Publish(SubjectSafeguardingAlert, alert); err != nil {
		n.logger.Error("publish safeguarding alert failed", "session_id", ev.SessionID, "error", err)
		return
	}
	n.logger.Warn("safeguarding alert raised", "session_id", ev.SessionID, "risk_score", ev.RiskScore)
}

// Resetter forgets a session.
type Resetter interface {
	Reset(sessionID string) bool
}

// ResetHandler returns a Subscribe handler that resets the named session.
func ResetHandler(r Resetter, logger *slog.Logger) func(subject string, data []byte) {
	return func(subject string, data []byte) {
		var req ResetRequest
		if err := json.Unmarshal(data, &req); err != nil {
			logger.Warn("invalid reset request", "subject", subject, "error", err)
			return
		}
		if req.SessionID == "" {
			logger.Warn("reset request without session id", "subject", subject)
			return
		}
		found := r.Reset(req.SessionID)
		logger.Info("reset requested", "session_id", req.SessionID, "found", found, "reason", req.Reason)
	}
}
