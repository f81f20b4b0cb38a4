// Package slots pulls structured report fields out of a single utterance.
package slots

import (
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/haven/internal/indicators"
	"github.com/MikeSquared-Agency/haven/internal/intent"
	"github.com/MikeSquared-Agency/haven/internal/report"
	"github.com/MikeSquared-Agency/haven/internal/sanitize"
)

// Extractor runs the extraction routines relevant to a resolved intent.
type Extractor struct {
	now    func() time.Time
	logger *slog.Logger
}

// New returns an extractor that resolves relative dates against the wall
// clock.
func New(logger *slog.Logger) *Extractor {
	return NewWithClock(time.Now, logger)
}

// NewWithClock returns an extractor with an injected clock.
func NewWithClock(now func() time.Time, logger *slog.Logger) *Extractor {
	return &Extractor{now: now, logger: logger}
}

// turn is the working set for one extraction call.
type turn struct {
	raw    string // apostrophes straightened, case preserved
	folded string
	intent intent.Intent
	ind    indicators.Indicators
	known  report.Fields
	out    report.Fields
	now    time.Time
}

// set records a value unless the field is already known or was set earlier
// in this turn.
func (t *turn) set(key, value string) {
	if value == "" || t.known.Has(key) || t.out.Has(key) {
		return
	}
	t.out[key] = value
}

func (t *turn) has(key string) bool {
	return t.known.Has(key) || t.out.Has(key)
}

type routine func(t *turn)

var routines = map[string]routine{
	"name":          extractName,
	"age":           extractAge,
	"timing":        extractTiming,
	"location":      extractLocation,
	"narrative":     extractNarrative,
	"vulnerability": extractVulnerability,
	"contact":       extractContact,
	"evidence":      extractEvidence,
	"witnesses":     extractWitnesses,
	"suspect":       extractSuspect,
	"transport":     extractTransport,
	"trauma":        extractTraumaType,
}

var byIntent = map[intent.Intent][]string{
	intent.ProvideName:               {"name", "age"},
	intent.ProvideAge:                {"age"},
	intent.ProvideTiming:             {"timing"},
	intent.ProvideLocation:           {"location", "transport"},
	intent.IncidentNarrative:         {"narrative", "location", "timing"},
	intent.ReportIncident:            {"narrative", "location", "timing"},
	intent.ContinueIncidentNarrative: {"narrative", "location", "timing", "suspect"},
	intent.VulnerabilityContext:      {"age"},
	intent.ProvideEvidence:           {"evidence"},
	intent.ProvideWitnesses:          {"witnesses"},
	intent.ProvideSuspect:            {"suspect"},
	intent.ProvidePublicTransport:    {"transport", "location"},
	intent.RequestHelp:               {"age"},
}

// Cheap, unambiguous routines that run whatever the intent.
var fallback = []string{"contact", "vulnerability", "trauma"}

// Extract returns the fields found in text that are not already in known.
// A failing routine is skipped; the others still run.
func (e *Extractor) Extract(text string, in intent.Intent, ind indicators.Indicators, known report.Fields) report.Fields {
	if known == nil {
		known = report.Fields{}
	}
	t := &turn{
		raw:    sanitize.Straighten(text),
		folded: sanitize.Fold(text),
		intent: in,
		ind:    ind,
		known:  known,
		out:    report.Fields{},
		now:    e.now(),
	}
	if t.folded == "" {
		return t.out
	}

	ran := make(map[string]bool)
	for _, name := range append(append([]string{}, byIntent[in]...), fallback...) {
		if ran[name] {
			continue
		}
		ran[name] = true
		e.run(name, t)
	}
	return t.out
}

func (e *Extractor) run(name string, t *turn) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("extraction routine failed", "routine", name, "intent", string(t.intent))
		}
	}()
	routines[name](t)
}
