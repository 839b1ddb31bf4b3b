// Package pipeline implements the intent-routed query pipeline: classify a
// question, generate SQL under a strict output contract, gate it against
// the mutating-statement denylist, execute, and (for summaries) narrate
// the aggregated results.
package pipeline

import "salesiq/internal/store"

// Intent is the classifier's label for a question. The classifier's
// response is stored verbatim, so values outside the two known labels are
// possible and route to a silent no-op terminal.
type Intent string

const (
	// IntentUnset means classification has not run.
	IntentUnset Intent = ""
	// IntentFactSQL routes to the single ad-hoc statement path.
	IntentFactSQL Intent = "FACT_SQL"
	// IntentSummary routes to the five-query executive summary path.
	IntentSummary Intent = "SUMMARY"
)

// Known reports whether the intent is one of the two routable labels.
func (i Intent) Known() bool {
	return i == IntentFactSQL || i == IntentSummary
}

// BundleKeys are the five named statements a well-formed summary bundle
// must contain, in the order they execute.
var BundleKeys = []string{
	"overall_metrics",
	"revenue_by_state",
	"revenue_by_category",
	"top_products",
	"fulfilment_split",
}

// Terminal error messages for locally recoverable conditions. These land
// in State.Err, never in a Go error.
const (
	ErrUnsafeSQL      = "Unsafe SQL detected"
	ErrInvalidSummary = "Invalid summary JSON"
)

// State is the request-scoped record one question drives through the
// pipeline. It is owned exclusively by a single Submit invocation and
// discarded after the terminal render.
//
// Exactly one of SQL / SummarySQL is populated, determined by Intent.
// Once Err is set, no later stage overwrites it and callers must not
// read the result fields.
type State struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Intent   Intent `json:"intent"`

	// Ad-hoc path
	SQL     string           `json:"sql,omitempty"`
	Results *store.ResultSet `json:"results,omitempty"`

	// Summary path. SummaryResults keys are always a subset of
	// SummarySQL keys: the gate may drop entries, never add them.
	SummarySQL     map[string]string           `json:"summary_sql,omitempty"`
	SummaryResults map[string]*store.ResultSet `json:"summary_results,omitempty"`
	FinalAnswer    string                      `json:"final_answer,omitempty"`

	Err string `json:"error,omitempty"`
}

// Failed reports whether a stage terminated the request with an error
// rendering.
func (s *State) Failed() bool {
	return s.Err != ""
}

// setErr records the first terminal error; later stages cannot overwrite.
func (s *State) setErr(msg string) {
	if s.Err == "" {
		s.Err = msg
	}
}
