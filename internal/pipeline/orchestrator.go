package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"salesiq/internal/llm"
	"salesiq/internal/prompt"
	"salesiq/internal/safety"
	"salesiq/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Executor runs one gated statement against the sales store.
type Executor interface {
	Query(ctx context.Context, sql string) (*store.ResultSet, error)
}

// Orchestrator sequences one question through classify → generate → gate →
// execute (→ synthesize) and is the only place that decides routing.
//
// Error policy follows two tracks: locally recoverable conditions (unsafe
// ad-hoc SQL, malformed bundle JSON, unknown intent) are recorded on the
// State and never returned as Go errors; provider and store faults return
// as errors and the State should not be rendered.
type Orchestrator struct {
	llm  llm.Client
	exec Executor
	log  *zap.Logger
}

// New creates an Orchestrator. The model client and executor are injected
// once at construction and never swapped mid-request.
func New(client llm.Client, exec Executor, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{llm: client, exec: exec, log: log}
}

// Submit drives one question to a terminal state. Synchronous,
// request-at-a-time; the caller must check the returned error before the
// State, and State.Err before any result field.
func (o *Orchestrator) Submit(ctx context.Context, question string) (*State, error) {
	state := &State{
		ID:       uuid.NewString(),
		Question: question,
	}
	log := o.log.With(zap.String("request_id", state.ID))

	label, err := o.llm.Complete(ctx, prompt.Intent(question))
	if err != nil {
		return nil, fmt.Errorf("intent classification failed: %w", err)
	}
	state.Intent = Intent(strings.TrimSpace(label))
	log.Debug("classified question", zap.String("intent", string(state.Intent)))

	switch state.Intent {
	case IntentFactSQL:
		return o.runAdhoc(ctx, log, state)
	case IntentSummary:
		return o.runSummary(ctx, log, state)
	default:
		// Unknown label: terminal no-op. No answer, no error.
		log.Info("unroutable intent, ending without answer",
			zap.String("intent", string(state.Intent)))
		return state, nil
	}
}

// runAdhoc generates one statement, gates it, and executes it. An unsafe
// statement fails the whole request before anything touches the store.
func (o *Orchestrator) runAdhoc(ctx context.Context, log *zap.Logger, state *State) (*State, error) {
	raw, err := o.llm.CompleteWithSystem(ctx, prompt.Adhoc, state.Question)
	if err != nil {
		return nil, fmt.Errorf("ad-hoc generation failed: %w", err)
	}
	state.SQL = llm.CleanSQL(raw)

	if !safety.IsSafe(state.SQL) {
		log.Warn("generated statement rejected by safety gate", zap.String("sql", state.SQL))
		state.setErr(ErrUnsafeSQL)
		return state, nil
	}

	results, err := o.exec.Query(ctx, state.SQL)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	state.Results = results
	log.Debug("ad-hoc query executed", zap.Int("rows", len(results.Rows)))
	return state, nil
}

// summaryPlan is the strict output contract for the summary bundle.
type summaryPlan struct {
	Queries map[string]string `json:"queries"`
}

// runSummary parses the five-query bundle, gates each entry independently
// (unsafe entries are dropped, not fatal), executes the survivors, and
// narrates the collected results.
func (o *Orchestrator) runSummary(ctx context.Context, log *zap.Logger, state *State) (*State, error) {
	raw, err := o.llm.CompleteWithSystem(ctx, prompt.Summary, state.Question)
	if err != nil {
		return nil, fmt.Errorf("summary planning failed: %w", err)
	}

	queries, ok := parseBundle(raw)
	if !ok {
		log.Warn("summary bundle rejected", zap.String("raw", raw))
		state.setErr(ErrInvalidSummary)
		return state, nil
	}
	state.SummarySQL = queries

	state.SummaryResults = make(map[string]*store.ResultSet)
	for _, key := range BundleKeys {
		sql := queries[key]
		if !safety.IsSafe(sql) {
			// Partial-success policy: drop the entry, keep the batch.
			log.Warn("summary entry rejected by safety gate",
				zap.String("query", key), zap.String("sql", sql))
			continue
		}
		results, err := o.exec.Query(ctx, sql)
		if err != nil {
			return nil, fmt.Errorf("summary query %s failed: %w", key, err)
		}
		state.SummaryResults[key] = results
	}

	answer, err := o.llm.Complete(ctx, prompt.Insight(formatResults(state.SummaryResults)))
	if err != nil {
		return nil, fmt.Errorf("insight synthesis failed: %w", err)
	}
	state.FinalAnswer = answer
	log.Debug("summary synthesized", zap.Int("result_sets", len(state.SummaryResults)))
	return state, nil
}

// parseBundle enforces the bundle contract: valid JSON shaped
// {"queries": {...}} holding exactly the five named statements. Missing or
// extra keys are the same malformed class as unparseable text.
func parseBundle(raw string) (map[string]string, bool) {
	var plan summaryPlan
	if err := json.Unmarshal([]byte(stripFences(raw)), &plan); err != nil {
		return nil, false
	}
	if len(plan.Queries) != len(BundleKeys) {
		return nil, false
	}
	for _, key := range BundleKeys {
		if _, present := plan.Queries[key]; !present {
			return nil, false
		}
	}
	return plan.Queries, true
}

// stripFences removes a markdown code fence if the model wrapped the JSON
// despite the prompt contract.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// formatResults serializes the named result sets for literal interpolation
// into the narration template. JSON keeps map keys in a stable order.
func formatResults(results map[string]*store.ResultSet) string {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", results)
	}
	return string(data)
}
