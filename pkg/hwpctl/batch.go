package hwpctl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// Step is one requested operation within a batch: a registry name plus
// operation-specific parameters. Insertion order is execution order.
type Step struct {
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params,omitempty"`
}

// StepResult is the outcome of one batch step, positionally matching the
// submitted steps.
type StepResult struct {
	StepIndex   int    `json:"step_index"`
	Operation   string `json:"operation"`
	Success     bool   `json:"success"`
	ErrorDetail string `json:"error_detail,omitempty"`
	Result      any    `json:"result,omitempty"`
}

// skippedDetail marks steps never dispatched because a structural
// operation failed earlier in the batch.
const skippedDetail = "skipped: prior fatal step failed"

// operation is a registry entry. Structural operations are the ones whose
// failure leaves the document handle in an undefined state: a batch stops
// dispatching after one of them fails. Operations that replace the open
// document also invalidate the batch's active table reference when they
// succeed, since references into the previous document are dead.
type operation struct {
	structural  bool
	replacesDoc bool
	run         func(e *Executor, params map[string]any) (any, error)
}

// registry is the closed set of batch operations. Unknown names are a
// detectable per-step error, not a lookup surprise.
var registry = map[string]operation{
	"hwp_create": {structural: true, replacesDoc: true, run: func(e *Executor, _ map[string]any) (any, error) {
		return nil, e.sess.CreateDocument()
	}},
	"hwp_open": {structural: true, replacesDoc: true, run: func(e *Executor, p map[string]any) (any, error) {
		path, err := stringParam(p, "path")
		if err != nil {
			return nil, err
		}
		return nil, e.sess.Open(path)
	}},
	"hwp_save": {structural: true, run: func(e *Executor, p map[string]any) (any, error) {
		return nil, e.sess.Save(optStringParam(p, "path", ""))
	}},
	"hwp_insert_text": {run: func(e *Executor, p map[string]any) (any, error) {
		text, err := stringParam(p, "text")
		if err != nil {
			return nil, err
		}
		return nil, e.sess.InsertText(text)
	}},
	"hwp_set_font": {run: func(e *Executor, p map[string]any) (any, error) {
		return nil, e.sess.SetFont(fontParams(p))
	}},
	"hwp_move_to": {run: func(e *Executor, p map[string]any) (any, error) {
		if _, ok := p["row"]; ok {
			row, err := intParam(p, "row")
			if err != nil {
				return nil, err
			}
			col, err := intParam(p, "col")
			if err != nil {
				return nil, err
			}
			ref, err := e.requireTable()
			if err != nil {
				return nil, err
			}
			return nil, e.sess.MoveToCell(ref, row, col)
		}
		anchor, err := anchorParam(p)
		if err != nil {
			return nil, err
		}
		return nil, e.sess.MoveTo(anchor)
	}},
	"hwp_create_table": {run: func(e *Executor, p map[string]any) (any, error) {
		rows, err := intParam(p, "rows")
		if err != nil {
			return nil, err
		}
		cols, err := intParam(p, "cols")
		if err != nil {
			return nil, err
		}
		ref, err := e.sess.CreateTable(rows, cols)
		if err != nil {
			return nil, err
		}
		e.table = ref
		return ref, nil
	}},
	"hwp_fill_table_with_data": {run: func(e *Executor, p map[string]any) (any, error) {
		values, err := dataParam(p, "data")
		if err != nil {
			return nil, err
		}
		// Shape is checked before the table requirement so malformed
		// input reports as a shape failure regardless of batch state.
		if err := validateShape(values); err != nil {
			return nil, err
		}
		ref, err := e.requireTable()
		if err != nil {
			return nil, err
		}
		opts := FillOptions{
			HasHeader:     optBoolParam(p, "has_header", false),
			FromFirstCell: optBoolParam(p, "from_first_cell", true),
		}
		return nil, e.sess.FillTable(ref, values, opts)
	}},
	"hwp_fill_column_numbers": {run: func(e *Executor, p map[string]any) (any, error) {
		ref, err := e.requireTable()
		if err != nil {
			return nil, err
		}
		start, err := intParam(p, "start")
		if err != nil {
			return nil, err
		}
		end, err := intParam(p, "end")
		if err != nil {
			return nil, err
		}
		column, err := intParam(p, "column")
		if err != nil {
			return nil, err
		}
		return nil, e.sess.FillColumnNumbers(ref, start, end, column,
			optBoolParam(p, "from_first_cell", true))
	}},
	"hwp_get_text": {run: func(e *Executor, _ map[string]any) (any, error) {
		return e.sess.ExtractText()
	}},
	"hwp_batch_replace": {run: func(e *Executor, p map[string]any) (any, error) {
		repl, err := replacementsParam(p, "replacements")
		if err != nil {
			return nil, err
		}
		return e.sess.ReplaceAll(repl)
	}},
	"hwp_get_document_info": {run: func(e *Executor, _ map[string]any) (any, error) {
		return e.sess.Info(), nil
	}},
	"hwp_ping": {run: func(e *Executor, _ map[string]any) (any, error) {
		if err := e.sess.Ping(); err != nil {
			return nil, err
		}
		return "ok", nil
	}},
}

// Operations returns the registry's operation names, sorted.
func Operations() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Executor runs ordered batches of steps against one session. Steps are
// dispatched strictly sequentially: the shared cursor state makes any
// reordering observably incorrect. The executor performs no retries.
type Executor struct {
	sess   *Session
	logger *slog.Logger

	// table is the batch's active table: the reference returned by the
	// most recent hwp_create_table step. Fill and cell-addressed moves
	// resolve against it. Creating or opening a document clears it, so
	// references into a replaced document cannot be dispatched.
	table *TableRef
}

// ExecOption configures an Executor.
type ExecOption func(*Executor)

// WithExecLogger sets the executor's logger.
func WithExecLogger(logger *slog.Logger) ExecOption {
	return func(e *Executor) { e.logger = logger }
}

// NewExecutor creates an executor over a session.
func NewExecutor(sess *Session, opts ...ExecOption) *Executor {
	e := &Executor{
		sess:   sess,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes steps in order and returns one result per step, in the
// same order. A failing step records its error and execution continues,
// except when the failed operation is structural (create/open/save):
// the remaining steps are then recorded as skipped without being
// dispatched, since the document handle's state is no longer trustworthy.
func (e *Executor) Run(steps []Step) []StepResult {
	results := make([]StepResult, len(steps))
	fatal := false
	for i, step := range steps {
		res := StepResult{StepIndex: i, Operation: step.Operation}
		if fatal {
			res.ErrorDetail = skippedDetail
			results[i] = res
			continue
		}
		op, ok := registry[step.Operation]
		if !ok {
			res.ErrorDetail = ErrUnknownOperation.Error()
			e.logger.Warn("unknown batch operation", "step", i, "operation", step.Operation)
			results[i] = res
			continue
		}
		val, err := op.run(e, step.Params)
		if err != nil {
			res.ErrorDetail = err.Error()
			if op.structural {
				fatal = true
				e.logger.Error("structural step failed; skipping remainder",
					"step", i, "operation", step.Operation, "error", err)
			} else {
				e.logger.Warn("batch step failed",
					"step", i, "operation", step.Operation, "error", err)
			}
		} else {
			res.Success = true
			res.Result = val
			if op.replacesDoc {
				e.table = nil
			}
		}
		results[i] = res
	}
	return results
}

func (e *Executor) requireTable() (*TableRef, error) {
	if e.table == nil {
		return nil, errors.New("no table created in this batch")
	}
	return e.table, nil
}

// ---- parameter decoding -------------------------------------------------

func stringParam(p map[string]any, key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("missing parameter %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q: want string, got %T", key, v)
	}
	return s, nil
}

func optStringParam(p map[string]any, key, def string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return def
}

// intParam accepts JSON numbers (float64) as well as Go ints, rejecting
// fractional values.
func intParam(p map[string]any, key string) (int, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("parameter %q: %v is not an integer", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("parameter %q: want integer, got %T", key, v)
	}
}

func optBoolParam(p map[string]any, key string, def bool) bool {
	if b, ok := p[key].(bool); ok {
		return b
	}
	return def
}

// dataParam decodes a rows-of-values matrix from either decoded JSON
// ([]any of []any) or a programmatic [][]any.
func dataParam(p map[string]any, key string) ([][]any, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing parameter %q", key)
	}
	switch rows := v.(type) {
	case [][]any:
		return rows, nil
	case []any:
		out := make([][]any, 0, len(rows))
		for i, r := range rows {
			cells, ok := r.([]any)
			if !ok {
				return nil, fmt.Errorf("parameter %q: row %d is %T, want array", key, i, r)
			}
			out = append(out, cells)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parameter %q: want rows of values, got %T", key, v)
	}
}

func replacementsParam(p map[string]any, key string) (map[string]string, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing parameter %q", key)
	}
	switch m := v.(type) {
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for find, repl := range m {
			s, ok := repl.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %q: replacement for %q is %T, want string", key, find, repl)
			}
			out[find] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parameter %q: want mapping, got %T", key, v)
	}
}

func fontParams(p map[string]any) FontOptions {
	var opts FontOptions
	if n, err := intParam(p, "size"); err == nil {
		opts.Size = &n
	}
	if b, ok := p["bold"].(bool); ok {
		opts.Bold = &b
	}
	if b, ok := p["italic"].(bool); ok {
		opts.Italic = &b
	}
	if b, ok := p["underline"].(bool); ok {
		opts.Underline = &b
	}
	if s, ok := p["color"].(string); ok {
		opts.Color = &s
	}
	if s, ok := p["name"].(string); ok {
		opts.Name = &s
	}
	return opts
}

func anchorParam(p map[string]any) (Anchor, error) {
	s, err := stringParam(p, "anchor")
	if err != nil {
		return "", err
	}
	switch a := Anchor(s); a {
	case AnchorDocumentStart, AnchorDocumentEnd, AnchorCellStart, AnchorNextCell:
		return a, nil
	default:
		return "", fmt.Errorf("unknown anchor %q", s)
	}
}
