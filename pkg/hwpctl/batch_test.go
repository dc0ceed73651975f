package hwpctl_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hwp-tools/hwpctl/pkg/hwpctl"
	"github.com/hwp-tools/hwpctl/pkg/hwpctl/memhost"
)

// newTestExecutor returns an executor over a connected session. The
// document is not created; batches usually start with hwp_create.
func newTestExecutor(t *testing.T) (*hwpctl.Executor, *memhost.Host) {
	t.Helper()
	host := memhost.New()
	sess := hwpctl.NewSession(host)
	if err := sess.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return hwpctl.NewExecutor(sess), host
}

func TestBatchReportCompleteness(t *testing.T) {
	exec, _ := newTestExecutor(t)

	steps := []hwpctl.Step{
		{Operation: "hwp_create"},
		{Operation: "hwp_insert_text", Params: map[string]any{"text": "hello"}},
		{Operation: "hwp_ping"},
	}
	results := exec.Run(steps)
	if len(results) != len(steps) {
		t.Fatalf("Expected %d results, got %d", len(steps), len(results))
	}
	for i, res := range results {
		if res.StepIndex != i {
			t.Errorf("Result %d has step_index %d", i, res.StepIndex)
		}
		if res.Operation != steps[i].Operation {
			t.Errorf("Result %d reports operation %q, want %q", i, res.Operation, steps[i].Operation)
		}
		if !res.Success {
			t.Errorf("Step %d failed: %s", i, res.ErrorDetail)
		}
	}
}

func TestBatchNonStructuralFailureContinues(t *testing.T) {
	exec, host := newTestExecutor(t)
	savePath := filepath.Join(t.TempDir(), "out.hwp")

	steps := []hwpctl.Step{
		{Operation: "hwp_create"},
		{Operation: "hwp_insert_text", Params: map[string]any{"text": "A"}},
		{Operation: "hwp_create_table", Params: map[string]any{"rows": 2, "cols": 2}},
		{Operation: "hwp_fill_table_with_data", Params: map[string]any{
			"data": []any{[]any{"a", "b"}, []any{"c"}}, // ragged
		}},
		{Operation: "hwp_set_font", Params: map[string]any{"size": 20}},
		{Operation: "hwp_save", Params: map[string]any{"path": savePath}},
	}
	results := exec.Run(steps)

	if results[3].Success {
		t.Error("Ragged fill should fail")
	}
	if !strings.Contains(results[3].ErrorDetail, "ragged") {
		t.Errorf("Fill failure detail %q should mention ragged input", results[3].ErrorDetail)
	}
	for _, i := range []int{0, 1, 2, 4, 5} {
		if !results[i].Success {
			t.Errorf("Step %d should succeed, got %q", i, results[i].ErrorDetail)
		}
	}
	if host.TableCount() != 1 {
		t.Errorf("Expected 1 table, got %d", host.TableCount())
	}
}

func TestBatchRaggedFillWithoutTable(t *testing.T) {
	exec, _ := newTestExecutor(t)
	savePath := filepath.Join(t.TempDir(), "out.hwp")

	// Malformed fill input reports as a shape failure even when no
	// table exists yet, and the batch keeps going.
	steps := []hwpctl.Step{
		{Operation: "hwp_create"},
		{Operation: "hwp_insert_text", Params: map[string]any{"text": "A"}},
		{Operation: "hwp_fill_table_with_data", Params: map[string]any{
			"data": []any{[]any{"a", "b"}, []any{"c"}},
		}},
		{Operation: "hwp_set_font", Params: map[string]any{"size": 20}},
		{Operation: "hwp_save", Params: map[string]any{"path": savePath}},
	}
	results := exec.Run(steps)

	if results[2].Success || !strings.Contains(results[2].ErrorDetail, "ragged") {
		t.Errorf("Fill result = %+v, want ragged-input failure", results[2])
	}
	if !results[3].Success || !results[4].Success {
		t.Errorf("set_font/save should still run: %+v, %+v", results[3], results[4])
	}
}

func TestBatchStructuralFailureSkipsRemainder(t *testing.T) {
	exec, host := newTestExecutor(t)

	// If a skipped step were dispatched anyway, this injection would
	// change its error detail.
	host.FailOn("InsertText", 1, errors.New("must never be dispatched"))

	steps := []hwpctl.Step{
		{Operation: "hwp_open", Params: map[string]any{"path": filepath.Join(t.TempDir(), "missing.hwp")}},
		{Operation: "hwp_insert_text", Params: map[string]any{"text": "A"}},
		{Operation: "hwp_save", Params: map[string]any{"path": "out.hwp"}},
	}
	results := exec.Run(steps)

	if results[0].Success {
		t.Fatal("Opening a missing file should fail")
	}
	if !strings.Contains(results[0].ErrorDetail, "document I/O failed") {
		t.Errorf("Open failure detail %q should carry the I/O taxonomy", results[0].ErrorDetail)
	}
	for _, i := range []int{1, 2} {
		if results[i].Success {
			t.Errorf("Step %d should be skipped", i)
		}
		if results[i].ErrorDetail != "skipped: prior fatal step failed" {
			t.Errorf("Step %d detail = %q", i, results[i].ErrorDetail)
		}
	}
}

func TestBatchUnknownOperation(t *testing.T) {
	exec, _ := newTestExecutor(t)

	steps := []hwpctl.Step{
		{Operation: "hwp_create"},
		{Operation: "hwp_levitate"},
		{Operation: "hwp_insert_text", Params: map[string]any{"text": "still runs"}},
	}
	results := exec.Run(steps)

	if results[1].Success {
		t.Error("Unknown operation should fail")
	}
	if results[1].ErrorDetail != "unknown operation" {
		t.Errorf("Detail = %q, want %q", results[1].ErrorDetail, "unknown operation")
	}
	if !results[2].Success {
		t.Errorf("Step after unknown operation should run, got %q", results[2].ErrorDetail)
	}
}

func TestBatchTableWorkflow(t *testing.T) {
	exec, host := newTestExecutor(t)

	steps := []hwpctl.Step{
		{Operation: "hwp_create"},
		{Operation: "hwp_create_table", Params: map[string]any{"rows": float64(3), "cols": float64(2)}},
		{Operation: "hwp_fill_table_with_data", Params: map[string]any{
			"data":       []any{[]any{"월", "판매량"}, []any{"1월", float64(120)}, []any{"2월", float64(135)}},
			"has_header": true,
		}},
		{Operation: "hwp_fill_column_numbers", Params: map[string]any{
			"start": float64(1), "end": float64(2), "column": float64(0),
		}},
	}
	results := exec.Run(steps)
	for i, res := range results {
		if !res.Success {
			t.Fatalf("Step %d failed: %s", i, res.ErrorDetail)
		}
	}
	// The number fill ran after the data fill and overwrote column 0.
	if got, _ := host.CellText(0, 0, 0); got != "1" {
		t.Errorf("Cell (0,0) = %q, want %q", got, "1")
	}
	if got, _ := host.CellText(0, 2, 1); got != "135" {
		t.Errorf("Cell (2,1) = %q, want %q", got, "135")
	}
}

func TestBatchFillWithoutTable(t *testing.T) {
	exec, _ := newTestExecutor(t)

	steps := []hwpctl.Step{
		{Operation: "hwp_create"},
		{Operation: "hwp_fill_table_with_data", Params: map[string]any{"data": []any{}}},
	}
	results := exec.Run(steps)
	if results[1].Success {
		t.Error("Fill without a created table should fail")
	}
	if !strings.Contains(results[1].ErrorDetail, "no table") {
		t.Errorf("Detail = %q, want a no-table message", results[1].ErrorDetail)
	}
}

func TestBatchTableReferenceDiesWithDocument(t *testing.T) {
	exec, host := newTestExecutor(t)

	// Creating a new document invalidates the previous document's table
	// reference: the fill must be refused, not dispatched with stale
	// geometry.
	steps := []hwpctl.Step{
		{Operation: "hwp_create"},
		{Operation: "hwp_create_table", Params: map[string]any{"rows": 2, "cols": 2}},
		{Operation: "hwp_create"},
		{Operation: "hwp_fill_table_with_data", Params: map[string]any{
			"data": []any{[]any{"a", "b"}},
		}},
	}
	results := exec.Run(steps)

	if results[3].Success {
		t.Fatal("Fill against a replaced document should fail")
	}
	if !strings.Contains(results[3].ErrorDetail, "no table created in this batch") {
		t.Errorf("Detail = %q, want the executor's no-table refusal", results[3].ErrorDetail)
	}
	if host.TableCount() != 0 {
		t.Errorf("New document should have no tables, got %d", host.TableCount())
	}
}

func TestBatchReplaceAndGetText(t *testing.T) {
	exec, _ := newTestExecutor(t)

	steps := []hwpctl.Step{
		{Operation: "hwp_create"},
		{Operation: "hwp_insert_text", Params: map[string]any{"text": "신청번호 TE25**** 제출일 yyyy. mm. dd."}},
		{Operation: "hwp_batch_replace", Params: map[string]any{
			"replacements": map[string]any{
				"TE25****":     "TE250235",
				"yyyy. mm. dd.": "2025. 01. 15.",
				"절대없는패턴":    "ignored",
			},
		}},
		{Operation: "hwp_get_text"},
	}
	results := exec.Run(steps)
	for i, res := range results {
		if !res.Success {
			t.Fatalf("Step %d failed: %s", i, res.ErrorDetail)
		}
	}
	if results[2].Result != 2 {
		t.Errorf("Replacement count = %v, want 2", results[2].Result)
	}
	text, ok := results[3].Result.(string)
	if !ok {
		t.Fatalf("hwp_get_text result is %T, want string", results[3].Result)
	}
	if !strings.Contains(text, "TE250235") || !strings.Contains(text, "2025. 01. 15.") {
		t.Errorf("Replaced text = %q", text)
	}
}

func TestOperationsRegistry(t *testing.T) {
	ops := hwpctl.Operations()
	for _, want := range []string{"hwp_create", "hwp_open", "hwp_save", "hwp_create_table",
		"hwp_fill_table_with_data", "hwp_fill_column_numbers", "hwp_insert_text"} {
		found := false
		for _, op := range ops {
			if op == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Registry missing %q", want)
		}
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1] >= ops[i] {
			t.Errorf("Operations not sorted at %d: %q >= %q", i, ops[i-1], ops[i])
		}
	}
}
