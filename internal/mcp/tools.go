package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hwp-tools/hwpctl/pkg/hwpctl"
)

func (s *Server) registerTools() {
	s.addOpTool(mcp.NewTool("hwp_create",
		mcp.WithDescription("Create a new empty document, discarding unsaved changes")))

	s.addOpTool(mcp.NewTool("hwp_open",
		mcp.WithDescription("Open the document at a path"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the .hwp file to open"))))

	s.addOpTool(mcp.NewTool("hwp_save",
		mcp.WithDescription("Save the document; omit path to save in place"),
		mcp.WithString("path", mcp.Description("Destination path; empty saves to the opened path"))))

	s.addOpTool(mcp.NewTool("hwp_insert_text",
		mcp.WithDescription("Insert text at the cursor"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to insert"))))

	s.addOpTool(mcp.NewTool("hwp_set_font",
		mcp.WithDescription("Set character formatting for subsequent insertions; omitted attributes keep their current value"),
		mcp.WithNumber("size", mcp.Description("Font size in points")),
		mcp.WithBoolean("bold", mcp.Description("Bold on/off")),
		mcp.WithBoolean("italic", mcp.Description("Italic on/off")),
		mcp.WithBoolean("underline", mcp.Description("Underline on/off")),
		mcp.WithString("color", mcp.Description("Text color")),
		mcp.WithString("name", mcp.Description("Font face name"))))

	s.addOpTool(mcp.NewTool("hwp_move_to",
		mcp.WithDescription("Move the cursor to a named anchor, or to a cell of the active table when row and col are given"),
		mcp.WithString("anchor", mcp.Description("document_start, document_end, cell_start or next_cell")),
		mcp.WithNumber("row", mcp.Description("0-based row in the active table")),
		mcp.WithNumber("col", mcp.Description("0-based column in the active table"))))

	s.addOpTool(mcp.NewTool("hwp_create_table",
		mcp.WithDescription("Create a table at the cursor; fails if the cursor is inside an existing table"),
		mcp.WithNumber("rows", mcp.Required(), mcp.Description("Row count")),
		mcp.WithNumber("cols", mcp.Required(), mcp.Description("Column count"))))

	s.addOpTool(mcp.NewTool("hwp_fill_table_with_data",
		mcp.WithDescription("Fill the active table row-major with a rectangular value matrix"),
		mcp.WithArray("data", mcp.Required(), mcp.Description("Rows of cell values; all rows must have equal length")),
		mcp.WithBoolean("has_header", mcp.Description("Bold the first row")),
		mcp.WithBoolean("from_first_cell", mcp.Description("Anchor the fill at the table's top-left cell (default true)"))))

	s.addOpTool(mcp.NewTool("hwp_fill_column_numbers",
		mcp.WithDescription("Write the integers start..end down one column of the active table"),
		mcp.WithNumber("start", mcp.Required(), mcp.Description("First number, inclusive")),
		mcp.WithNumber("end", mcp.Required(), mcp.Description("Last number, inclusive")),
		mcp.WithNumber("column", mcp.Required(), mcp.Description("0-based target column")),
		mcp.WithBoolean("from_first_cell", mcp.Description("Start at row 0 (default true)"))))

	s.addOpTool(mcp.NewTool("hwp_get_text",
		mcp.WithDescription("Return the document's full text content")))

	s.addOpTool(mcp.NewTool("hwp_batch_replace",
		mcp.WithDescription("Replace every occurrence of each pattern; patterns not found are skipped"),
		mcp.WithObject("replacements", mcp.Required(), mcp.Description("Mapping of find text to replacement text"))))

	s.addOpTool(mcp.NewTool("hwp_get_document_info",
		mcp.WithDescription("Report document path, connection state and page count")))

	s.addOpTool(mcp.NewTool("hwp_ping",
		mcp.WithDescription("Check that the document host is reachable")))

	s.addBatchTool()
}

// addOpTool registers a tool whose name matches a registry operation and
// whose arguments pass through as the operation's parameters.
func (s *Server) addOpTool(tool mcp.Tool) {
	name := tool.Name
	s.srv.AddTool(tool, func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, ok := s.runStep(name, req.GetArguments())
		if !ok {
			s.logger.Warn("tool call failed", "tool", name, "error", out)
			return mcp.NewToolResultError(out), nil
		}
		return mcp.NewToolResultText(out), nil
	})
}

// addBatchTool registers hwp_execute_batch: an ordered step list executed
// with per-step isolation, returning one result per step.
func (s *Server) addBatchTool() {
	tool := mcp.NewTool("hwp_execute_batch",
		mcp.WithDescription("Execute an ordered list of operations. Each step reports its own outcome; a failed create/open/save skips the remaining steps."),
		mcp.WithArray("steps", mcp.Required(),
			mcp.Description(`Array of {"operation": name, "params": {...}} objects, executed in order`)))

	s.srv.AddTool(tool, func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, ok := req.GetArguments()["steps"]
		if !ok {
			return mcp.NewToolResultError("missing parameter \"steps\""), nil
		}
		steps, err := decodeSteps(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		results := s.exec.Run(steps)
		for _, res := range results {
			if res.Success && (res.Operation == "hwp_create" || res.Operation == "hwp_open") {
				s.docID = uuid.NewString()
			}
		}
		out, err := json.Marshal(results)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	})
}

// decodeSteps converts the tool argument (decoded JSON) into batch steps.
func decodeSteps(raw any) ([]hwpctl.Step, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("steps: %w", err)
	}
	var steps []hwpctl.Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("steps: want array of {operation, params}: %w", err)
	}
	return steps, nil
}
