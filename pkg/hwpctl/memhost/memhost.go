// Package memhost is an in-memory implementation of the hwpctl host
// adapter. A document is an ordered list of paragraphs and tables with a
// single shared cursor, reproducing the cursor-driven state machine of
// the real word processor faithfully enough that the engine's sequencing
// logic can be exercised, and broken, without a live host process.
//
// Like the real host, memhost does not guard against misuse: creating a
// table while the cursor is inside one "succeeds" and corrupts the
// document. The NestedTableCreations counter makes that corruption
// observable to tests.
package memhost

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hwp-tools/hwpctl/pkg/hwpctl"
)

type node interface {
	isNode()
}

type paragraph struct {
	text string
}

func (*paragraph) isNode() {}

type cell struct {
	text string
	bold bool
}

type table struct {
	rows, cols int
	cells      [][]cell
}

func (*table) isNode() {}

func newTable(rows, cols int) *table {
	cells := make([][]cell, rows)
	for r := range cells {
		cells[r] = make([]cell, cols)
	}
	return &table{rows: rows, cols: cols, cells: cells}
}

type fontState struct {
	bold      bool
	italic    bool
	underline bool
	size      int
	color     string
	name      string
}

type fault struct {
	calls  int
	failAt int
	err    error
}

// Host implements hwpctl.Host in memory.
type Host struct {
	connected bool
	docOpen   bool
	path      string

	nodes []node
	// cursor state: node index, plus cell coordinates when the node is a table
	curNode  int
	curRow   int
	curCol   int
	inTable  bool
	selAll   bool
	selCell  bool
	font     fontState

	faults map[string]*fault

	// NestedTableCreations counts CreateTable calls issued while the
	// cursor sat inside a table cell. The engine must keep this at zero.
	NestedTableCreations int
}

var _ hwpctl.Host = (*Host)(nil)

// New returns a disconnected in-memory host.
func New() *Host {
	return &Host{faults: make(map[string]*fault)}
}

// FailOn makes the nth call (1-based) of the named verb return err.
// One plan per verb; setting a new one replaces the old.
func (h *Host) FailOn(verb string, nth int, err error) {
	h.faults[verb] = &fault{failAt: nth, err: err}
}

func (h *Host) check(verb string) error {
	f, ok := h.faults[verb]
	if !ok {
		return nil
	}
	f.calls++
	if f.calls == f.failAt {
		return f.err
	}
	return nil
}

func (h *Host) Connect() error {
	if err := h.check("Connect"); err != nil {
		return err
	}
	h.connected = true
	return nil
}

func (h *Host) Close() error {
	if err := h.check("Close"); err != nil {
		return err
	}
	h.connected = false
	h.docOpen = false
	h.nodes = nil
	return nil
}

func (h *Host) CreateDocument() error {
	if err := h.check("CreateDocument"); err != nil {
		return err
	}
	if !h.connected {
		return errors.New("not connected")
	}
	h.resetDocument("")
	h.docOpen = true
	h.path = ""
	return nil
}

// Open loads path as plain text into a single paragraph. memhost does not
// decode the HWP binary format; it emulates the host's document state.
func (h *Host) Open(path string) error {
	if err := h.check("Open"); err != nil {
		return err
	}
	if !h.connected {
		return errors.New("not connected")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	h.resetDocument(string(data))
	h.docOpen = true
	h.path = path
	return nil
}

// Save writes the document's plain-text rendering to path; an empty path
// saves to the opened path.
func (h *Host) Save(path string) error {
	if err := h.check("Save"); err != nil {
		return err
	}
	if !h.docOpen {
		return errors.New("no document")
	}
	if path == "" {
		path = h.path
	}
	if path == "" {
		return errors.New("document has no path")
	}
	if err := os.WriteFile(path, []byte(h.PlainText()), 0644); err != nil {
		return err
	}
	h.path = path
	return nil
}

func (h *Host) InsertText(text string) error {
	if err := h.check("InsertText"); err != nil {
		return err
	}
	if !h.docOpen {
		return errors.New("no document")
	}
	if h.selAll {
		h.resetDocument("")
		h.selAll = false
	}
	if h.inTable {
		t := h.currentTable()
		c := &t.cells[h.curRow][h.curCol]
		if h.selCell {
			c.text = text
			h.selCell = false
		} else {
			c.text += text
		}
		c.bold = h.font.bold
		return nil
	}
	p := h.nodes[h.curNode].(*paragraph)
	p.text += text
	return nil
}

func (h *Host) SetFont(opts hwpctl.FontOptions) error {
	if err := h.check("SetFont"); err != nil {
		return err
	}
	if opts.Bold != nil {
		h.font.bold = *opts.Bold
	}
	if opts.Italic != nil {
		h.font.italic = *opts.Italic
	}
	if opts.Underline != nil {
		h.font.underline = *opts.Underline
	}
	if opts.Size != nil {
		h.font.size = *opts.Size
	}
	if opts.Color != nil {
		h.font.color = *opts.Color
	}
	if opts.Name != nil {
		h.font.name = *opts.Name
	}
	return nil
}

func (h *Host) CreateTable(rows, cols int) error {
	if err := h.check("CreateTable"); err != nil {
		return err
	}
	if !h.docOpen {
		return errors.New("no document")
	}
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("bad geometry %dx%d", rows, cols)
	}
	if h.inTable {
		// The real host nests the table inside the current cell without
		// complaint. Emulate the damage visibly.
		h.NestedTableCreations++
		t := h.currentTable()
		t.cells[h.curRow][h.curCol].text = "[nested-table]"
	}
	t := newTable(rows, cols)
	// Word-processor convention: a paragraph always follows a table.
	after := []node{t, &paragraph{}}
	h.nodes = append(h.nodes[:h.curNode+1], append(after, h.nodes[h.curNode+1:]...)...)
	h.curNode++
	h.inTable = true
	h.curRow, h.curCol = 0, 0
	h.selCell = false
	return nil
}

func (h *Host) MoveTo(anchor hwpctl.Anchor) error {
	if err := h.check("MoveTo"); err != nil {
		return err
	}
	if !h.docOpen {
		return errors.New("no document")
	}
	h.selAll = false
	switch anchor {
	case hwpctl.AnchorDocumentStart:
		h.curNode = h.firstParagraph()
		h.inTable = false
		h.selCell = false
	case hwpctl.AnchorDocumentEnd:
		h.curNode = h.lastParagraph()
		h.inTable = false
		h.selCell = false
	case hwpctl.AnchorCellStart:
		if !h.inTable {
			return errors.New("cursor not in a table")
		}
		h.selCell = false
	case hwpctl.AnchorNextCell:
		if !h.inTable {
			return errors.New("cursor not in a table")
		}
		t := h.currentTable()
		h.selCell = false
		if h.curCol+1 < t.cols {
			h.curCol++
		} else if h.curRow+1 < t.rows {
			h.curRow++
			h.curCol = 0
		}
		// at the last cell the cursor stays put
	default:
		return fmt.Errorf("unknown anchor %q", anchor)
	}
	return nil
}

func (h *Host) SelectCell(row, col int) error {
	if err := h.check("SelectCell"); err != nil {
		return err
	}
	if !h.docOpen {
		return errors.New("no document")
	}
	idx := h.activeTableIndex()
	if idx < 0 {
		return errors.New("no table to address")
	}
	t := h.nodes[idx].(*table)
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return fmt.Errorf("cell (%d,%d) outside %dx%d table", row, col, t.rows, t.cols)
	}
	h.curNode = idx
	h.curRow, h.curCol = row, col
	h.inTable = true
	h.selCell = true
	h.selAll = false
	return nil
}

func (h *Host) CurrentContext() (hwpctl.CursorContext, error) {
	if err := h.check("CurrentContext"); err != nil {
		return hwpctl.CursorContext{}, err
	}
	if !h.connected {
		return hwpctl.CursorContext{}, errors.New("not connected")
	}
	ctx := hwpctl.CursorContext{}
	if h.inTable {
		t := h.currentTable()
		ctx.InTable = true
		ctx.Row, ctx.Col = h.curRow, h.curCol
		ctx.TableRows, ctx.TableCols = t.rows, t.cols
	}
	return ctx, nil
}

func (h *Host) SelectAll() error {
	if err := h.check("SelectAll"); err != nil {
		return err
	}
	if !h.docOpen {
		return errors.New("no document")
	}
	h.selAll = true
	h.selCell = false
	return nil
}

func (h *Host) Delete() error {
	if err := h.check("Delete"); err != nil {
		return err
	}
	if !h.docOpen {
		return errors.New("no document")
	}
	switch {
	case h.selAll:
		h.resetDocument("")
		h.selAll = false
	case h.selCell:
		t := h.currentTable()
		t.cells[h.curRow][h.curCol].text = ""
		h.selCell = false
	}
	return nil
}

func (h *Host) ExtractText() (string, error) {
	if err := h.check("ExtractText"); err != nil {
		return "", err
	}
	if !h.docOpen {
		return "", errors.New("no document")
	}
	return h.PlainText(), nil
}

func (h *Host) PageCount() (int, error) {
	if err := h.check("PageCount"); err != nil {
		return 0, err
	}
	if !h.docOpen {
		return 0, errors.New("no document")
	}
	return 1 + len(h.PlainText())/1000, nil
}

// ---- test inspection helpers -------------------------------------------

/// PlainText renders the document: paragraphs verbatim, tables as
// tab-separated rows, nodes joined by newlines. Empty trailing
// paragraphs are skipped.
func (h *Host) PlainText() string {
	var parts []string
	for _, n := range h.nodes {
		switch x := n.(type) {
		case *paragraph:
			if x.text != "" {
				parts = append(parts, x.text)
			}
		case *table:
			for _, row := range x.cells {
				cells := make([]string, len(row))
				for i, c := range row {
					cells[i] = c.text
				}
				parts = append(parts, strings.Join(cells, "\t"))
			}
		}
	}
	return strings.Join(parts, "\n")
}

// TableCount reports the number of tables in the document.
func (h *Host) TableCount() int {
	n := 0
	for _, nd := range h.nodes {
		if _, ok := nd.(*table); ok {
			n++
		}
	}
	return n
}

// CellText returns the text of cell (row, col) of the i-th table.
func (h *Host) CellText(i, row, col int) (string, bool) {
	t := h.tableAt(i)
	if t == nil || row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return "", false
	}
	return t.cells[row][col].text, true
}

// CellBold reports whether cell (row, col) of the i-th table was written
// with bold formatting active.
func (h *Host) CellBold(i, row, col int) bool {
	t := h.tableAt(i)
	if t == nil || row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return false
	}
	return t.cells[row][col].bold
}

// ---- internals ----------------------------------------------------------

func (h *Host) resetDocument(text string) {
	h.nodes = []node{&paragraph{text: text}}
	h.curNode = 0
	h.curRow, h.curCol = 0, 0
	h.inTable = false
	h.selAll = false
	h.selCell = false
}

func (h *Host) currentTable() *table {
	return h.nodes[h.curNode].(*table)
}

// activeTableIndex resolves which table a cell address applies to: the
// table the cursor is in, or the document's last table otherwise (the
// real host behaves the same way when a cell selection follows a table
// operation).
func (h *Host) activeTableIndex() int {
	if h.inTable {
		return h.curNode
	}
	for i := len(h.nodes) - 1; i >= 0; i-- {
		if _, ok := h.nodes[i].(*table); ok {
			return i
		}
	}
	return -1
}

func (h *Host) tableAt(i int) *table {
	n := 0
	for _, nd := range h.nodes {
		if t, ok := nd.(*table); ok {
			if n == i {
				return t
			}
			n++
		}
	}
	return nil
}

func (h *Host) firstParagraph() int {
	for i, nd := range h.nodes {
		if _, ok := nd.(*paragraph); ok {
			return i
		}
	}
	return 0
}

func (h *Host) lastParagraph() int {
	for i := len(h.nodes) - 1; i >= 0; i-- {
		if _, ok := h.nodes[i].(*paragraph); ok {
			return i
		}
	}
	return 0
}
