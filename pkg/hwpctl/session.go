package hwpctl

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hwp-tools/hwpctl/pkg/hwpctl/hwpfile"
)

// Session owns the single handle to a live document host. It tracks the
// cursor's expected position defensively, because host operations move
// the real cursor as a side effect and the host offers no way to observe
// it other than CurrentContext.
//
// A Session is not safe for concurrent use; callers serialize access,
// which the batch Executor does by dispatching steps strictly in order.
type Session struct {
	host   Host
	logger *slog.Logger

	// securityModule records whether the native file-access bypass was
	// registered at process start. When false, save and open still work
	// but the host may raise a confirmation dialog (degraded mode).
	securityModule bool

	connected bool
	docOpen   bool
	path      string

	// cursor is the last position the engine believes the host cursor
	// holds. Position-sensitive operations re-resolve against the live
	// host context instead of trusting this value.
	cursor CursorContext
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithSecurityModule marks the security bypass module as registered,
// suppressing the degraded-mode warning on save.
func WithSecurityModule(registered bool) Option {
	return func(s *Session) { s.securityModule = registered }
}

// NewSession wraps a host adapter. The session does not connect; call
// Connect before issuing document operations.
func NewSession(host Host, opts ...Option) *Session {
	s := &Session{
		host:   host,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect attaches to the running host instance.
func (s *Session) Connect() error {
	if err := s.host.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	s.connected = true
	s.logger.Info("connected to host")
	return nil
}

// Close releases the host handle. Errors from the host are reported but
// the session is marked closed regardless.
func (s *Session) Close() error {
	s.connected = false
	s.docOpen = false
	s.path = ""
	s.cursor = CursorContext{}
	if err := s.host.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Connected reports whether Connect has succeeded.
func (s *Session) Connected() bool { return s.connected }

// Ping reports host reachability by querying the cursor context.
func (s *Session) Ping() error {
	if !s.connected {
		return ErrConnection
	}
	if _, err := s.host.CurrentContext(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// CreateDocument opens a fresh empty document.
func (s *Session) CreateDocument() error {
	if err := s.requireConnection(); err != nil {
		return err
	}
	if err := s.host.CreateDocument(); err != nil {
		return fmt.Errorf("%w: create: %v", ErrDocumentIO, err)
	}
	s.docOpen = true
	s.path = ""
	s.cursor = CursorContext{}
	return nil
}

// Open loads the document at path. A locally readable .hwp file is
// validated as an HWP compound file before the host is asked to open it,
// so a corrupt file fails fast with a precise error instead of whatever
// the host reports. Non-.hwp paths and remote-only paths go straight to
// the host.
func (s *Session) Open(path string) error {
	if err := s.requireConnection(); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && strings.EqualFold(filepath.Ext(path), ".hwp") {
		if err := hwpfile.Validate(path); err != nil {
			return fmt.Errorf("%w: open %q: %v", ErrDocumentIO, path, err)
		}
	}
	if err := s.host.Open(path); err != nil {
		return fmt.Errorf("%w: open %q: %v", ErrDocumentIO, path, err)
	}
	s.docOpen = true
	s.path = path
	s.cursor = CursorContext{}
	return nil
}

// Save writes the document to path; an empty path saves in place. Without
// the security module the host may raise a file-access dialog; that is a
// tolerated side effect, not a failure.
func (s *Session) Save(path string) error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if !s.securityModule {
		s.logger.Warn("security module not registered; host may prompt for file access",
			"path", path)
	}
	if err := s.host.Save(path); err != nil {
		return fmt.Errorf("%w: save %q: %v", ErrDocumentIO, path, err)
	}
	if path != "" {
		s.path = path
	}
	return nil
}

// InsertText inserts text at the cursor.
func (s *Session) InsertText(text string) error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if err := s.host.InsertText(text); err != nil {
		return fmt.Errorf("insert text: %v", err)
	}
	return nil
}

// SetFont applies character formatting to subsequent insertions.
// Unset options leave the current formatting unchanged.
func (s *Session) SetFont(opts FontOptions) error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if err := s.host.SetFont(opts); err != nil {
		return fmt.Errorf("set font: %v", err)
	}
	return nil
}

// MoveTo positions the cursor at a named anchor and refreshes the
// session's expected cursor state from the host.
func (s *Session) MoveTo(anchor Anchor) error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if err := s.host.MoveTo(anchor); err != nil {
		return fmt.Errorf("move to %s: %v", anchor, err)
	}
	return s.refreshCursor()
}

// ExtractText returns the document's full text content.
func (s *Session) ExtractText() (string, error) {
	if err := s.requireDocument(); err != nil {
		return "", err
	}
	text, err := s.host.ExtractText()
	if err != nil {
		return "", fmt.Errorf("extract text: %v", err)
	}
	return text, nil
}

// ReplaceAll applies find→replace pairs over the whole document by
// recreating its body: the text is extracted, modified in memory, and
// reinserted over a select-all. Pairs are applied in sorted pattern
// order, so overlapping patterns resolve the same way on every run.
// Pairs whose pattern does not occur are skipped and logged, not fatal.
// Returns the total occurrences replaced; zero replacements leave the
// document untouched.
func (s *Session) ReplaceAll(replacements map[string]string) (int, error) {
	if err := s.requireDocument(); err != nil {
		return 0, err
	}
	text, err := s.ExtractText()
	if err != nil {
		return 0, err
	}

	patterns := make([]string, 0, len(replacements))
	for find := range replacements {
		patterns = append(patterns, find)
	}
	sort.Strings(patterns)

	total := 0
	for _, find := range patterns {
		repl := replacements[find]
		n := strings.Count(text, find)
		if n == 0 {
			s.logger.Info("pattern not found", "pattern", find)
			continue
		}
		text = strings.ReplaceAll(text, find, repl)
		total += n
	}
	if total == 0 {
		return 0, nil
	}

	if err := s.host.SelectAll(); err != nil {
		return 0, fmt.Errorf("select all: %v", err)
	}
	if err := s.host.Delete(); err != nil {
		return 0, fmt.Errorf("delete selection: %v", err)
	}
	if err := s.host.InsertText(text); err != nil {
		return 0, fmt.Errorf("insert replaced text: %v", err)
	}
	s.cursor = CursorContext{}
	return total, nil
}

// DocumentInfo summarizes the session's document state.
type DocumentInfo struct {
	Path           string `json:"path,omitempty"`
	Connected      bool   `json:"connected"`
	Open           bool   `json:"open"`
	Pages          int    `json:"pages,omitempty"`
	SecurityModule bool   `json:"security_module"`
}

// Info reports the current document state. The page count is best effort:
// a host error there degrades to zero rather than failing the call.
func (s *Session) Info() DocumentInfo {
	info := DocumentInfo{
		Path:           s.path,
		Connected:      s.connected,
		Open:           s.docOpen,
		SecurityModule: s.securityModule,
	}
	if s.docOpen {
		if pages, err := s.host.PageCount(); err == nil {
			info.Pages = pages
		}
	}
	return info
}

func (s *Session) requireConnection() error {
	if !s.connected {
		return ErrConnection
	}
	return nil
}

func (s *Session) requireDocument() error {
	if err := s.requireConnection(); err != nil {
		return err
	}
	if !s.docOpen {
		return ErrNoDocument
	}
	return nil
}

// refreshCursor re-reads the host's cursor context into the expected
// state. Host operations can move the cursor silently, so this runs
// before every position-sensitive decision.
func (s *Session) refreshCursor() error {
	ctx, err := s.host.CurrentContext()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	s.cursor = ctx
	return nil
}
