package hwpctl_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hwp-tools/hwpctl/pkg/hwpctl"
	"github.com/hwp-tools/hwpctl/pkg/hwpctl/memhost"
)

func TestConnectFailure(t *testing.T) {
	host := memhost.New()
	host.FailOn("Connect", 1, errors.New("no HWP instance running"))

	sess := hwpctl.NewSession(host)
	err := sess.Connect()
	if !errors.Is(err, hwpctl.ErrConnection) {
		t.Fatalf("Expected ErrConnection, got %v", err)
	}
	if sess.Connected() {
		t.Error("Session should not report connected")
	}
}

func TestEditRequiresDocument(t *testing.T) {
	host := memhost.New()
	sess := hwpctl.NewSession(host)
	if err := sess.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := sess.InsertText("x"); !errors.Is(err, hwpctl.ErrNoDocument) {
		t.Errorf("InsertText: expected ErrNoDocument, got %v", err)
	}
	if _, err := sess.CreateTable(2, 2); !errors.Is(err, hwpctl.ErrNoDocument) {
		t.Errorf("CreateTable: expected ErrNoDocument, got %v", err)
	}
	if err := sess.Save(""); !errors.Is(err, hwpctl.ErrNoDocument) {
		t.Errorf("Save: expected ErrNoDocument, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	sess, _ := newTestSession(t)

	err := sess.Open(filepath.Join(t.TempDir(), "missing.hwp"))
	if !errors.Is(err, hwpctl.ErrDocumentIO) {
		t.Fatalf("Expected ErrDocumentIO, got %v", err)
	}
}

func TestOpenRejectsCorruptHwp(t *testing.T) {
	sess, host := newTestSession(t)

	// A .hwp file that is not an OLE compound file must be rejected
	// before the host ever sees it.
	path := filepath.Join(t.TempDir(), "bad.hwp")
	if err := os.WriteFile(path, []byte("this is not a compound file"), 0644); err != nil {
		t.Fatal(err)
	}
	host.FailOn("Open", 1, errors.New("host must not be asked"))

	err := sess.Open(path)
	if !errors.Is(err, hwpctl.ErrDocumentIO) {
		t.Fatalf("Expected ErrDocumentIO, got %v", err)
	}
	if strings.Contains(err.Error(), "host must not be asked") {
		t.Error("Validation should fail before the host open call")
	}
}

func TestSaveWithoutSecurityModule(t *testing.T) {
	sess, _ := newTestSession(t)

	// Degraded mode: no security module registered, save still succeeds.
	path := filepath.Join(t.TempDir(), "out.hwp")
	if err := sess.InsertText("본문 내용"); err != nil {
		t.Fatalf("InsertText failed: %v", err)
	}
	if err := sess.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Saved file unreadable: %v", err)
	}
	if !strings.Contains(string(data), "본문 내용") {
		t.Errorf("Saved content = %q", string(data))
	}
}

func TestSaveInPlace(t *testing.T) {
	sess, _ := newTestSession(t)

	path := filepath.Join(t.TempDir(), "doc.hwp")
	if err := sess.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := sess.InsertText("more"); err != nil {
		t.Fatalf("InsertText failed: %v", err)
	}
	// Empty path saves to the previous path.
	if err := sess.Save(""); err != nil {
		t.Fatalf("Save in place failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "more") {
		t.Errorf("In-place save content = %q", string(data))
	}
}

func TestReplaceAll(t *testing.T) {
	sess, _ := newTestSession(t)

	if err := sess.InsertText("접수번호 TE25**** / TE25**** 확인"); err != nil {
		t.Fatalf("InsertText failed: %v", err)
	}
	count, err := sess.ReplaceAll(map[string]string{
		"TE25****": "TE250235",
		"없는패턴":  "whatever",
	})
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Replacement count = %d, want 2", count)
	}
	text, err := sess.ExtractText()
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if strings.Contains(text, "TE25****") || !strings.Contains(text, "TE250235") {
		t.Errorf("Text after replace = %q", text)
	}
}

func TestReplaceAllOverlappingPatterns(t *testing.T) {
	sess, _ := newTestSession(t)

	if err := sess.InsertText("abc zab"); err != nil {
		t.Fatalf("InsertText failed: %v", err)
	}
	// Patterns apply in sorted order: "ab" rewrites both occurrences
	// first, leaving nothing for "abc" to match. The outcome must not
	// vary between runs.
	count, err := sess.ReplaceAll(map[string]string{
		"ab":  "x",
		"abc": "y",
	})
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Replacement count = %d, want 2", count)
	}
	text, err := sess.ExtractText()
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "xc zx" {
		t.Errorf("Text after replace = %q, want %q", text, "xc zx")
	}
}

func TestReplaceAllNoMatches(t *testing.T) {
	sess, host := newTestSession(t)

	if err := sess.InsertText("unchanged"); err != nil {
		t.Fatalf("InsertText failed: %v", err)
	}
	// With nothing to replace the document must not be recreated.
	host.FailOn("Delete", 1, errors.New("must not recreate"))

	count, err := sess.ReplaceAll(map[string]string{"absent": "x"})
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Count = %d, want 0", count)
	}
}

func TestInfo(t *testing.T) {
	sess, _ := newTestSession(t)

	path := filepath.Join(t.TempDir(), "report.hwp")
	if err := sess.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info := sess.Info()
	if !info.Connected || !info.Open {
		t.Errorf("Info = %+v, want connected and open", info)
	}
	if info.Path != path {
		t.Errorf("Info.Path = %q, want %q", info.Path, path)
	}
	if info.Pages < 1 {
		t.Errorf("Info.Pages = %d, want >= 1", info.Pages)
	}
}

func TestPing(t *testing.T) {
	host := memhost.New()
	sess := hwpctl.NewSession(host)

	if err := sess.Ping(); !errors.Is(err, hwpctl.ErrConnection) {
		t.Errorf("Ping before connect: expected ErrConnection, got %v", err)
	}
	if err := sess.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := sess.Ping(); err != nil {
		t.Errorf("Ping after connect failed: %v", err)
	}
}

func TestErrorMessagesSurviveNonASCII(t *testing.T) {
	sess, host := newTestSession(t)

	host.FailOn("InsertText", 1, errors.New("호스트 오류: 셀 잠김"))
	ref, err := sess.CreateTable(2, 2)
	if err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	err = sess.FillTable(ref, [][]any{{"한글", "내용"}}, hwpctl.FillOptions{FromFirstCell: true})
	if err == nil {
		t.Fatal("Expected fill failure")
	}
	msg := err.Error()
	if !strings.Contains(msg, "한글") || !strings.Contains(msg, "셀 잠김") {
		t.Errorf("Error message should carry non-ASCII content intact: %q", msg)
	}
}
