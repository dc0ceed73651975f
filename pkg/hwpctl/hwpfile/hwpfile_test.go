package hwpfile

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// header builds a FileHeader stream image with the given version DWORD
// and flags.
func header(signature string, version, flags uint32) []byte {
	b := make([]byte, 256)
	copy(b, signature)
	binary.LittleEndian.PutUint32(b[32:36], version)
	binary.LittleEndian.PutUint32(b[36:40], flags)
	return b
}

func TestParseFileHeader(t *testing.T) {
	// 5.0.3.0 packed major-to-revision, compressed flag set.
	b := header(headerSignature, 0x05000300, flagCompressed)

	version, flags, err := parseFileHeader(b)
	if err != nil {
		t.Fatalf("parseFileHeader failed: %v", err)
	}
	if version != "5.0.3.0" {
		t.Errorf("version = %q, want %q", version, "5.0.3.0")
	}
	if flags&flagCompressed == 0 {
		t.Error("compressed flag should be set")
	}
	if flags&flagEncrypted != 0 {
		t.Error("encrypted flag should be clear")
	}
}

func TestParseFileHeaderFlags(t *testing.T) {
	_, flags, err := parseFileHeader(header(headerSignature, 0x05010000, flagEncrypted|flagDistribution))
	if err != nil {
		t.Fatalf("parseFileHeader failed: %v", err)
	}
	if flags&flagEncrypted == 0 || flags&flagDistribution == 0 {
		t.Errorf("flags = %#x", flags)
	}
}

func TestParseFileHeaderBadSignature(t *testing.T) {
	_, _, err := parseFileHeader(header("HWP Documemt File", 0x05000300, 0))
	if !errors.Is(err, ErrNotHWP) {
		t.Fatalf("Expected ErrNotHWP, got %v", err)
	}
}

func TestParseFileHeaderTruncated(t *testing.T) {
	for _, n := range []int{0, 16, 39} {
		_, _, err := parseFileHeader(make([]byte, n))
		if !errors.Is(err, ErrTruncatedHeader) {
			t.Errorf("len %d: expected ErrTruncatedHeader, got %v", n, err)
		}
	}
}

func TestValidateRejectsNonCompound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.hwp")
	if err := os.WriteFile(path, []byte("plain text pretending to be hwp"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Validate(path); !errors.Is(err, ErrNotCompound) {
		t.Fatalf("Expected ErrNotCompound, got %v", err)
	}
}

func TestValidateMissingFile(t *testing.T) {
	if err := Validate(filepath.Join(t.TempDir(), "missing.hwp")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestInspectRejectsNonCompound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.hwp")
	if err := os.WriteFile(path, make([]byte, 4096), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(path); !errors.Is(err, ErrNotCompound) {
		t.Fatalf("Expected ErrNotCompound, got %v", err)
	}
}
