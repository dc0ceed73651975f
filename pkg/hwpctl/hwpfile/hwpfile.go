// Package hwpfile inspects HWP v5 files offline. An HWP file is an OLE
// compound file; the FileHeader stream carries the format signature and
// version, and document metadata lives in the HwpSummaryInformation
// property set. No live word-processor instance is involved.
package hwpfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// headerSignature opens every HWP v5 FileHeader stream, zero-padded to 32 bytes.
const headerSignature = "HWP Document File"

const (
	headerStream  = "FileHeader"
	summaryStream = "HwpSummaryInformation"
)

var (
	// ErrNotCompound indicates the file is not an OLE compound file.
	ErrNotCompound = errors.New("not an OLE compound file")
	// ErrNotHWP indicates the compound file has no valid HWP FileHeader.
	ErrNotHWP = errors.New("missing HWP file header")
	// ErrTruncatedHeader indicates the FileHeader stream is too short.
	ErrTruncatedHeader = errors.New("truncated file header")
)

// Info summarizes an HWP file's container-level structure.
type Info struct {
	// Version is the format version from the FileHeader, e.g. "5.0.3.0".
	Version string `json:"version"`
	// Compressed reports whether body streams are deflate-compressed.
	Compressed bool `json:"compressed"`
	// Encrypted reports password protection; such files cannot be edited
	// without the password and most tooling refuses them.
	Encrypted bool `json:"encrypted"`
	// Distribution reports a view-only distribution document.
	Distribution bool `json:"distribution"`
	// Streams lists the compound file's stream paths.
	Streams []string `json:"streams"`
	// Properties holds HwpSummaryInformation fields (title, author, ...)
	// when the stream is present and parseable.
	Properties map[string]string `json:"properties,omitempty"`
}

// Validate checks that path is an OLE compound file with a well-formed
// HWP FileHeader. It reads nothing else.
func Validate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotCompound, err)
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != headerStream {
			continue
		}
		header, rerr := io.ReadAll(entry)
		if rerr != nil {
			return fmt.Errorf("%w: %v", ErrTruncatedHeader, rerr)
		}
		_, _, err := parseFileHeader(header)
		return err
	}
	return ErrNotHWP
}

// Inspect reads path's container structure: FileHeader fields, the
// stream listing, and summary metadata. Summary parsing is best effort;
// a malformed property set degrades to an Info without Properties.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotCompound, err)
	}

	info := &Info{}
	sawHeader := false
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		name := strings.TrimFunc(entry.Name, func(r rune) bool { return r < 0x20 })
		info.Streams = append(info.Streams, strings.Join(append(entry.Path, name), "/"))

		switch name {
		case headerStream:
			header, rerr := io.ReadAll(entry)
			if rerr != nil {
				return nil, fmt.Errorf("%w: %v", ErrTruncatedHeader, rerr)
			}
			version, flags, perr := parseFileHeader(header)
			if perr != nil {
				return nil, perr
			}
			info.Version = version
			info.Compressed = flags&flagCompressed != 0
			info.Encrypted = flags&flagEncrypted != 0
			info.Distribution = flags&flagDistribution != 0
			sawHeader = true
		case summaryStream:
			props := msoleps.New()
			if err := props.Reset(entry); err != nil {
				continue
			}
			for _, prop := range props.Property {
				if prop.Name == "" {
					continue
				}
				if info.Properties == nil {
					info.Properties = make(map[string]string)
				}
				info.Properties[prop.Name] = prop.String()
			}
		}
	}
	if !sawHeader {
		return nil, ErrNotHWP
	}
	return info, nil
}

const (
	flagCompressed   = 1 << 0
	flagEncrypted    = 1 << 1
	flagDistribution = 1 << 2
)

// parseFileHeader decodes the 256-byte FileHeader stream: a 32-byte
// signature block, a version DWORD (major.minor.build.revision packed
// big-to-small), and a property flag DWORD.
func parseFileHeader(b []byte) (version string, flags uint32, err error) {
	if len(b) < 40 {
		return "", 0, ErrTruncatedHeader
	}
	sig := b[:32]
	if string(sig[:len(headerSignature)]) != headerSignature {
		return "", 0, ErrNotHWP
	}
	v := binary.LittleEndian.Uint32(b[32:36])
	version = fmt.Sprintf("%d.%d.%d.%d", v>>24, (v>>16)&0xff, (v>>8)&0xff, v&0xff)
	flags = binary.LittleEndian.Uint32(b[36:40])
	return version, flags, nil
}
