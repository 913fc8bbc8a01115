package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SampleSize is how much of a file is sniffed to decide text vs binary.
	SampleSize                   = 4096
	nonPrintableThresholdPercent = 30
)

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

// Extensions that are never previewed as text, whatever their first bytes
// look like. Electron microscopy containers are listed next to the usual
// archive, media and office formats.
var binaryExtensions = makeExtensionSet(
	".7z", ".avi", ".bin", ".bmp", ".bz2", ".class", ".dll", ".doc", ".docx",
	".dylib", ".exe", ".gif", ".gz", ".ico", ".iso", ".jar", ".jpeg", ".jpg",
	".mkv", ".mov", ".mp4", ".pdf", ".png", ".so", ".tar", ".tgz", ".tif",
	".tiff", ".wasm", ".webp", ".xz", ".zip",
	".mrc", ".mrcs", ".map", ".st", ".ali", ".rec", ".em", ".spi", ".stk",
	".dm3", ".dm4", ".ser", ".eer", ".h5", ".hdf", ".sqlite", ".db",
)

func makeExtensionSet(exts ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[ext] = struct{}{}
	}
	return set
}

// IsTextFile reports whether sample (the first bytes of path) looks like text.
// Known binary extensions short-circuit before the sample is inspected.
func IsTextFile(path string, sample []byte) bool {
	if HasBinaryExtension(path) {
		return false
	}
	if len(sample) == 0 {
		return true
	}
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	if detectUnicodeEncoding(sample) != encodingUnknown {
		return true
	}
	if bytes.IndexByte(sample, 0x00) != -1 {
		return false
	}

	// Bytes >= 0x80 count as text, so valid UTF-8 and legacy 8-bit prose
	// both pass while C0 control noise does not.
	nonPrintable := 0
	for _, b := range sample {
		if !isCommonTextByte(b) {
			nonPrintable++
		}
	}
	return nonPrintable*100/len(sample) < nonPrintableThresholdPercent
}

// ReadTextSample returns up to SampleSize bytes from the start of path.
func ReadTextSample(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, SampleSize))
}

// HasBinaryExtension reports whether path carries a known binary extension.
func HasBinaryExtension(path string) bool {
	if path == "" {
		return false
	}
	_, ok := binaryExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func isCommonTextByte(b byte) bool {
	switch {
	case b == '\t' || b == '\n' || b == '\r' || b == 0x1B:
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	default:
		return b >= 0x80
	}
}

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	switch {
	case bytes.HasPrefix(sample, utf8BOM):
		return encodingUTF8BOM
	case len(sample) >= 2 && sample[0] == 0xFF && sample[1] == 0xFE:
		return encodingUTF16LE
	case len(sample) >= 2 && sample[0] == 0xFE && sample[1] == 0xFF:
		return encodingUTF16BE
	default:
		return encodingUnknown
	}
}
