package fs

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"unicode/utf8"

	apperrors "github.com/kk-code-lab/emview/internal/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const tailChunkSize = 8192

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// HeadTailResult holds the first and last lines of a file plus its line count.
// Lines are returned without their terminating newline.
type HeadTailResult struct {
	HeadLines      []string
	TailLines      []string
	TotalLineCount int
}

// Stats describes how much of the source the passes touched.
type Stats struct {
	HeadBytes     int64 // offset reached by the head pass
	TotalBytes    int64 // bytes read over all passes
	TailBytesRead int64 // bytes read by the backward scan only
	TailProbes    int
}

// ReadHeadTail returns the first `first` and last `last` lines of the file at
// path together with its total line count. The tail is found by scanning
// backwards in growing windows, so only the end of the file is read for it.
// Tail lines never include lines already returned as head lines.
func ReadHeadTail(path string, first, last int) (HeadTailResult, error) {
	res, _, err := ReadHeadTailStats(path, first, last)
	return res, err
}

// ReadHeadTailStats is ReadHeadTail plus the I/O statistics of the passes.
func ReadHeadTailStats(path string, first, last int) (HeadTailResult, Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return HeadTailResult{}, Stats{}, apperrors.NewIOError("cannot stat file", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return HeadTailResult{}, Stats{}, apperrors.NewIOError("cannot open file", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	res, stats, err := ReadHeadTailFrom(f, info.Size(), first, last)
	if err != nil {
		var pe *apperrors.PreviewError
		if errors.As(err, &pe) && pe.Path() == "" {
			return HeadTailResult{}, stats, withPath(pe, path)
		}
		return HeadTailResult{}, stats, err
	}
	return res, stats, nil
}

func withPath(pe *apperrors.PreviewError, path string) error {
	switch pe.Kind() {
	case apperrors.DecodeError:
		return apperrors.NewDecodeError("file is not text", path, pe)
	default:
		return apperrors.NewIOError("cannot read file", path, pe)
	}
}

// ReadHeadTailFrom runs the head, count, and tail passes over src, whose total
// length is size bytes (as reported by stat, not by reading).
func ReadHeadTailFrom(src io.ReadSeeker, size int64, first, last int) (HeadTailResult, Stats, error) {
	if first < 0 {
		first = 0
	}
	if last < 0 {
		last = 0
	}

	cr := &countingReadSeeker{src: src}
	var stats Stats
	res := HeadTailResult{}

	if _, err := cr.Seek(0, io.SeekStart); err != nil {
		return res, stats, apperrors.NewIOError("seek failed", "", err)
	}
	reader := bufio.NewReaderSize(cr, tailChunkSize)

	sample, _ := reader.Peek(3)
	switch enc := detectUnicodeEncoding(sample); enc {
	case encodingUTF16LE, encodingUTF16BE:
		res, err := readUTF16(reader, enc, first, last)
		stats.TotalBytes = cr.n
		return res, stats, err
	}

	// Head pass.
	var offset int64
	for len(res.HeadLines) < first {
		raw, err := reader.ReadBytes('\n')
		if len(raw) > 0 {
			offset += int64(len(raw))
			line, decErr := decodeLine(raw, offset == int64(len(raw)))
			if decErr != nil {
				return HeadTailResult{}, stats, decErr
			}
			res.HeadLines = append(res.HeadLines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return HeadTailResult{}, stats, apperrors.NewIOError("read failed", "", err)
		}
	}
	stats.HeadBytes = offset

	// Count pass: contents are discarded as they are scanned.
	count, err := countLines(reader)
	if err != nil {
		return HeadTailResult{}, stats, apperrors.NewIOError("read failed", "", err)
	}
	res.TotalLineCount = len(res.HeadLines) + count

	if _, err := cr.Seek(offset, io.SeekStart); err != nil {
		return HeadTailResult{}, stats, apperrors.NewIOError("seek failed", "", err)
	}

	if offset >= size || last == 0 {
		stats.TotalBytes = cr.n
		return res, stats, nil
	}

	// Tail pass: probe ever larger suffixes until enough lines are found or
	// the probe reaches the end of the head.
	tailStart := cr.n
	bufsize := int64(tailChunkSize)
	if bufsize > size-1 {
		bufsize = size - 1
	}
	if bufsize < 1 {
		bufsize = 1
	}
	for i := int64(1); ; i++ {
		seek := size - bufsize*i
		if seek < offset {
			seek = offset
		}
		stats.TailProbes++

		raw, err := readLinesFrom(cr, seek, offset)
		if err != nil {
			return HeadTailResult{}, stats, err
		}
		if len(raw) >= last || seek == offset {
			skip := 0
			if len(raw) > last {
				skip = len(raw) - last
			}
			// Only the returned lines are decoded; lines between the head
			// and the tail are counted but never validated.
			res.TailLines, err = decodeLines(raw[skip:], seek == 0 && skip == 0)
			if err != nil {
				return HeadTailResult{}, stats, err
			}
			break
		}
	}
	stats.TailBytesRead = cr.n - tailStart
	stats.TotalBytes = cr.n
	return res, stats, nil
}

// readLinesFrom returns the raw whole lines that start at or after seek. When
// seek lies past the head boundary the scan starts one byte early and drops
// the first line read, which is either the newline ending the previous line
// or a fragment of a line that started before seek.
func readLinesFrom(src io.ReadSeeker, seek, headEnd int64) ([][]byte, error) {
	start := seek
	dropFirst := false
	if seek > headEnd {
		start = seek - 1
		dropFirst = true
	}
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return nil, apperrors.NewIOError("seek failed", "", err)
	}

	reader := bufio.NewReaderSize(src, tailChunkSize)
	var data [][]byte
	for {
		raw, err := reader.ReadBytes('\n')
		if len(raw) > 0 {
			if dropFirst {
				dropFirst = false
			} else {
				data = append(data, raw)
			}
		}
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, apperrors.NewIOError("read failed", "", err)
		}
	}
}

func decodeLines(raw [][]byte, atFileStart bool) ([]string, error) {
	var lines []string
	for i, r := range raw {
		line, err := decodeLine(r, atFileStart && i == 0)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// readUTF16 decodes a BOM-prefixed UTF-16 source in a single forward pass.
// Backward probes cannot find line starts in UTF-16, so the tail is kept in
// a window of the last lines seen instead.
func readUTF16(src io.Reader, enc unicodeEncoding, first, last int) (HeadTailResult, error) {
	endian := unicode.LittleEndian
	if enc == encodingUTF16BE {
		endian = unicode.BigEndian
	}
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	reader := bufio.NewReaderSize(transform.NewReader(src, decoder), tailChunkSize)

	var res HeadTailResult
	var tail [][]byte
	for {
		raw, err := reader.ReadBytes('\n')
		if len(raw) > 0 {
			res.TotalLineCount++
			switch {
			case len(res.HeadLines) < first:
				line, decErr := decodeLine(raw, false)
				if decErr != nil {
					return HeadTailResult{}, decErr
				}
				res.HeadLines = append(res.HeadLines, line)
			case last > 0:
				tail = append(tail, raw)
				if len(tail) > last {
					tail = tail[1:]
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return HeadTailResult{}, apperrors.NewIOError("read failed", "", err)
		}
	}
	lines, err := decodeLines(tail, false)
	if err != nil {
		return HeadTailResult{}, err
	}
	res.TailLines = lines
	return res, nil
}

func countLines(reader *bufio.Reader) (int, error) {
	count := 0
	pending := false
	for {
		chunk, err := reader.ReadSlice('\n')
		if len(chunk) > 0 {
			pending = true
			if chunk[len(chunk)-1] == '\n' {
				count++
				pending = false
			}
		}
		switch {
		case err == nil, errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == io.EOF:
			if pending {
				count++
			}
			return count, nil
		default:
			return count, err
		}
	}
}

func decodeLine(raw []byte, atFileStart bool) (string, error) {
	if atFileStart {
		raw = bytes.TrimPrefix(raw, utf8BOM)
	}
	raw = bytes.TrimSuffix(raw, []byte{'\n'})
	raw = bytes.TrimSuffix(raw, []byte{'\r'})
	if !utf8.Valid(raw) || bytes.IndexByte(raw, 0x00) != -1 {
		return "", apperrors.NewDecodeError("content is not utf-8 text", "", nil)
	}
	return string(raw), nil
}

type countingReadSeeker struct {
	src io.ReadSeeker
	n   int64
}

func (c *countingReadSeeker) Read(p []byte) (int, error) {
	n, err := c.src.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReadSeeker) Seek(offset int64, whence int) (int64, error) {
	return c.src.Seek(offset, whence)
}
