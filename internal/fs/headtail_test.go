package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/kk-code-lab/emview/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func writeLines(t *testing.T, n int, trailingNewline bool) (string, []string) {
	t.Helper()
	lines := make([]string, n)
	var b strings.Builder
	for i := range lines {
		lines[i] = fmt.Sprintf("line %07d", i+1)
		b.WriteString(lines[i])
		if i < n-1 || trailingNewline {
			b.WriteByte('\n')
		}
	}
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path, lines
}

// oracleLines reads the whole file independently of the reader under test.
func oracleLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(content), "\n")
	return strings.Split(text, "\n")
}

func expectedTail(all []string, first, last int) []string {
	if len(all) <= first {
		return nil
	}
	rest := all[first:]
	if len(rest) > last {
		rest = rest[len(rest)-last:]
	}
	return nonNilOrNil(rest)
}

func TestReadHeadTailProperties(t *testing.T) {
	sizes := []int{1, 2, 9, 10, 11, 99, 100, 101, 250, 5000}
	windows := [][2]int{{0, 0}, {0, 5}, {5, 0}, {1, 1}, {10, 10}, {50, 100}, {100, 50}, {7, 3000}}

	for _, n := range sizes {
		for _, trailing := range []bool{true, false} {
			path, _ := writeLines(t, n, trailing)
			all := oracleLines(t, path)
			for _, w := range windows {
				first, last := w[0], w[1]
				name := fmt.Sprintf("lines=%d/trailing=%v/first=%d/last=%d", n, trailing, first, last)
				t.Run(name, func(t *testing.T) {
					res, err := ReadHeadTail(path, first, last)
					require.NoError(t, err)

					assert.Equal(t, len(all), res.TotalLineCount)
					if len(all) <= first {
						assert.Equal(t, all, nonNil(res.HeadLines))
						assert.Empty(t, res.TailLines)
						return
					}
					assert.Len(t, res.HeadLines, first)
					assert.Equal(t, all[:first], nonNil(res.HeadLines))
					assert.Len(t, res.TailLines, min(last, len(all)-first))
					assert.Equal(t, expectedTail(all, first, last), nonNilOrNil(res.TailLines))
				})
			}
		}
	}
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}

func nonNilOrNil(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	return lines
}

func TestReadHeadTailIsIdempotent(t *testing.T) {
	path, _ := writeLines(t, 3000, true)

	a, err := ReadHeadTail(path, 20, 40)
	require.NoError(t, err)
	b, err := ReadHeadTail(path, 20, 40)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReadHeadTailZeroByteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	res, err := ReadHeadTail(path, 100, 100)
	require.NoError(t, err)
	assert.Empty(t, res.HeadLines)
	assert.Empty(t, res.TailLines)
	assert.Zero(t, res.TotalLineCount)
}

func TestReadHeadTailZeroWindowsStillCounts(t *testing.T) {
	path, _ := writeLines(t, 42, true)

	res, err := ReadHeadTail(path, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, res.HeadLines)
	assert.Empty(t, res.TailLines)
	assert.Equal(t, 42, res.TotalLineCount)
}

func TestReadHeadTailShortFileSkipsTail(t *testing.T) {
	path, lines := writeLines(t, 10, true)

	res, stats, err := ReadHeadTailStats(path, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, lines, res.HeadLines)
	assert.Empty(t, res.TailLines)
	assert.Equal(t, 10, res.TotalLineCount)
	assert.Zero(t, stats.TailProbes)
}

func TestReadHeadTailNewlineLessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.txt")
	require.NoError(t, os.WriteFile(path, []byte("no newline here"), 0o644))

	res, err := ReadHeadTail(path, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"no newline here"}, res.HeadLines)
	assert.Empty(t, res.TailLines)
	assert.Equal(t, 1, res.TotalLineCount)
}

func TestReadHeadTailStripsCRLFAndBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "win.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\nc\r\n"), 0o644))

	res, err := ReadHeadTail(path, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res.HeadLines)
	assert.Equal(t, []string{"b", "c"}, res.TailLines)

	res, err = ReadHeadTail(path, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.TailLines)
}

func TestReadHeadTailLongLinesNeedSeveralProbes(t *testing.T) {
	var b strings.Builder
	var lines []string
	for i := 0; i < 40; i++ {
		line := strings.Repeat(string(rune('a'+i%26)), 3000)
		lines = append(lines, line)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "wide.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	res, stats, err := ReadHeadTailStats(path, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, lines[30:], res.TailLines)
	assert.Greater(t, stats.TailProbes, 1)
	assert.Equal(t, 40, res.TotalLineCount)
}

func TestReadHeadTailMissingFile(t *testing.T) {
	_, err := ReadHeadTail(filepath.Join(t.TempDir(), "nope.txt"), 1, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.IOError, apperrors.KindOf(err))
}

func TestReadHeadTailRejectsBinaryContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.dat")
	require.NoError(t, os.WriteFile(path, []byte("ok\n\xff\xfe\x00\x01\n"), 0o644))

	_, err := ReadHeadTail(path, 10, 10)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDecode), "got %v", err)
	assert.Contains(t, err.Error(), path)
}

func TestReadHeadTailDecodesOnlyReturnedLines(t *testing.T) {
	dir := t.TempDir()
	// The broken line sits right before the tail, inside the first probe.
	content := "head\nbad \xff\xfe line\nt1\nt2\n"

	path := filepath.Join(dir, "middle.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	res, stats, err := ReadHeadTailStats(path, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"head"}, res.HeadLines)
	assert.Equal(t, []string{"t1", "t2"}, res.TailLines)
	assert.Equal(t, 4, res.TotalLineCount)
	assert.Equal(t, 1, stats.TailProbes)

	_, err = ReadHeadTail(path, 1, 3)
	assert.True(t, apperrors.Is(err, apperrors.ErrDecode), "got %v", err)
}

func TestReadHeadTailDecodesUTF16(t *testing.T) {
	dir := t.TempDir()
	text := []byte("alpha\r\nbeta\ngamma\ndelta\nepsilon\n")

	for name, endian := range map[string]unicode.Endianness{"le": unicode.LittleEndian, "be": unicode.BigEndian} {
		t.Run(name, func(t *testing.T) {
			encoded, err := unicode.UTF16(endian, unicode.UseBOM).NewEncoder().Bytes(text)
			require.NoError(t, err)
			path := filepath.Join(dir, name+".txt")
			require.NoError(t, os.WriteFile(path, encoded, 0o644))

			res, err := ReadHeadTail(path, 2, 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "beta"}, res.HeadLines)
			assert.Equal(t, []string{"delta", "epsilon"}, res.TailLines)
			assert.Equal(t, 5, res.TotalLineCount)

			res, err = ReadHeadTail(path, 4, 9)
			require.NoError(t, err)
			assert.Equal(t, []string{"epsilon"}, res.TailLines)
		})
	}
}

type countingSource struct {
	r    *bytes.Reader
	read int64
}

func (c *countingSource) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	return n, err
}

func (c *countingSource) Seek(offset int64, whence int) (int64, error) {
	return c.r.Seek(offset, whence)
}

var _ io.ReadSeeker = (*countingSource)(nil)

func TestReadHeadTailMillionLinesBoundedTailScan(t *testing.T) {
	if testing.Short() {
		t.Skip("large fixture")
	}
	const n = 1_000_000
	var b bytes.Buffer
	b.Grow(n * 13)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %07d\n", i)
	}
	size := int64(b.Len())
	src := &countingSource{r: bytes.NewReader(b.Bytes())}

	res, stats, err := ReadHeadTailFrom(src, size, 50, 50)
	require.NoError(t, err)

	require.Len(t, res.HeadLines, 50)
	assert.Equal(t, "line 0000001", res.HeadLines[0])
	assert.Equal(t, "line 0000050", res.HeadLines[49])
	require.Len(t, res.TailLines, 50)
	assert.Equal(t, "line 0999951", res.TailLines[0])
	assert.Equal(t, "line 1000000", res.TailLines[49])
	assert.Equal(t, n, res.TotalLineCount)

	// The head and count passes stream the file once; the backward scan must
	// only touch a small suffix on top of that.
	assert.Equal(t, 1, stats.TailProbes)
	assert.LessOrEqual(t, stats.TailBytesRead, int64(2*tailChunkSize))
	assert.Less(t, src.read, size+int64(4*tailChunkSize))
	assert.Equal(t, stats.TotalBytes, src.read)
}
