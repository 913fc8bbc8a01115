package preview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	fsutil "github.com/kk-code-lab/emview/internal/fs"
)

const (
	gapMarker     = "."
	gapMarkerRows = 3
	plainTextName = "plaintext"
)

// TextBody is the text view's content: head lines, an optional gap marker,
// and tail lines. LineNumbers holds the source line of every row, 0 for the
// marker rows.
type TextBody struct {
	Path        string
	Lines       []string
	LineNumbers []int
	TotalLines  int
	Highlighter string
	Truncated   bool
}

// BuildTextBody lays out a head/tail read made with the given window sizes.
// The gap marker is only inserted when lines were actually skipped, that is
// when the file has more than first+last lines.
func BuildTextBody(res fsutil.HeadTailResult, first, last int) TextBody {
	body := TextBody{
		TotalLines: res.TotalLineCount,
		Lines:      make([]string, 0, len(res.HeadLines)+len(res.TailLines)+gapMarkerRows),
	}
	for i, line := range res.HeadLines {
		body.Lines = append(body.Lines, line)
		body.LineNumbers = append(body.LineNumbers, i+1)
	}
	if len(res.TailLines) == 0 {
		return body
	}

	if res.TotalLineCount > first+last {
		body.Truncated = true
		for i := 0; i < gapMarkerRows; i++ {
			body.Lines = append(body.Lines, gapMarker)
			body.LineNumbers = append(body.LineNumbers, 0)
		}
	}
	tailStart := res.TotalLineCount - len(res.TailLines)
	for i, line := range res.TailLines {
		body.Lines = append(body.Lines, line)
		body.LineNumbers = append(body.LineNumbers, tailStart+i+1)
	}
	return body
}

// SelectLexer picks a syntax lexer by file name, then by content.
func SelectLexer(path string, head []string) chroma.Lexer {
	if lexer := lexers.Match(path); lexer != nil {
		return lexer
	}
	if len(head) > 0 {
		if lexer := lexers.Analyse(strings.Join(head, "\n")); lexer != nil {
			return lexer
		}
	}
	return lexers.Get(plainTextName)
}

// HighlighterName returns the name of the lexer chosen for path.
func HighlighterName(path string, head []string) string {
	lexer := SelectLexer(path, head)
	if lexer == nil {
		return plainTextName
	}
	return strings.ToLower(lexer.Config().Name)
}
