package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
	"github.com/kk-code-lab/emview/internal/classify"
	"github.com/kk-code-lab/emview/internal/preview"
	"github.com/kk-code-lab/emview/internal/textutil"
)

const terminalFormatter = "terminal256"

type writerStyles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	gutter lipgloss.Style
	marker lipgloss.Style
	view   lipgloss.Style
	errors lipgloss.Style
}

// Writer prints one preview per file to a stream: a title, the summary and
// the body. Errors reported by the router go to errOut.
type Writer struct {
	document
	out      io.Writer
	errOut   io.Writer
	tabWidth int
	color    bool
	styles   writerStyles
	err      error
}

// NewWriter returns a Writer. With color off no escape sequences are written.
func NewWriter(out, errOut io.Writer, tabWidth int, color bool) *Writer {
	w := &Writer{out: out, errOut: errOut, tabWidth: tabWidth, color: color}
	if color {
		renderer := lipgloss.NewRenderer(out)
		w.styles = writerStyles{
			title:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
			label:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("44")),
			gutter: renderer.NewStyle().Faint(true),
			marker: renderer.NewStyle().Foreground(lipgloss.Color("220")),
			view:   renderer.NewStyle().Italic(true),
			errors: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		}
	}
	return w
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) render(style lipgloss.Style, text string) string {
	if !w.color {
		return text
	}
	return style.Render(text)
}

// ShowSummary is the last call of every preview, so it prints the document.
func (w *Writer) ShowSummary(kind classify.FileKind, pairs []preview.SummaryPair) {
	w.setSummary(kind, pairs)
	if w.report != nil {
		w.printf(w.errOut, "%s\n", w.render(w.styles.errors, textutil.SanitizeName(w.report.String())))
	}
	if w.path != "" {
		w.printf(w.out, "%s\n", w.render(w.styles.title, textutil.SanitizeName(w.title())))
	}
	for _, pair := range w.summary {
		label, value, _ := strings.Cut(pair.String(), ": ")
		w.printf(w.out, "%s %s\n", w.render(w.styles.label, label+":"), textutil.SanitizeName(value))
	}
	if w.text == nil {
		if w.view != "" {
			w.printf(w.out, "\n%s\n", w.render(w.styles.view, w.view))
		}
		return
	}
	w.printf(w.out, "\n")
	w.printBody(*w.text)
}

func (w *Writer) printBody(body preview.TextBody) {
	highlight := w.highlighter(body.Highlighter)
	gutter := w.gutterWidth()
	for i, text := range body.Lines {
		number := body.LineNumbers[i]
		if number == 0 {
			w.printf(w.out, "%s %s\n", w.render(w.styles.gutter, strings.Repeat(" ", gutter)+" │"), w.render(w.styles.marker, text))
			continue
		}
		numberText := w.render(w.styles.gutter, fmt.Sprintf("%*d │", gutter, number))
		w.printf(w.out, "%s %s\n", numberText, highlight(textutil.CleanLine(text, w.tabWidth)))
	}
}

// highlighter returns a function colouring one line with chroma, or the
// identity when colour is off or no lexer is known.
func (w *Writer) highlighter(name string) func(string) string {
	plain := func(s string) string { return s }
	if !w.color {
		return plain
	}
	lexer := lexers.Get(name)
	formatter := formatters.Get(terminalFormatter)
	if lexer == nil || formatter == nil {
		return plain
	}
	style := syntaxStyle()
	return func(line string) string {
		it, err := lexer.Tokenise(nil, line)
		if err != nil {
			return line
		}
		var b strings.Builder
		if err := formatter.Format(&b, style, it); err != nil {
			return line
		}
		return strings.TrimRight(b.String(), "\n")
	}
}

func (w *Writer) printf(out io.Writer, format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintf(out, format, args...); err != nil {
		w.err = err
	}
}
