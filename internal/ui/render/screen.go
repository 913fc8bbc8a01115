package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/emview/internal/classify"
	"github.com/kk-code-lab/emview/internal/preview"
	"github.com/kk-code-lab/emview/internal/textutil"
	"github.com/mattn/go-runewidth"
)

const (
	appTitle           = "emview"
	footerHelp         = " q/Esc: quit  ↑↓/Pg: scroll  Home/End: jump "
	minHeaderNameWidth = 8
)

var errQuit = errors.New("quit")

type refreshEvent struct{}

type segment struct {
	text  string
	style tcell.Style
}

type screenLine struct {
	number   int
	marker   bool
	segments []segment
}

// Screen draws previews on a terminal. All sink methods and Run must be
// called from the same goroutine; Refresh may be called from any.
type Screen struct {
	document
	screen   tcell.Screen
	theme    ColorTheme
	tabWidth int
	color    bool
	lines    []screenLine
	scroll   int
}

// NewScreen wraps an initialised tcell screen.
func NewScreen(screen tcell.Screen, tabWidth int, color bool) *Screen {
	return &Screen{
		screen:   screen,
		theme:    GetColorTheme(),
		tabWidth: tabWidth,
		color:    color,
	}
}

// Begin starts a new file and resets scrolling.
func (s *Screen) Begin(path string) {
	s.document.Begin(path)
	s.lines = nil
	s.scroll = 0
}

func (s *Screen) ShowText(body preview.TextBody) error {
	if err := s.document.ShowText(body); err != nil {
		return err
	}
	s.lines = s.buildLines(body)
	return nil
}

func (s *Screen) ShowEmpty() {
	s.document.ShowEmpty()
	s.lines = nil
}

func (s *Screen) ShowSummary(kind classify.FileKind, pairs []preview.SummaryPair) {
	s.setSummary(kind, pairs)
	s.Draw()
}

func (s *Screen) buildLines(body preview.TextBody) []screenLine {
	var lexer chroma.Lexer
	if s.color {
		lexer = lexers.Get(body.Highlighter)
	}
	style := syntaxStyle()
	base := tcell.StyleDefault.Foreground(s.theme.TextFg)

	lines := make([]screenLine, 0, len(body.Lines))
	for i, text := range body.Lines {
		number := body.LineNumbers[i]
		if number == 0 {
			lines = append(lines, screenLine{marker: true, segments: []segment{{text: text, style: base.Foreground(s.theme.MarkerFg)}}})
			continue
		}
		clean := textutil.CleanLine(text, s.tabWidth)
		lines = append(lines, screenLine{number: number, segments: highlightLine(lexer, style, clean, base)})
	}
	return lines
}

// highlightLine tokenises one line on its own, so multi-line constructs lose
// their colour past the first line.
func highlightLine(lexer chroma.Lexer, style *chroma.Style, text string, base tcell.Style) []segment {
	if lexer == nil || text == "" {
		return []segment{{text: text, style: base}}
	}
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return []segment{{text: text, style: base}}
	}
	var segments []segment
	for tok := it(); tok != chroma.EOF; tok = it() {
		value := strings.TrimSuffix(tok.Value, "\n")
		if value == "" {
			continue
		}
		segments = append(segments, segment{text: value, style: tokenStyle(style, tok.Type, base)})
	}
	return segments
}

// Draw repaints the whole screen from the current document.
func (s *Screen) Draw() {
	s.screen.Clear()
	w, h := s.screen.Size()
	if w <= 0 || h <= 0 {
		s.screen.Show()
		return
	}

	s.drawHeader(w)
	y := 1
	y = s.drawSummary(y, w, h-1)
	s.drawBody(y, w, h-1)
	s.drawFooter(w, h)
	s.screen.Show()
}

func (s *Screen) drawHeader(w int) {
	style := tcell.StyleDefault.Background(s.theme.HeaderBg).Foreground(s.theme.HeaderFg)
	x := s.drawText(0, 0, w, appTitle+" ", style.Bold(true))

	nameWidth := w - x
	status := formatTextStatus(s.text)
	statusWidth := textutil.DisplayWidth(status)
	if status != "" && nameWidth-statusWidth-2 >= minHeaderNameWidth {
		nameWidth -= statusWidth + 2
	} else {
		status = ""
	}

	name := textutil.TruncateLeft(textutil.SanitizeName(s.title()), nameWidth)
	x = s.drawText(x, 0, nameWidth, name, style)
	for ; x < w; x++ {
		s.screen.SetContent(x, 0, ' ', nil, style)
	}
	if status != "" {
		s.drawText(w-statusWidth-1, 0, statusWidth, status, style)
	}
}

func (s *Screen) drawSummary(y, w, bottom int) int {
	labelStyle := tcell.StyleDefault.Foreground(s.theme.LabelFg).Bold(true)
	valueStyle := tcell.StyleDefault.Foreground(s.theme.ValueFg)
	for _, pair := range s.summary {
		if y >= bottom {
			return y
		}
		label, value, _ := strings.Cut(pair.String(), ": ")
		x := s.drawText(0, y, w, label+": ", labelStyle)
		s.drawText(x, y, w-x, textutil.SanitizeName(value), valueStyle)
		y++
	}
	if len(s.summary) > 0 && y < bottom {
		y++
	}
	return y
}

func (s *Screen) drawBody(y, w, bottom int) {
	if s.text == nil {
		if s.view != "" && y < bottom {
			s.drawText(0, y, w, s.view, tcell.StyleDefault.Foreground(s.theme.ViewFg).Italic(true))
		}
		return
	}

	gutter := s.gutterWidth()
	gutterStyle := tcell.StyleDefault.Foreground(s.theme.GutterFg)
	for i := s.scroll; i < len(s.lines) && y < bottom; i++ {
		line := s.lines[i]
		number := strings.Repeat(" ", gutter)
		if !line.marker {
			number = fmt.Sprintf("%*d", gutter, line.number)
		}
		x := s.drawText(0, y, w, number+" │ ", gutterStyle)
		for _, seg := range line.segments {
			if x >= w {
				break
			}
			x = s.drawText(x, y, w-x, seg.text, seg.style)
		}
		y++
	}
}

func (s *Screen) drawFooter(w, h int) {
	y := h - 1
	if s.report != nil {
		fg := s.theme.WarningFg
		if s.report.severity == preview.SeverityCritical {
			fg = s.theme.CriticalFg
		}
		text := textutil.Truncate(textutil.SanitizeName(s.report.String()), w)
		s.drawText(0, y, w, text, tcell.StyleDefault.Foreground(fg).Bold(true))
		return
	}
	s.drawText(0, y, w, textutil.Truncate(footerHelp, w), tcell.StyleDefault.Foreground(s.theme.FooterFg))
}

// drawText writes text from startX, clipped to maxWidth columns, and returns
// the column after the last cell written. Zero-width runes are attached to
// the preceding cell.
func (s *Screen) drawText(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	for i := 0; i < len(runes); {
		mainc := runes[i]
		i++
		var combc []rune
		for i < len(runes) && runewidth.RuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}
		width := runewidth.RuneWidth(mainc)
		if width == 0 {
			width = 1
		}
		if x-startX+width > maxWidth {
			break
		}
		s.screen.SetContent(x, y, mainc, combc, style)
		x += width
	}
	return x
}

// bodyRows is how many text rows fit below the header and summary.
func (s *Screen) bodyRows() int {
	_, h := s.screen.Size()
	rows := h - 2 - len(s.summary)
	if len(s.summary) > 0 {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Scroll moves the body by delta rows, clamped to the content.
func (s *Screen) Scroll(delta int) {
	limit := len(s.lines) - s.bodyRows()
	if limit < 0 {
		limit = 0
	}
	s.scroll += delta
	if s.scroll > limit {
		s.scroll = limit
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
}

// Refresh asks Run to call its reload function. Safe from any goroutine.
func (s *Screen) Refresh() {
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(refreshEvent{}))
}

// Run processes terminal events until the user quits or ctx is done.
// reload is invoked on the event goroutine for every Refresh.
func (s *Screen) Run(ctx context.Context, reload func()) error {
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.screen.PostEvent(tcell.NewEventInterrupt(errQuit))
		case <-stopped:
		}
	}()

	s.Draw()
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			switch ev.Data() {
			case errQuit:
				return nil
			default:
				if reload != nil {
					reload()
				}
			}
		case *tcell.EventResize:
			s.screen.Sync()
			s.Scroll(0)
			s.Draw()
		case *tcell.EventKey:
			if s.handleKey(ev) {
				return nil
			}
			s.Draw()
		}
	}
}

// handleKey applies a key press and reports whether the user asked to quit.
func (s *Screen) handleKey(ev *tcell.EventKey) bool {
	page := s.bodyRows()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		s.Scroll(-1)
	case tcell.KeyDown:
		s.Scroll(1)
	case tcell.KeyPgUp:
		s.Scroll(-page)
	case tcell.KeyPgDn:
		s.Scroll(page)
	case tcell.KeyHome:
		s.Scroll(-len(s.lines))
	case tcell.KeyEnd:
		s.Scroll(len(s.lines))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'j':
			s.Scroll(1)
		case 'k':
			s.Scroll(-1)
		case ' ':
			s.Scroll(page)
		}
	}
	return false
}
