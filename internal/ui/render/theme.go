package render

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

const syntaxStyleName = "monokai"

// ColorTheme defines screen colors.
type ColorTheme struct {
	HeaderBg   tcell.Color
	HeaderFg   tcell.Color
	LabelFg    tcell.Color
	ValueFg    tcell.Color
	GutterFg   tcell.Color
	MarkerFg   tcell.Color
	TextFg     tcell.Color
	ViewFg     tcell.Color
	FooterFg   tcell.Color
	WarningFg  tcell.Color
	CriticalFg tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		HeaderBg:   tcell.Color33,
		HeaderFg:   tcell.ColorWhite,
		LabelFg:    tcell.Color44,
		ValueFg:    tcell.ColorDefault,
		GutterFg:   tcell.ColorLightSlateGray,
		MarkerFg:   tcell.Color220,
		TextFg:     tcell.ColorDefault,
		ViewFg:     tcell.Color252,
		FooterFg:   tcell.ColorDefault,
		WarningFg:  tcell.Color214,
		CriticalFg: tcell.Color196,
	}
}

// syntaxStyle returns the chroma style used for highlighted text.
func syntaxStyle() *chroma.Style {
	style := styles.Get(syntaxStyleName)
	if style == nil {
		return styles.Fallback
	}
	return style
}

// tokenStyle maps a chroma token type onto a tcell style.
func tokenStyle(style *chroma.Style, tokenType chroma.TokenType, base tcell.Style) tcell.Style {
	entry := style.Get(tokenType)
	if entry.Colour.IsSet() {
		base = base.Foreground(tcell.NewRGBColor(int32(entry.Colour.Red()), int32(entry.Colour.Green()), int32(entry.Colour.Blue())))
	}
	if entry.Bold == chroma.Yes {
		base = base.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		base = base.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		base = base.Underline(true)
	}
	return base
}
