// Package render holds the output sinks a preview is drawn to: a tcell
// screen for interactive use and a plain writer for pipes and scripts.
package render

import (
	"fmt"

	"github.com/kk-code-lab/emview/internal/classify"
	"github.com/kk-code-lab/emview/internal/preview"
	"golang.org/x/text/unicode/norm"
)

const emptyViewText = "no preview available"

type errorReport struct {
	title    string
	severity preview.Severity
	details  string
}

func (e errorReport) String() string {
	return fmt.Sprintf("%s: %s: %s", e.severity, e.title, e.details)
}

// document collects what the router sent for the current file. Both sinks
// embed it and draw it once the summary arrives, which the router always
// sends last.
type document struct {
	path    string
	kind    classify.FileKind
	summary []preview.SummaryPair
	view    string
	text    *preview.TextBody
	report  *errorReport
}

// Begin resets the document for a new file.
func (d *document) Begin(path string) {
	*d = document{path: path}
}

func (d *document) ShowTable(m preview.TableModel) error {
	d.text = nil
	d.view = fmt.Sprintf("%s view · %d rows x %d columns", m.Mode, m.Rows, m.Cols)
	return nil
}

func (d *document) ShowImage(m preview.ImageModel) error {
	d.text = nil
	d.view = fmt.Sprintf("%s image · %d x %d", m.Image.Format, m.Image.Width, m.Image.Height)
	return nil
}

func (d *document) ShowData(m preview.DataModel) error {
	d.text = nil
	d.view = fmt.Sprintf("%s · %s", m.Kind, m.Dim)
	if m.DataType != "" {
		d.view += " · " + m.DataType
	}
	if m.Mode == preview.GalleryView {
		d.view += " · " + m.Mode.String() + " view"
	}
	return nil
}

func (d *document) ShowText(body preview.TextBody) error {
	d.text = &body
	d.view = ""
	return nil
}

func (d *document) ShowEmpty() {
	d.text = nil
	d.view = emptyViewText
}

func (d *document) Report(title string, severity preview.Severity, details string) {
	d.report = &errorReport{title: title, severity: severity, details: details}
}

func (d *document) setSummary(kind classify.FileKind, pairs []preview.SummaryPair) {
	d.kind = kind
	d.summary = pairs
}

// title is the file name as shown in headers, NFC normalised so names
// written by macOS compare and measure like everyone else's.
func (d *document) title() string {
	return norm.NFC.String(d.path)
}

// gutterWidth is the column count of the widest line number in the body.
func (d *document) gutterWidth() int {
	if d.text == nil {
		return 0
	}
	widest := 0
	for _, n := range d.text.LineNumbers {
		if n > widest {
			widest = n
		}
	}
	return len(fmt.Sprint(widest))
}
