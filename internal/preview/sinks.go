package preview

import "github.com/kk-code-lab/emview/internal/classify"

// Severity of a user-facing error report.
type Severity int

const (
	SeverityInformation Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "information"
	}
}

// ViewMode selects how a table-backed view lays out its rows.
type ViewMode int

const (
	ColumnsView ViewMode = iota
	ItemsView
	GalleryView
)

func (m ViewMode) String() string {
	switch m {
	case ItemsView:
		return "ITEMS"
	case GalleryView:
		return "GALLERY"
	default:
		return "COLUMNS"
	}
}

// TableModel is what the table view renders.
type TableModel struct {
	Path       string
	Rows, Cols int
	Mode       ViewMode
}

// ImageModel is what the standard image view renders.
type ImageModel struct {
	Path  string
	Image classify.ImageInfo
}

// DataModel is what the single image, volume, gallery and movie views render.
type DataModel struct {
	Path     string
	Kind     classify.FileKind
	Dim      classify.DimensionInfo
	DataType string
	Mode     ViewMode
}

// Display shows the summary list next to the preview. A nil pairs slice
// clears it.
type Display interface {
	ShowSummary(kind classify.FileKind, pairs []SummaryPair)
}

// Views holds one renderer per preview kind. Only one is visible at a time.
type Views interface {
	ShowTable(TableModel) error
	ShowImage(ImageModel) error
	ShowData(DataModel) error
	ShowText(TextBody) error
	ShowEmpty()
}

// ErrorReporter tells the user that a preview failed.
type ErrorReporter interface {
	Report(title string, severity Severity, details string)
}
