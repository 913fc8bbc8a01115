// Package preview routes a selected file to the view that can show it and
// fills in the summary list beside it.
package preview

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kk-code-lab/emview/internal/classify"
	"github.com/kk-code-lab/emview/internal/config"
	apperrors "github.com/kk-code-lab/emview/internal/errors"
	fsutil "github.com/kk-code-lab/emview/internal/fs"
	"github.com/kk-code-lab/emview/internal/logging"
)

// Summary labels.
const (
	LabelType       = "Type"
	LabelTableDims  = "Dimensions (Rows x Columns)"
	LabelDim        = "Dim"
	LabelExt        = "Ext"
	LabelDataType   = "Data type"
	LabelLines      = "Lines"
	LabelHighlight  = "Highlighter"
	errorReportHead = "Error opening the file"
)

// Result describes how one ShowFile call ended.
type Result struct {
	Path    string
	Kind    classify.FileKind
	State   State
	Summary Summary
	Text    *TextBody
	Err     error
}

// Router runs one classify and render pass per selected file. It holds no
// state between calls.
type Router struct {
	cfg        config.Config
	classifier classify.Classifier
	views      Views
	display    Display
	reporter   ErrorReporter
	logger     *logging.Logger
	readText   func(path string, first, last int) (fsutil.HeadTailResult, fsutil.Stats, error)
}

// NewRouter wires a router to its collaborators. A nil logger uses the
// process default.
func NewRouter(cfg config.Config, classifier classify.Classifier, views Views, display Display, reporter ErrorReporter, logger *logging.Logger) *Router {
	if logger == nil {
		logger = logging.Default()
	}
	return &Router{
		cfg:        cfg,
		classifier: classifier,
		views:      views,
		display:    display,
		reporter:   reporter,
		logger:     logger,
		readText:   fsutil.ReadHeadTailStats,
	}
}

// ShowFile previews path. Errors never escape: they are reported, the views
// fall back to the empty view and the summary is cleared.
func (r *Router) ShowFile(path string) Result {
	start := time.Now()
	res := Result{Path: path, State: Classifying}

	if err := r.route(path, &res); err != nil {
		r.fail(&res, err)
	} else {
		r.display.ShowSummary(res.Kind, res.Summary.Pairs())
	}

	logger := r.logger.With("path", path)
	logger.Debug("preview", "kind", res.Kind, "state", res.State)
	logger.Performance("preview", start)
	return res
}

func (r *Router) route(path string, res *Result) error {
	kind, err := r.classifier.Classify(path)
	if err != nil {
		return err
	}
	res.Kind = kind

	switch kind {
	case classify.Table:
		return r.showTable(path, res)
	case classify.StandardImage:
		return r.showImage(path, res)
	case classify.ScientificData:
		return r.showData(path, res)
	case classify.TextFile:
		return r.showText(path, res)
	default:
		res.Kind = classify.Unknown
		res.State = RenderingEmpty
		res.Summary.Clear()
		r.views.ShowEmpty()
		return nil
	}
}

func (r *Router) showTable(path string, res *Result) error {
	shape, err := r.classifier.TableShape(path)
	if err != nil {
		return err
	}
	mode := ColumnsView
	if shape.Rows == 1 {
		mode = ItemsView
	}
	if err := r.views.ShowTable(TableModel{Path: path, Rows: shape.Rows, Cols: shape.Cols, Mode: mode}); err != nil {
		return err
	}
	res.State = RenderingTable
	res.Summary.Set(LabelType, classify.Table.String())
	res.Summary.Set(LabelTableDims, fmt.Sprintf("%d x %d", shape.Rows, shape.Cols))
	return nil
}

func (r *Router) showImage(path string, res *Result) error {
	info, err := r.classifier.ImageShape(path)
	if err != nil {
		return err
	}
	if err := r.views.ShowImage(ImageModel{Path: path, Image: info}); err != nil {
		return err
	}
	res.State = RenderingStandardImage
	res.Summary.Set(LabelType, classify.StandardImage.String())
	res.Summary.Set(LabelDim, fmt.Sprintf("(%d, %d)", info.Width, info.Height))
	res.Summary.Set(LabelExt, extension(path))
	return nil
}

func (r *Router) showData(path string, res *Result) error {
	dim, err := r.classifier.Dimensions(path)
	if err != nil {
		return err
	}
	if err := dim.Validate(); err != nil {
		return apperrors.NewClassificationError("bad data shape", path, err)
	}
	kind, state, err := ResolveData(path, dim, r.cfg.MovieSize)
	if err != nil {
		return err
	}
	mode := ColumnsView
	if kind == classify.ImageStackGallery {
		mode = GalleryView
	}
	if err := r.views.ShowData(DataModel{Path: path, Kind: kind, Dim: dim, DataType: dim.DataType, Mode: mode}); err != nil {
		return err
	}
	res.Kind = kind
	res.State = state
	res.Summary.Set(LabelType, kind.String())
	res.Summary.Set(LabelDim, dim.String())
	res.Summary.Set(LabelExt, extension(path))
	if dim.DataType != "" {
		res.Summary.Set(LabelDataType, dim.DataType)
	}
	return nil
}

func (r *Router) showText(path string, res *Result) error {
	lines, stats, err := r.readText(path, r.cfg.FirstLines, r.cfg.LastLines)
	if err != nil {
		return err
	}
	r.logger.Debug("head/tail read", "path", path, "lines", lines.TotalLineCount,
		"bytes", stats.TotalBytes, "tail_bytes", stats.TailBytesRead, "tail_probes", stats.TailProbes)
	body := BuildTextBody(lines, r.cfg.FirstLines, r.cfg.LastLines)
	body.Path = path
	body.Highlighter = HighlighterName(path, lines.HeadLines)
	if err := r.views.ShowText(body); err != nil {
		return err
	}
	res.State = RenderingText
	res.Text = &body
	res.Summary.Set(LabelType, classify.TextFile.String())
	res.Summary.Set(LabelLines, strconv.Itoa(lines.TotalLineCount))
	res.Summary.Set(LabelHighlight, body.Highlighter)
	return nil
}

func (r *Router) fail(res *Result, err error) {
	res.State = Failed
	res.Err = err
	res.Text = nil
	res.Summary.Clear()

	r.logger.Error("preview failed", "path", res.Path, "kind", apperrors.KindOf(err), "error", err)
	r.reporter.Report(errorReportHead, SeverityCritical, err.Error())
	r.views.ShowEmpty()
	r.display.ShowSummary(classify.Unknown, nil)
}

func extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
