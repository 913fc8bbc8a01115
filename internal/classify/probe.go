package classify

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	apperrors "github.com/kk-code-lab/emview/internal/errors"
	fsutil "github.com/kk-code-lab/emview/internal/fs"
)

var (
	tableExtensions = map[string]struct{}{
		".csv": {}, ".tsv": {}, ".star": {}, ".xmd": {},
	}
	imageExtensions = map[string]struct{}{
		".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {},
		".tif": {}, ".tiff": {}, ".webp": {},
	}
	dataExtensions = map[string]struct{}{
		".mrc": {}, ".mrcs": {}, ".map": {}, ".st": {}, ".ali": {}, ".rec": {}, ".em": {},
	}
	imageMIMETypes = []string{
		"image/png", "image/jpeg", "image/gif", "image/bmp", "image/tiff", "image/webp",
	}
)

// Probe classifies files by extension first and by content second.
type Probe struct{}

// NewProbe returns the default classifier.
func NewProbe() *Probe {
	return &Probe{}
}

var _ Classifier = (*Probe)(nil)

// Classify maps path to a FileKind. Extension tables are checked in the
// order table, standard image, scientific data; anything else is sniffed.
func (p *Probe) Classify(path string) (FileKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Unknown, apperrors.NewClassificationError("cannot stat file", path, err)
	}
	if info.IsDir() {
		return Unknown, nil
	}

	ext := extension(path)
	if _, ok := tableExtensions[ext]; ok {
		return Table, nil
	}
	if _, ok := imageExtensions[ext]; ok {
		return StandardImage, nil
	}
	if _, ok := dataExtensions[ext]; ok {
		return ScientificData, nil
	}

	sample, err := fsutil.ReadTextSample(path)
	if err != nil {
		return Unknown, apperrors.NewClassificationError("cannot read sample", path, err)
	}
	if fsutil.IsTextFile(path, sample) {
		return TextFile, nil
	}
	if fsutil.HasBinaryExtension(path) {
		return Unknown, nil
	}

	mt := mimetype.Detect(sample)
	if hasTextAncestor(mt) {
		return TextFile, nil
	}
	for _, m := range imageMIMETypes {
		if mt.Is(m) {
			return StandardImage, nil
		}
	}
	return Unknown, nil
}

func hasTextAncestor(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true
		}
	}
	return false
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
