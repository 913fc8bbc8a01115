package preview

import (
	"fmt"

	"github.com/kk-code-lab/emview/internal/classify"
	apperrors "github.com/kk-code-lab/emview/internal/errors"
)

// State is a step of one preview pass. A pass starts in Classifying and ends
// in exactly one Rendering state or Failed.
type State int

const (
	Classifying State = iota
	RenderingTable
	RenderingStandardImage
	RenderingSingleImage
	RenderingVolume
	RenderingGallery
	RenderingMovie
	RenderingText
	RenderingEmpty
	Failed
)

var stateNames = [...]string{
	Classifying:            "classifying",
	RenderingTable:         "rendering-table",
	RenderingStandardImage: "rendering-standard-image",
	RenderingSingleImage:   "rendering-single-image",
	RenderingVolume:        "rendering-volume",
	RenderingGallery:       "rendering-gallery",
	RenderingMovie:         "rendering-movie",
	RenderingText:          "rendering-text",
	RenderingEmpty:         "rendering-empty",
	Failed:                 "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether a pass can end in s.
func (s State) Terminal() bool {
	return s != Classifying
}

// ResolveData picks the view for scientific image data from its shape.
// Stacks of volumes have no view and yield an UnsupportedKind error.
func ResolveData(path string, dim classify.DimensionInfo, movieSize int) (classify.FileKind, State, error) {
	switch {
	case dim.N == 1 && dim.Z == 1:
		return classify.SingleImageData, RenderingSingleImage, nil
	case dim.N == 1:
		return classify.VolumeData, RenderingVolume, nil
	case dim.Z > 1:
		return classify.Unknown, Failed, apperrors.NewUnsupportedKind("volume stack is not supported", path)
	case dim.X <= movieSize:
		return classify.ImageStackGallery, RenderingGallery, nil
	default:
		return classify.Movie, RenderingMovie, nil
	}
}
