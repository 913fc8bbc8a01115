// Package classify decides what kind of preview a file gets and probes the
// shape information each preview needs.
package classify

import "fmt"

// FileKind identifies the preview a file is routed to.
type FileKind int

const (
	Unknown FileKind = iota
	Table
	StandardImage
	// ScientificData is what Classify reports for image data files; the
	// router resolves it to one of the four data kinds below from the
	// file's DimensionInfo.
	ScientificData
	SingleImageData
	VolumeData
	ImageStackGallery
	Movie
	TextFile
)

func (k FileKind) String() string {
	switch k {
	case Table:
		return "TABLE"
	case StandardImage:
		return "STANDARD-IMAGE"
	case ScientificData:
		return "DATA"
	case SingleImageData:
		return "SINGLE-IMAGE"
	case VolumeData:
		return "VOLUME"
	case ImageStackGallery:
		return "IMAGES STACK"
	case Movie:
		return "MOVIE"
	case TextFile:
		return "TEXT FILE"
	default:
		return "UNKNOWN"
	}
}

// DimensionInfo is the shape of a scientific image file: N items (frames or
// volumes) of X by Y by Z voxels. DataType names the voxel type, e.g.
// "float32"; it is empty when the header does not say.
type DimensionInfo struct {
	X, Y, Z, N int
	DataType   string
}

// Validate checks N >= 1, Z >= 1 and X >= 0.
func (d DimensionInfo) Validate() error {
	if d.N < 1 || d.Z < 1 || d.X < 0 || d.Y < 0 {
		return fmt.Errorf("invalid dimensions %s", d)
	}
	return nil
}

func (d DimensionInfo) String() string {
	return fmt.Sprintf("%d x %d x %d x %d", d.X, d.Y, d.Z, d.N)
}

// ImageInfo is the header information of a standard raster image.
type ImageInfo struct {
	Width, Height int
	Format        string
}

// TableInfo is the shape of a tabular file.
type TableInfo struct {
	Rows, Cols int
}

// Classifier is what the preview router needs from type detection.
type Classifier interface {
	Classify(path string) (FileKind, error)
	Dimensions(path string) (DimensionInfo, error)
	TableShape(path string) (TableInfo, error)
	ImageShape(path string) (ImageInfo, error)
}
