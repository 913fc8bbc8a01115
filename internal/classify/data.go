package classify

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	apperrors "github.com/kk-code-lab/emview/internal/errors"
)

const (
	mrcHeaderSize = 1024
	emHeaderSize  = 512

	// space group 401 marks an MRC file holding a stack of volumes
	mrcVolumeStackGroup = 401
	maxAxisLength       = 1 << 20
)

// Extensions whose third axis is a frame index rather than depth.
var stackExtensions = map[string]struct{}{
	".mrcs": {}, ".st": {}, ".ali": {},
}

// bits per voxel by MRC mode
var mrcModeBits = map[int32]int64{
	0: 8, 1: 16, 2: 32, 3: 32, 4: 64, 6: 16, 12: 16, 101: 4,
}

var mrcModeTypes = map[int32]string{
	0: "int8", 1: "int16", 2: "float32", 3: "complex int16", 4: "complex64",
	6: "uint16", 12: "float16", 101: "uint4",
}

// EM data type byte: voxel size in bytes and name.
var emTypes = map[byte]struct {
	size int64
	name string
}{
	1: {1, "uint8"}, 2: {2, "int16"}, 4: {4, "int32"}, 5: {4, "float32"},
	8: {8, "complex64"}, 9: {8, "float64"},
}

// Dimensions reads the shape of a scientific image file from its header.
func (p *Probe) Dimensions(path string) (DimensionInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return DimensionInfo{}, apperrors.NewClassificationError("cannot open data file", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return DimensionInfo{}, apperrors.NewClassificationError("cannot stat data file", path, err)
	}

	var dim DimensionInfo
	switch extension(path) {
	case ".em":
		dim, err = readEMHeader(f, info.Size())
	default:
		_, stack := stackExtensions[extension(path)]
		dim, err = readMRCHeader(f, info.Size(), stack)
	}
	if err == nil {
		err = dim.Validate()
	}
	if err != nil {
		return DimensionInfo{}, apperrors.NewClassificationError("unreadable data header", path, err)
	}
	return dim, nil
}

func readMRCHeader(r io.Reader, size int64, stack bool) (DimensionInfo, error) {
	header := make([]byte, mrcHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return DimensionInfo{}, fmt.Errorf("short mrc header: %w", err)
	}

	order := mrcByteOrder(header)
	field := func(word int) int32 {
		return int32(order.Uint32(header[word*4:]))
	}
	nx, ny, nz, mode := field(0), field(1), field(2), field(3)
	mz, ispg, nsymbt := field(9), field(22), field(23)

	for _, n := range []int32{nx, ny, nz} {
		if n <= 0 || n > maxAxisLength {
			return DimensionInfo{}, fmt.Errorf("axis length %d out of range", n)
		}
	}
	bits, ok := mrcModeBits[mode]
	if !ok {
		return DimensionInfo{}, fmt.Errorf("unsupported mrc mode %d", mode)
	}
	want := mrcHeaderSize + int64(nsymbt) + (int64(nx)*int64(ny)*int64(nz)*bits+7)/8
	if size < want {
		return DimensionInfo{}, fmt.Errorf("file holds %d bytes, header describes %d", size, want)
	}

	dim := DimensionInfo{X: int(nx), Y: int(ny), Z: int(nz), N: 1, DataType: mrcModeTypes[mode]}
	switch {
	case stack:
		dim.Z, dim.N = 1, int(nz)
	case ispg == mrcVolumeStackGroup && mz > 0 && nz%mz == 0:
		dim.Z, dim.N = int(mz), int(nz/mz)
	}
	return dim, nil
}

// mrcByteOrder reads the machine stamp at byte 212 and falls back to
// whichever order gives a plausible nx.
func mrcByteOrder(header []byte) binary.ByteOrder {
	switch header[212] {
	case 0x44:
		return binary.LittleEndian
	case 0x11:
		return binary.BigEndian
	}
	if nx := int32(binary.LittleEndian.Uint32(header)); nx > 0 && nx <= maxAxisLength {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// readEMHeader parses the 512 byte header of the EM format: a machine byte,
// two unused bytes, the data type, then nx, ny, nz as int32 in the byte
// order of the writing machine (6 is PC, everything else big-endian).
func readEMHeader(r io.Reader, size int64) (DimensionInfo, error) {
	header := make([]byte, emHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return DimensionInfo{}, fmt.Errorf("short em header: %w", err)
	}
	var order binary.ByteOrder = binary.BigEndian
	if header[0] == 6 {
		order = binary.LittleEndian
	}
	nx := int32(order.Uint32(header[4:]))
	ny := int32(order.Uint32(header[8:]))
	nz := int32(order.Uint32(header[12:]))
	for _, n := range []int32{nx, ny, nz} {
		if n <= 0 || n > maxAxisLength {
			return DimensionInfo{}, fmt.Errorf("axis length %d out of range", n)
		}
	}
	voxel, ok := emTypes[header[3]]
	if !ok {
		return DimensionInfo{}, fmt.Errorf("unsupported em data type %d", header[3])
	}
	if want := emHeaderSize + int64(nx)*int64(ny)*int64(nz)*voxel.size; size < want {
		return DimensionInfo{}, fmt.Errorf("file holds %d bytes, header describes %d", size, want)
	}
	return DimensionInfo{X: int(nx), Y: int(ny), Z: int(nz), N: 1, DataType: voxel.name}, nil
}
