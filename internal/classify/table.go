package classify

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	apperrors "github.com/kk-code-lab/emview/internal/errors"
)

// TableShape counts the rows and columns of a tabular file. For CSV and TSV
// the first record is the header; STAR and XMD files report the first data
// block, where a block without loop_ is a single row of labelled values.
func (p *Probe) TableShape(path string) (TableInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return TableInfo{}, apperrors.NewClassificationError("cannot open table", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var shape TableInfo
	switch extension(path) {
	case ".star", ".xmd":
		shape, err = starShape(f)
	case ".tsv":
		shape, err = delimitedShape(f, '\t')
	default:
		shape, err = delimitedShape(f, ',')
	}
	if err != nil {
		return TableInfo{}, apperrors.NewClassificationError("cannot parse table", path, err)
	}
	return shape, nil
}

func delimitedShape(r io.Reader, comma rune) (TableInfo, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var shape TableInfo
	header := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return shape, nil
		}
		if err != nil {
			return TableInfo{}, err
		}
		if header {
			shape.Cols = len(record)
			header = false
			continue
		}
		shape.Rows++
	}
}

func starShape(r io.Reader) (TableInfo, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var shape TableInfo
	inBlock, inLoop, seenData := false, false, false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "data_"):
			if inBlock {
				return finishStar(shape, inLoop), nil
			}
			inBlock = true
		case !inBlock:
			continue
		case line == "loop_":
			inLoop = true
		case strings.HasPrefix(line, "_"):
			if seenData {
				return finishStar(shape, inLoop), nil
			}
			shape.Cols++
		default:
			seenData = true
			if inLoop {
				shape.Rows++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return TableInfo{}, err
	}
	return finishStar(shape, inLoop), nil
}

func finishStar(shape TableInfo, inLoop bool) TableInfo {
	if !inLoop && shape.Cols > 0 {
		shape.Rows = 1
	}
	return shape
}
