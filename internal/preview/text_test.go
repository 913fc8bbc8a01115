package preview

import (
	"testing"

	"github.com/kk-code-lab/emview/internal/classify"
	apperrors "github.com/kk-code-lab/emview/internal/errors"
	fsutil "github.com/kk-code-lab/emview/internal/fs"
	"github.com/stretchr/testify/assert"
)

func TestBuildTextBodyHeadOnly(t *testing.T) {
	body := BuildTextBody(fsutil.HeadTailResult{
		HeadLines:      []string{"a", "b"},
		TotalLineCount: 2,
	}, 100, 100)

	assert.Equal(t, []string{"a", "b"}, body.Lines)
	assert.Equal(t, []int{1, 2}, body.LineNumbers)
	assert.False(t, body.Truncated)
	assert.Equal(t, 2, body.TotalLines)
}

func TestBuildTextBodyGapOnlyWhenLinesSkipped(t *testing.T) {
	tests := []struct {
		name        string
		res         fsutil.HeadTailResult
		first, last int
		wantLines   []string
		wantNumbers []int
		wantGap     bool
	}{
		{
			name: "windows cover the file",
			res: fsutil.HeadTailResult{
				HeadLines:      []string{"1", "2"},
				TailLines:      []string{"3", "4"},
				TotalLineCount: 4,
			},
			first: 2, last: 3,
			wantLines:   []string{"1", "2", "3", "4"},
			wantNumbers: []int{1, 2, 3, 4},
		},
		{
			name: "windows exactly cover the file",
			res: fsutil.HeadTailResult{
				HeadLines:      []string{"1", "2"},
				TailLines:      []string{"3", "4"},
				TotalLineCount: 4,
			},
			first: 2, last: 2,
			wantLines:   []string{"1", "2", "3", "4"},
			wantNumbers: []int{1, 2, 3, 4},
		},
		{
			name: "one line skipped",
			res: fsutil.HeadTailResult{
				HeadLines:      []string{"1", "2"},
				TailLines:      []string{"4", "5"},
				TotalLineCount: 5,
			},
			first: 2, last: 2,
			wantLines:   []string{"1", "2", ".", ".", ".", "4", "5"},
			wantNumbers: []int{1, 2, 0, 0, 0, 4, 5},
			wantGap:     true,
		},
		{
			name: "no head",
			res: fsutil.HeadTailResult{
				TailLines:      []string{"9", "10"},
				TotalLineCount: 10,
			},
			first: 0, last: 2,
			wantLines:   []string{".", ".", ".", "9", "10"},
			wantNumbers: []int{0, 0, 0, 9, 10},
			wantGap:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := BuildTextBody(tt.res, tt.first, tt.last)
			assert.Equal(t, tt.wantLines, body.Lines)
			assert.Equal(t, tt.wantNumbers, body.LineNumbers)
			assert.Equal(t, tt.wantGap, body.Truncated)
		})
	}
}

func TestHighlighterName(t *testing.T) {
	assert.Equal(t, "go", HighlighterName("/src/main.go", []string{"package main"}))
	assert.Equal(t, "plaintext", HighlighterName("/notes/readme.txt", []string{"hello"}))
}

func TestResolveData(t *testing.T) {
	tests := []struct {
		dim       classify.DimensionInfo
		wantKind  classify.FileKind
		wantState State
	}{
		{classify.DimensionInfo{X: 10, Y: 10, Z: 1, N: 1}, classify.SingleImageData, RenderingSingleImage},
		{classify.DimensionInfo{X: 10, Y: 10, Z: 5, N: 1}, classify.VolumeData, RenderingVolume},
		{classify.DimensionInfo{X: 512, Y: 10, Z: 1, N: 3}, classify.ImageStackGallery, RenderingGallery},
		{classify.DimensionInfo{X: 513, Y: 10, Z: 1, N: 3}, classify.Movie, RenderingMovie},
	}
	for _, tt := range tests {
		kind, state, err := ResolveData("/d.mrc", tt.dim, 512)
		assert.NoError(t, err, tt.dim.String())
		assert.Equal(t, tt.wantKind, kind, tt.dim.String())
		assert.Equal(t, tt.wantState, state, tt.dim.String())
	}

	_, state, err := ResolveData("/d.mrc", classify.DimensionInfo{X: 10, Y: 10, Z: 2, N: 2}, 512)
	assert.Equal(t, Failed, state)
	assert.ErrorIs(t, err, apperrors.ErrUnsupported)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "classifying", Classifying.String())
	assert.Equal(t, "rendering-gallery", RenderingGallery.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "state(42)", State(42).String())
	assert.False(t, Classifying.Terminal())
	assert.True(t, RenderingEmpty.Terminal())
}

func TestSummaryKeepsInsertionOrder(t *testing.T) {
	var s Summary
	s.Set("Type", "TABLE")
	s.Set("Dimensions (Rows x Columns)", "1 x 2")
	s.Set("Type", "TEXT FILE")

	assert.Equal(t, []string{"Type: TEXT FILE", "Dimensions (rows x columns): 1 x 2"}, s.Lines())
	s.Clear()
	assert.Nil(t, s.Pairs())
	assert.Empty(t, s.Lines())
}
