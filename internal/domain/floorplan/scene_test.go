package floorplan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapToGrid(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{14, 0},
		{15, 30},
		{29, 30},
		{31, 30},
		{44, 30},
		{46, 60},
		{-14, 0},
		{-16, -30},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SnapToGrid(tt.in), "SnapToGrid(%v)", tt.in)
	}
}

func TestTableNumberFormatting(t *testing.T) {
	assert.Equal(t, "T01", FormatTableNumber(1))
	assert.Equal(t, "T12", FormatTableNumber(12))
	assert.Equal(t, "T99", FormatTableNumber(99))

	for n := 1; n <= 99; n++ {
		assert.Equal(t, n, ParseTableNumber(FormatTableNumber(n)))
	}

	assert.Equal(t, 1, ParseTableNumber("T1"))
	assert.Equal(t, 0, ParseTableNumber("Terrace"))
	assert.Equal(t, 0, ParseTableNumber(""))
}

func TestNextTableNumberNeverReusesGaps(t *testing.T) {
	tests := []struct {
		existing []string
		want     string
	}{
		{nil, "T01"},
		{[]string{"T01"}, "T02"},
		{[]string{"T01", "T03"}, "T04"},
		{[]string{"T07", "T02"}, "T08"},
		{[]string{"garbage"}, "T01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NextTableNumber(tt.existing), "existing=%v", tt.existing)
	}
}

func TestAddTableGeneratesSequentialNumbers(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)

	first := scene.AddTable(ShapeSquare, 100, 100)
	second := scene.AddTable(ShapeCircle, 200, 100)

	assert.Equal(t, "T01", scene.MetaFor(first.ID).Table.Number)
	assert.Equal(t, "T02", scene.MetaFor(second.ID).Table.Number)
	assert.Equal(t, 2, scene.TableCount())
}

func TestAddTableSnapsAndDefaults(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)

	node := scene.AddTable(ShapeRectangle, 101, 44)
	assert.Equal(t, 90.0, node.Left)
	assert.Equal(t, 30.0, node.Top)

	meta := scene.MetaFor(node.ID)
	require.NotNil(t, meta)
	assert.Equal(t, 6, meta.Table.Capacity)

	round := scene.AddTable(ShapeCircle, 0, 0)
	assert.Equal(t, 4, scene.MetaFor(round.ID).Table.Capacity)
}

func TestMoveObjectClampsInsideCanvas(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	node := scene.AddTable(ShapeSquare, 100, 100)

	require.True(t, scene.MoveObject(node.ID, 5000, -200))

	moved, ok := scene.Object(node.ID)
	require.True(t, ok)
	assert.Equal(t, DefaultWidth-moved.Width, moved.Left)
	assert.Equal(t, 0.0, moved.Top)
	assert.LessOrEqual(t, moved.Left+moved.Width, DefaultWidth)
}

func TestPasteOffsetsAccumulate(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	node := scene.AddTable(ShapeSquare, 120, 120)

	require.True(t, scene.CopyObject(node.ID))

	first := scene.PasteClipboard()
	require.NotNil(t, first)
	assert.Equal(t, node.Left+GridSize, first.Left)
	assert.Equal(t, node.Top+GridSize, first.Top)

	second := scene.PasteClipboard()
	require.NotNil(t, second)
	assert.Equal(t, node.Left+2*GridSize, second.Left)
	assert.Equal(t, node.Top+2*GridSize, second.Top)
}

func TestPastedTablesGetFreshIdentity(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	node := scene.AddTable(ShapeSquare, 120, 120)

	require.True(t, scene.CopyObject(node.ID))
	first := scene.PasteClipboard()
	second := scene.PasteClipboard()

	assert.NotEqual(t, node.ID, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	numbers := map[string]bool{}
	for _, tbl := range scene.Tables() {
		assert.False(t, numbers[tbl.Number], "duplicate number %s", tbl.Number)
		numbers[tbl.Number] = true
	}
	assert.Len(t, numbers, 3)

	// The visible label follows the new number.
	var label string
	for _, child := range first.Children {
		if child.Type == NodeText {
			label = child.Text
		}
	}
	assert.Equal(t, scene.MetaFor(first.ID).Table.Number, label)
}

func TestCopyRequiresMetadata(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)

	gridLine := scene.Objects()[0]
	assert.False(t, scene.CopyObject(gridLine.ID))
	assert.Nil(t, scene.PasteClipboard())
}

func TestDeleteProtectsGridLines(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	before := len(scene.Objects())

	gridLine := scene.Objects()[0]
	assert.False(t, scene.DeleteObject(gridLine.ID))
	assert.Len(t, scene.Objects(), before)

	node := scene.AddTable(ShapeSquare, 100, 100)
	assert.True(t, scene.DeleteObject(node.ID))
	assert.Nil(t, scene.MetaFor(node.ID))
}

func TestDeletedNumbersAreNotReused(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)

	scene.AddTable(ShapeSquare, 60, 60)
	second := scene.AddTable(ShapeSquare, 150, 60)
	scene.AddTable(ShapeSquare, 240, 60)

	require.True(t, scene.DeleteObject(second.ID))

	fourth := scene.AddTable(ShapeSquare, 330, 60)
	assert.Equal(t, "T04", scene.MetaFor(fourth.ID).Table.Number)
}

func TestAddWallOrientation(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)

	h := scene.AddWall(Horizontal, 60, 60)
	v := scene.AddWall(Vertical, 300, 60)

	assert.Greater(t, h.Width, h.Height)
	assert.Greater(t, v.Height, v.Width)
	assert.Equal(t, Horizontal, scene.MetaFor(h.ID).Wall.Orientation)
	assert.Equal(t, Vertical, scene.MetaFor(v.ID).Wall.Orientation)
}

func TestManyTablesStayUnique(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)

	for i := 0; i < 20; i++ {
		scene.AddTable(ShapeSquare, float64(30*i), 60)
	}

	numbers := scene.TableNumbers()
	require.Len(t, numbers, 20)
	for i, n := range numbers {
		assert.Equal(t, fmt.Sprintf("T%02d", i+1), n)
	}
}
