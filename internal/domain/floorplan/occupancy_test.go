package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shapeChild(t *testing.T, node *Node) *Node {
	t.Helper()
	for _, child := range node.Children {
		switch child.Type {
		case NodeRect, NodeCircle, NodePolygon:
			return child
		}
	}
	t.Fatal("no shape child")
	return nil
}

func textChild(t *testing.T, node *Node) *Node {
	t.Helper()
	for _, child := range node.Children {
		if child.Type == NodeText {
			return child
		}
	}
	t.Fatal("no text child")
	return nil
}

func TestApplyOccupancyRecolorsTables(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	busy := scene.AddTable(ShapeSquare, 60, 60)   // T01
	free := scene.AddTable(ShapeCircle, 180, 60)  // T02
	unknown := scene.AddTable(ShapeSquare, 300, 60) // T03

	statuses := []TableStatus{
		{CostCenterID: "T01", HasOpenOrders: true, TotalAmount: 42.50, OrderCount: 2},
		{CostCenterID: "T02", HasOpenOrders: false},
	}
	ApplyOccupancy(scene, statuses)

	assert.Equal(t, OccupiedFill, shapeChild(t, busy).Fill)
	assert.Equal(t, OccupiedStroke, shapeChild(t, busy).Stroke)
	assert.Equal(t, OccupiedText, textChild(t, busy).Fill)

	assert.Equal(t, FreeFill, shapeChild(t, free).Fill)
	// Tables the backend does not report stay free.
	assert.Equal(t, FreeFill, shapeChild(t, unknown).Fill)
}

func TestApplyOccupancyIsIdempotent(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	node := scene.AddTable(ShapeSquare, 60, 60)

	statuses := []TableStatus{{CostCenterID: "T01", HasOpenOrders: true}}
	ApplyOccupancy(scene, statuses)
	ApplyOccupancy(scene, statuses)
	assert.Equal(t, OccupiedFill, shapeChild(t, node).Fill)

	// Flipping back works too; colors are absolute.
	ApplyOccupancy(scene, []TableStatus{{CostCenterID: "T01", HasOpenOrders: false}})
	assert.Equal(t, FreeFill, shapeChild(t, node).Fill)
	assert.Equal(t, FreeText, textChild(t, node).Fill)
}

func TestResolveClickExactMatch(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	node := scene.AddTable(ShapeSquare, 60, 60)

	statuses := []TableStatus{
		{CostCenterID: "T01", Name: "Window table", OrderCount: 1},
		{CostCenterID: "T02"},
	}

	status := ResolveClick(scene, node.ID, statuses, nil)
	require.NotNil(t, status)
	assert.Equal(t, "T01", status.CostCenterID)
}

func TestResolveClickNormalizesDigits(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	node := scene.AddTable(ShapeSquare, 60, 60) // T01

	// Backend registered the cost center without zero padding.
	statuses := []TableStatus{{CostCenterID: "T1", Name: "One"}}

	status := ResolveClick(scene, node.ID, statuses, nil)
	require.NotNil(t, status)
	assert.Equal(t, "T1", status.CostCenterID)
}

func TestResolveClickFallsBackToName(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	node := scene.AddTable(ShapeSquare, 60, 60) // T01

	equal := []TableStatus{{CostCenterID: "cc-9", Name: "t01"}}
	status := ResolveClick(scene, node.ID, equal, nil)
	require.NotNil(t, status)
	assert.Equal(t, "cc-9", status.CostCenterID)

	substring := []TableStatus{{CostCenterID: "cc-7", Name: "Terrace T01 corner"}}
	status = ResolveClick(scene, node.ID, substring, nil)
	require.NotNil(t, status)
	assert.Equal(t, "cc-7", status.CostCenterID)
}

func TestResolveClickNoMatchReturnsNil(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	node := scene.AddTable(ShapeSquare, 60, 60)

	assert.Nil(t, ResolveClick(scene, node.ID, []TableStatus{{CostCenterID: "T99"}}, nil))
	assert.Nil(t, ResolveClick(scene, node.ID, nil, nil))
}

func TestResolveClickIgnoresInertNodes(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	gridLine := scene.Objects()[0]

	assert.Nil(t, ResolveClick(scene, gridLine.ID, []TableStatus{{CostCenterID: "T01"}}, nil))
}

func TestHitTestFindsTopmostInteractiveObject(t *testing.T) {
	scene := NewScene(DefaultWidth, DefaultHeight)
	below := scene.AddTable(ShapeSquare, 60, 60)
	above := scene.AddTable(ShapeSquare, 90, 90)

	node, ok := scene.HitTest(100, 100)
	require.True(t, ok)
	assert.Equal(t, above.ID, node.ID)

	node, ok = scene.HitTest(65, 65)
	require.True(t, ok)
	assert.Equal(t, below.ID, node.ID)

	// Empty canvas regions, even over grid lines, hit nothing.
	_, ok = scene.HitTest(850, 550)
	assert.False(t, ok)
}
