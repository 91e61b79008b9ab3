// internal/domain/floorplan/scene.go
package floorplan

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

var tableNumberPattern = regexp.MustCompile(`T(\d+)`)

// FormatTableNumber renders a table number as T + two-digit zero-padded
// integer, e.g. 1 -> "T01".
func FormatTableNumber(n int) string {
	return fmt.Sprintf("T%02d", n)
}

// ParseTableNumber extracts the integer part of a table number. Strings
// without a T-prefixed digit run parse to 0.
func ParseTableNumber(number string) int {
	match := tableNumberPattern.FindStringSubmatch(number)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// NextTableNumber continues from the highest existing number. Freed numbers
// are never reused; max-plus-one keeps generation simple and collision-free
// within a scene.
func NextTableNumber(existing []string) string {
	max := 0
	for _, number := range existing {
		if n := ParseTableNumber(number); n > max {
			max = n
		}
	}
	return FormatTableNumber(max + 1)
}

// IsTableNumberUnique reports whether the number is absent from existing.
func IsTableNumberUnique(number string, existing []string) bool {
	for _, n := range existing {
		if n == number {
			return false
		}
	}
	return true
}

// SnapToGrid rounds a coordinate to the nearest grid multiple.
func SnapToGrid(value float64) float64 {
	return math.Round(value/GridSize) * GridSize
}

// clipboardEntry holds the last copied object. Paste offsets accumulate
// from the previous paste, not from the original.
type clipboardEntry struct {
	node *Node
	meta *Meta
}

// Scene is the floor-plan model for one area: an ordered node list plus the
// metadata side-table keyed by node id. A single mutex serializes all
// mutations; the editor and the viewer never share a scene instance.
type Scene struct {
	Width  float64
	Height float64

	mu        sync.Mutex
	nodes     []*Node
	meta      map[string]*Meta
	clipboard *clipboardEntry
}

// NewScene creates an empty scene with grid lines only.
func NewScene(width, height float64) *Scene {
	s := &Scene{
		Width:  width,
		Height: height,
		meta:   map[string]*Meta{},
	}
	s.nodes = append(s.nodes, gridLines(width, height)...)
	return s
}

// gridLines builds the inert background grid. Grid lines carry no metadata
// record, which is what protects them from deletion and clicks.
func gridLines(width, height float64) []*Node {
	var lines []*Node

	for x := 0.0; x <= width; x += GridSize {
		lines = append(lines, &Node{
			ID:          uuid.NewString(),
			Type:        NodeLine,
			Left:        x,
			Top:         0,
			Width:       0,
			Height:      height,
			Stroke:      GridStroke,
			StrokeWidth: 1,
		})
	}
	for y := 0.0; y <= height; y += GridSize {
		lines = append(lines, &Node{
			ID:          uuid.NewString(),
			Type:        NodeLine,
			Left:        0,
			Top:         y,
			Width:       width,
			Height:      0,
			Stroke:      GridStroke,
			StrokeWidth: 1,
		})
	}
	return lines
}

// Objects returns the node list in stacking order.
func (s *Scene) Objects() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Object returns the node with the given id.
func (s *Scene) Object(id string) (*Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findNode(id)
}

func (s *Scene) findNode(id string) (*Node, bool) {
	for _, node := range s.nodes {
		if node.ID == id {
			return node, true
		}
	}
	return nil, false
}

// MetaFor returns the metadata record attached to a node, or nil for inert
// nodes such as grid lines.
func (s *Scene) MetaFor(id string) *Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta[id]
}

// Tables returns the flat summaries of all table objects.
func (s *Scene) Tables() []TableSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tablesLocked()
}

func (s *Scene) tablesLocked() []TableSummary {
	var tables []TableSummary
	for _, node := range s.nodes {
		meta := s.meta[node.ID]
		if meta == nil || meta.Kind != MetaTable {
			continue
		}
		tables = append(tables, TableSummary{
			ID:       node.ID,
			Number:   meta.Table.Number,
			Capacity: meta.Table.Capacity,
			Left:     node.Left,
			Top:      node.Top,
			Width:    node.Width,
			Height:   node.Height,
			Shape:    meta.Table.Shape,
		})
	}
	return tables
}

// TableNumbers returns all table numbers currently in the scene.
func (s *Scene) TableNumbers() []string {
	var numbers []string
	for _, t := range s.Tables() {
		numbers = append(numbers, t.Number)
	}
	return numbers
}

// TableCount returns the number of table objects.
func (s *Scene) TableCount() int {
	return len(s.Tables())
}

// DefaultCapacity is the seating assigned to a freshly created or repaired
// table: rectangles seat six, everything else four.
func DefaultCapacity(shape ShapeKind) int {
	if shape == ShapeRectangle {
		return 6
	}
	return 4
}

// tableGeometry returns width/height for a shape kind.
func tableGeometry(shape ShapeKind) (width, height float64) {
	switch shape {
	case ShapeRectangle:
		return 100, 60
	case ShapeCircle, ShapeHexagon:
		return 70, 70
	default: // square
		return 70, 70
	}
}

// buildTableNode assembles the group node for a table: the shape child plus
// a centered text label.
func buildTableNode(id, number string, shape ShapeKind, left, top float64) *Node {
	width, height := tableGeometry(shape)

	var shapeNode *Node
	switch shape {
	case ShapeCircle:
		shapeNode = &Node{
			ID:          uuid.NewString(),
			Type:        NodeCircle,
			Radius:      35,
			Width:       width,
			Height:      height,
			Fill:        FreeFill,
			Stroke:      FreeStroke,
			StrokeWidth: 2,
		}
	case ShapeHexagon:
		points := make([]Point, 0, 6)
		for i := 0; i < 6; i++ {
			angle := math.Pi/3*float64(i) - math.Pi/2
			points = append(points, Point{
				X: 35 * math.Cos(angle),
				Y: 35 * math.Sin(angle),
			})
		}
		shapeNode = &Node{
			ID:          uuid.NewString(),
			Type:        NodePolygon,
			Points:      points,
			Width:       width,
			Height:      height,
			Fill:        FreeFill,
			Stroke:      FreeStroke,
			StrokeWidth: 2,
		}
	default: // square and rectangle
		shapeNode = &Node{
			ID:          uuid.NewString(),
			Type:        NodeRect,
			Width:       width,
			Height:      height,
			Fill:        FreeFill,
			Stroke:      FreeStroke,
			StrokeWidth: 2,
		}
	}

	label := &Node{
		ID:   uuid.NewString(),
		Type: NodeText,
		Text: number,
		Fill: FreeText,
	}

	return &Node{
		ID:       id,
		Type:     NodeGroup,
		Left:     SnapToGrid(left),
		Top:      SnapToGrid(top),
		Width:    width,
		Height:   height,
		Children: []*Node{shapeNode, label},
	}
}

// AddTable creates a table of the given shape at the position, snapped to
// the grid, with a freshly generated unique number and the default capacity.
func (s *Scene) AddTable(shape ShapeKind, left, top float64) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	var numbers []string
	for _, t := range s.tablesLocked() {
		numbers = append(numbers, t.Number)
	}
	number := NextTableNumber(numbers)

	node := buildTableNode(uuid.NewString(), number, shape, left, top)
	s.clampLocked(node)
	s.nodes = append(s.nodes, node)
	s.meta[node.ID] = &Meta{
		Kind: MetaTable,
		Table: &TableMeta{
			Number:   number,
			Shape:    shape,
			Capacity: DefaultCapacity(shape),
		},
	}
	return node
}

// AddWall creates a wall segment at the position, snapped to the grid.
func (s *Scene) AddWall(orientation Orientation, left, top float64) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height := 150.0, 8.0
	if orientation == Vertical {
		width, height = 8.0, 150.0
	}

	node := &Node{
		ID:     uuid.NewString(),
		Type:   NodeRect,
		Left:   SnapToGrid(left),
		Top:    SnapToGrid(top),
		Width:  width,
		Height: height,
		Fill:   WallFill,
	}
	s.clampLocked(node)
	s.nodes = append(s.nodes, node)
	s.meta[node.ID] = &Meta{
		Kind: MetaWall,
		Wall: &WallMeta{Orientation: orientation},
	}
	return node
}

// AddDoor creates a door at the position. No palette entry exists for doors
// in this revision; the operation is kept for documents that contain them.
func (s *Scene) AddDoor(left, top float64) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := &Node{
		ID:          uuid.NewString(),
		Type:        NodeLine,
		Width:       0,
		Height:      50,
		Stroke:      "#6b7280",
		StrokeWidth: 3,
	}
	arc := &Node{
		ID:          uuid.NewString(),
		Type:        NodeCircle,
		Radius:      50,
		Stroke:      WallFill,
		StrokeWidth: 1.5,
		Fill:        "transparent",
	}

	node := &Node{
		ID:       uuid.NewString(),
		Type:     NodeGroup,
		Left:     SnapToGrid(left),
		Top:      SnapToGrid(top),
		Width:    50,
		Height:   50,
		Children: []*Node{frame, arc},
	}
	s.clampLocked(node)
	s.nodes = append(s.nodes, node)
	s.meta[node.ID] = &Meta{Kind: MetaDoor, Door: &DoorMeta{}}
	return node
}

// MoveObject settles an object at the position: the coordinates are snapped
// to the grid and the bounding box is translated back inside the canvas.
// Dragging itself is free-form; only the settled position is corrected.
func (s *Scene) MoveObject(id string, left, top float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.findNode(id)
	if !ok {
		return false
	}

	node.Left = SnapToGrid(left)
	node.Top = SnapToGrid(top)
	s.clampLocked(node)
	return true
}

// clampLocked translates the node back inside the canvas. Pure translation:
// the object is never shrunk and the move is never rejected.
func (s *Scene) clampLocked(node *Node) {
	if node.Left < 0 {
		node.Left = 0
	}
	if node.Top < 0 {
		node.Top = 0
	}
	if node.Left+node.Width > s.Width {
		node.Left = s.Width - node.Width
	}
	if node.Top+node.Height > s.Height {
		node.Top = s.Height - node.Height
	}
}

// CopyObject places the object on the clipboard. Only objects carrying a
// metadata record can be copied.
func (s *Scene) CopyObject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.findNode(id)
	if !ok {
		return false
	}
	meta := s.meta[id]
	if meta == nil {
		return false
	}

	s.clipboard = &clipboardEntry{
		node: cloneNode(node),
		meta: cloneMeta(meta),
	}
	return true
}

// PasteClipboard clones the clipboard object into the scene, offset by one
// grid unit from the previous paste. Pasted tables receive a fresh id and a
// freshly generated unique number, and the visible label is updated to
// match. Returns nil when the clipboard is empty.
func (s *Scene) PasteClipboard() *Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clipboard == nil {
		return nil
	}

	// Advance the clipboard position first so successive pastes keep
	// walking away from the last one.
	s.clipboard.node.Left += GridSize
	s.clipboard.node.Top += GridSize

	node := cloneNode(s.clipboard.node)
	node.ID = uuid.NewString()
	meta := cloneMeta(s.clipboard.meta)

	if meta.Kind == MetaTable {
		var numbers []string
		for _, t := range s.tablesLocked() {
			numbers = append(numbers, t.Number)
		}
		meta.Table.Number = NextTableNumber(numbers)
		setGroupLabel(node, meta.Table.Number)
	}

	s.clampLocked(node)
	s.nodes = append(s.nodes, node)
	s.meta[node.ID] = meta
	return node
}

// DeleteObject removes an object. Objects without a metadata record (grid
// lines) are protected and the call reports false.
func (s *Scene) DeleteObject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Scene) deleteLocked(id string) bool {
	if s.meta[id] == nil {
		return false
	}
	for i, node := range s.nodes {
		if node.ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			delete(s.meta, id)
			return true
		}
	}
	return false
}

// cloneNode deep-copies a node, keeping child ids fresh.
func cloneNode(node *Node) *Node {
	out := *node
	out.Points = append([]Point(nil), node.Points...)
	out.Children = nil
	for _, child := range node.Children {
		c := cloneNode(child)
		c.ID = uuid.NewString()
		out.Children = append(out.Children, c)
	}
	return &out
}

// cloneMeta deep-copies a metadata record.
func cloneMeta(meta *Meta) *Meta {
	out := &Meta{Kind: meta.Kind}
	if meta.Table != nil {
		t := *meta.Table
		out.Table = &t
	}
	if meta.Wall != nil {
		w := *meta.Wall
		out.Wall = &w
	}
	if meta.Door != nil {
		d := *meta.Door
		out.Door = &d
	}
	return out
}

// setGroupLabel updates the text child of a group node.
func setGroupLabel(node *Node, text string) {
	for _, child := range node.Children {
		if child.Type == NodeText {
			child.Text = text
			return
		}
	}
}
