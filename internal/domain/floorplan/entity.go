// internal/domain/floorplan/entity.go
package floorplan

// Canvas defaults shared by the editor and the viewer.
const (
	DefaultWidth  = 900.0
	DefaultHeight = 600.0
	GridSize      = 30.0
)

// Palette for table rendering. Free tables are green, occupied red.
const (
	FreeFill       = "#dcfce7"
	FreeStroke     = "#22c55e"
	FreeText       = "#15803d"
	OccupiedFill   = "#fee2e2"
	OccupiedStroke = "#ef4444"
	OccupiedText   = "#b91c1c"

	WallFill   = "#9ca3af"
	GridStroke = "#e5e7eb"
)

// ShapeKind is the geometric form of a table.
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapeSquare    ShapeKind = "square"
	ShapeRectangle ShapeKind = "rectangle"
	ShapeHexagon   ShapeKind = "hexagon"
)

// Orientation of a wall segment.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// NodeType identifies a render node in the scene graph.
type NodeType string

const (
	NodeGroup   NodeType = "Group"
	NodeRect    NodeType = "Rect"
	NodeCircle  NodeType = "Circle"
	NodePolygon NodeType = "Polygon"
	NodeLine    NodeType = "Line"
	NodeText    NodeType = "IText"
)

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a render node. Nodes carry geometry and style only; business
// meaning lives in the metadata side-table keyed by the node id. Nodes
// without a metadata record (grid lines) are inert.
type Node struct {
	ID          string
	Type        NodeType
	Left        float64
	Top         float64
	Width       float64
	Height      float64
	Radius      float64 // circles
	Fill        string
	Stroke      string
	StrokeWidth float64
	Text        string // text nodes
	Points      []Point
	Children    []*Node // groups
}

// MetaKind tags the variant held by a Meta record.
type MetaKind string

const (
	MetaTable MetaKind = "table"
	MetaWall  MetaKind = "wall"
	MetaDoor  MetaKind = "door"
)

// Meta is the tagged metadata record attached to an interactive object.
// Exactly one of the variant pointers matching Kind is set.
type Meta struct {
	Kind  MetaKind
	Table *TableMeta
	Wall  *WallMeta
	Door  *DoorMeta
}

// TableMeta describes a table object.
type TableMeta struct {
	Number   string // display number, e.g. "T01"
	Shape    ShapeKind
	Capacity int
}

// WallMeta describes a wall segment.
type WallMeta struct {
	Orientation Orientation
}

// DoorMeta describes a door. Doors exist in the model but have no palette
// entry in this revision.
type DoorMeta struct{}

// TableSummary is the flat table record derived from the scene and sent to
// the backend alongside the serialized document.
type TableSummary struct {
	ID       string    `json:"id"`
	Number   string    `json:"tableNumber"`
	Capacity int       `json:"capacity"`
	Left     float64   `json:"positionX"`
	Top      float64   `json:"positionY"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Shape    ShapeKind `json:"shapeType"`
}
