// internal/domain/floorplan/codec.go
package floorplan

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var legacyTableLabel = regexp.MustCompile(`^T\d{2}$`)

// Document is the serialized scene graph exchanged with the backend. The
// shape mirrors the canvas library's JSON export so documents saved by
// earlier client revisions load unchanged.
type Document struct {
	Version    string           `json:"version,omitempty"`
	Background string           `json:"background,omitempty"`
	Objects    []DocumentObject `json:"objects"`
}

// DocumentObject is one serialized node.
type DocumentObject struct {
	Type        string           `json:"type"`
	Left        float64          `json:"left"`
	Top         float64          `json:"top"`
	Width       float64          `json:"width,omitempty"`
	Height      float64          `json:"height,omitempty"`
	Radius      float64          `json:"radius,omitempty"`
	Fill        string           `json:"fill,omitempty"`
	Stroke      string           `json:"stroke,omitempty"`
	StrokeWidth float64          `json:"strokeWidth,omitempty"`
	Text        string           `json:"text,omitempty"`
	Points      []Point          `json:"points,omitempty"`
	Objects     []DocumentObject `json:"objects,omitempty"`
	Data        *DocumentMeta    `json:"data,omitempty"`
}

// DocumentMeta is the serialized metadata record. Older documents were
// persisted without it; see the repair pass in Import.
type DocumentMeta struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"type"`
	TableNumber string `json:"tableNumber,omitempty"`
	ShapeType   string `json:"shapeType,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`
	Orientation string `json:"orientation,omitempty"`
}

// Export serializes the scene including metadata records, plus the derived
// flat table list the backend uses to reconcile its table registry.
func Export(scene *Scene) (*Document, []TableSummary) {
	doc := &Document{
		Version:    "6.0.0",
		Background: "#f8fafc",
	}

	for _, node := range scene.Objects() {
		obj := exportNode(node)
		if meta := scene.MetaFor(node.ID); meta != nil {
			obj.Data = exportMeta(node.ID, meta)
		}
		doc.Objects = append(doc.Objects, obj)
	}

	return doc, scene.Tables()
}

func exportNode(node *Node) DocumentObject {
	obj := DocumentObject{
		Type:        string(node.Type),
		Left:        node.Left,
		Top:         node.Top,
		Width:       node.Width,
		Height:      node.Height,
		Radius:      node.Radius,
		Fill:        node.Fill,
		Stroke:      node.Stroke,
		StrokeWidth: node.StrokeWidth,
		Text:        node.Text,
		Points:      append([]Point(nil), node.Points...),
	}
	for _, child := range node.Children {
		obj.Objects = append(obj.Objects, exportNode(child))
	}
	return obj
}

func exportMeta(nodeID string, meta *Meta) *DocumentMeta {
	out := &DocumentMeta{Type: string(meta.Kind)}
	switch meta.Kind {
	case MetaTable:
		out.ID = nodeID
		out.TableNumber = meta.Table.Number
		out.ShapeType = string(meta.Table.Shape)
		out.Capacity = meta.Table.Capacity
	case MetaWall:
		out.Orientation = string(meta.Wall.Orientation)
	}
	return out
}

// Import deserializes a document into a scene. Objects missing their
// metadata record go through a best-effort repair pass (see repairObject);
// objects matching no heuristic stay inert.
func Import(doc *Document, width, height float64) *Scene {
	scene := &Scene{
		Width:  width,
		Height: height,
		meta:   map[string]*Meta{},
	}

	for i := range doc.Objects {
		obj := &doc.Objects[i]
		node := importNode(obj)
		scene.nodes = append(scene.nodes, node)

		meta := importMeta(obj.Data)
		if meta == nil {
			meta = repairObject(obj)
		}
		if meta != nil {
			scene.meta[node.ID] = meta
		}
	}

	return scene
}

// ImportJSON parses raw document bytes and loads the scene. On a malformed
// document the error is logged and an empty grid scene is returned so the
// editor never crashes on bad data.
func ImportJSON(data []byte, width, height float64, logger *logrus.Logger) *Scene {
	if logger == nil {
		logger = logrus.New()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.WithError(err).Error("Failed to parse floor plan document, falling back to empty scene")
		return NewScene(width, height)
	}
	return Import(&doc, width, height)
}

func importNode(obj *DocumentObject) *Node {
	id := uuid.NewString()
	if obj.Data != nil && obj.Data.ID != "" {
		id = obj.Data.ID
	}

	node := &Node{
		ID:          id,
		Type:        NodeType(obj.Type),
		Left:        obj.Left,
		Top:         obj.Top,
		Width:       obj.Width,
		Height:      obj.Height,
		Radius:      obj.Radius,
		Fill:        obj.Fill,
		Stroke:      obj.Stroke,
		StrokeWidth: obj.StrokeWidth,
		Text:        obj.Text,
		Points:      append([]Point(nil), obj.Points...),
	}
	for i := range obj.Objects {
		node.Children = append(node.Children, importNode(&obj.Objects[i]))
	}
	return node
}

func importMeta(data *DocumentMeta) *Meta {
	if data == nil {
		return nil
	}

	switch MetaKind(data.Type) {
	case MetaTable:
		shape := ShapeKind(data.ShapeType)
		if shape == "" {
			shape = ShapeSquare
		}
		capacity := data.Capacity
		if capacity == 0 {
			capacity = DefaultCapacity(shape)
		}
		return &Meta{
			Kind: MetaTable,
			Table: &TableMeta{
				Number:   data.TableNumber,
				Shape:    shape,
				Capacity: capacity,
			},
		}
	case MetaWall:
		orientation := Orientation(data.Orientation)
		if orientation == "" {
			orientation = Horizontal
		}
		return &Meta{Kind: MetaWall, Wall: &WallMeta{Orientation: orientation}}
	case MetaDoor:
		return &Meta{Kind: MetaDoor, Door: &DoorMeta{}}
	default:
		return nil
	}
}

// repairObject reconstructs the metadata record for objects persisted by a
// client revision that dropped it on save. Best-effort only: a non-table
// group whose label happens to match the T## pattern would be reclassified
// as a table; no stricter signal exists in the legacy documents.
func repairObject(obj *DocumentObject) *Meta {
	if meta := repairTable(obj); meta != nil {
		return meta
	}
	return repairWall(obj)
}

// repairTable reclassifies a group containing a two-digit T-prefixed label
// as a table, inferring the shape from the geometric child.
func repairTable(obj *DocumentObject) *Meta {
	if obj.Type != string(NodeGroup) {
		return nil
	}

	var label string
	for i := range obj.Objects {
		child := &obj.Objects[i]
		if child.Type == string(NodeText) || child.Type == "Text" {
			label = child.Text
			break
		}
	}
	if !legacyTableLabel.MatchString(label) {
		return nil
	}

	shape := ShapeSquare
	for i := range obj.Objects {
		child := &obj.Objects[i]
		switch child.Type {
		case string(NodeCircle):
			shape = ShapeCircle
		case string(NodePolygon):
			shape = ShapeHexagon
		case string(NodeRect):
			width, height := child.Width, child.Height
			if width == 0 {
				width = 70
			}
			if height == 0 {
				height = 70
			}
			if width > height*1.2 {
				shape = ShapeRectangle
			} else {
				shape = ShapeSquare
			}
		default:
			continue
		}
		break
	}

	return &Meta{
		Kind: MetaTable,
		Table: &TableMeta{
			Number:   label,
			Shape:    shape,
			Capacity: DefaultCapacity(shape),
		},
	}
}

// repairWall reclassifies a plain rectangle with the wall fill color and a
// strongly elongated aspect ratio (one dimension at least 5x the other).
func repairWall(obj *DocumentObject) *Meta {
	if obj.Type != string(NodeRect) || obj.Fill != WallFill {
		return nil
	}
	if !(obj.Width > obj.Height*5 || obj.Height > obj.Width*5) {
		return nil
	}

	orientation := Vertical
	if obj.Width > obj.Height {
		orientation = Horizontal
	}
	return &Meta{Kind: MetaWall, Wall: &WallMeta{Orientation: orientation}}
}

// MarshalDocument renders a document as JSON for transport.
func MarshalDocument(doc *Document) (json.RawMessage, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal floor plan document: %w", err)
	}
	return data, nil
}
