// internal/domain/floorplan/occupancy.go
package floorplan

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// TableStatus is the live occupancy record for one cost center, as reported
// by the backend.
type TableStatus struct {
	CostCenterID  string  `json:"costCenterId"`
	Name          string  `json:"name"`
	HasOpenOrders bool    `json:"hasOpenOrders"`
	TotalAmount   float64 `json:"totalAmount"`
	OrderCount    int     `json:"orderCount"`
}

// ApplyOccupancy recolors every table in the scene from the status list:
// tables with open orders get the occupied palette, the rest the free one.
// Reapplying the same statuses is a no-op; colors are set absolutely, not
// toggled.
func ApplyOccupancy(scene *Scene, statuses []TableStatus) {
	scene.mu.Lock()
	defer scene.mu.Unlock()

	for _, node := range scene.nodes {
		meta := scene.meta[node.ID]
		if meta == nil || meta.Kind != MetaTable {
			continue
		}

		occupied := false
		if status := matchStatus(meta.Table.Number, statuses); status != nil {
			occupied = status.HasOpenOrders
		}
		recolorTable(node, occupied)
	}
}

func recolorTable(node *Node, occupied bool) {
	fill, stroke, text := FreeFill, FreeStroke, FreeText
	if occupied {
		fill, stroke, text = OccupiedFill, OccupiedStroke, OccupiedText
	}

	for _, child := range node.Children {
		switch child.Type {
		case NodeRect, NodeCircle, NodePolygon:
			child.Fill = fill
			child.Stroke = stroke
		case NodeText:
			child.Fill = text
		}
	}
}

// ResolveClick maps a clicked table to its backend status. Matching runs in
// three tiers of decreasing strictness; a table the backend does not know is
// logged and returns nil, never an error.
func ResolveClick(scene *Scene, objectID string, statuses []TableStatus, logger *logrus.Logger) *TableStatus {
	if logger == nil {
		logger = logrus.New()
	}

	meta := scene.MetaFor(objectID)
	if meta == nil || meta.Kind != MetaTable {
		return nil
	}

	if status := matchStatus(meta.Table.Number, statuses); status != nil {
		return status
	}

	logger.WithField("table_number", meta.Table.Number).
		Warn("Clicked table has no matching cost center")
	return nil
}

// matchStatus finds the status for a table number. Tier one is an exact id
// match, tier two compares the numeric parts so "T1" and "T01" meet, tier
// three falls back to name equality and then substring containment.
func matchStatus(number string, statuses []TableStatus) *TableStatus {
	for i := range statuses {
		if statuses[i].CostCenterID == number {
			return &statuses[i]
		}
	}

	if n := digitsOf(number); n > 0 {
		for i := range statuses {
			if digitsOf(statuses[i].CostCenterID) == n {
				return &statuses[i]
			}
		}
	}

	for i := range statuses {
		if strings.EqualFold(statuses[i].Name, number) {
			return &statuses[i]
		}
	}
	for i := range statuses {
		if statuses[i].Name != "" &&
			strings.Contains(strings.ToLower(statuses[i].Name), strings.ToLower(number)) {
			return &statuses[i]
		}
	}
	return nil
}

// digitsOf extracts the integer value of the digit characters in s, 0 when
// there are none.
func digitsOf(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// HitTest returns the topmost interactive object containing the point. Grid
// lines and other inert nodes are transparent to clicks.
func (s *Scene) HitTest(x, y float64) (*Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.nodes) - 1; i >= 0; i-- {
		node := s.nodes[i]
		if s.meta[node.ID] == nil {
			continue
		}
		if x >= node.Left && x <= node.Left+node.Width &&
			y >= node.Top && y <= node.Top+node.Height {
			return node, true
		}
	}
	return nil, false
}
