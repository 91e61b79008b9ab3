// internal/interfaces/http/handlers/floorview.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barbuddie/pos-terminal/internal/domain/area"
	"github.com/barbuddie/pos-terminal/internal/domain/floorplan"
)

// FloorViewHandler handles the read-only floor view: live occupancy and
// table selection.
type FloorViewHandler struct {
	areas *area.Manager
}

// NewFloorViewHandler creates a new floor view handler
func NewFloorViewHandler(areas *area.Manager) *FloorViewHandler {
	return &FloorViewHandler{
		areas: areas,
	}
}

// GetOccupancy handles GET /floor/:areaId
func (h *FloorViewHandler) GetOccupancy(c *gin.Context) {
	areaID := c.Param("areaId")

	if err := h.areas.RefreshOccupancy(c.Request.Context(), areaID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	scene, err := h.areas.Scene(c.Request.Context(), areaID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	doc, tables := floorplan.Export(scene)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"document": doc,
			"tables":   tables,
		},
	})
}

type clickRequest struct {
	ObjectID string   `json:"objectId"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
}

// ClickTable handles POST /floor/:areaId/click. The caller sends either the
// clicked object id or raw coordinates; coordinates are hit-tested first.
func (h *FloorViewHandler) ClickTable(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	areaID := c.Param("areaId")
	objectID := req.ObjectID
	if objectID == "" && req.X != nil && req.Y != nil {
		scene, err := h.areas.Scene(c.Request.Context(), areaID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": err.Error(),
			})
			return
		}
		if node, ok := scene.HitTest(*req.X, *req.Y); ok {
			objectID = node.ID
		}
	}
	if objectID == "" {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	status, err := h.areas.ClickTable(c.Request.Context(), areaID, objectID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	// A click on a table the backend does not know is a no-op, not an
	// error; the response carries null data.
	c.JSON(http.StatusOK, gin.H{"data": status})
}
