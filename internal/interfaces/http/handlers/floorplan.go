// internal/interfaces/http/handlers/floorplan.go
package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/barbuddie/pos-terminal/internal/domain/area"
	"github.com/barbuddie/pos-terminal/internal/domain/floorplan"
)

// FloorPlanHandler handles the floor-plan editor endpoints
type FloorPlanHandler struct {
	areas *area.Manager

	mu       sync.Mutex
	sessions map[string]*areaSession
}

// areaSession binds an edit session to the scene instance it was created
// for, so a reloaded area never resurfaces a session editing an orphan.
type areaSession struct {
	scene   *floorplan.Scene
	session *floorplan.EditSession
}

// NewFloorPlanHandler creates a new floor plan handler
func NewFloorPlanHandler(areas *area.Manager) *FloorPlanHandler {
	return &FloorPlanHandler{
		areas:    areas,
		sessions: map[string]*areaSession{},
	}
}

func (h *FloorPlanHandler) scene(c *gin.Context) (*floorplan.Scene, bool) {
	scene, err := h.areas.Scene(c.Request.Context(), c.Param("areaId"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return nil, false
	}
	return scene, true
}

func (h *FloorPlanHandler) session(c *gin.Context, scene *floorplan.Scene) *floorplan.EditSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	areaID := c.Param("areaId")
	entry, ok := h.sessions[areaID]
	if !ok || entry.scene != scene {
		entry = &areaSession{scene: scene, session: floorplan.NewEditSession(scene)}
		h.sessions[areaID] = entry
	}
	return entry.session
}

// GetScene handles GET /areas/:areaId/scene
func (h *FloorPlanHandler) GetScene(c *gin.Context) {
	scene, ok := h.scene(c)
	if !ok {
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

type addTableRequest struct {
	Shape string  `json:"shape" binding:"required"`
	Left  float64 `json:"left"`
	Top   float64 `json:"top"`
}

// AddTable handles POST /areas/:areaId/tables
func (h *FloorPlanHandler) AddTable(c *gin.Context) {
	var req addTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	scene, ok := h.scene(c)
	if !ok {
		return
	}

	node := scene.AddTable(floorplan.ShapeKind(req.Shape), req.Left, req.Top)
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"id":     node.ID,
			"number": scene.MetaFor(node.ID).Table.Number,
		},
	})
}

type addWallRequest struct {
	Orientation string  `json:"orientation" binding:"required"`
	Left        float64 `json:"left"`
	Top         float64 `json:"top"`
}

// AddWall handles POST /areas/:areaId/walls
func (h *FloorPlanHandler) AddWall(c *gin.Context) {
	var req addWallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	scene, ok := h.scene(c)
	if !ok {
		return
	}

	node := scene.AddWall(floorplan.Orientation(req.Orientation), req.Left, req.Top)
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{"id": node.ID},
	})
}

type positionRequest struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// AddDoor handles POST /areas/:areaId/doors
func (h *FloorPlanHandler) AddDoor(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	scene, ok := h.scene(c)
	if !ok {
		return
	}

	node := scene.AddDoor(req.Left, req.Top)
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{"id": node.ID},
	})
}

// MoveObject handles PUT /areas/:areaId/objects/:objectId/position
func (h *FloorPlanHandler) MoveObject(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	scene, ok := h.scene(c)
	if !ok {
		return
	}

	if !scene.MoveObject(c.Param("objectId"), req.Left, req.Top) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Object not found",
		})
		return
	}

	node, _ := scene.Object(c.Param("objectId"))
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"left": node.Left, "top": node.Top},
	})
}

// CopyObject handles POST /areas/:areaId/objects/:objectId/copy
func (h *FloorPlanHandler) CopyObject(c *gin.Context) {
	scene, ok := h.scene(c)
	if !ok {
		return
	}

	if !scene.CopyObject(c.Param("objectId")) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Object not found or not copyable",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// Paste handles POST /areas/:areaId/paste
func (h *FloorPlanHandler) Paste(c *gin.Context) {
	scene, ok := h.scene(c)
	if !ok {
		return
	}

	node := scene.PasteClipboard()
	if node == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Clipboard is empty",
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{"id": node.ID, "left": node.Left, "top": node.Top},
	})
}

// DeleteObject handles DELETE /areas/:areaId/objects/:objectId
func (h *FloorPlanHandler) DeleteObject(c *gin.Context) {
	scene, ok := h.scene(c)
	if !ok {
		return
	}

	if !scene.DeleteObject(c.Param("objectId")) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Object not found or protected",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

type saveAreaRequest struct {
	Name string `json:"name"`
}

// SaveArea handles POST /areas/:areaId/save
func (h *FloorPlanHandler) SaveArea(c *gin.Context) {
	var req saveAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	saved, err := h.areas.Save(c.Request.Context(), c.Param("areaId"), req.Name)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, floorplan.ErrEmptyAreaName),
			errors.Is(err, floorplan.ErrNoTables):
			status = http.StatusBadRequest
		case errors.Is(err, floorplan.ErrDuplicateTableNumber):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Floor plan saved",
		"data":    saved,
	})
}

// DeleteArea handles DELETE /areas/:areaId
func (h *FloorPlanHandler) DeleteArea(c *gin.Context) {
	areaID := c.Param("areaId")
	if err := h.areas.Delete(c.Request.Context(), areaID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	// The scene is gone; an edit session bound to it would edit an orphan.
	h.mu.Lock()
	delete(h.sessions, areaID)
	h.mu.Unlock()

	c.Status(http.StatusNoContent)
}

// OpenEdit handles POST /areas/:areaId/tables/:objectId/edit
func (h *FloorPlanHandler) OpenEdit(c *gin.Context) {
	scene, ok := h.scene(c)
	if !ok {
		return
	}

	session := h.session(c, scene)
	if err := session.Open(c.Param("objectId")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"number":   session.Number,
			"capacity": session.Capacity,
		},
	})
}

type saveEditRequest struct {
	Number   int `json:"number"`
	Capacity int `json:"capacity"`
}

// SaveEdit handles PUT /areas/:areaId/tables/:objectId/edit
func (h *FloorPlanHandler) SaveEdit(c *gin.Context) {
	var req saveEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	scene, ok := h.scene(c)
	if !ok {
		return
	}

	session := h.session(c, scene)
	session.Number = req.Number
	session.Capacity = req.Capacity
	if err := session.Save(); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, floorplan.ErrSessionClosed) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Table updated",
	})
}

// RequestDelete handles POST /areas/:areaId/tables/:objectId/edit/delete
func (h *FloorPlanHandler) RequestDelete(c *gin.Context) {
	scene, ok := h.scene(c)
	if !ok {
		return
	}

	if err := h.session(c, scene).RequestDelete(); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Confirm to delete the table",
	})
}

// ConfirmDelete handles POST /areas/:areaId/tables/:objectId/edit/confirm
func (h *FloorPlanHandler) ConfirmDelete(c *gin.Context) {
	scene, ok := h.scene(c)
	if !ok {
		return
	}

	if err := h.session(c, scene).ConfirmDelete(); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// CancelEdit handles POST /areas/:areaId/tables/:objectId/edit/cancel
func (h *FloorPlanHandler) CancelEdit(c *gin.Context) {
	scene, ok := h.scene(c)
	if !ok {
		return
	}

	h.session(c, scene).Cancel()
	c.Status(http.StatusNoContent)
}
