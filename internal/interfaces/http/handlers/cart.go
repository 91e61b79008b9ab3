// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/barbuddie/pos-terminal/internal/domain/cart"
	"github.com/barbuddie/pos-terminal/internal/pkg/vat"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

type cartResponse struct {
	Lines      []cart.Line        `json:"lines"`
	Totals     cart.Totals        `json:"totals"`
	Vat        []cart.LabelAmount `json:"vatBreakdown"`
	Table      *cart.TableBinding `json:"table,omitempty"`
	OrderNotes string             `json:"orderNotes,omitempty"`
}

func (h *CartHandler) respond(c *gin.Context) {
	lines, totals := h.cartService.View()
	c.JSON(http.StatusOK, gin.H{
		"data": cartResponse{
			Lines:      lines,
			Totals:     totals,
			Vat:        h.cartService.VatBreakdown(),
			Table:      h.cartService.Table(),
			OrderNotes: h.cartService.OrderNotes(),
		},
	})
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	h.respond(c)
}

type addItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity" binding:"required"`
	Size      string  `json:"size"`
	VatLabel  string  `json:"vatLabel" binding:"required"`
	Notes     string  `json:"notes"`
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	label := vat.Label(req.VatLabel)
	if !vat.Valid(label) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown VAT label",
		})
		return
	}

	h.cartService.AddItem(cart.NewLineInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Size:      req.Size,
		VatLabel:  label,
		Notes:     req.Notes,
	}, req.Quantity)

	h.respond(c)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity handles PUT /cart/items/:id
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.cartService.UpdateQuantity(c.Param("id"), req.Quantity)
	h.respond(c)
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes handles PUT /cart/items/:id/notes
func (h *CartHandler) UpdateNotes(c *gin.Context) {
	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.cartService.UpdateNotes(c.Param("id"), req.Notes)
	h.respond(c)
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.cartService.RemoveItem(c.Param("id"))
	h.respond(c)
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	h.cartService.Clear()
	h.respond(c)
}

type setTableRequest struct {
	Name         string `json:"name" binding:"required"`
	CostCenterID string `json:"costCenterId"`
}

// SetTable handles PUT /cart/table
func (h *CartHandler) SetTable(c *gin.Context) {
	var req setTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.cartService.SetTable(req.Name, req.CostCenterID)
	h.respond(c)
}

type orderNotesRequest struct {
	Notes string `json:"notes"`
}

// SetOrderNotes handles PUT /cart/notes
func (h *CartHandler) SetOrderNotes(c *gin.Context) {
	var req orderNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.cartService.SetOrderNotes(req.Notes)
	h.respond(c)
}
