// internal/interfaces/http/handlers/orders.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/barbuddie/pos-terminal/internal/domain/cart"
	"github.com/barbuddie/pos-terminal/internal/domain/workflow"
	"github.com/barbuddie/pos-terminal/internal/pkg/receipt"
)

// OrderHandler handles order submission and billing endpoints
type OrderHandler struct {
	workflowService *workflow.Service
	cartService     *cart.Service
	receiptService  *receipt.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(workflowService *workflow.Service, cartService *cart.Service, receiptService *receipt.Service) *OrderHandler {
	return &OrderHandler{
		workflowService: workflowService,
		cartService:     cartService,
		receiptService:  receiptService,
	}
}

func submissionStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrEmptyCart),
		errors.Is(err, workflow.ErrNoOpenOrders):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrSubmissionPending):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrNoTerminal):
		return http.StatusFailedDependency
	default:
		return http.StatusBadGateway
	}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.workflowService.OpenOrders(c.Request.Context(), c.Query("costCenterId"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": orders,
	})
}

// SubmitOrder handles POST /orders
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	resp, err := h.workflowService.SubmitOrder(c.Request.Context())
	if err != nil {
		c.JSON(submissionStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order submitted",
		"data":    resp,
	})
}

type submitSaleRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// SubmitSale handles POST /sales
func (h *OrderHandler) SubmitSale(c *gin.Context) {
	var req submitSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.workflowService.SubmitSale(c.Request.Context(), req.PaymentMethod)
	if err != nil {
		c.JSON(submissionStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sale completed",
		"data":    resp,
	})
}

type settleRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// SettleTable handles POST /tables/:costCenterId/settle
func (h *OrderHandler) SettleTable(c *gin.Context) {
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.workflowService.SettleTable(c.Request.Context(), c.Param("costCenterId"), req.PaymentMethod); err != nil {
		c.JSON(submissionStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Table settled",
	})
}

// Prebill handles GET /prebill: renders the current cart as a PDF.
func (h *OrderHandler) Prebill(c *gin.Context) {
	lines, totals := h.cartService.View()
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": workflow.ErrEmptyCart.Error(),
		})
		return
	}

	reference := fmt.Sprintf("PB-%d", time.Now().Unix())
	pdf, err := h.receiptService.Prebill(
		reference,
		lines,
		totals,
		h.cartService.VatBreakdown(),
		h.cartService.Table(),
		h.cartService.OrderNotes(),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate prebill",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", reference))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}
