package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lugamandu/backend/middleware"
	"github.com/lugamandu/backend/services"
	"github.com/lugamandu/backend/viewstate"
)

// OrderController serves order history to customers and the order board to
// admins.
type OrderController struct {
	svc   services.OrderService
	board *viewstate.OrderViewModel
}

func NewOrderController(svc services.OrderService, board *viewstate.OrderViewModel) *OrderController {
	return &OrderController{svc: svc, board: board}
}

// Mine handles GET /orders.
func (oc *OrderController) Mine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	orders, svcErr := oc.svc.UserOrders(c.Request.Context(), userID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// All handles GET /orders/all (admin): the board mirror is refreshed and
// served.
func (oc *OrderController) All(c *gin.Context) {
	oc.board.FetchAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"orders": oc.board.Orders.Get()})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /orders/:id/status (admin).
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}
	respond(c, oc.board.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status))
}
