package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lugamandu/backend/middleware"
	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
	"github.com/lugamandu/backend/services"
	"github.com/lugamandu/backend/viewstate"
)

type CartController struct {
	svc    services.CartService
	repo   repository.CartRepository
	logger *zap.Logger
}

func NewCartController(svc services.CartService, repo repository.CartRepository, logger *zap.Logger) *CartController {
	return &CartController{svc: svc, repo: repo, logger: logger}
}

// Get handles GET /cart.
func (cc *CartController) Get(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	items, svcErr := cc.svc.Items(c.Request.Context(), userID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "items": items})
}

// Watch handles GET /cart/watch: a per-connection view-model mirrors the
// user's cart and streams it over SSE until the client disconnects.
func (cc *CartController) Watch(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	vm := viewstate.NewCartViewModel(cc.repo, userID, cc.logger)
	if err := vm.Start(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to watch cart"})
		return
	}
	defer vm.Stop()

	updates, cancel := vm.Items.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case items, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("cart", items)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Add handles POST /cart/add.
func (cc *CartController) Add(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	var line models.CartLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}
	respond(c, cc.svc.Add(c.Request.Context(), userID, line))
}

// Remove handles DELETE /cart/remove/:cart_item_id.
func (cc *CartController) Remove(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	respond(c, cc.svc.Remove(c.Request.Context(), userID, c.Param("cart_item_id")))
}

// Clear handles DELETE /cart/clear.
func (cc *CartController) Clear(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	respond(c, cc.svc.Clear(c.Request.Context(), userID))
}

// Checkout handles POST /cart/checkout.
func (cc *CartController) Checkout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	order, res := cc.svc.Checkout(c.Request.Context(), userID)
	if !res.OK {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": res.Message, "order": order})
}

// respond maps a Result to the flat {success, message} body.
func respond(c *gin.Context, res services.Result) {
	status := http.StatusOK
	if !res.OK {
		status = http.StatusBadRequest
	}
	c.JSON(status, res)
}
