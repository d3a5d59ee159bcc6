package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lugamandu/backend/middleware"
	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/services"
	"github.com/lugamandu/backend/viewstate"
)

type ReviewController struct {
	svc        services.ReviewService
	moderation *viewstate.ReviewViewModel
}

func NewReviewController(svc services.ReviewService, moderation *viewstate.ReviewViewModel) *ReviewController {
	return &ReviewController{svc: svc, moderation: moderation}
}

// All handles GET /reviews (admin moderation view), served from the live
// mirror.
func (rc *ReviewController) All(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reviews": rc.moderation.Reviews.Get()})
}

// ForProduct handles GET /products/:id/reviews.
func (rc *ReviewController) ForProduct(c *gin.Context) {
	reviews, svcErr := rc.svc.ForProduct(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

type postReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// Post handles POST /products/:id/reviews.
func (rc *ReviewController) Post(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	var req postReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	review, res := rc.svc.Post(c.Request.Context(), models.Review{
		ProductID: c.Param("id"),
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if !res.OK {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": res.Message, "review": review})
}

// Delete handles DELETE /reviews/:id. Only a boolean outcome is reported.
func (rc *ReviewController) Delete(c *gin.Context) {
	if rc.svc.Delete(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false})
}

// Eligibility handles GET /products/:id/reviews/eligibility.
func (rc *ReviewController) Eligibility(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	eligible := rc.svc.CanReview(c.Request.Context(), userID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"eligible": eligible})
}
