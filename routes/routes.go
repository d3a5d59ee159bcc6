package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/lugamandu/backend/controllers"
	"github.com/lugamandu/backend/middleware"
	"github.com/lugamandu/backend/repository"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Products *controllers.ProductController
	Carts    *controllers.CartController
	Orders   *controllers.OrderController
	Reviews  *controllers.ReviewController
	Users    *controllers.UserController
	UserRepo repository.UserRepository

	RateLimit rate.Limit
	RateBurst int
}

// Register wires the HTTP surface.
func Register(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware()
	admin := middleware.RequireAdmin(d.UserRepo)
	limited := middleware.RateLimitMiddleware(d.RateLimit, d.RateBurst)

	products := r.Group("/products")
	{
		products.GET("", d.Products.List)
		products.GET("/stream", d.Products.Stream)
		products.GET("/:id/reviews", d.Reviews.ForProduct)

		products.POST("", auth, admin, limited, d.Products.Create)
		products.PUT("/:id", auth, admin, limited, d.Products.Update)
		products.DELETE("/:id", auth, admin, limited, d.Products.Delete)

		products.GET("/:id/reviews/eligibility", auth, d.Reviews.Eligibility)
		products.POST("/:id/reviews", auth, limited, d.Reviews.Post)
	}

	cart := r.Group("/cart", auth)
	{
		cart.GET("", d.Carts.Get)
		cart.GET("/watch", d.Carts.Watch)
		cart.POST("/add", limited, d.Carts.Add)
		cart.DELETE("/remove/:cart_item_id", limited, d.Carts.Remove)
		cart.DELETE("/clear", limited, d.Carts.Clear)
		cart.POST("/checkout", limited, d.Carts.Checkout)
	}

	orders := r.Group("/orders", auth)
	{
		orders.GET("", d.Orders.Mine)
		orders.GET("/all", admin, d.Orders.All)
		orders.PATCH("/:id/status", admin, limited, d.Orders.UpdateStatus)
	}

	reviews := r.Group("/reviews", auth)
	{
		reviews.GET("", admin, d.Reviews.All)
		reviews.DELETE("/:id", admin, limited, d.Reviews.Delete)
	}

	users := r.Group("/users", auth)
	{
		users.GET("/me", d.Users.Me)
		users.PATCH("/me", limited, d.Users.UpdateProfile)
	}
}
