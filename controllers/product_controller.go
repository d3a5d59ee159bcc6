package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/services"
	"github.com/lugamandu/backend/viewstate"
)

// maxImageBytes caps product image uploads.
const maxImageBytes = 10 << 20

// ProductController handles catalog requests. List reads come from the
// live view-model mirror; writes go through the product service.
type ProductController struct {
	vm  *viewstate.ProductViewModel
	svc services.ProductService
}

func NewProductController(vm *viewstate.ProductViewModel, svc services.ProductService) *ProductController {
	return &ProductController{vm: vm, svc: svc}
}

// List handles GET /products.
func (pc *ProductController) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products": pc.vm.Products.Get(),
		"loading":  pc.vm.Loading.Get(),
	})
}

// Stream handles GET /products/stream, pushing catalog snapshots over SSE
// until the client disconnects.
func (pc *ProductController) Stream(c *gin.Context) {
	updates, cancel := pc.vm.Products.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case products, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("products", products)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Create handles POST /products (admin, multipart form with optional image).
func (pc *ProductController) Create(c *gin.Context) {
	product, image, errMsg := parseProductForm(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": errMsg})
		return
	}

	saved, res := pc.svc.Save(c.Request.Context(), product, image)
	if !res.OK {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": res.Message, "product": saved})
}

// Update handles PUT /products/:id.
func (pc *ProductController) Update(c *gin.Context) {
	product, image, errMsg := parseProductForm(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": errMsg})
		return
	}
	product.ID = c.Param("id")

	saved, res := pc.svc.Save(c.Request.Context(), product, image)
	if !res.OK {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message, "product": saved})
}

// Delete handles DELETE /products/:id.
func (pc *ProductController) Delete(c *gin.Context) {
	if pc.svc.Delete(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false})
}

func parseProductForm(c *gin.Context) (models.Product, []byte, string) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		return models.Product{}, nil, "Invalid price"
	}
	product := models.Product{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		ImageURL:    c.PostForm("imageUrl"),
	}

	file, err := c.FormFile("image")
	if err != nil {
		// No image attached is fine.
		return product, nil, ""
	}
	if file.Size > maxImageBytes {
		return models.Product{}, nil, "Image too large"
	}
	f, err := file.Open()
	if err != nil {
		return models.Product{}, nil, "Failed to read image"
	}
	defer f.Close()
	image, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		return models.Product{}, nil, "Failed to read image"
	}
	return product, image, ""
}
