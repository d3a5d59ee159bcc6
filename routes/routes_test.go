package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lugamandu/backend/controllers"
	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
	"github.com/lugamandu/backend/routes"
	"github.com/lugamandu/backend/services"
	"github.com/lugamandu/backend/store/memory"
	"github.com/lugamandu/backend/viewstate"
)

type testApp struct {
	router *gin.Engine
	store  *memory.Store
	stop   func()
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := memory.New()
	log := zap.NewNop()

	productRepo := repository.NewProductRepository(s)
	cartRepo := repository.NewCartRepository(s)
	orderRepo := repository.NewOrderRepository(s)
	reviewRepo := repository.NewReviewRepository(s)
	userRepo := repository.NewUserRepository(s)

	orderSvc := services.NewOrderService(orderRepo, nil, log)
	cartSvc := services.NewCartService(cartRepo, productRepo, orderSvc, log)
	reviewSvc := services.NewReviewService(reviewRepo, orderSvc, userRepo, log)
	productSvc := services.NewProductService(productRepo, nil, log)

	productVM := viewstate.NewProductViewModel(productRepo, log)
	orderVM := viewstate.NewOrderViewModel(orderSvc, log)
	reviewVM := viewstate.NewReviewViewModel(reviewSvc, reviewRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	assert.NoError(t, productVM.Start(ctx))
	assert.NoError(t, reviewVM.StartAll(ctx))

	r := gin.New()
	routes.Register(r, routes.Deps{
		Products:  controllers.NewProductController(productVM, productSvc),
		Carts:     controllers.NewCartController(cartSvc, cartRepo, log),
		Orders:    controllers.NewOrderController(orderSvc, orderVM),
		Reviews:   controllers.NewReviewController(reviewSvc, reviewVM),
		Users:     controllers.NewUserController(userRepo, log),
		UserRepo:  userRepo,
		RateLimit: 1000,
		RateBurst: 1000,
	})

	app := &testApp{router: r, store: s, stop: func() {
		productVM.Stop()
		reviewVM.Stop()
		cancel()
	}}
	t.Cleanup(app.stop)

	app.seedUser(t, models.User{UserID: "admin", Email: "admin@lugamandu.com", Role: models.RoleAdmin})
	app.seedUser(t, models.User{UserID: "u1", Email: "asha@lugamandu.com", FirstName: "Asha", Role: models.RoleCustomer})
	return app
}

func (a *testApp) seedUser(t *testing.T, user models.User) {
	t.Helper()
	assert.NoError(t, a.store.Write(context.Background(), "users/"+user.UserID, user.ToMap()))
}

func (a *testApp) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) createProduct(t *testing.T, name string, price string) string {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	assert.NoError(t, form.WriteField("name", name))
	assert.NoError(t, form.WriteField("price", price))
	assert.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/products", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("X-User-ID", "admin")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Product models.Product `json:"product"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Product.ID)
	return resp.Product.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminGate(t *testing.T) {
	app := newTestApp(t)

	// Customers cannot reach admin surfaces.
	w := app.do(t, http.MethodGet, "/orders/all", "u1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodDelete, "/products/p1", "u1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/orders/all", "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductCatalogOverHTTP(t *testing.T) {
	app := newTestApp(t)
	id := app.createProduct(t, "Singing Bowl", "2500")

	// The public catalog mirrors the write once the listener fires.
	assert.Eventually(t, func() bool {
		w := app.do(t, http.MethodGet, "/products", "", nil)
		if w.Code != http.StatusOK {
			return false
		}
		var resp struct {
			Products []models.Product `json:"products"`
		}
		if json.Unmarshal(w.Body.Bytes(), &resp) != nil {
			return false
		}
		return len(resp.Products) == 1 && resp.Products[0].ID == id
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	id := app.createProduct(t, "Dhaka Topi", "500")

	w := app.do(t, http.MethodPost, "/cart/add", "u1", models.CartLine{ProductID: id, Quantity: 2})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/cart", "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Items []models.CartLine `json:"items"`
	}
	decode(t, w, &cart)
	assert.Len(t, cart.Items, 1)

	w = app.do(t, http.MethodPost, "/cart/checkout", "u1", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	var placed struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &placed)
	assert.Equal(t, models.OrderStatusPending, placed.Order.Status)
	assert.InDelta(t, 1000, placed.Order.TotalAmount, 1e-9)

	// Cart is empty afterwards.
	w = app.do(t, http.MethodGet, "/cart", "u1", nil)
	decode(t, w, &cart)
	assert.Empty(t, cart.Items)

	// Checking out again fails on the empty cart.
	w = app.do(t, http.MethodPost, "/cart/checkout", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Admin completes the order.
	w = app.do(t, http.MethodPatch, "/orders/"+placed.Order.OrderID+"/status", "admin",
		map[string]string{"status": models.OrderStatusComplete})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/orders", "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Orders []models.Order `json:"orders"`
	}
	decode(t, w, &mine)
	assert.Len(t, mine.Orders, 1)
	assert.Equal(t, models.OrderStatusComplete, mine.Orders[0].Status)
	assert.InDelta(t, 1000, mine.Orders[0].TotalAmount, 1e-9)
}

func TestReviewFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	id := app.createProduct(t, "Lokta Journal", "300")

	// Not eligible before purchase.
	w := app.do(t, http.MethodGet, "/products/"+id+"/reviews/eligibility", "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var elig struct {
		Eligible bool `json:"eligible"`
	}
	decode(t, w, &elig)
	assert.False(t, elig.Eligible)

	// Posting is rejected too.
	w = app.do(t, http.MethodPost, "/products/"+id+"/reviews", "u1",
		map[string]any{"rating": 5, "comment": "Lovely"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Buy it, then review.
	w = app.do(t, http.MethodPost, "/cart/add", "u1", models.CartLine{ProductID: id, Quantity: 1})
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodPost, "/cart/checkout", "u1", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodGet, "/products/"+id+"/reviews/eligibility", "u1", nil)
	decode(t, w, &elig)
	assert.True(t, elig.Eligible)

	w = app.do(t, http.MethodPost, "/products/"+id+"/reviews", "u1",
		map[string]any{"rating": 5, "comment": "Lovely"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var posted struct {
		Review models.Review `json:"review"`
	}
	decode(t, w, &posted)
	assert.Equal(t, "Asha", posted.Review.UserName)

	w = app.do(t, http.MethodGet, "/products/"+id+"/reviews", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Reviews []models.Review `json:"reviews"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Reviews, 1)

	// Deletion is reserved for moderation: neither the author nor any
	// other signed-in user can remove a review.
	w = app.do(t, http.MethodDelete, "/reviews/"+posted.Review.ReviewID, "u1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	app.seedUser(t, models.User{UserID: "u2", Email: "b@lugamandu.com", Role: models.RoleCustomer})
	w = app.do(t, http.MethodDelete, "/reviews/"+posted.Review.ReviewID, "u2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/products/"+id+"/reviews", "", nil)
	decode(t, w, &list)
	assert.Len(t, list.Reviews, 1)

	// Moderation delete, idempotent on repeats.
	w = app.do(t, http.MethodDelete, "/reviews/"+posted.Review.ReviewID, "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodDelete, "/reviews/"+posted.Review.ReviewID, "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/products/"+id+"/reviews", "", nil)
	decode(t, w, &list)
	assert.Empty(t, list.Reviews)
}

func TestUserProfileOverHTTP(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/users/me", "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User models.User `json:"user"`
	}
	decode(t, w, &me)
	assert.Equal(t, "Asha", me.User.FirstName)

	w = app.do(t, http.MethodPatch, "/users/me", "u1", map[string]string{"contact": "9800000000"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/users/me", "u1", nil)
	decode(t, w, &me)
	assert.Equal(t, "9800000000", me.User.Contact)
	// Identity fields are untouched.
	assert.Equal(t, "asha@lugamandu.com", me.User.Email)

	w = app.do(t, http.MethodGet, "/users/me", "ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductUpdateAndDeleteOverHTTP(t *testing.T) {
	app := newTestApp(t)
	id := app.createProduct(t, "Thangka", "9000")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	assert.NoError(t, form.WriteField("name", "Thangka"))
	assert.NoError(t, form.WriteField("price", "9500"))
	assert.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPut, "/products/"+id, &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("X-User-ID", "admin")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w2 := app.do(t, http.MethodDelete, "/products/"+id, "admin", nil)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestProductValidationOverHTTP(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name  string
		price string
		msg   string
	}{
		{"  ", "100", "Product name is required"},
		{"Bowl", "0", "Price must be greater than zero"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		form := multipart.NewWriter(&buf)
		assert.NoError(t, form.WriteField("name", tc.name))
		assert.NoError(t, form.WriteField("price", tc.price))
		assert.NoError(t, form.Close())

		req := httptest.NewRequest(http.MethodPost, "/products", &buf)
		req.Header.Set("Content-Type", form.FormDataContentType())
		req.Header.Set("X-User-ID", "admin")
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), tc.msg)
	}
}

func TestInvalidPayloads(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/cart/add", "u1", map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPatch, "/orders/x/status", "admin", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPatch, "/users/me", "u1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
