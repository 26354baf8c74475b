package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nilecart/internal/config"
	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type handlerFixture struct {
	db     *gorm.DB
	engine *gin.Engine
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	previous := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = previous
		_ = sqlDB.Close()
	})

	cfg := &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "handler-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
		Shop: config.ShopConfig{
			Currency: "EGP",
			Shipping: config.ShippingConfig{
				FreeThreshold:     "1000",
				MetroRate:         "50",
				DomesticRate:      "80",
				InternationalRate: "350",
				DomesticCountry:   "EG",
				MetroCities:       []string{"cairo", "giza"},
			},
		},
	}
	container, err := provider.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}

	h := New(container)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if token := c.GetHeader("X-Cart-Token"); token != "" {
			c.Set(handlershared.ContextCartToken, token)
		}
		c.Next()
	})
	r.GET("/products/:slug", h.GetProduct)
	r.GET("/variants/:id", h.GetVariant)
	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PUT("/cart/items/:id", h.UpdateCartItem)
	r.POST("/checkout", h.Checkout)
	r.GET("/guest/orders/:order_number", h.GetGuestOrder)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/me", h.GetProfile)
	return &handlerFixture{db: db, engine: r}
}

func (f *handlerFixture) createVariant(t *testing.T, slug, price string, stock int) *models.ProductVariant {
	t.Helper()
	product := &models.Product{Name: "Scarf " + slug, Slug: slug, Price: models.MustMoney(price), IsActive: true}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := &models.ProductVariant{ProductID: product.ID, SKU: "SKU-" + slug, StockQuantity: stock}
	if err := f.db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func (f *handlerFixture) do(t *testing.T, method, path, cartToken string, body interface{}) apiResponse {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cartToken != "" {
		req.Header.Set("X-Cart-Token", cartToken)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d", method, path, w.Code)
	}
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestGuestCartAndShippingLabel(t *testing.T) {
	f := newHandlerFixture(t)
	variant := f.createVariant(t, "silk", "400", 3)

	resp := f.do(t, http.MethodPost, "/cart/items", "guest-1", gin.H{"variant_id": variant.ID, "quantity": 2})
	if resp.StatusCode != 0 {
		t.Fatalf("add item want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}

	resp = f.do(t, http.MethodGet, "/cart?city=Cairo&country=EG", "guest-1", nil)
	var cart CartResponse
	if err := json.Unmarshal(resp.Data, &cart); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	if cart.TotalItems != 2 || cart.TotalPrice.StringFixed(2) != "800.00" {
		t.Fatalf("unexpected totals: items=%d price=%s", cart.TotalItems, cart.TotalPrice.StringFixed(2))
	}
	if cart.Shipping.Message != "" || cart.Shipping.Label != "" || cart.Shipping.Cost.StringFixed(2) != "50.00" {
		t.Fatalf("known destination should carry no shipping message: %+v", cart.Shipping)
	}
	if cart.GrandTotal.StringFixed(2) != "850.00" {
		t.Fatalf("grand total want 850.00 got %s", cart.GrandTotal.StringFixed(2))
	}

	resp = f.do(t, http.MethodGet, "/cart", "guest-1", nil)
	var estimated CartResponse
	if err := json.Unmarshal(resp.Data, &estimated); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	if estimated.Shipping.Message != "estimate" || estimated.Shipping.Label != "Shipping (Estimate)" {
		t.Fatalf("unknown destination should be an estimate: %+v", estimated.Shipping)
	}
}

func TestAddCartItemQuantityDefaults(t *testing.T) {
	f := newHandlerFixture(t)
	variant := f.createVariant(t, "wool", "60", 5)

	resp := f.do(t, http.MethodPost, "/cart/items", "guest-q", gin.H{"variant_id": variant.ID, "quantity": 0})
	if resp.StatusCode != 400 {
		t.Fatalf("explicit zero quantity want 400 got %d", resp.StatusCode)
	}
	var data struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil || data.Reason != "invalid_quantity" {
		t.Fatalf("want invalid_quantity reason, got %+v (%v)", data, err)
	}

	resp = f.do(t, http.MethodPost, "/cart/items", "guest-q", gin.H{"variant_id": variant.ID})
	var cart CartResponse
	if err := json.Unmarshal(resp.Data, &cart); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	if resp.StatusCode != 0 || cart.TotalItems != 1 {
		t.Fatalf("missing quantity should add one unit, got code=%d items=%d", resp.StatusCode, cart.TotalItems)
	}
}

func TestAddCartItemOutOfStockReturnsReason(t *testing.T) {
	f := newHandlerFixture(t)
	variant := f.createVariant(t, "cotton", "120", 3)

	f.do(t, http.MethodPost, "/cart/items", "guest-2", gin.H{"variant_id": variant.ID, "quantity": 2})
	resp := f.do(t, http.MethodPost, "/cart/items", "guest-2", gin.H{"variant_id": variant.ID, "quantity": 5})
	if resp.StatusCode != 422 {
		t.Fatalf("status_code want 422 got %d", resp.StatusCode)
	}
	var data struct {
		Reason    string `json:"reason"`
		Available int    `json:"available"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if data.Reason != "out_of_stock" || data.Available != 1 {
		t.Fatalf("unexpected stock payload: %+v", data)
	}
	if !strings.Contains(resp.Msg, "1") {
		t.Fatalf("message should mention remaining stock, got %s", resp.Msg)
	}
}

func TestUpdateCartItemClampsWithNotice(t *testing.T) {
	f := newHandlerFixture(t)
	variant := f.createVariant(t, "linen", "90", 4)

	f.do(t, http.MethodPost, "/cart/items", "guest-3", gin.H{"variant_id": variant.ID, "quantity": 1})
	resp := f.do(t, http.MethodGet, "/cart", "guest-3", nil)
	var cart CartResponse
	if err := json.Unmarshal(resp.Data, &cart); err != nil || len(cart.Items) != 1 {
		t.Fatalf("decode cart failed: %v items=%d", err, len(cart.Items))
	}

	resp = f.do(t, http.MethodPut, fmt.Sprintf("/cart/items/%d", cart.Items[0].ItemID), "guest-3", gin.H{"quantity": 9})
	if resp.StatusCode != 0 {
		t.Fatalf("update want 0 got %d", resp.StatusCode)
	}
	if err := json.Unmarshal(resp.Data, &cart); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	if cart.TotalItems != 4 || len(cart.Adjustments) != 1 {
		t.Fatalf("quantity should clamp to stock: items=%d adjustments=%d", cart.TotalItems, len(cart.Adjustments))
	}
	if !strings.Contains(cart.Adjustments[0].Notice, "Only 4") {
		t.Fatalf("unexpected notice: %s", cart.Adjustments[0].Notice)
	}
}

func TestCartRequiresIdentity(t *testing.T) {
	f := newHandlerFixture(t)
	resp := f.do(t, http.MethodGet, "/cart", "", nil)
	if resp.StatusCode != 400 {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}
}

func TestGuestCheckoutAndLookup(t *testing.T) {
	f := newHandlerFixture(t)
	variant := f.createVariant(t, "wool", "300", 5)
	f.do(t, http.MethodPost, "/cart/items", "guest-4", gin.H{"variant_id": variant.ID, "quantity": 2})

	resp := f.do(t, http.MethodPost, "/checkout", "guest-4", gin.H{
		"payment_method": "cash_on_delivery",
		"shipping": gin.H{
			"email":         "guest@example.com",
			"first_name":    "Nour",
			"last_name":     "Samir",
			"address_line1": "3 Corniche",
			"city":          "Alexandria",
			"country":       "eg",
		},
	})
	if resp.StatusCode != 0 {
		t.Fatalf("checkout want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var placed struct {
		Order       models.Order `json:"order"`
		AccessToken string       `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Data, &placed); err != nil {
		t.Fatalf("decode order failed: %v", err)
	}
	if placed.AccessToken == "" || placed.Order.OrderNumber == "" {
		t.Fatalf("guest checkout should return order number and access token")
	}
	if placed.Order.Status != "processing" || placed.Order.GrandTotal.StringFixed(2) != "680.00" {
		t.Fatalf("unexpected order: status=%s total=%s", placed.Order.Status, placed.Order.GrandTotal.StringFixed(2))
	}

	resp = f.do(t, http.MethodGet, "/guest/orders/"+placed.Order.OrderNumber+"?token="+placed.AccessToken, "", nil)
	if resp.StatusCode != 0 {
		t.Fatalf("guest lookup want 0 got %d", resp.StatusCode)
	}
	resp = f.do(t, http.MethodGet, "/guest/orders/"+placed.Order.OrderNumber+"?token=wrong", "", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("wrong token want 404 got %d", resp.StatusCode)
	}

	resp = f.do(t, http.MethodPost, "/checkout", "guest-4", gin.H{
		"payment_method": "cash_on_delivery",
		"shipping": gin.H{
			"email": "guest@example.com", "first_name": "Nour", "last_name": "Samir",
			"address_line1": "3 Corniche", "city": "Alexandria", "country": "EG",
		},
	})
	if resp.StatusCode != 400 {
		t.Fatalf("empty cart checkout want 400 got %d", resp.StatusCode)
	}
}

func TestRegisterLoginAndProfile(t *testing.T) {
	f := newHandlerFixture(t)

	resp := f.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "mona@example.com", "password": "short"})
	if resp.StatusCode != 400 {
		t.Fatalf("weak password want 400 got %d", resp.StatusCode)
	}
	resp = f.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "mona@example.com", "password": "nile2024x"})
	if resp.StatusCode != 0 {
		t.Fatalf("register want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	resp = f.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": "MONA@example.com", "password": "nile2024x"})
	if resp.StatusCode != 409 {
		t.Fatalf("duplicate email want 409 got %d", resp.StatusCode)
	}
	resp = f.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "mona@example.com", "password": "wrong-pass1"})
	if resp.StatusCode != 401 {
		t.Fatalf("bad credentials want 401 got %d", resp.StatusCode)
	}
	resp = f.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "mona@example.com", "password": "nile2024x"})
	if resp.StatusCode != 0 {
		t.Fatalf("login want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}

	resp = f.do(t, http.MethodGet, "/me", "", nil)
	if resp.StatusCode != 401 {
		t.Fatalf("profile without user want 401 got %d", resp.StatusCode)
	}
}

func TestGetVariantAvailability(t *testing.T) {
	f := newHandlerFixture(t)
	variant := f.createVariant(t, "denim", "250", 0)

	resp := f.do(t, http.MethodGet, fmt.Sprintf("/variants/%d", variant.ID), "", nil)
	if resp.StatusCode != 0 {
		t.Fatalf("variant lookup want 0 got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Data), `"is_available":false`) {
		t.Fatalf("zero stock should be unavailable: %s", resp.Data)
	}
	resp = f.do(t, http.MethodGet, "/variants/999", "", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("missing variant want 404 got %d", resp.StatusCode)
	}
	resp = f.do(t, http.MethodGet, "/products/missing", "", nil)
	if resp.StatusCode != 404 {
		t.Fatalf("missing product want 404 got %d", resp.StatusCode)
	}
}
