package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/nilecart/internal/authz"
	"github.com/nilecart/internal/cache"
	"github.com/nilecart/internal/config"
	adminhandlers "github.com/nilecart/internal/http/handlers/admin"
	publichandlers "github.com/nilecart/internal/http/handlers/public"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	loginRule := LoginRateLimitRule(cfg.Security.LoginRateLimit)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
	{
		// 商品目录
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:slug", publicHandler.GetProduct)
		apiV1.GET("/variants/:id", publicHandler.GetVariant)
		apiV1.GET("/categories", publicHandler.ListCategories)

		// 用户认证
		auth := apiV1.Group("/auth")
		auth.Use(CartIdentityMiddleware(cfg.Shop.CartTokenTTLDays))
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 购物车、收藏与下单（游客凭购物车令牌，登录用户凭 JWT）
		shopper := apiV1.Group("")
		shopper.Use(CartIdentityMiddleware(cfg.Shop.CartTokenTTLDays))
		{
			shopper.GET("/cart", publicHandler.GetCart)
			shopper.GET("/cart/counts", publicHandler.GetCounts)
			shopper.POST("/cart/items", publicHandler.AddCartItem)
			shopper.PUT("/cart/items/:id", publicHandler.UpdateCartItem)
			shopper.DELETE("/cart/items/:id", publicHandler.RemoveCartItem)
			shopper.POST("/cart/buy-now", publicHandler.BuyNow)
			shopper.POST("/cart/coupon", publicHandler.ApplyCoupon)
			shopper.POST("/checkout", publicHandler.Checkout)
			shopper.GET("/wishlist", publicHandler.GetWishlist)
			shopper.POST("/wishlist/items", publicHandler.AddWishlistItem)
			shopper.DELETE("/wishlist/items/:product_id", publicHandler.RemoveWishlistItem)
		}

		apiV1.GET("/guest/orders/:order_number", publicHandler.GetGuestOrder)

		// 登录用户
		user := apiV1.Group("")
		user.Use(RequireUserMiddleware())
		{
			user.GET("/me", publicHandler.GetProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)
			user.GET("/orders", publicHandler.ListMyOrders)
			user.GET("/orders/:order_number", publicHandler.GetMyOrder)
			user.GET("/addresses", publicHandler.ListAddresses)
			user.POST("/addresses", publicHandler.CreateAddress)
		}

		// 后台（需 staff 身份并通过 RBAC）
		admin := apiV1.Group("/admin")
		admin.Use(StaffRBACMiddleware(c.AuthzService))
		{
			admin.GET("/orders", adminHandler.GetOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.PATCH("/orders/:id/payment-status", adminHandler.UpdatePaymentStatus)
			admin.GET("/coupons", adminHandler.GetCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.GET("/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildStaffPermissionCatalog(r))
			})
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

type staffPermissionItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildStaffPermissionCatalog 从已注册路由导出后台权限点，供分配角色策略参考
func buildStaffPermissionCatalog(engine *gin.Engine) []staffPermissionItem {
	if engine == nil {
		return []staffPermissionItem{}
	}
	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]staffPermissionItem, 0, len(routes))
	for _, route := range routes {
		method := strings.ToUpper(strings.TrimSpace(route.Method))
		if method == "" || method == http.MethodOptions || method == http.MethodHead {
			continue
		}
		if !strings.HasPrefix(route.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, staffPermissionItem{
			Module:     permissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Object == items[j].Object {
			return items[i].Method < items[j].Method
		}
		return items[i].Object < items[j].Object
	})
	return items
}

// permissionModule /admin/orders/:id/status -> orders
func permissionModule(object string) string {
	segments := strings.Split(strings.Trim(object, "/"), "/")
	if len(segments) >= 2 && segments[0] == "admin" {
		return segments[1]
	}
	return segments[0]
}
