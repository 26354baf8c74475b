package provider

import (
	"time"

	"github.com/nilecart/internal/authz"
	"github.com/nilecart/internal/cache"
	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/queue"
	"github.com/nilecart/internal/repository"
	"github.com/nilecart/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	QueueClient    *queue.Client
	ShippingPolicy service.ShippingPolicy

	// Repositories
	UserRepo     repository.UserRepository
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	CartRepo     repository.CartRepository
	WishlistRepo repository.WishlistRepository
	CouponRepo   repository.CouponRepository
	OrderRepo    repository.OrderRepository
	PaymentRepo  repository.PaymentRepository
	AddressRepo  repository.ShippingAddressRepository

	// Services
	AuthzService    *authz.Service
	UserAuthService *service.UserAuthService
	EmailService    *service.EmailService
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	WishlistService *service.WishlistService
	CouponService   *service.CouponService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
	AddressService  *service.AddressService
}

// NewContainer 初始化容器，运费配置非法时直接报错
func NewContainer(cfg *config.Config) (*Container, error) {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	policy, err := service.NewShippingPolicy(cfg.Shop.Shipping)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		ShippingPolicy: policy,
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.AddressRepo = repository.NewShippingAddressRepository(db)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	c.AuthzService = authzService

	shop := c.Config.Shop
	c.EmailService = service.NewEmailService(&c.Config.Email, shop.Currency)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.WishlistRepo, c.AddressRepo, c.ShippingPolicy, service.CartServiceOptions{
		CountsTTL:    time.Duration(shop.CountsCacheTTLSeconds) * time.Second,
		MergeLockTTL: time.Duration(shop.MergeLockSeconds) * time.Second,
	})
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CartService)
	c.CheckoutService = service.NewCheckoutService(c.CartRepo, c.ProductRepo, c.CouponRepo, c.OrderRepo, c.PaymentRepo, c.AddressRepo, c.QueueClient, c.ShippingPolicy)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.PaymentRepo, c.QueueClient)
	c.AddressService = service.NewAddressService(c.AddressRepo, c.ShippingPolicy)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.CartService, c.WishlistService, c.QueueClient)
	return nil
}

// Close 释放队列客户端与缓存连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
