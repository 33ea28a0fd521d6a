package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/controller"
	"marketplace_api/internal/middleware"
	"marketplace_api/internal/repository"
	"marketplace_api/internal/service"
)

// Options carries the settings the HTTP layer needs.
type Options struct {
	CORSAllowOrigins []string
	BcryptCost       int
	LoginCooldown    time.Duration
}

// Handlers is every controller the route table binds.
type Handlers struct {
	Seller   *controller.SellerController
	Product  *controller.ProductController
	Category *controller.CategoryController
	User     *controller.UserController
	Review   *controller.ReviewController
	Health   *controller.HealthController

	LoginLimiter  *middleware.CooldownLimiter
	LoginCooldown time.Duration
}

// NewHandlers wires store, services and controllers over db.
func NewHandlers(db *gorm.DB, opts Options, log *zap.Logger) Handlers {
	store := repository.NewStore(db)

	sellerSvc := service.NewSellerService(store, opts.BcryptCost, log)
	productSvc := service.NewProductService(store, log)

	return Handlers{
		Seller:        controller.NewSellerController(sellerSvc, productSvc),
		Product:       controller.NewProductController(productSvc),
		Category:      controller.NewCategoryController(service.NewCategoryService(store)),
		User:          controller.NewUserController(service.NewUserService(store)),
		Review:        controller.NewReviewController(service.NewReviewService(store)),
		Health:        controller.NewHealthController(db),
		LoginLimiter:  middleware.NewCooldownLimiter(),
		LoginCooldown: opts.LoginCooldown,
	}
}

// NewEngine builds the gin engine with the global middleware chain.
func NewEngine(log *zap.Logger, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(log),
		middleware.Recovery(log),
		cors.New(corsConfig(allowOrigins)),
		middleware.AuditContext(),
	)
	return r
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	cfg.ExposeHeaders = []string{middleware.HeaderRequestID}

	for _, o := range allowOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(allowOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowOrigins
	return cfg
}

// InitRoutes registers all routes.
func InitRoutes(r *gin.Engine, h Handlers) {
	r.GET("/healthz", h.Health.Check)

	// sellers
	sellers := r.Group("/sellers")
	{
		sellers.POST("/", h.Seller.Create)
		sellers.GET("/", h.Seller.List)

		// static segments next to /:id
		sellers.GET("/statistics", h.Seller.Statistics)
		sellers.POST("/login", middleware.LoginRateLimit(h.LoginLimiter, h.LoginCooldown), h.Seller.Login)
		sellers.GET("/me", middleware.JWTAuth(), h.Seller.Me)

		sellers.GET("/:id", h.Seller.Get)
		sellers.PUT("/:id", h.Seller.Update)
		sellers.DELETE("/:id", h.Seller.Delete)
		sellers.GET("/:id/detailed", h.Seller.Detailed)

		sellers.GET("/:id/products/", h.Seller.Products)
		sellers.POST("/:id/products/", h.Seller.CreateProduct)
		sellers.GET("/:id/products/count", h.Seller.ProductCount)

		sellers.POST("/:id/profile", h.Seller.CreateProfile)
		sellers.GET("/:id/profile", h.Seller.GetProfile)
		sellers.PUT("/:id/profile", h.Seller.UpdateProfile)

		sellers.GET("/:id/followers", h.Seller.Followers)
		sellers.GET("/:id/following", h.Seller.Following)
		sellers.POST("/:id/following/:target_id", h.Seller.Follow)
		sellers.DELETE("/:id/following/:target_id", h.Seller.Unfollow)
	}

	// products
	products := r.Group("/products")
	{
		products.GET("/", h.Product.List)
		products.GET("/search", h.Product.Search)
		products.GET("/expensive", h.Product.Expensive)

		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
		products.GET("/:id/seller", h.Product.Seller)
		products.GET("/:id/price-status", h.Product.PriceStatus)
		products.GET("/:id/detailed", h.Product.Detailed)
		products.GET("/:id/reviews", h.Product.Reviews)

		products.POST("/:id/inventory", h.Product.CreateInventory)
		products.GET("/:id/inventory", h.Product.GetInventory)
		products.PUT("/:id/inventory", h.Product.UpdateInventory)

		products.GET("/:id/categories", h.Product.Categories)
		products.POST("/:id/categories/:category_id", h.Product.AddCategory)
		products.DELETE("/:id/categories/:category_id", h.Product.RemoveCategory)
	}

	// categories
	categories := r.Group("/categories")
	{
		categories.POST("/", h.Category.Create)
		categories.GET("/", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
		categories.GET("/:id/products", h.Category.Products)
		categories.GET("/:id/subcategories", h.Category.Subcategories)
		categories.GET("/:id/parent", h.Category.Parent)
	}

	// users
	users := r.Group("/users")
	{
		users.POST("/", h.User.Create)
		users.GET("/", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
		users.GET("/:id/reviews", h.User.Reviews)
	}

	// reviews
	reviews := r.Group("/reviews")
	{
		reviews.POST("/", h.Review.Create)
		reviews.GET("/:id", h.Review.Get)
		reviews.PUT("/:id", h.Review.Update)
		reviews.DELETE("/:id", h.Review.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "Not Found", ErrorCode: "ROUTE_NOT_FOUND"})
	})
}
