package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/controllers"
	"github.com/prasetyawidi/meja-app/middlewares"
	"github.com/prasetyawidi/meja-app/realtime"
	"github.com/prasetyawidi/meja-app/repository"
	"github.com/prasetyawidi/meja-app/services"
)

// Deps adalah dependensi runtime yang dirakit main dan dipakai router.
type Deps struct {
	DB       *gorm.DB
	KV       cart.KVStore
	Hub      *realtime.Hub
	Notifier services.NotificationSink
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	menuRepo := repository.NewMenuRepository(deps.DB)
	orderRepo := repository.NewOrderRepository(deps.DB)
	sessionRepo := repository.NewSessionRepository(deps.DB)
	customerDir := repository.NewCustomerDirectory(deps.DB)

	checkout := services.NewCheckoutService(
		menuRepo,
		repository.NewAdminFeeResolver(deps.DB),
		customerDir,
		orderRepo,
		repository.NewKitchenModeFlag(deps.DB),
		repository.NewKitchenQueueRepository(deps.DB),
		deps.Notifier,
	)

	userCtrl := controllers.NewUserController(deps.DB)
	menuCtrl := controllers.NewMenuController(menuRepo)
	cartCtrl := controllers.NewCartController(deps.KV, menuRepo)
	sessionCtrl := controllers.NewSessionController(deps.KV, sessionRepo, orderRepo, deps.Notifier)
	orderCtrl := controllers.NewOrderController(deps.KV, checkout, orderRepo, sessionRepo, deps.Notifier)
	customerCtrl := controllers.NewCustomerController(customerDir)
	realtimeCtrl := controllers.NewRealtimeController(deps.Hub, orderRepo)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	authLimiter := middlewares.NewRateLimiter(5, 60)
	public := r.Group("/")
	public.Use(authLimiter.RateLimit())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//            CUSTOMER (tanpa auth, per toko + per device)
	// ----------------------------------------------------------------
	toko := r.Group("/toko/:toko_id")
	{
		toko.GET("/restaurant", menuCtrl.GetRestaurantData)
		toko.GET("/menu", menuCtrl.GetMenus)

		toko.GET("/cart", cartCtrl.GetCart)
		toko.POST("/cart/items", cartCtrl.AddItem)
		toko.PATCH("/cart/items/:line_id", cartCtrl.UpdateQuantity)
		toko.DELETE("/cart/items/:line_id", cartCtrl.RemoveItem)
		toko.DELETE("/cart", cartCtrl.ClearCart)

		toko.POST("/session/bootstrap", sessionCtrl.Bootstrap)
		toko.GET("/session", sessionCtrl.GetSession)
		toko.PUT("/session/customer", sessionCtrl.UpdateCustomerData)
		toko.POST("/session/close-bill", sessionCtrl.CloseBill)
		toko.GET("/sessions/:token/summary", sessionCtrl.GetBillSummary)

		toko.GET("/pelanggan/search", customerCtrl.SearchByPhone)

		// Submit pesanan dibatasi per IP
		submitLimiter := middlewares.NewRateLimiter(10, 60)
		toko.POST("/orders", submitLimiter.RateLimit(), orderCtrl.SubmitOrder)

		toko.GET("/realtime", realtimeCtrl.Subscribe)
	}

	r.GET("/orders/:order_id", orderCtrl.GetOrder)

	// ----------------------------------------------------------------
	//                      STAFF (ber-auth)
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)

		kasir := auth.Group("/")
		kasir.Use(middlewares.RequireRole("kasir"))
		{
			kasir.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
			kasir.GET("/toko/:toko_id/orders/pending-count", orderCtrl.GetPendingCount)
		}
	}

	return r
}
