package api

import (
	"database/sql"
	stdhttp "net/http"

	intconfig "github.com/andyriles/meal-ordering-service-backend/internal/config"
	"github.com/andyriles/meal-ordering-service-backend/internal/domain"
	h "github.com/andyriles/meal-ordering-service-backend/internal/http/handlers"
	"github.com/andyriles/meal-ordering-service-backend/internal/http/middleware"
	"github.com/andyriles/meal-ordering-service-backend/internal/metrics"
	"github.com/andyriles/meal-ordering-service-backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the router needs to serve requests.
type Deps struct {
	Env    intconfig.Env
	DB     *sql.DB
	Log    *zap.Logger
	Rights middleware.RightChecker
	Tokens middleware.TokenParser

	Meals  services.MealService
	Menus  services.MenuService
	Orders services.OrderService
	Users  services.UserService
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(d.Log), gin.Recovery(), metrics.Middleware(), middleware.CORS(d.Env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil && d.Log != nil {
		d.Log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"code":   "not_found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	sys := h.SystemHandler{DB: d.DB}
	r.GET("/health", sys.Health)
	r.GET("/db-check", sys.DBCheck)
	r.GET("/routes", h.Routes)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/v1")
	{
		authH := h.AuthHandler{Svc: d.Users}
		auth := v1.Group("/auth", middleware.RateLimit(d.Env.AuthRatePerMinute, d.Env.AuthRateBurst))
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)

		secured := v1.Group("", middleware.Auth(d.Tokens))
		need := func(right string) gin.HandlerFunc { return middleware.RequireRights(d.Rights, right) }

		meals := h.MealHandler{Svc: d.Meals}
		mg := secured.Group("/meals")
		mg.POST("", need(domain.RightManageMeals), meals.Create)
		mg.GET("", need(domain.RightGetMeals), meals.List)
		mg.GET("/:mealId", need(domain.RightGetMeals), meals.Get)
		mg.PATCH("/:mealId", need(domain.RightManageMeals), meals.Update)
		mg.DELETE("/:mealId", need(domain.RightManageMeals), meals.Delete)

		menus := h.MenuHandler{Svc: d.Menus}
		ng := secured.Group("/menu")
		ng.POST("", need(domain.RightManageMenu), menus.Create)
		ng.GET("", need(domain.RightGetMenu), menus.List)
		ng.GET("/:menuId", need(domain.RightGetMenu), menus.Get)
		ng.PATCH("/:menuId", need(domain.RightManageMenu), menus.Update)
		ng.DELETE("/:menuId", need(domain.RightManageMenu), menus.Delete)

		orders := h.OrderHandler{Svc: d.Orders}
		og := secured.Group("/orders")
		og.POST("", need(domain.RightManageOrder), orders.Create)
		og.GET("", need(domain.RightGetOrder), orders.List)
		og.GET("/:orderId", need(domain.RightGetOrder), orders.Get)
		og.GET("/:orderId/receipt", need(domain.RightGetOrder), orders.Receipt)
		og.PATCH("/:orderId", need(domain.RightManageOrder), orders.Update)
		og.DELETE("/:orderId", need(domain.RightManageOrder), orders.Delete)

		users := h.UserHandler{Svc: d.Users}
		ug := secured.Group("/users", need(domain.RightGetUsers))
		ug.GET("", users.List)
		ug.GET("/:userId", users.Get)
	}

	h.SetRouter(r)
	return r
}
