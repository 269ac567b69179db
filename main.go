package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andyriles/meal-ordering-service-backend/internal/authz"
	intconfig "github.com/andyriles/meal-ordering-service-backend/internal/config"
	intdb "github.com/andyriles/meal-ordering-service-backend/internal/db"
	router "github.com/andyriles/meal-ordering-service-backend/internal/http"
	"github.com/andyriles/meal-ordering-service-backend/internal/repositories"
	"github.com/andyriles/meal-ordering-service-backend/internal/services"
	"github.com/andyriles/meal-ordering-service-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	log, err := utils.NewLogger(env.AppEnv, env.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	utils.SetLogger(log)

	if err := env.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer intconfig.CloseDB()

	if env.DBBootstrap {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := intdb.Bootstrap(ctx, db)
		cancel()
		if err != nil {
			log.Fatal("failed to bootstrap schema", zap.Error(err))
		}
		log.Info("schema ready")
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		log.Fatal("failed to load access policy", zap.Error(err))
	}

	tokens := services.Tokens{Secret: []byte(env.JWTSecret), TTL: env.JWTTTL}
	r := router.NewRouter(router.Deps{
		Env:    env,
		DB:     db,
		Log:    log,
		Rights: enforcer,
		Tokens: tokens,
		Meals:  services.MealService{Repo: repositories.MealRepository{DB: db}},
		Menus:  services.MenuService{Repo: repositories.MenuRepository{DB: db}},
		Orders: services.OrderService{Repo: repositories.OrderRepository{DB: db}},
		Users:  services.UserService{Repo: repositories.UserRepository{DB: db}, Tokens: tokens},
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr), zap.String("env", env.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
		return
	}

	log.Info("server stopped")
}
