package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherdine/internal/server/http/handlers"
	"github.com/polkiloo/gopherdine/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DineFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	walletHandler := handlers.NewWalletHandler(facade)

	api := engine.Group("/api")
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.GET("/cart", cartHandler.List)
	userAuth.POST("/cart", cartHandler.Add)
	userAuth.POST("/checkout", checkoutHandler.Checkout)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/wallet", walletHandler.Summary)
	userAuth.POST("/loyalty/redeem", walletHandler.Redeem)

	return engine
}
