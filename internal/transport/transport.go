package transport

import (
	"net/http"
	"time"

	"github.com/ds124wfegd/abfall-notifier/config"
	"github.com/ds124wfegd/abfall-notifier/internal/service"
	"github.com/ds124wfegd/abfall-notifier/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

func InitRoutes(cfg *config.Config, subscriptions service.SubscriptionUseCase, dispatcher service.DispatchUseCase) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	handler := NewNotificationHandler(subscriptions, dispatcher, &cfg.WebPush)

	router.POST("/subscribe", handler.Subscribe)
	router.GET("/send-notification", handler.SendNotification)
	router.GET("/vapid-public-key", handler.VapidPublicKey)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "abfall-notifier",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// The calendar shell and its worker are plain static assets
	router.Static("/static", cfg.Server.StaticDir)
	router.StaticFile("/", cfg.Server.StaticDir+"/index.html")
	router.StaticFile("/serviceWorker.js", cfg.Server.StaticDir+"/serviceWorker.js")
	router.StaticFile("/trash-pickup-dates.json", cfg.Calendar.File)

	return router
}
