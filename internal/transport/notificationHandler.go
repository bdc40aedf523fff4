package transport

import (
	"net/http"

	"github.com/ds124wfegd/abfall-notifier/config"
	"github.com/ds124wfegd/abfall-notifier/internal/entity"
	"github.com/ds124wfegd/abfall-notifier/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	subscriptions service.SubscriptionUseCase
	dispatcher    service.DispatchUseCase
	webpush       *config.WebPushConfig
}

func NewNotificationHandler(subscriptions service.SubscriptionUseCase, dispatcher service.DispatchUseCase, webpush *config.WebPushConfig) *NotificationHandler {
	return &NotificationHandler{
		subscriptions: subscriptions,
		dispatcher:    dispatcher,
		webpush:       webpush,
	}
}

// Subscribe stores the push subscription posted by a browser after its
// opt-in completed.
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var sub entity.Subscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.subscriptions.Register(c.Request.Context(), &sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store subscription"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Already subscribed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Subscription successful"})
}

// SendNotification triggers an immediate test delivery to every stored
// subscription. It responds once every send has been attempted.
func (h *NotificationHandler) SendNotification(c *gin.Context) {
	wasteType := c.Query("type")

	report := h.dispatcher.SendTestNotification(c.Request.Context(), wasteType)
	c.JSON(http.StatusOK, report)
}

// VapidPublicKey exposes the application server key a browser needs for
// its push opt-in.
func (h *NotificationHandler) VapidPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": h.webpush.PublicKey})
}
