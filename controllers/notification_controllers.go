package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/notify"
	"github.com/mesaja/seating/utils"
)

type NotificationController struct {
	Feed *notify.Feed
}

func NewNotificationController(feed *notify.Feed) *NotificationController {
	return &NotificationController{Feed: feed}
}

// GetRecentNotifications -> the latest activity lines, newest first
func (nc *NotificationController) GetRecentNotifications(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Recent notifications", nc.Feed.Recent())
}
