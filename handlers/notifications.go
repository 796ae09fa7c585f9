package handlers

import (
	"encoding/json"
	"net/http"

	"mediashelf/services/notify"
)

type notificationFeed interface {
	Recent() []notify.Notification
}

var _ notificationFeed = (*notify.Feed)(nil)

type NotificationsHandler struct {
	Feed notificationFeed
}

func NewNotificationsHandler(feed notificationFeed) *NotificationsHandler {
	return &NotificationsHandler{Feed: feed}
}

// List returns recent notifications, oldest first.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	recent := h.Feed.Recent()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"notifications": recent})
}
