package handler

import (
	"net/http"
	"strconv"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotifications(c *gin.Context) {
	ident := auth.FromContext(c)
	notifications, err := h.Storage.ListNotifications(ident.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notifications found", notifications)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	ident := auth.FromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.fail(c, apperr.Validation("invalid notification id", "id"))
		return
	}
	if err := h.Storage.MarkNotificationRead(uint(id), ident.ID); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification marked read", nil)
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	ident := auth.FromContext(c)
	if err := h.Storage.MarkAllNotificationsRead(ident.ID); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "All notifications marked read", nil)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	ident := auth.FromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.fail(c, apperr.Validation("invalid notification id", "id"))
		return
	}
	if err := h.Storage.DeleteNotification(uint(id), ident.ID); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification deleted", nil)
}

func (h *Handler) DeleteAllNotifications(c *gin.Context) {
	ident := auth.FromContext(c)
	if err := h.Storage.DeleteAllNotifications(ident.ID); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "All notifications deleted", nil)
}
