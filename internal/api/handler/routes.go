package handler

import (
	"crimewatch/backend/internal/auth"
	"crimewatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint under /api/v1.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/admin/verify", h.VerifyAdmin)

	api.POST("/reports", auth.Optional(h.Secret), h.CreateReport)
	api.GET("/reports", h.SearchReports)
	api.GET("/reports/nearby", h.GetNearbyReports)
	api.GET("/reports/:id", h.GetReport)

	authed := api.Group("", auth.Required(h.Secret))
	{
		authed.GET("/users/me/reports", h.GetMyReports)
		authed.POST("/reports/:id/validate", h.ValidateReport)
		authed.PUT("/reports/:id/resolve", h.ResolveReport)
		authed.DELETE("/reports/:id", h.DeleteReport)
		authed.PUT("/crime-alerts/:id/status", h.UpdateCrimeAlertStatus)

		authed.GET("/notifications", h.ListNotifications)
		authed.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
		authed.PUT("/notifications/:id/read", h.MarkNotificationRead)
		authed.DELETE("/notifications", h.DeleteAllNotifications)
		authed.DELETE("/notifications/:id", h.DeleteNotification)
	}

	police := api.Group("", auth.Required(h.Secret), auth.RequireRole(models.RolePolice))
	{
		police.POST("/reports/:id/take-case", h.TakeCase)
		police.PUT("/alerts/:id/respond", h.RespondToAlert)
	}

	r.GET("/ws/feed", h.ServeFeed)
}
