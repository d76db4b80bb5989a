package handler

import (
	"net/http"
	"strconv"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

type respondAlertBody struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

// RespondToAlert records a police response on an alert.
func (h *Handler) RespondToAlert(c *gin.Context) {
	alertID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.fail(c, apperr.Validation("invalid alert id", "id"))
		return
	}

	var body respondAlertBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		h.fail(c, apperr.Validation("status is required", "status"))
		return
	}

	ident := auth.FromContext(c)
	officer, err := h.Storage.GetUserByID(ident.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	events, err := h.Reports.RespondToAlert(uint(alertID), officer, body.Status, body.Details)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Dispatcher.Drain(events)

	respond(c, http.StatusOK, "Alert updated", nil)
}

type crimeAlertStatusBody struct {
	Status string `json:"status"`
}

// UpdateCrimeAlertStatus moves a community feed record between active
// and resolved.
func (h *Handler) UpdateCrimeAlertStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.fail(c, apperr.Validation("invalid crime alert id", "id"))
		return
	}

	var body crimeAlertStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, apperr.Validation("invalid request body"))
		return
	}

	if err := h.Reports.UpdateCrimeAlertStatus(uint(id), body.Status); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Crime alert updated", nil)
}
