package handler

import (
	"errors"

	"crimewatch/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respond writes the success envelope every endpoint shares.
func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail maps a taxonomy error to its status code. The raw error detail
// is included only outside production.
func (h *Handler) fail(c *gin.Context, err error) {
	body := gin.H{"success": false, "message": userMessage(err)}
	if !h.Production {
		body["error"] = err.Error()
	}
	c.JSON(apperr.Status(err), body)
}

func userMessage(err error) string {
	var s *apperr.ServerError
	if errors.As(err, &s) {
		return "internal server error"
	}
	return err.Error()
}
