package handler

import (
	"net/http"

	"crimewatch/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	PoliceID string `json:"police_id"`
}

func (h *Handler) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.Auth.Register(body.Name, body.Email, body.Password, body.Role, body.PoliceID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Account created", gin.H{"id": user.ID, "role": user.Role})
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, apperr.Validation("invalid request body"))
		return
	}

	token, user, err := h.Auth.Login(body.Email, body.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Logged in", gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "name": user.Name, "role": user.Role, "points": user.Points},
	})
}

type verifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyAdmin consumes the mailed one-shot verification code.
func (h *Handler) VerifyAdmin(c *gin.Context) {
	var body verifyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, apperr.Validation("invalid request body"))
		return
	}

	if err := h.Auth.VerifyAdmin(body.Email, body.Code); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Admin account verified", nil)
}
