package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/services"
)

// RegisterUser creates a patient or doctor account and signs it in.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req services.RegisterInput
	if !h.bind(c, &req) {
		return
	}
	sess, err := h.svc.Auth.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	message := "Registration successful"
	if !sess.User.IsApproved {
		message = "Registration successful, waiting for admin approval"
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"token":   sess.Token,
		"user":    sess.User,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req services.LoginInput
	if !h.bind(c, &req) {
		return
	}
	sess, err := h.svc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   sess.Token,
		"user":    sess.User,
	})
}

// Logout is stateless: the client drops its token.
func (h *Handler) Logout(c *gin.Context) {
	h.okMessage(c, http.StatusOK, "Logged out", nil)
}

func (h *Handler) GetProfile(c *gin.Context) {
	u, err := h.svc.Auth.Profile(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	body, ok := h.patch(c)
	if !ok {
		return
	}
	u, err := h.svc.Auth.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Profile updated", u)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordInput
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.Auth.ChangePassword(c.Request.Context(), middleware.ActorFrom(c), req); err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Password changed", nil)
}
