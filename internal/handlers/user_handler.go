package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/services"
)

func userQuery(c *gin.Context) services.UserQuery {
	return services.UserQuery{
		Role:           c.Query("role"),
		Search:         c.Query("search"),
		Specialization: c.Query("specialization"),
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	p := pagination.FromContext(c)
	users, total, err := h.svc.Users.List(c.Request.Context(), middleware.ActorFrom(c), userQuery(c), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, users, total)
}

// ListDoctors is the public doctor directory.
func (h *Handler) ListDoctors(c *gin.Context) {
	p := pagination.FromContext(c)
	users, total, err := h.svc.Users.Doctors(c.Request.Context(), userQuery(c), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, users, total)
}

func (h *Handler) ListPatients(c *gin.Context) {
	p := pagination.FromContext(c)
	users, total, err := h.svc.Users.Patients(c.Request.Context(), middleware.ActorFrom(c), userQuery(c), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, users, total)
}

func (h *Handler) ListPendingDoctors(c *gin.Context) {
	p := pagination.FromContext(c)
	users, total, err := h.svc.Users.PendingDoctors(c.Request.Context(), middleware.ActorFrom(c), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, users, total)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := h.id(c, "user")
	if !ok {
		return
	}
	u, err := h.svc.Users.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, u)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := h.id(c, "user")
	if !ok {
		return
	}
	body, ok := h.patch(c)
	if !ok {
		return
	}
	u, err := h.svc.Users.Update(c.Request.Context(), middleware.ActorFrom(c), id, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "User updated", u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := h.id(c, "user")
	if !ok {
		return
	}
	if err := h.svc.Users.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "User deleted", nil)
}

func (h *Handler) ApproveDoctor(c *gin.Context) {
	id, ok := h.id(c, "user")
	if !ok {
		return
	}
	u, err := h.svc.Users.Approve(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Doctor approved", u)
}

func (h *Handler) RejectDoctor(c *gin.Context) {
	id, ok := h.id(c, "user")
	if !ok {
		return
	}
	u, err := h.svc.Users.Reject(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Doctor rejected", u)
}
