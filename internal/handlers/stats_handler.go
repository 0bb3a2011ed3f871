package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/middleware"
)

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.svc.Stats.Admin(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, stats)
}

func (h *Handler) Reports(c *gin.Context) {
	reports, err := h.svc.Stats.Reports(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, reports)
}

func (h *Handler) DoctorStats(c *gin.Context) {
	stats, err := h.svc.Stats.Doctor(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, stats)
}

func (h *Handler) PatientStats(c *gin.Context) {
	stats, err := h.svc.Stats.Patient(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, stats)
}
