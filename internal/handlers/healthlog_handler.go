package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/services"
)

func healthLogQuery(c *gin.Context) services.HealthLogQuery {
	return services.HealthLogQuery{
		PatientID: query(c, "patientId", "patient"),
		From:      query(c, "from", "startDate"),
		To:        query(c, "to", "endDate"),
	}
}

func (h *Handler) CreateHealthLog(c *gin.Context) {
	var req services.CreateHealthLogInput
	if !h.bind(c, &req) {
		return
	}
	log, err := h.svc.HealthLogs.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusCreated, "Health log recorded", log)
}

func (h *Handler) GetHealthLogs(c *gin.Context) {
	p := pagination.FromContext(c)
	items, total, err := h.svc.HealthLogs.List(c.Request.Context(), middleware.ActorFrom(c), healthLogQuery(c), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, items, total)
}

func (h *Handler) HealthLogStats(c *gin.Context) {
	stats, err := h.svc.HealthLogs.Stats(c.Request.Context(), middleware.ActorFrom(c), healthLogQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, stats)
}

func (h *Handler) GetHealthLog(c *gin.Context) {
	id, ok := h.id(c, "health log")
	if !ok {
		return
	}
	log, err := h.svc.HealthLogs.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, log)
}

func (h *Handler) UpdateHealthLog(c *gin.Context) {
	id, ok := h.id(c, "health log")
	if !ok {
		return
	}
	body, ok := h.patch(c)
	if !ok {
		return
	}
	log, err := h.svc.HealthLogs.Update(c.Request.Context(), middleware.ActorFrom(c), id, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Health log updated", log)
}

func (h *Handler) DeleteHealthLog(c *gin.Context) {
	id, ok := h.id(c, "health log")
	if !ok {
		return
	}
	if err := h.svc.HealthLogs.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Health log deleted", nil)
}
