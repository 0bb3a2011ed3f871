package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/services"
)

func adviceQuery(c *gin.Context) (services.AdviceQuery, error) {
	q := services.AdviceQuery{Category: c.Query("category"), Type: c.Query("type")}
	if raw := c.Query("unread"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			return q, apperr.Validation("unread must be true or false")
		}
		q.Unread = unread
	}
	return q, nil
}

func (h *Handler) CreateAdvice(c *gin.Context) {
	var req services.CreateAdviceInput
	if !h.bind(c, &req) {
		return
	}
	a, err := h.svc.Advice.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusCreated, "Advice created", a)
}

func (h *Handler) GetAdvice(c *gin.Context) {
	p := pagination.FromContext(c)
	q, err := adviceQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	items, total, err := h.svc.Advice.List(c.Request.Context(), middleware.ActorFrom(c), q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, items, total)
}

func (h *Handler) DoctorAdvice(c *gin.Context) {
	p := pagination.FromContext(c)
	q, err := adviceQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	items, total, err := h.svc.Advice.DoctorList(c.Request.Context(), middleware.ActorFrom(c), q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, items, total)
}

func (h *Handler) AdviceByCategory(c *gin.Context) {
	p := pagination.FromContext(c)
	items, total, err := h.svc.Advice.ByCategory(c.Request.Context(), c.Param("category"), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, items, total)
}

func (h *Handler) GetAdviceByID(c *gin.Context) {
	id, ok := h.id(c, "advice")
	if !ok {
		return
	}
	a, err := h.svc.Advice.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, a)
}

func (h *Handler) UpdateAdvice(c *gin.Context) {
	id, ok := h.id(c, "advice")
	if !ok {
		return
	}
	body, ok := h.patch(c)
	if !ok {
		return
	}
	a, err := h.svc.Advice.Update(c.Request.Context(), middleware.ActorFrom(c), id, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Advice updated", a)
}

func (h *Handler) MarkAdviceRead(c *gin.Context) {
	id, ok := h.id(c, "advice")
	if !ok {
		return
	}
	a, err := h.svc.Advice.MarkRead(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Advice marked as read", a)
}

func (h *Handler) AdviceFeedback(c *gin.Context) {
	id, ok := h.id(c, "advice")
	if !ok {
		return
	}
	var req services.FeedbackInput
	if !h.bind(c, &req) {
		return
	}
	a, err := h.svc.Advice.Feedback(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Feedback saved", a)
}

func (h *Handler) DeleteAdvice(c *gin.Context) {
	id, ok := h.id(c, "advice")
	if !ok {
		return
	}
	if err := h.svc.Advice.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Advice deleted", nil)
}
