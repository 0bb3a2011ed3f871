package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/services"
)

func questionQuery(c *gin.Context) services.QuestionQuery {
	return services.QuestionQuery{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
}

func (h *Handler) CreateQuestion(c *gin.Context) {
	var req services.CreateQuestionInput
	if !h.bind(c, &req) {
		return
	}
	q, err := h.svc.Questions.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusCreated, "Question submitted", q)
}

// PublicQuestions needs no token.
func (h *Handler) PublicQuestions(c *gin.Context) {
	p := pagination.FromContext(c)
	items, total, err := h.svc.Questions.PublicList(c.Request.Context(), questionQuery(c), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, items, total)
}

func (h *Handler) MyQuestions(c *gin.Context) {
	p := pagination.FromContext(c)
	items, total, err := h.svc.Questions.Mine(c.Request.Context(), middleware.ActorFrom(c), questionQuery(c), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, items, total)
}

func (h *Handler) DoctorQuestions(c *gin.Context) {
	p := pagination.FromContext(c)
	items, total, err := h.svc.Questions.DoctorInbox(c.Request.Context(), middleware.ActorFrom(c), questionQuery(c), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okList(c, p, items, total)
}

func (h *Handler) GetQuestion(c *gin.Context) {
	id, ok := h.id(c, "question")
	if !ok {
		return
	}
	q, err := h.svc.Questions.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, q)
}

func (h *Handler) UpdateQuestion(c *gin.Context) {
	id, ok := h.id(c, "question")
	if !ok {
		return
	}
	body, ok := h.patch(c)
	if !ok {
		return
	}
	q, err := h.svc.Questions.Update(c.Request.Context(), middleware.ActorFrom(c), id, body)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Question updated", q)
}

func (h *Handler) AnswerQuestion(c *gin.Context) {
	id, ok := h.id(c, "question")
	if !ok {
		return
	}
	var req services.AnswerInput
	if !h.bind(c, &req) {
		return
	}
	q, err := h.svc.Questions.Answer(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Question answered", q)
}

func (h *Handler) CloseQuestion(c *gin.Context) {
	id, ok := h.id(c, "question")
	if !ok {
		return
	}
	q, err := h.svc.Questions.Close(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Question closed", q)
}

func (h *Handler) DeleteQuestion(c *gin.Context) {
	id, ok := h.id(c, "question")
	if !ok {
		return
	}
	if err := h.svc.Questions.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.okMessage(c, http.StatusOK, "Question deleted", nil)
}
