package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/apperr"
	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/services"
	"github.com/harentsoaR/healthcare-portal/internal/validation"
)

// Handler holds the services the HTTP endpoints delegate to. Handlers only
// translate between HTTP and service calls.
type Handler struct {
	svc *services.Services
	log zerolog.Logger
}

func NewHandler(svc *services.Services, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func (h *Handler) okMessage(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func (h *Handler) okList(c *gin.Context, p pagination.Params, data any, total int64) {
	c.JSON(http.StatusOK, pagination.NewResponse(data, p, total))
}

// fail writes err as {"success": false, "error": msg}. Internal errors are
// logged and answered with a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.log.Error().Err(err).
			Str("request_id", middleware.RequestIDFrom(c)).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.Status(), gin.H{"success": false, "error": apperr.Message(err)})
}

// bind decodes and validates the JSON body into dst.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.Validation("%s", validation.Describe(err))
	}
	var aerr *apperr.Error
	if errors.As(err, &aerr) {
		return aerr
	}
	return apperr.Validation("Invalid request body")
}

// patch reads an update body as raw fields.
func (h *Handler) patch(c *gin.Context) (services.Patch, bool) {
	var body services.Patch
	if !h.bind(c, &body) {
		return nil, false
	}
	return body, true
}

// id parses the :id path parameter.
func (h *Handler) id(c *gin.Context, what string) (primitive.ObjectID, bool) {
	id, err := services.ParseID(c.Param("id"), what)
	if err != nil {
		h.fail(c, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

// query returns the first non-empty query parameter among names.
func query(c *gin.Context, names ...string) string {
	for _, n := range names {
		if v := c.Query(n); v != "" {
			return v
		}
	}
	return ""
}
