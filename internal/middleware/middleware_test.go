package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/store/memstore"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(t *testing.T) (*gin.Engine, *utils.TokenManager, *models.User, *models.User) {
	t.Helper()
	st := memstore.New()
	tokens := utils.NewTokenManager("mw-secret", time.Hour)

	active := &models.User{FullName: "Ann", Email: "ann@mail.test", Role: models.RolePatient, IsActive: true, IsApproved: true}
	inactive := &models.User{FullName: "Old", Email: "old@mail.test", Role: models.RolePatient, IsActive: false, IsApproved: true}
	require.NoError(t, st.Users.Create(context.Background(), active))
	require.NoError(t, st.Users.Create(context.Background(), inactive))

	r := gin.New()
	r.Use(Authenticate(tokens, st.Users))
	r.GET("/me", func(c *gin.Context) {
		a := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": a.ID.Hex(), "role": a.Role})
	})
	return r, tokens, active, inactive
}

func get(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r, tokens, active, inactive := protectedRouter(t)

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other := utils.NewTokenManager("other-secret", time.Hour)
	forged, err := other.Generate(active.ID, models.RoleAdmin)
	require.NoError(t, err)
	w = get(r, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ghost, err := tokens.Generate(primitive.NewObjectID(), models.RolePatient)
	require.NoError(t, err)
	w = get(r, "Bearer "+ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sleeping, err := tokens.Generate(inactive.ID, models.RolePatient)
	require.NoError(t, err)
	w = get(r, "Bearer "+sleeping)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "inactive")

	token, err := tokens.Generate(active.ID, models.RolePatient)
	require.NoError(t, err)
	w = get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, active.ID.Hex(), body["id"])
	assert.Equal(t, "patient", body["role"])
}

func TestAuthenticate_RoleComesFromStore(t *testing.T) {
	r, tokens, active, _ := protectedRouter(t)

	// a stale token claiming admin still acts with the stored role
	token, err := tokens.Generate(active.ID, models.RoleAdmin)
	require.NoError(t, err)
	w := get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"patient"`)
}

func TestActorFrom_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, ActorFrom(c).Authenticated())
}

func TestRequestIDLoggerRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestID(), Logger(log), Recovery(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"path":"/ok"`)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"status":500`)
}
