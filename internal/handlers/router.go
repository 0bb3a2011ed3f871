package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/healthcare-portal/internal/middleware"
	"github.com/harentsoaR/healthcare-portal/internal/store"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
	"github.com/harentsoaR/healthcare-portal/internal/validation"
)

type RouterConfig struct {
	Tokens      *utils.TokenManager
	Users       store.UserStore
	CORSOrigins []string
}

// NewRouter builds the engine with the middleware chain and every route.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	validation.Install()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(h.log), middleware.Recovery(h.log))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found"})
	})

	auth := middleware.Authenticate(cfg.Tokens, cfg.Users)
	api := r.Group("/api")

	api.GET("/health", h.Health)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", h.Logout)
		authRoutes.GET("/profile", auth, h.GetProfile)
		authRoutes.PUT("/profile", auth, h.UpdateProfile)
		authRoutes.PUT("/change-password", auth, h.ChangePassword)
	}

	users := api.Group("/users")
	{
		users.GET("/doctors", h.ListDoctors)
		users.GET("", auth, h.ListUsers)
		users.GET("/patients", auth, h.ListPatients)
		users.GET("/pending-doctors", auth, h.ListPendingDoctors)
		users.GET("/:id", auth, h.GetUser)
		users.PUT("/:id", auth, h.UpdateUser)
		users.DELETE("/:id", auth, h.DeleteUser)
		users.PUT("/:id/approve", auth, h.ApproveDoctor)
		users.PUT("/:id/reject", auth, h.RejectDoctor)
	}

	appointments := api.Group("/appointments", auth)
	{
		appointments.GET("", h.GetAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/stats", h.AppointmentStats)
		appointments.GET("/doctor/schedule", h.DoctorSchedule)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.PUT("/:id/status", h.UpdateAppointmentStatus)
		appointments.DELETE("/:id", h.CancelAppointment)
		appointments.PATCH("/:id/cancel", h.CancelAppointment)
	}

	healthLogs := api.Group("/healthLogs", auth)
	{
		healthLogs.GET("", h.GetHealthLogs)
		healthLogs.POST("", h.CreateHealthLog)
		healthLogs.GET("/stats", h.HealthLogStats)
		healthLogs.GET("/:id", h.GetHealthLog)
		healthLogs.PUT("/:id", h.UpdateHealthLog)
		healthLogs.DELETE("/:id", h.DeleteHealthLog)
	}

	questions := api.Group("/questions")
	{
		questions.GET("", h.PublicQuestions)
		questions.POST("", auth, h.CreateQuestion)
		questions.GET("/mine", auth, h.MyQuestions)
		questions.GET("/doctor", auth, h.DoctorQuestions)
		questions.GET("/:id", auth, h.GetQuestion)
		questions.PUT("/:id", auth, h.UpdateQuestion)
		questions.DELETE("/:id", auth, h.DeleteQuestion)
		questions.PUT("/:id/answer", auth, h.AnswerQuestion)
		questions.PUT("/:id/close", auth, h.CloseQuestion)
	}

	advice := api.Group("/advice")
	{
		advice.GET("/category/:category", h.AdviceByCategory)
		advice.GET("", auth, h.GetAdvice)
		advice.POST("", auth, h.CreateAdvice)
		advice.GET("/doctor", auth, h.DoctorAdvice)
		advice.GET("/:id", auth, h.GetAdviceByID)
		advice.PUT("/:id", auth, h.UpdateAdvice)
		advice.DELETE("/:id", auth, h.DeleteAdvice)
		advice.PUT("/:id/read", auth, h.MarkAdviceRead)
		advice.PUT("/:id/feedback", auth, h.AdviceFeedback)
	}

	stats := api.Group("/stats", auth)
	{
		stats.GET("/admin", h.AdminStats)
		stats.GET("/reports", h.Reports)
		stats.GET("/doctor", h.DoctorStats)
		stats.GET("/patient", h.PatientStats)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok", "time": time.Now().UTC()})
}
