package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-appointment-scheduler/internal/container"
	handlers "github.com/oksasatya/go-appointment-scheduler/internal/interface/http"
	"github.com/oksasatya/go-appointment-scheduler/internal/interface/middleware"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
)

// SessionModule wires sign-up, login and session routes.
// Public: POST /api/users, POST /api/sessions, POST /api/sessions/refresh
// Protected: POST /api/sessions/logout, GET /api/profile
type SessionModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewSessionModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *SessionModule {
	return &SessionModule{Handler: h, JWT: jwt}
}

func (m *SessionModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	signUpLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users", signUpLimiter, m.Handler.SignUp)
	rg.POST("/sessions", loginLimiter, m.Handler.Login)
	rg.POST("/sessions/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserIDAndPath(), nil))
	{
		auth.POST("/sessions/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.Profile)
	}
}
