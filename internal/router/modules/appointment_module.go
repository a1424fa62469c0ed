package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-appointment-scheduler/internal/container"
	handlers "github.com/oksasatya/go-appointment-scheduler/internal/interface/http"
	"github.com/oksasatya/go-appointment-scheduler/internal/interface/middleware"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
)

// AppointmentModule: GET/POST /api/appointments, authenticated.
type AppointmentModule struct {
	Handler *handlers.AppointmentHandler
	JWT     *helpers.JWTManager
}

func NewAppointmentModule(h *handlers.AppointmentHandler, jwt *helpers.JWTManager) *AppointmentModule {
	return &AppointmentModule{Handler: h, JWT: jwt}
}

func (m *AppointmentModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	g := rg.Group("/appointments")
	g.Use(middleware.Auth(rdb, m.JWT))
	g.GET("", middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserIDAndPath(), nil), m.Handler.Index)
	g.POST("", middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByUserIDAndPath(), nil), m.Handler.Store)
}
