package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-appointment-scheduler/internal/container"
	handlers "github.com/oksasatya/go-appointment-scheduler/internal/interface/http"
	"github.com/oksasatya/go-appointment-scheduler/internal/interface/middleware"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
)

// ProviderModule: GET/POST /api/providers and GET /api/providers/search, authenticated.
type ProviderModule struct {
	Handler *handlers.ProviderHandler
	JWT     *helpers.JWTManager
}

func NewProviderModule(h *handlers.ProviderHandler, jwt *helpers.JWTManager) *ProviderModule {
	return &ProviderModule{Handler: h, JWT: jwt}
}

func (m *ProviderModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	g := rg.Group("/providers")
	g.Use(middleware.Auth(rdb, m.JWT))
	g.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserIDAndPath(), nil))
	{
		g.GET("", m.Handler.Index)
		g.POST("", m.Handler.Store)
		g.GET("/search", m.Handler.Search)
	}
}
