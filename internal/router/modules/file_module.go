package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-appointment-scheduler/internal/container"
	handlers "github.com/oksasatya/go-appointment-scheduler/internal/interface/http"
	"github.com/oksasatya/go-appointment-scheduler/internal/interface/middleware"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
)

type FileModule struct {
	Handler *handlers.FileHandler
	JWT     *helpers.JWTManager
}

func NewFileModule(h *handlers.FileHandler, jwt *helpers.JWTManager) *FileModule {
	return &FileModule{Handler: h, JWT: jwt}
}

func (m *FileModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	rg.POST("/files",
		middleware.Auth(rdb, m.JWT),
		middleware.RateLimit(rdb, 20, time.Minute, middleware.KeyByUserIDAndPath(), nil),
		m.Handler.Store,
	)
}
