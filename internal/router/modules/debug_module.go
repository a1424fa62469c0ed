package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-appointment-scheduler/internal/container"
	"github.com/oksasatya/go-appointment-scheduler/internal/interface/middleware"
)

// DebugModule exposes expvar counters, reachable from private networks only.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", privateOnly(middleware.AllowPrivateIP()), rl, gin.WrapH(expvar.Handler()))
}

func privateOnly(allow middleware.AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}
