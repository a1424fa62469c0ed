package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingModule struct{}

func (pingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("tag")) })
}

func TestRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	reg := NewRegistry(e)
	reg.Use(func(c *gin.Context) { c.Set("tag", "api"); c.Next() })
	reg.Add(pingModule{})
	reg.RegisterAll()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	if w.Code != http.StatusOK || w.Body.String() != "api" {
		t.Fatalf("ping = %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz = %d", w.Code)
	}
}
