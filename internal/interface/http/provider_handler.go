package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-appointment-scheduler/internal/application"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/pkg/response"
)

type ProviderService interface {
	List(ctx context.Context) ([]entity.User, error)
	Register(ctx context.Context, id app.Identity, req app.RegisterProviderRequest) (*entity.User, error)
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type ProviderHandler struct {
	Svc    ProviderService
	Logger *logrus.Logger
}

func NewProviderHandler(svc ProviderService, logger *logrus.Logger) *ProviderHandler {
	return &ProviderHandler{Svc: svc, Logger: logger}
}

type providerResponse struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	AvatarID *int64        `json:"avatar_id"`
	Phone    string        `json:"phone"`
	Avatar   *fileResponse `json:"avatar"`
}

type createdProviderResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider bool   `json:"provider"`
	Phone    string `json:"phone"`
}

// Index GET /api/providers
func (h *ProviderHandler) Index(c *gin.Context) {
	providers, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]providerResponse, 0, len(providers))
	for _, p := range providers {
		out = append(out, providerResponse{
			ID:       p.ID,
			Name:     p.Name,
			Email:    p.Email,
			AvatarID: p.AvatarID,
			Phone:    p.Phone,
			Avatar:   toFileResponse(p.Avatar),
		})
	}
	response.Success(c, http.StatusOK, out, "providers", nil)
}

// Store POST /api/providers
func (h *ProviderHandler) Store(c *gin.Context) {
	var req app.RegisterProviderRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), identity(c), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, createdProviderResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Provider: u.Provider,
		Phone:    u.Phone,
	}, "provider created", nil)
}

// Search GET /api/providers/search?q=&size=
func (h *ProviderHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "providers", map[string]any{"count": len(hits)})
}
