package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-appointment-scheduler/internal/application"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
	"github.com/oksasatya/go-appointment-scheduler/pkg/response"
)

type UserService interface {
	SignUp(ctx context.Context, req app.SignUpRequest) (*entity.User, error)
	Login(ctx context.Context, req app.LoginRequest) (*entity.User, app.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (app.TokenPair, error)
	Logout(ctx context.Context, id app.Identity) error
	Profile(ctx context.Context, id app.Identity) (*entity.User, error)
}

type UserHandler struct {
	Svc     UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type userResponse struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Provider  bool          `json:"provider"`
	Avatar    *fileResponse `json:"avatar,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Provider:  u.Provider,
		Avatar:    toFileResponse(u.Avatar),
		CreatedAt: u.CreatedAt,
	}
}

func tokenMeta(pair app.TokenPair) map[string]any {
	return map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry}
}

// SignUp POST /api/users
func (h *UserHandler) SignUp(c *gin.Context) {
	var req app.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.SignUp(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user created", nil)
}

// Login POST /api/sessions
func (h *UserHandler) Login(c *gin.Context) {
	var req app.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"user": toUserResponse(u), "token": pair.AccessToken}, "login successful", tokenMeta(pair))
}

// Refresh POST /api/sessions/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", tokenMeta(pair))
}

// Logout POST /api/sessions/logout
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), identity(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Profile GET /api/profile
func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.Svc.Profile(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile", nil)
}
