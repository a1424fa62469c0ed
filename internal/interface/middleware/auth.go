package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
	"github.com/oksasatya/go-appointment-scheduler/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the access token (cookie or Bearer header) and, when Redis is
// configured, requires the token's session id to match the stored session.
// It sets userID (int64), userName, and userEmail in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			unauthorized(c, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			unauthorized(c, "invalid access token", err.Error())
			return
		}

		if rdb != nil {
			key := "user:session:" + strconv.FormatInt(claims.UserID, 10)
			data, err := rdb.HGetAll(c.Request.Context(), key).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				unauthorized(c, "session not found", nil)
				return
			}
			c.Set("userName", data["name"])
			c.Set("userEmail", data["email"])
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated caller id, or 0 outside Auth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}

func accessToken(c *gin.Context) string {
	if t, err := c.Cookie(helpers.AccessCookie); err == nil && t != "" {
		return t
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func unauthorized(c *gin.Context, msg string, detail interface{}) {
	response.Error[any](c, http.StatusUnauthorized, msg, detail)
	c.Abort()
}
