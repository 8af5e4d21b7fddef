package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"qna_web/internal/errs"
	"qna_web/internal/models"
	"qna_web/internal/service"
	"qna_web/pkg/utils"
)

const currentUserKey = "currentUser"

// Authenticator 由 token 取回用戶
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware 是一個 Gin 中間件，用於驗證請求的 JWT token
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 從請求頭中獲取 Authorization 字段
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortUnauthorized(c)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrInvalidToken) || errors.Is(err, service.ErrUserNotFound) {
				abortUnauthorized(c)
				return
			}
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("authenticate request")
			c.AbortWithStatusJSON(http.StatusInternalServerError, errs.NewInternalServerError())
			return
		}

		// 將用戶信息設置到上下文中
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser 取得 AuthMiddleware 設定的用戶，未經驗證時回傳 nil
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, errs.NewUnauthorizedError("Could not validate credentials"))
}
