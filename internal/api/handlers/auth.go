package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qna_web/internal/errs"
	"qna_web/internal/service"
)

// AuthHandler 處理用戶註冊與登入
type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// LoginInput 同時接受表單與 JSON
type LoginInput struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type RegisterInput struct {
	Username  string `json:"username" binding:"required,notblank,max=150"`
	Password1 string `json:"password1" binding:"required,notblank"`
	Password2 string `json:"password2" binding:"required,notblank,eqfield=Password1"`
	Email     string `json:"email" binding:"required,email"`
}

// Register 處理用戶註冊，成功時回傳 204
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Username: input.Username,
		Password: input.Password1,
		Email:    input.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			respondError(c, errs.NewConflictError("使用者已存在"))
			return
		}
		respondError(c, err)
		return
	}

	noContent(c)
}

// Login 驗證帳密並簽發 access token
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if !bind(c, &input) {
		return
	}

	result, err := h.userService.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			respondError(c, errs.NewUnauthorizedError("Incorrect username or password"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
