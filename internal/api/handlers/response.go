package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"qna_web/internal/errs"
	"qna_web/internal/validation"
)

// respondError 輸出 HTTPError；其他錯誤記錄日誌後回傳 500
func respondError(c *gin.Context, err error) {
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("unhandled error")
		_ = c.Error(err)
		httpErr = errs.NewInternalServerError()
	}
	c.AbortWithStatusJSON(httpErr.Status, httpErr)
}

func bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		respondError(c, validation.BindError(err))
		return false
	}
	return true
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, validation.BindError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		respondError(c, validation.BindError(err))
		return false
	}
	return true
}

// paramID 解析路徑上的正整數 ID
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, errs.NewBadRequestError("invalid "+name, nil))
		return 0, false
	}
	return uint(id), true
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
