package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger 把帶有 request_id 的 logger 放進 request context，
// 並在請求結束後依狀態碼等級輸出一行日誌
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		log := base.With().Str("request_id", GetRequestID(c)).Logger()
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var e *zerolog.Event
		switch {
		case status >= 500:
			e = log.Error()
		case status >= 400:
			e = log.Warn()
		default:
			e = log.Info()
		}

		if len(c.Errors) > 0 {
			e = e.Str("errors", c.Errors.String())
		}
		if user := CurrentUser(c); user != nil {
			e = e.Uint("user_id", user.ID)
		}

		e.Dur("latency", time.Since(start)).
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("API")
	}
}
