package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"qna_web/internal/errs"
	"qna_web/internal/service"
)

// WebSocketHandler 讓客戶端訂閱單一問題的即時事件
type WebSocketHandler struct {
	hub             *service.EventHub
	questionService *service.QuestionService
	upgrader        websocket.Upgrader
}

// NewWebSocketHandler allowedOrigins 為空時不檢查 Origin
func NewWebSocketHandler(hub *service.EventHub, questionService *service.QuestionService, allowedOrigins []string) *WebSocketHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &WebSocketHandler{
		hub:             hub,
		questionService: questionService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin] || origins["*"]
			},
		},
	}
}

// Subscribe GET /api/question/ws/:question_id
func (h *WebSocketHandler) Subscribe(c *gin.Context) {
	questionID, ok := paramID(c, "question_id")
	if !ok {
		return
	}

	// 升級前先確認問題存在，失敗時還能回一般的 HTTP 錯誤
	if _, err := h.questionService.Get(c.Request.Context(), questionID); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			respondError(c, errs.NewNotFoundError("question not found"))
			return
		}
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已經寫出錯誤回應
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.hub.Serve(conn, questionID)
}
