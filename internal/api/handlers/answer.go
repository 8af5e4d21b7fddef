package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qna_web/internal/errs"
	"qna_web/internal/middleware"
	"qna_web/internal/service"
)

// AnswerHandler 處理與回答相關的請求
type AnswerHandler struct {
	answerService *service.AnswerService
}

func NewAnswerHandler(answerService *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

type AnswerCreateInput struct {
	Content string `json:"content" binding:"required,notblank"`
}

type AnswerUpdateInput struct {
	AnswerID uint   `json:"answer_id" binding:"required"`
	Content  string `json:"content" binding:"required,notblank"`
}

type AnswerTargetInput struct {
	AnswerID uint `json:"answer_id" binding:"required"`
}

// Create POST /api/answer/create/:question_id
// 成功後以 303 導向問題詳情
func (h *AnswerHandler) Create(c *gin.Context) {
	questionID, ok := paramID(c, "question_id")
	if !ok {
		return
	}

	var input AnswerCreateInput
	if !bindJSON(c, &input) {
		return
	}

	user := middleware.CurrentUser(c)
	if _, err := h.answerService.Create(c.Request.Context(), user.ID, questionID, input.Content); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			respondError(c, errs.NewNotFoundError("Question not found"))
			return
		}
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/api/question/detail/"+strconv.FormatUint(uint64(questionID), 10))
}

// Detail GET /api/answer/detail/:answer_id
func (h *AnswerHandler) Detail(c *gin.Context) {
	answerID, ok := paramID(c, "answer_id")
	if !ok {
		return
	}

	answer, err := h.answerService.Get(c.Request.Context(), answerID)
	if err != nil {
		if errors.Is(err, service.ErrAnswerNotFound) {
			respondError(c, errs.NewNotFoundError("answer not found"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (h *AnswerHandler) Update(c *gin.Context) {
	var input AnswerUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.answerService.Update(c.Request.Context(), user.ID, input.AnswerID, input.Content); err != nil {
		respondError(c, mutationError(err, "修改權限不足"))
		return
	}

	noContent(c)
}

func (h *AnswerHandler) Delete(c *gin.Context) {
	var input AnswerTargetInput
	if !bindJSON(c, &input) {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.answerService.Delete(c.Request.Context(), user.ID, input.AnswerID); err != nil {
		respondError(c, mutationError(err, "刪除權限不足"))
		return
	}

	noContent(c)
}

func (h *AnswerHandler) Vote(c *gin.Context) {
	var input AnswerTargetInput
	if !bindJSON(c, &input) {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.answerService.Vote(c.Request.Context(), user.ID, input.AnswerID); err != nil {
		respondError(c, mutationError(err, ""))
		return
	}

	noContent(c)
}
