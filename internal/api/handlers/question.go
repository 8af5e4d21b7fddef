package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qna_web/internal/errs"
	"qna_web/internal/middleware"
	"qna_web/internal/service"
)

// QuestionHandler 處理與問題相關的請求
type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

type QuestionListQuery struct {
	Page    int    `form:"page,default=0" binding:"min=0"`
	Size    int    `form:"size,default=10" binding:"min=1,max=100"`
	Keyword string `form:"keyword"`
}

type QuestionCreateInput struct {
	Subject string `json:"subject" binding:"required,notblank"`
	Content string `json:"content" binding:"required,notblank"`
}

type QuestionUpdateInput struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Subject    string `json:"subject" binding:"required,notblank"`
	Content    string `json:"content" binding:"required,notblank"`
}

type QuestionTargetInput struct {
	QuestionID uint `json:"question_id" binding:"required"`
}

// List GET /api/question/list
func (h *QuestionHandler) List(c *gin.Context) {
	var query QuestionListQuery
	if !bindQuery(c, &query) {
		return
	}

	list, err := h.questionService.List(c.Request.Context(), query.Page, query.Size, query.Keyword)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Detail GET /api/question/detail/:question_id
func (h *QuestionHandler) Detail(c *gin.Context) {
	questionID, ok := paramID(c, "question_id")
	if !ok {
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), questionID)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			respondError(c, errs.NewNotFoundError("question not found"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var input QuestionCreateInput
	if !bindJSON(c, &input) {
		return
	}

	user := middleware.CurrentUser(c)
	if _, err := h.questionService.Create(c.Request.Context(), user.ID, input.Subject, input.Content); err != nil {
		respondError(c, err)
		return
	}

	noContent(c)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	var input QuestionUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	user := middleware.CurrentUser(c)
	err := h.questionService.Update(c.Request.Context(), user.ID, input.QuestionID, input.Subject, input.Content)
	if err != nil {
		respondError(c, mutationError(err, "修改權限不足"))
		return
	}

	noContent(c)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	var input QuestionTargetInput
	if !bindJSON(c, &input) {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.questionService.Delete(c.Request.Context(), user.ID, input.QuestionID); err != nil {
		respondError(c, mutationError(err, "刪除權限不足"))
		return
	}

	noContent(c)
}

func (h *QuestionHandler) Vote(c *gin.Context) {
	var input QuestionTargetInput
	if !bindJSON(c, &input) {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.questionService.Vote(c.Request.Context(), user.ID, input.QuestionID); err != nil {
		respondError(c, mutationError(err, ""))
		return
	}

	noContent(c)
}

// mutationError 修改、刪除、推薦時找不到資料或不是作者都回 400
func mutationError(err error, deniedMessage string) error {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return errs.NewBadRequestError("找不到問題", nil)
	case errors.Is(err, service.ErrAnswerNotFound):
		return errs.NewBadRequestError("找不到回答", nil)
	case errors.Is(err, service.ErrPermissionDenied):
		return errs.NewBadRequestError(deniedMessage, nil)
	default:
		return err
	}
}
