package api

import (
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"qna_web/internal/api/handlers"
	"qna_web/internal/errs"
	"qna_web/internal/middleware"
	"qna_web/internal/service"
	"qna_web/internal/validation"
	"qna_web/pkg/config"
)

// NewEngine 建立 gin 引擎並掛上全域中間件
func NewEngine(cfg config.ServerConfig, log zerolog.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	validation.Register()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))

	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if cfg.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	r.Use(secure.New(secureConfig))

	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.Config{
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}
		if slices.Contains(cfg.CORSAllowedOrigins, "*") {
			corsConfig.AllowAllOrigins = true
			corsConfig.AllowCredentials = false
		} else {
			corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		}
		r.Use(cors.New(corsConfig))
	}

	return r
}

func SetupRoutes(r *gin.Engine, services *service.Services, cfg config.ServerConfig) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	questionHandler := handlers.NewQuestionHandler(services.Question)
	answerHandler := handlers.NewAnswerHandler(services.Answer)
	wsHandler := handlers.NewWebSocketHandler(services.Events, services.Question, cfg.CORSAllowedOrigins)
	healthHandler := handlers.NewHealthHandler(services.Health)

	requireAuth := middleware.AuthMiddleware(services.User)

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errs.NewNotFoundError("找不到該路徑"))
	})

	api := r.Group("/api")
	api.GET("/health", healthHandler.Check)

	user := api.Group("/user")
	{
		user.POST("/create", authHandler.Register)
		user.POST("/login", authHandler.Login)
	}

	question := api.Group("/question")
	{
		// 公開路由
		question.GET("/list", questionHandler.List)
		question.GET("/detail/:question_id", questionHandler.Detail)
		question.GET("/ws/:question_id", wsHandler.Subscribe)

		// 需要驗證的路由
		question.POST("/create", requireAuth, questionHandler.Create)
		question.PUT("/update", requireAuth, questionHandler.Update)
		question.DELETE("/delete", requireAuth, questionHandler.Delete)
		question.POST("/vote", requireAuth, questionHandler.Vote)
	}

	answer := api.Group("/answer")
	{
		answer.GET("/detail/:answer_id", answerHandler.Detail)

		answer.POST("/create/:question_id", requireAuth, answerHandler.Create)
		answer.PUT("/update", requireAuth, answerHandler.Update)
		answer.DELETE("/delete", requireAuth, answerHandler.Delete)
		answer.POST("/vote", requireAuth, answerHandler.Vote)
	}

	setupFrontend(r, cfg.FrontendDir)
}

// setupFrontend 有建置好的前端時，/ 回傳 index.html，/assets 提供靜態檔案
func setupFrontend(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}

	r.Static("/assets", filepath.Join(dir, "assets"))
	r.GET("/", func(c *gin.Context) {
		c.File(index)
	})
}
