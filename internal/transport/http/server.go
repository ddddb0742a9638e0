package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"pdflingua/internal/ai"
	appsvc "pdflingua/internal/app"
	"pdflingua/internal/bootstrap"
	"pdflingua/internal/cache"
	"pdflingua/internal/pkg/pdfextract"
	rabbitmqClient "pdflingua/internal/platform/rabbitmq"
	"pdflingua/internal/repository"
	"pdflingua/internal/transport/http/handler"
	"pdflingua/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/health", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	fileRepo := repository.NewFileRepository(app.MySQL)
	translationRepo := repository.NewTranslationRepository(app.MySQL)
	promptRepo := repository.NewPromptRepository(app.MySQL)
	usageRepo := repository.NewUsageLogRepository(app.MySQL)

	var ocr pdfextract.OCRRunner
	if app.Config.Extract.OCREnabled {
		ocr = &pdfextract.CommandOCR{
			Command: app.Config.Extract.OCRCommand,
			Timeout: time.Duration(app.Config.Extract.OCRTimeoutSeconds) * time.Second,
		}
	}
	extractor := pdfextract.NewExtractor(ocr)

	provider := ai.NewOpenAICompatibleClient()
	defaultLLM := ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	}

	publisher := rabbitmqClient.NewUsagePublisher(app.MQConn, app.Config.RabbitMQ.UsagePersistQueue)
	listCache := cache.NewTranslationListCache(
		app.Redis,
		time.Duration(app.Config.Redis.ListTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.ListDirtyTTLSeconds)*time.Second,
	)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.AccessExpireMinute)*time.Minute,
		time.Duration(app.Config.Auth.RefreshExpireMinute)*time.Minute,
	)
	fileService := appsvc.NewFileService(fileRepo, app.FileStore)
	translationService := appsvc.NewTranslationService(
		fileRepo,
		translationRepo,
		promptRepo,
		userRepo,
		extractor,
		provider,
		defaultLLM,
		publisher,
		listCache,
	)
	promptService := appsvc.NewPromptService(promptRepo)
	settingsService := appsvc.NewSettingsService(userRepo, usageRepo, provider, defaultLLM)
	toolsService := appsvc.NewToolsService(extractor, provider, defaultLLM, app.FileStore)

	maxUploadBytes := int64(app.Config.Storage.MaxUploadMB) << 20

	authHandler := handler.NewAuthHandler(authService)
	fileHandler := handler.NewFileHandler(fileService, maxUploadBytes)
	translationHandler := handler.NewTranslationHandler(translationService)
	promptHandler := handler.NewPromptHandler(promptService)
	userHandler := handler.NewUserHandler(settingsService)
	toolsHandler := handler.NewToolsHandler(toolsService, maxUploadBytes)

	authed := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.GET("/profile", authed, authHandler.GetProfile)
	authGroup.PUT("/profile", authed, authHandler.UpdateProfile)

	files := v1.Group("")
	files.Use(authed)
	files.POST("/upload", fileHandler.Upload)
	files.GET("/files", fileHandler.List)
	files.PUT("/files/:fileId", fileHandler.Update)
	files.DELETE("/files/:fileId", fileHandler.Delete)

	translations := v1.Group("")
	translations.Use(authed)
	translations.POST("/init_translation/:fileId", translationHandler.Init)
	translations.GET("/translations/:fileId", translationHandler.List)
	translations.POST("/perform_extraction/:translationId", translationHandler.Extract)
	translations.POST("/translate/:translationId", translationHandler.Translate)
	translations.POST("/edit/:translationId", translationHandler.Edit)
	translations.PUT("/update-translation/:translationId", translationHandler.Update)

	prompts := v1.Group("/prompts")
	prompts.Use(authed)
	prompts.POST("", promptHandler.Create)
	prompts.GET("", promptHandler.List)
	prompts.PUT("/:promptId", promptHandler.Update)
	prompts.DELETE("/:promptId", promptHandler.Delete)

	user := v1.Group("/user")
	user.Use(authed)
	user.GET("/settings", userHandler.GetSettings)
	user.POST("/settings", userHandler.UpdateSettings)
	user.POST("/validate-api-key", userHandler.ValidateAPIKey)
	user.GET("/usage", userHandler.Usage)

	tools := v1.Group("")
	tools.Use(authed)
	tools.POST("/extract-text", toolsHandler.ExtractText)
	tools.POST("/test-translation", toolsHandler.TestTranslation)

	return router
}
