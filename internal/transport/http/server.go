package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"sheetchat/internal/ai"
	appsvc "sheetchat/internal/app"
	"sheetchat/internal/bootstrap"
	"sheetchat/internal/budget"
	"sheetchat/internal/dataset"
	rabbitmqClient "sheetchat/internal/platform/rabbitmq"
	"sheetchat/internal/repository"
	"sheetchat/internal/source"
	"sheetchat/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	linkRepo := repository.NewLinkRepository(app.MySQL)
	linkService := appsvc.NewLinkService(linkRepo)

	sessions := appsvc.NewSessionStore()
	resolver := source.NewResolver(app.Config.Dataset.ExportBaseURL)
	loader := dataset.NewLoader(time.Duration(app.Config.Dataset.FetchTimeoutSeconds) * time.Second)
	tableCache := dataset.NewTableCache(app.Redis, time.Duration(app.Config.Dataset.CacheTTLSeconds)*time.Second)
	archiver := rabbitmqClient.NewArchivePublisher(app.MQConn, app.Config.RabbitMQ.ArchiveQueue)

	chatService := appsvc.NewChatService(
		sessions,
		linkService,
		resolver,
		loader,
		tableCache,
		archiver,
		ai.ChatConfig{
			BaseURL: app.Config.LLM.BaseURL,
			APIKey:  app.Config.LLM.APIKey,
			Model:   app.Config.LLM.Model,
		},
		contextPolicy(app),
	)

	linkHandler := handler.NewLinkHandler(linkService)
	sourceHandler := handler.NewSourceHandler(app.Config.Dataset.ListingMode, linkService)
	chatHandler := handler.NewChatHandler(chatService, sessions)
	archiveHandler := handler.NewArchiveHandler(repository.NewArchiveRepository(app.MySQL))

	v1 := router.Group("/api/v1")

	linkGroup := v1.Group("/links")
	linkGroup.POST("", linkHandler.Add)
	linkGroup.GET("", linkHandler.List)
	linkGroup.DELETE("/:id", linkHandler.Delete)

	v1.GET("/sources", sourceHandler.Options)
	v1.GET("/archive", archiveHandler.List)

	chatGroup := v1.Group("/chat")
	chatGroup.POST("/sessions", chatHandler.CreateSession)
	chatGroup.POST("/select", chatHandler.SelectSource)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.POST("/stream", chatHandler.StreamMessage)
	chatGroup.GET("/history", chatHandler.GetHistory)

	return router
}

func contextPolicy(app *bootstrap.App) budget.Policy {
	if app.Config.Context.Policy == budget.PolicyRowCapped {
		return budget.RowCapped(app.Config.Context.MaxRows)
	}
	return budget.FullOrTruncate(app.Config.Context.CharLimit, app.Config.Context.TruncLimit)
}
