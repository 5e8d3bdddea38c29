package main

import (
	"context"
	"log"
	"net/http"

	"campaign-app/brief-service/internal/config"
	"campaign-app/brief-service/internal/handler"
	"campaign-app/brief-service/internal/repository"
	"campaign-app/brief-service/internal/services"
	"campaign-app/brief-service/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// 1. Контекст и shutdown-менеджер
	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	// 2. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 3. Подключение к MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	db := mongoClient.Database(cfg.MongoDB)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	// 4. Подключение к Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("Invalid Redis URL:", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return rdb.Close()
	})

	// 5. Инициализация слоев
	briefRepo := repository.NewBriefRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	dashboardService := services.NewDashboardService(briefRepo, messageRepo, rdb)
	briefService := services.NewBriefService(briefRepo, messageRepo, mailer, dashboardService, cfg)
	messageService := services.NewMessageService(messageRepo, briefRepo, mailer, dashboardService, cfg)

	briefHandler := handler.NewBriefHandler(briefService)
	messageHandler := handler.NewMessageHandler(messageService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// 6. Роутер и эндпоинты
	router := gin.Default()
	router.Use(cors.Default())

	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret)
	router.Use(utils.AuthMiddleware(jwtUtil))
	reviewerOnly := utils.RequireReviewer()

	api := router.Group("/api")
	{
		briefs := api.Group("/briefs")
		{
			briefs.POST("", reviewerOnly, briefHandler.CreateBrief)
			briefs.GET("", reviewerOnly, briefHandler.ListBriefs)
			briefs.GET("/:id", briefHandler.GetBrief)
			briefs.PUT("/:id", reviewerOnly, briefHandler.UpdateBrief)
			briefs.DELETE("/:id", reviewerOnly, briefHandler.DeleteBrief)

			briefs.POST("/:id/accept", briefHandler.AcceptBrief)
			briefs.POST("/:id/unlock", reviewerOnly, briefHandler.UnlockBrief)
			briefs.POST("/:id/clear-acceptance", reviewerOnly, briefHandler.ClearAcceptance)
			briefs.PUT("/:id/status", reviewerOnly, briefHandler.SetWorkflowStatus)

			briefs.POST("/:id/messages", messageHandler.PostMessage)
			briefs.GET("/:id/messages", messageHandler.GetMessages)
			briefs.POST("/:id/messages/read", reviewerOnly, messageHandler.MarkAllRead)
		}

		api.GET("/dashboard", reviewerOnly, dashboardHandler.GetSummary)
	}

	// 7. Запуск HTTP сервера
	server := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Println("Brief service running on", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return server.Shutdown(ctx)
	})

	select {}
}
