package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/internal/ai"
	"github.com/marcreyes/localpost/internal/api/handlers"
	"github.com/marcreyes/localpost/internal/api/middleware"
	job "github.com/marcreyes/localpost/internal/jobs"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/queue"
	"github.com/marcreyes/localpost/internal/repository"
	"github.com/marcreyes/localpost/internal/service"
	"github.com/marcreyes/localpost/pkg/utils"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	if cfg.AdminAPIKey == "" {
		key, err := utils.GenerateRandomKey(32)
		if err != nil {
			log.Fatalf("Failed to generate admin API key: %v", err)
		}
		cfg.AdminAPIKey = key
		log.Printf("ADMIN_API_KEY not set, generated key for this run: %s", key)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    25 * 1024 * 1024, // 25 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key, X-Webhook-Signature",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	clientRepo := repository.NewClientRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	qaLogRepo := repository.NewQALogRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	assetRepo := repository.NewAssetRepository(db)

	generatorAI := ai.NewClient(cfg.AnthropicAPIKey, cfg.GeneratorModel, 4096)
	reviewAI := ai.NewClient(cfg.AnthropicAPIKey, cfg.ReviewModel, 2048)

	clientService := service.NewClientService(clientRepo)
	connectionService := service.NewConnectionService(*cfg, clientRepo, connectionRepo)
	generatorService := service.NewGeneratorService(db, clientRepo, connectionRepo, calendarRepo, generatorAI, cfg.PostingHour)
	qaService := service.NewQAService(clientRepo, calendarRepo, qaLogRepo, reviewAI)
	mediaService := service.NewMediaService(*cfg, assetRepo)
	reportService := service.NewReportService(clientRepo, calendarRepo, deliveryRepo)

	publishers := map[models.Platform]service.PlatformPublisher{
		models.PlatformFacebook:       service.NewFacebookService(*cfg),
		models.PlatformInstagram:      service.NewInstagramService(*cfg),
		models.PlatformGoogleBusiness: service.NewGoogleBusinessService(*cfg),
	}
	publisherService := service.NewPublisherService(db, calendarRepo, connectionRepo, deliveryRepo, publishers)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	session := handlers.NewSessionHandler(*cfg)
	app.Get("/admin/session", session.CreateSession)
	app.Post("/admin/session/destroy", session.DestroySession)

	webhook := handlers.NewWebhookHandler(*cfg, clientService)
	app.Post("/webhooks/payment", webhook.PaymentWebhook)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	content := handlers.NewContentHandler(generatorService, qaService, client)
	api.Post("/content/generate", content.GenerateMonth)
	api.Post("/content/review", content.ReviewMonth)

	connection := handlers.NewConnectionHandler(connectionService)
	api.Post("/connections", connection.StoreConnection)
	api.Get("/connections", connection.ListConnections)

	asset := handlers.NewAssetHandler(mediaService)
	api.Post("/assets/upload", asset.UploadImage)

	report := handlers.NewReportHandler(reportService)
	api.Get("/reports", report.GetReport)

	publish := handlers.NewPublishHandler(publisherService)
	api.Post("/publish/run", publish.Run)

	// cron jobs
	publishJob := job.NewPublishJob(publisherService)
	refreshTokenJob := job.NewTokenRefreshJob(*cfg, connectionRepo)

	// queue
	queueW := queue.NewQueue(generatorService, qaService)

	c := cron.New()
	c.AddFunc("@every 00h15m00s", publishJob.DispatchDue)
	c.AddFunc("@every 00h30m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeGenerateMonth, queueW.HandleGenerateMonthTask)
		mux.HandleFunc(queue.TaskTypeReviewMonth, queueW.HandleReviewMonthTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
