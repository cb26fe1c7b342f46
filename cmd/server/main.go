package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rychidesign/geo-analyser/internal/config"
	"github.com/rychidesign/geo-analyser/internal/domain/fiber/handler"
	"github.com/rychidesign/geo-analyser/internal/middleware"
	"github.com/rychidesign/geo-analyser/internal/model"
	"github.com/rychidesign/geo-analyser/internal/repository"
	"github.com/rychidesign/geo-analyser/internal/service"
	"github.com/rychidesign/geo-analyser/internal/usecase"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env != "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	projectRepo := repository.NewProjectRepository(db)
	queryRepo := repository.NewQueryRepository(db)
	settingRepo := repository.NewProviderSettingRepository(db)
	scanRepo := repository.NewScanRepository(db)

	providerSvc := service.NewProviderService()
	evaluator := usecase.NewEvaluationUsecase(scanRepo, projectRepo, providerSvc, config.LoadJudgeConfig())
	scanUC := usecase.NewScanUsecase(scanRepo, queryRepo, settingRepo, providerSvc, evaluator)
	queue := usecase.NewScanQueueUsecase(scanUC)

	handler.NewProjectHandler(projectRepo, queryRepo, settingRepo).RegisterRoutes(app)
	handler.NewScanHandler(queue, scanRepo, projectRepo).RegisterRoutes(app)

	// Log job-state transitions as the queue emits them.
	events, unsubscribe := queue.Subscribe()
	defer unsubscribe()
	go func() {
		for jobs := range events {
			for _, job := range jobs {
				if job.Status == model.JobStatusRunning {
					log.Printf("Job %s: %d/%d %s", job.ID, job.Progress.Completed, job.Progress.Total, job.Progress.Current)
				}
			}
		}
	}()

	log.Println("Server running on", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.Project{},
		&model.Query{},
		&model.ProviderSetting{},
		&model.Scan{},
		&model.ScanResult{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
