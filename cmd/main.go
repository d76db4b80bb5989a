package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"crimewatch/backend/internal/api/handler"
	"crimewatch/backend/internal/auth"
	"crimewatch/backend/internal/config"
	"crimewatch/backend/internal/feedhub"
	"crimewatch/backend/internal/mailer"
	"crimewatch/backend/internal/media"
	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/notify"
	"crimewatch/backend/internal/report"
	"crimewatch/backend/internal/storage"
	"crimewatch/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Report{},
		&models.Validation{},
		&models.PoliceAlert{},
		&models.CrimeAlert{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting CrimeWatch Backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewService(db, rdb)

	mediaStore, err := media.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("Failed to prepare media store: %v", err)
	}

	smtp := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)

	var sinks []notify.UrgentSink
	if cfg.AdminAlertEmail != "" {
		sinks = append(sinks, mailer.NewUrgentMailer(smtp, cfg.AdminAlertEmail))
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramAdminChatID != "" {
		bot, err := telegram.NewAlertBot(cfg.TelegramBotToken, cfg.TelegramAdminChatID)
		if err != nil {
			log.Printf("ERROR: Telegram bridge disabled: %v", err)
		} else {
			sinks = append(sinks, bot)
		}
	}

	dispatcher := notify.NewDispatcher(s, sinks...)
	reportSvc := report.NewService(s, mediaStore)
	authSvc := auth.NewService(s, smtp, []byte(cfg.JWTSecret))

	hub := feedhub.NewHub(rdb)
	go hub.Run()

	r := gin.Default()
	r.Static(cfg.MediaBaseURL, cfg.MediaDir)

	h := handler.NewHandler(reportSvc, authSvc, dispatcher, s, mediaStore, hub, []byte(cfg.JWTSecret), cfg.Production())
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
