package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rafikibot/internal/access"
	"rafikibot/internal/api"
	"rafikibot/internal/auth"
	"rafikibot/internal/cache"
	"rafikibot/internal/chatgpt"
	"rafikibot/internal/chathistory"
	"rafikibot/internal/governor"
	"rafikibot/internal/middleware"
	"rafikibot/internal/ratelimit"
	"rafikibot/internal/scheduler"
	"rafikibot/internal/telegram"
	"rafikibot/internal/users"
	"rafikibot/pkg/config"
	"rafikibot/pkg/db"

	"github.com/sirupsen/logrus"
)

func main() {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	cfg := config.LoadConfig()

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logrus.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer database.Close()

	userRepo := users.NewRepository(database)
	userService := users.NewService(userRepo)

	historyRepo := chathistory.NewRepository(database, cfg.ChatHistoryLimit)
	historyService := chathistory.NewService(historyRepo)

	accessService, err := access.NewService(cfg.AdminID, cfg.AdminPassword)
	if err != nil {
		logrus.Fatalf("Ошибка при инициализации контроля доступа: %v", err)
	}

	limiter := ratelimit.NewLimiter(time.Duration(cfg.RateLimitSeconds) * time.Second)
	responseCache := cache.NewResponseCache(time.Duration(cfg.CacheExpirySeconds) * time.Second)
	chatgptService := chatgpt.NewService(cfg)

	gov := governor.New(
		accessService,
		limiter,
		responseCache,
		userService,
		historyService,
		chatgptService,
		cfg.MaxInputLength,
		cfg.DefaultLanguage,
	)

	telegramHandler, err := telegram.NewHandler(cfg, gov, accessService, userService)
	if err != nil {
		logrus.Fatalf("Ошибка при инициализации Telegram бота: %v", err)
	}

	cleanupScheduler := scheduler.New(responseCache, limiter)
	if err := cleanupScheduler.Start(); err != nil {
		logrus.Fatalf("Ошибка при запуске планировщика: %v", err)
	}
	defer cleanupScheduler.Stop()

	apiHandler := api.NewHandler(userService, accessService, cfg.JWTSigningKey)

	mux := http.NewServeMux()

	if cfg.BotMode == "webhook" {
		if err := telegramHandler.SetupWebhook(); err != nil {
			logrus.Fatalf("Ошибка при установке вебхука: %v", err)
		}
		mux.HandleFunc("/webhook", telegramHandler.HandleWebhook)
	} else {
		go telegramHandler.StartPolling()
	}

	mux.Handle("/api/auth/login", middleware.CORSMiddleware(http.HandlerFunc(apiHandler.AuthLoginHandler)))

	listUsersHandler := http.HandlerFunc(apiHandler.ListUsersHandler)
	mux.Handle("/api/users", middleware.CORSMiddleware(auth.JWTMiddleware(listUsersHandler, cfg.JWTSigningKey)))

	blockUserHandler := http.HandlerFunc(apiHandler.BlockUserHandler)
	mux.Handle("/api/users/block", middleware.CORSMiddleware(auth.JWTMiddleware(blockUserHandler, cfg.JWTSigningKey)))

	unblockUserHandler := http.HandlerFunc(apiHandler.UnblockUserHandler)
	mux.Handle("/api/users/unblock", middleware.CORSMiddleware(auth.JWTMiddleware(unblockUserHandler, cfg.JWTSigningKey)))

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: mux,
	}

	go func() {
		logrus.Infof("Сервер запущен на порту %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Ошибка при запуске сервера: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Завершение работы сервера...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Ошибка при остановке сервера: %v", err)
	}

	logrus.Info("Сервер остановлен")
}
