package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/tg-translate-bridge/internal/ai"
	"github.com/Vovarama1992/tg-translate-bridge/internal/config"
	"github.com/Vovarama1992/tg-translate-bridge/internal/inbox"
	"github.com/Vovarama1992/tg-translate-bridge/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		logrus.Fatalf("logger error: %v", err)
	}

	// --- Gateways ---
	translator, err := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, log)
	if err != nil {
		log.Fatalf("openai client error: %v", err)
	}
	telegram, err := inbox.NewTelegramOutbound(cfg.TelegramAPIURL, cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("telegram client error: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Telegram-Bot-Api-Secret-Token"},
	}))

	// --- Inbox module wiring ---
	repo := inbox.NewRepo()
	svc := inbox.NewService(repo, translator, telegram,
		inbox.WithTimeouts(cfg.TranslateTimeout, cfg.DeliveryTimeout),
		inbox.WithLogger(log),
	)
	handler := inbox.NewHandler(svc, cfg.TelegramWebhookSecret, log)

	inbox.RegisterRoutes(r, handler)

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	if cfg.TelegramWebhookSecret == "" {
		log.Warn("TELEGRAM_WEBHOOK_SECRET not set, webhook accepts unauthenticated updates")
	}

	log.Infof("listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Errorf("server error: %v", err)
		os.Exit(1)
	}
}
