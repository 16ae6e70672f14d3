// Server runs the session auth HTTP API.
// Set JWT_SECRET. Without DATABASE_URL the server runs on in-memory
// repositories; without KAFKA_BROKERS the audit export is disabled.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	auditpkg "session-auth-service/internal/audit"
	auditproducer "session-auth-service/internal/audit/producer"
	"session-auth-service/internal/auth/domain"
	"session-auth-service/internal/auth/handler"
	"session-auth-service/internal/auth/notify"
	authrepo "session-auth-service/internal/auth/repository"
	"session-auth-service/internal/auth/service"
	"session-auth-service/internal/config"
	"session-auth-service/internal/db"
	"session-auth-service/internal/events"
	"session-auth-service/internal/queue"
	"session-auth-service/internal/token"
	userrepo "session-auth-service/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		userRepo    userrepo.Repository
		sessionRepo authrepo.SessionRepository
		codeRepo    authrepo.CodeValidationRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		userRepo = userrepo.NewPostgresRepository(pool)
		sessionRepo = authrepo.NewPostgresSessionRepository(pool)
		codeRepo = authrepo.NewPostgresCodeValidationRepository(pool)
	} else {
		log.Println("DATABASE_URL not set; using in-memory repositories")
		userRepo = userrepo.NewMemoryRepository()
		sessionRepo = authrepo.NewMemorySessionRepository()
		codeRepo = authrepo.NewMemoryCodeValidationRepository()
	}

	var provider queue.Provider
	if cfg.QueueBackend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		provider = queue.NewRedisProvider(client)
	} else {
		provider = queue.NewMemoryProvider()
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyAPIKey, cfg.NotifyWebhookURL)
	}

	codec := token.NewCodec(cfg.JWTSecret)
	bus := events.NewBus()
	svc := service.NewAuthService(userRepo, sessionRepo, codeRepo, codec, bus, cfg.AccessExpiry())

	bus.Register(domain.EventSessionCreated, notify.NewSessionCreatedHandler(provider))

	q, err := provider.Create(queue.SendCodeValidationKey)
	if err != nil {
		log.Fatalf("queue: %v", err)
	}
	q.Subscribe(notify.NewSendCodeValidationHandler(
		sessionRepo, userRepo, codeRepo, notifier, cfg.TemplateLanguage, cfg.CodeExpiry(),
	))
	if err := q.Process(ctx); err != nil {
		log.Fatalf("queue: process: %v", err)
	}

	if brokers := cfg.AuditKafkaBrokersList(); len(brokers) > 0 {
		producer := auditproducer.NewKafkaProducer(brokers, cfg.AuditKafkaTopic)
		defer producer.Close()
		auditHandler := auditpkg.NewLifecycleHandler(producer)
		bus.Register(domain.EventSessionCreated, auditHandler)
		bus.Register(domain.EventSessionValidated, auditHandler)
		bus.Register(domain.EventSessionClosed, auditHandler)
		log.Printf("audit export enabled on topic %s", cfg.AuditKafkaTopic)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewServer(svc).Routes(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	cancel()
	time.Sleep(auditpkg.ShutdownDrainDuration)
	log.Println("HTTP server stopped")
}
