// Worker consumes audit events from Kafka and persists them to Postgres.
// Set KAFKA_BROKERS, AUDIT_KAFKA_TOPIC, KAFKA_GROUP_ID, and DATABASE_URL.
// JWT_SECRET is required by config but unused (e.g. set to any value).
//
// With -session <id> it skips consuming and prints the stored trail for that
// session instead (operator lookup; only DATABASE_URL is needed).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	auditdomain "session-auth-service/internal/audit/domain"
	auditrepo "session-auth-service/internal/audit/repository"
	"session-auth-service/internal/config"
	"session-auth-service/internal/db"
)

func main() {
	sessionID := flag.String("session", "", "Print the audit trail for a session id and exit")
	limit := flag.Int("limit", 50, "Max audit events to print with -session")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is required")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()
	repo := auditrepo.NewPostgresRepository(pool)

	if *sessionID != "" {
		if err := printTrail(repo, *sessionID, int32(*limit)); err != nil {
			log.Fatalf("worker: list audit events: %v", err)
		}
		return
	}

	brokers := cfg.AuditKafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.AuditKafkaTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: consuming from %s (group %s)", cfg.AuditKafkaTopic, cfg.KafkaGroupID)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("worker: stopped")
				return
			}
			log.Printf("worker: kafka read error: %v", err)
			continue
		}

		var event auditdomain.AuditEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("worker: bad audit event: %v", err)
			continue
		}

		writeCtx, writeCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := repo.Create(writeCtx, &event); err != nil {
			log.Printf("worker: persist audit event failed: %v", err)
		}
		writeCancel()
	}
}

// printTrail writes the session's stored audit events to stdout, newest first.
func printTrail(repo auditrepo.Repository, sessionID string, limit int32) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, err := repo.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Printf("no audit events for session %s\n", sessionID)
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s  %-18s  session=%s", e.CreatedAt.Format(time.RFC3339), e.Action, e.SessionID)
		if e.UserID != "" {
			fmt.Printf("  user=%s", e.UserID)
		}
		if e.Metadata != "" {
			fmt.Printf("  %s", e.Metadata)
		}
		fmt.Println()
	}
	return nil
}
