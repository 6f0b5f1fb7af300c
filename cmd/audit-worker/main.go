// The audit worker drains the spill queue: audit entries that could not be
// written during request handling are replayed into the database.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"tally/internal/config"
	"tally/internal/database"
	"tally/internal/logger"
	"tally/internal/queue"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required for the audit worker")
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	queueClient, err := queue.NewClient(appConfig.AMQPURL, appConfig.AuditExchange, appConfig.AuditSpillQueue)
	if err != nil {
		return fmt.Errorf("failed to connect to audit spill queue: %w", err)
	}
	defer queueClient.Close()

	deliveries, err := queueClient.Consume()
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	log.Infow("audit worker started", "queue", appConfig.AuditSpillQueue)

	db := dbManager.DB()
	for {
		select {
		case <-stop:
			log.Info("audit worker shutting down")
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			handleDelivery(db, delivery.Body, func(replayed bool) {
				if replayed {
					_ = delivery.Ack(false)
				} else {
					// Redeliver so the entry is not lost; poison messages
					// are rejected without requeue.
					_ = delivery.Nack(false, true)
				}
			}, func() {
				_ = delivery.Nack(false, false)
			})
		}
	}
}

// handleDelivery replays one spilled audit entry. Malformed payloads are
// dropped via reject; insert failures are requeued for a later attempt.
func handleDelivery(db *gorm.DB, body []byte, done func(replayed bool), reject func()) {
	log := logger.Get()

	msg, err := queue.AuditSpillMessageFromJSON(body)
	if err != nil {
		log.Errorw("dropping malformed spill message", "error", err)
		reject()
		return
	}

	entry := msg.Entry
	entry.ID = 0
	if err := db.Create(&entry).Error; err != nil {
		log.Errorw("failed to replay audit entry",
			"resource", entry.Resource,
			"event_type", entry.EventType,
			"error", err,
		)
		done(false)
		return
	}

	log.Infow("replayed audit entry",
		"resource", entry.Resource,
		"event_type", entry.EventType,
		"failed_at", msg.FailedAt,
	)
	done(true)
}
