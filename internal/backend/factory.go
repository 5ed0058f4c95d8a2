// Package backend builds the store and notifier configured for this
// deployment, shared by the server and worker binaries.
package backend

import (
	"fmt"
	"log/slog"

	"sevaledger/internal/config"
	"sevaledger/internal/notify"
	notifyamqp "sevaledger/internal/notify/amqp"
	notifykafka "sevaledger/internal/notify/kafka"
	"sevaledger/internal/storage"
	"sevaledger/internal/storage/memory"
	"sevaledger/internal/storage/postgres"
	"sevaledger/internal/storage/sqlite"
)

// NewStore opens the persistence backend named in cfg. The caller owns the
// returned store and must Close it.
func NewStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		slog.Info("Initialized sqlite store", "db_path", cfg.SQLitePath)
		return store, nil
	case "postgres":
		store, err := postgres.NewStore(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		slog.Info("Initialized postgres store")
		return store, nil
	case "memory":
		slog.Info("Initialized memory store")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}

// NewNotifier builds the event publisher named in cfg. The log notifier is
// the fallback that never fails to construct.
func NewNotifier(cfg *config.Config) (notify.Notifier, error) {
	switch cfg.NotifyBackend {
	case "amqp":
		client, err := notifyamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("initialize amqp notifier: %w", err)
		}
		slog.Info("Initialized AMQP notifier",
			"exchange", cfg.AMQPExchange,
			"queue", cfg.AMQPQueue)
		return client, nil
	case "kafka":
		pub := notifykafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		slog.Info("Initialized Kafka notifier",
			"brokers", cfg.KafkaBrokers,
			"topic", cfg.KafkaTopic)
		return pub, nil
	case "log":
		return notify.LogNotifier{}, nil
	default:
		return nil, fmt.Errorf("unsupported notify backend: %s", cfg.NotifyBackend)
	}
}
