package database

import (
	"context"
	"log"
	"time"

	"github.com/andestrip/registration-api/internal/config"
	"github.com/andestrip/registration-api/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(&models.RsvpRecord{}, &models.ChoiceEvent{}, &models.Registration{}, &models.CompletionEntry{})
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

// ConnectRedis returns a client for the pricing cache, or nil when no
// address is configured or the server is unreachable. Callers degrade
// to the in-memory cache tier on nil.
func ConnectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, pricing cache runs in-memory only: %v", err)
		return nil
	}

	return client
}
