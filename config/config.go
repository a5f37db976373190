// Package config membaca konfigurasi dari environment (.env via
// godotenv di main) dan membuka koneksi infrastruktur.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB membuka koneksi database. DB_DRIVER=sqlite dipakai untuk
// development lokal tanpa MySQL; default mysql.
func InitDB() (*gorm.DB, error) {
	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "meja.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		user := envOr("DB_USER", "root")
		pass := os.Getenv("DB_PASS")
		host := envOr("DB_HOST", "127.0.0.1")
		port := envOr("DB_PORT", "3306")
		name := envOr("DB_NAME", "meja_app")
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			user, pass, host, port, name)
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// InitRedis mengembalikan client Redis untuk KV cart/session, atau nil
// kalau REDIS_ADDR tidak di-set (fallback ke memory KV).
func InitRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

// KafkaBrokers membaca daftar broker dari env; kosong berarti sink
// notifikasi dimatikan.
func KafkaBrokers() []string {
	raw := os.Getenv("KAFKA_BROKERS")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// KafkaTopic adalah topik event pesanan.
func KafkaTopic() string {
	return envOr("KAFKA_ORDER_TOPIC", "meja.order-events")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
