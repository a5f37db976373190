package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/prasetyawidi/meja-app/cart"
	"github.com/prasetyawidi/meja-app/config"
	"github.com/prasetyawidi/meja-app/database"
	"github.com/prasetyawidi/meja-app/middlewares"
	"github.com/prasetyawidi/meja-app/models"
	"github.com/prasetyawidi/meja-app/realtime"
	"github.com/prasetyawidi/meja-app/router"
	"github.com/prasetyawidi/meja-app/services"
	"github.com/prasetyawidi/meja-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env tidak ditemukan: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Gagal konek database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// KV: Redis kalau dikonfigurasi, fallback memory
	var kv cart.KVStore = cart.NewMemoryKV()
	if client := config.InitRedis(); client != nil {
		kv = cart.NewRedisKV(client)
		utils.InfoLogger.Println("KV store: redis")
	} else {
		utils.InfoLogger.Println("KV store: memory (REDIS_ADDR tidak di-set)")
	}

	// Sink notifikasi: Kafka kalau broker dikonfigurasi
	var notifier services.NotificationSink = services.NopSink{}
	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		sink := services.NewKafkaSink(brokers, config.KafkaTopic())
		defer sink.Close()
		notifier = sink
		utils.InfoLogger.Printf("Notifikasi: kafka %v topik %s", brokers, config.KafkaTopic())
	}

	hub := realtime.NewHub()
	monitor := realtime.NewChangeMonitor(db, hub)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(router.Deps{
		DB:       db,
		KV:       kv,
		Hub:      hub,
		Notifier: notifier,
	})

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening di port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Toko{},
		&models.Kategori{},
		&models.Menu{},
		&models.MenuVariasi{},
		&models.Pelanggan{},
		&models.CustomerSession{},
		&models.Order{},
		&models.OrderItem{},
		&models.KitchenQueue{},
		&models.KitchenQueueItem{},
		&models.Setting{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("AutoMigrate gagal: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate selesai.")

	// Trigger pengisi db_changes memakai sintaks MySQL (NOW(), DELIMITER
	// bebas); jangan dipasang di dialek lain seperti sqlite.
	if db.Dialector.Name() == "mysql" {
		if err := database.ExecuteTriggers(db); err != nil {
			utils.ErrorLogger.Printf("Gagal pasang trigger: %v", err)
		}
	}
}
