package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sugurta/controllers"
	"sugurta/database"
	"sugurta/routes"
	"sugurta/services"
	"sugurta/utils"
)

func main() {
	// Часовой пояс Узбекистана для всех логов и дедлайнов
	uzbekLocation, err := time.LoadLocation("Asia/Tashkent")
	if err != nil {
		uzbekLocation = time.FixedZone("UZT", 5*60*60)
	}
	time.Local = uzbekLocation

	// Загрузка .env
	err = godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := utils.InitLogger(); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	// Подключение к PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	log.Println("Connected to PostgreSQL")

	// Глобальный *gorm.DB для контроллеров и роутов
	utils.SetDB(db)

	// Миграция
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	log.Println("Migration complete")

	// Сидирование категорий
	if err := database.SeedCategories(db); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}
	log.Println("Categories seeded (if needed)")

	// Подключение к Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     getenvOr("REDIS_ADDR", fmt.Sprintf("%s:6379", os.Getenv("DB_HOST"))),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	utils.SetRedis(rdb)
	log.Println("Connected to Redis")

	// Фоновые задачи: обновление тарифов и снятие просроченных групп
	go func() {
		services.StartTariffCron(db)
		log.Println("Tariff cron started")

		services.StartGroupDeadlineCron(db, services.NewNotifier(rdb))
		log.Println("Group deadline cron started")
	}()

	// Инициализация Google OAuth
	controllers.InitGoogleOAuth()

	// Создание Gin роутера и настройка всех маршрутов
	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server is running on port %s", port)

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func getenvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
