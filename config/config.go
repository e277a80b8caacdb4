package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port           string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	RedisHost      string
	RedisPort      string
	JWTSecret      string
	UserServiceURL string
	UserCacheTTL   time.Duration

	Game GameConfig
}

// GameConfig holds the tunables of the question selection and answer
// verification algorithms. Distances are meters.
type GameConfig struct {
	QuestionsPerGame    int
	MinQuestionDistance int
	MaxQuestionDistance int
	MaxAnswerDistance   int
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "cityrace"),
		DBPassword:     getEnv("DB_PASSWORD", "cityrace123"),
		DBName:         getEnv("DB_NAME", "cityrace"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		UserServiceURL: getEnv("USER_SERVICE_URL", "http://user-service:8080"),
		UserCacheTTL:   time.Duration(getEnvInt("USER_CACHE_TTL", 600)) * time.Second,
		Game: GameConfig{
			QuestionsPerGame:    getEnvInt("QUESTIONS_PER_GAME", 3),
			MinQuestionDistance: getEnvInt("MIN_QUESTION_DISTANCE", 1000),
			MaxQuestionDistance: getEnvInt("MAX_QUESTION_DISTANCE", 3000),
			MaxAnswerDistance:   getEnvInt("MAX_ANSWER_DISTANCE", 10),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	// TranslateError turns driver-level unique constraint violations into
	// gorm.ErrDuplicatedKey, which the repositories depend on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func InitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	return client
}
