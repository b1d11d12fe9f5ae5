package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port     string
	GinMode  string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type StorageConfig struct {
	UploadDir      string
	ThumbnailDir   string
	ThumbnailSize  int
	MaxUploadBytes int64
}

var AppConfig *Config

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Storage:  GetStorageConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // test database runs on 5433
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Enabled:  true,
		Host:     "localhost",
		Port:     "6380",
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Port:     "0",
			GinMode:  "test",
			LogLevel: "debug",
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Storage: StorageConfig{
			UploadDir:      os.TempDir(),
			ThumbnailDir:   os.TempDir(),
			ThumbnailSize:  64,
			MaxUploadBytes: 8 << 20,
		},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:     getEnv("SERVER_PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "release"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	enabled, err := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Enabled:  enabled,
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetStorageConfig() StorageConfig {
	size, err := strconv.Atoi(getEnv("THUMBNAIL_SIZE", "320"))
	if err != nil {
		panic(err)
	}

	maxMB, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "32"), 10, 64)
	if err != nil {
		panic(err)
	}

	uploadDir := getEnv("UPLOAD_DIR", "uploads")

	return StorageConfig{
		UploadDir:      uploadDir,
		ThumbnailDir:   getEnv("THUMBNAIL_DIR", uploadDir+"/thumbnails"),
		ThumbnailSize:  size,
		MaxUploadBytes: maxMB << 20,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
