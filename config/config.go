package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL         string
	APITimeout     time.Duration
	StorageBackend string // sqlite, redis, mongo or memory
	SQLitePath     string
	RedisAddr      string
	MongoURI       string
	MongoDB        string
	GeoapifyKey    string

	// dev backend
	Port                string
	JWTSecret           []byte
	UploadDir           string
	DevMerchantEmail    string
	DevMerchantPassword string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found; using system environment")
	}

	cfg := &Config{
		APIURL:              strings.TrimRight(getEnv("API_URL", "http://localhost:5001/api"), "/"),
		APITimeout:          getDuration("API_TIMEOUT", 15*time.Second),
		StorageBackend:      strings.ToLower(getEnv("STORAGE_BACKEND", "sqlite")),
		SQLitePath:          getEnv("SQLITE_PATH", "./merchant_state.db"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "merchant"),
		GeoapifyKey:         os.Getenv("GEOAPIFY_API_KEY"),
		Port:                getEnv("PORT", "5001"),
		UploadDir:           getEnv("UPLOAD_DIR", "./static/uploads"),
		DevMerchantEmail:    getEnv("DEV_MERCHANT_EMAIL", "merchant@example.com"),
		DevMerchantPassword: getEnv("DEV_MERCHANT_PASSWORD", "merchant123"),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("[config] JWT_SECRET not set; using the development secret")
		secret = "dev-merchant-secret"
	}
	cfg.JWTSecret = []byte(secret)

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		log.Printf("[config] invalid PORT %q; falling back to 5001", cfg.Port)
		cfg.Port = "5001"
	}
	return cfg
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s %q; using %s", key, v, def)
		return def
	}
	return d
}
