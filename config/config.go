package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Port     string
	MongoURI string
	DBName   string

	RedisAddr string
	RedisPass string

	JWTKey string

	// Image URL rewriting: stored bucket prefix -> public CDN prefix.
	StorageBaseURL string
	CDNBaseURL     string

	CORSOrigins []string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg := &Config{
		Port:           os.Getenv("PORT"),
		MongoURI:       os.Getenv("MONGOURI"),
		DBName:         os.Getenv("DB"),
		RedisAddr:      os.Getenv("REDIS_ADD"),
		RedisPass:      os.Getenv("REDIS_PASS"),
		JWTKey:         os.Getenv("JWT_KEY"),
		StorageBaseURL: os.Getenv("S3_BASE_URL"),
		CDNBaseURL:     os.Getenv("CLOUDFRONT_BASE_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg
}
