package config

import (
	"log"
	"os"
)

type Config struct {
	MySQLDSN      string
	RedisURL      string
	JWTSecret     string
	Port          string
	RapidAPIKey   string
	PubMedAPIKey  string
	AllowedOrigin string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	return Config{
		MySQLDSN:      getenv("MYSQL_DSN", "claimwatch:claimwatch@tcp(127.0.0.1:3306)/claimwatch"),
		RedisURL:      getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:     getenv("JWT_SECRET", "dev-only-secret-change-me"),
		Port:          getenv("PORT", "8080"),
		RapidAPIKey:   os.Getenv("RAPID_API_KEY"),
		PubMedAPIKey:  os.Getenv("PUBMED_API_KEY"),
		AllowedOrigin: getenv("CLIENT_URL", "http://localhost:3000"),
	}
}
