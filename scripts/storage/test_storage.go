package main

import (
	"context"
	"log"
	"time"

	"github.com/verimed-labs/claimwatch/src/api/config"
	"github.com/verimed-labs/claimwatch/src/api/data"
	"github.com/verimed-labs/claimwatch/src/api/models"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// MySQL round trip
	db := data.MustMySQL(cfg.MySQLDSN)
	var influencers []models.Influencer
	if err := db.Limit(5).Find(&influencers).Error; err != nil {
		log.Fatalf("mysql query: %v", err)
	}
	log.Printf("mysql ok, %d influencer rows sampled", len(influencers))

	// Redis round trip
	rdb := data.MustRedis(cfg.RedisURL)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}
	if err := data.PublishReport(ctx, rdb, map[string]interface{}{"handle": "_storage_smoke", "totalClaims": 0}); err != nil {
		log.Fatalf("redis publish: %v", err)
	}
	n, err := rdb.XLen(ctx, "claimwatch.reports").Result()
	if err != nil {
		log.Fatalf("redis xlen: %v", err)
	}
	log.Printf("redis ok, report stream length %d", n)
}
