package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/verimed-labs/claimwatch/src/api/config"
	"github.com/verimed-labs/claimwatch/src/api/data"
	"github.com/verimed-labs/claimwatch/src/api/models"
	"github.com/verimed-labs/claimwatch/src/api/webserver"
	"github.com/verimed-labs/claimwatch/src/influencer"
	"github.com/verimed-labs/claimwatch/src/pubmed"
	"github.com/verimed-labs/claimwatch/src/twitter"
)

var allModels = []interface{}{
	&models.User{}, &models.Influencer{}, &models.AnalysisRun{},
}

func migrate(db *gorm.DB) {
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)

	rdb := data.MustRedis(cfg.RedisURL)

	pubmedClient := pubmed.NewClient(cfg.PubMedAPIKey)
	verifier := pubmed.NewVerifier(pubmedClient)
	twitterClient := twitter.NewClient(cfg.RapidAPIKey)
	svc := influencer.NewService(twitterClient, verifier)

	router := webserver.New(cfg, db, rdb, verifier, svc)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("ClaimWatch API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
