package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/verimed-labs/claimwatch/src/api/config"
	"github.com/verimed-labs/claimwatch/src/influencer"
	"github.com/verimed-labs/claimwatch/src/pubmed"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, verifier *pubmed.Verifier, svc *influencer.Service) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authH := NewAuth(db, []byte(cfg.JWTSecret))
	analyzeH := NewAnalyze(verifier)
	influencerH := NewInfluencers(db, rdb, svc)

	limiter := NewRateLimiter(30, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authH.Register)
		v1.POST("/auth/login", authH.Login)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)), RateLimitMiddleware(limiter))
		secured.POST("/analyze", analyzeH.Analyze)
		secured.POST("/influencers/analyze", influencerH.Analyze)
		secured.GET("/influencers", influencerH.List)
	}
}
