package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/verimed-labs/claimwatch/src/api/config"
	"github.com/verimed-labs/claimwatch/src/influencer"
	"github.com/verimed-labs/claimwatch/src/pubmed"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, verifier *pubmed.Verifier, svc *influencer.Service) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, verifier, svc)
	return g
}
