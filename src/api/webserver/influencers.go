package webserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/verimed-labs/claimwatch/src/api/data"
	"github.com/verimed-labs/claimwatch/src/api/models"
	"github.com/verimed-labs/claimwatch/src/influencer"
	"github.com/verimed-labs/claimwatch/src/logging"
	"github.com/verimed-labs/claimwatch/src/twitter"
)

type Influencers struct {
	db  *gorm.DB
	rdb *redis.Client
	svc *influencer.Service
}

func NewInfluencers(db *gorm.DB, rdb *redis.Client, svc *influencer.Service) Influencers {
	return Influencers{db: db, rdb: rdb, svc: svc}
}

// Analyze runs the full pipeline for one influencer handle and persists the
// run summary. Terminal per-influencer failures (unknown handle, analysis
// already in flight) map to distinct statuses; everything else degrades
// inside the pipeline rather than failing here.
func (h Influencers) Analyze(c *gin.Context) {
	var req struct {
		Handle    string `json:"handle" binding:"required"`
		Name      string `json:"name"`
		TimeRange string `json:"timeRange" binding:"omitempty,oneof=lastWeek lastMonth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	timeRange := twitter.TimeRange(req.TimeRange)
	if timeRange == "" {
		timeRange = twitter.RangeLastWeek
	}

	report, err := h.svc.AnalyzeInfluencer(c.Request.Context(), req.Handle, timeRange)
	switch {
	case errors.Is(err, influencer.ErrAlreadyProcessing):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "influencer is currently being processed"})
		return
	case errors.Is(err, twitter.ErrUserNotFound), logging.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "influencer not found"})
		return
	case logging.IsRateLimit(err):
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "upstream rate limit, try again later"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}

	run := h.persistRun(req.Handle, req.Name, string(timeRange), report)
	h.publishReport(c.Request.Context(), req.Handle, report)

	c.JSON(http.StatusOK, gin.H{"success": true, "runId": run.ID, "data": report})
}

// List returns the influencer registry with each influencer's latest run.
func (h Influencers) List(c *gin.Context) {
	var influencers []models.Influencer
	if err := h.db.Order("name asc").Find(&influencers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(influencers))
	for _, inf := range influencers {
		entry := gin.H{"id": inf.ID, "name": inf.Name, "twitterHandle": inf.TwitterHandle}

		var lastRun models.AnalysisRun
		if err := h.db.Where("influencer_id = ?", inf.ID).
			Order("created_at desc").First(&lastRun).Error; err == nil {
			entry["lastRun"] = lastRun
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "influencers": out})
}

func (h Influencers) persistRun(handle, name, timeRange string, report *influencer.Report) models.AnalysisRun {
	if name == "" {
		name = handle
	}

	var inf models.Influencer
	if err := h.db.FirstOrCreate(&inf, models.Influencer{TwitterHandle: handle}).Error; err != nil {
		log.Printf("webserver: upsert influencer %s: %v", handle, err)
	} else if inf.Name == "" {
		h.db.Model(&inf).Update("name", name)
	}

	run := models.AnalysisRun{
		ID:                uuid.NewString(),
		InfluencerID:      inf.ID,
		TimeRange:         timeRange,
		TotalClaims:       report.Summary.TotalClaims,
		VerifiedCount:     report.Summary.VerifiedCount,
		VerificationRate:  report.Summary.VerificationRate,
		AverageConfidence: report.Summary.AverageConfidence,
	}
	if err := h.db.Create(&run).Error; err != nil {
		log.Printf("webserver: persist run for %s: %v", handle, err)
	}
	return run
}

func (h Influencers) publishReport(ctx context.Context, handle string, report *influencer.Report) {
	err := data.PublishReport(ctx, h.rdb, map[string]interface{}{
		"handle":        handle,
		"totalClaims":   report.Summary.TotalClaims,
		"verifiedCount": report.Summary.VerifiedCount,
		"rate":          report.Summary.VerificationRate,
	})
	if err != nil {
		log.Printf("webserver: publish report for %s: %v", handle, err)
	}
}
