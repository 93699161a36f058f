// Package api is the small ops HTTP surface: liveness and the same admin
// statistics the bot serves through /admin_stats.
package api

import (
	"net/http"

	"nextgen_download_bot/internal/service"
	"nextgen_download_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statsRoutes struct {
	ss *service.StatsService
}

func NewStatsRoutes(handler *gin.RouterGroup, ss *service.StatsService, token string) {
	r := &statsRoutes{ss: ss}
	h := handler.Group("/admin")
	h.Use(bearerAuth(token))
	{
		h.GET("/stats", r.GetStats)
	}
}

func bearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("Authorization") != "Bearer "+token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (r *statsRoutes) GetStats(c *gin.Context) {
	log := logger.Logger()

	stats, err := r.ss.AdminStats(c.Request.Context())
	if err != nil {
		log.Error("failed to get admin stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	platforms := make([]gin.H, len(stats.TopPlatforms))
	for i, p := range stats.TopPlatforms {
		platforms[i] = gin.H{"platform": p.Platform, "count": p.Count}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":          stats.TotalUsers,
		"unlimited_users":      stats.UnlimitedUsers,
		"total_downloads":      stats.TotalDownloads,
		"successful_downloads": stats.SuccessfulDownloads,
		"verified_referrals":   stats.VerifiedReferrals,
		"top_platforms":        platforms,
	})
}

func NewHealthRoute(handler *gin.Engine) {
	handler.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
