package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"kanban-mc/internal/config"
	"kanban-mc/internal/eazybi"
	"kanban-mc/internal/forecast"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// bearerAuth rejects requests whose Authorization header does not carry the
// configured bearer token. An unconfigured token rejects everything rather
// than leaving the endpoint open.
func (s *Server) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")

		if s.cfg.AuthToken == "" || header == "" || token != s.cfg.AuthToken {
			log.Warn().Str("authorization", header).Msg("Invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// handleForecast runs the full pipeline for one report request: validate the
// config body, fetch the eazyBI CSV, and return the merged cycletime and
// Monte-Carlo table.
func (s *Server) handleForecast(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading body: " + err.Error()})
		return
	}

	cfg, err := config.ParseReportConfig(body)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected report config")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Info().
		Int("account", cfg.AccountNumber).
		Int("report", cfg.ReportNumber).
		Msg("Forecast requested")

	url := eazybi.ReportURL(cfg.AccountNumber, cfg.ReportNumber, cfg.ReportToken)
	issues, err := s.client.FetchReport(c.Request.Context(), url)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch eazyBI report")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	result := forecast.Run(cfg, issues, time.Now(), nil)

	log.Info().
		Int("projects", len(result.Index())).
		Msg("Forecast complete")

	c.JSON(http.StatusOK, result)
}
