package handlers

import (
	"context"
	"errors"
	"time"

	"app/analytics"
	"app/middleware"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Analysis runs are bounded so an oversized history cannot stall an
// interactive request on the regression/outlier sub-steps.
const analysisTimeout = 60 * time.Second

var (
	analyticsService *analytics.Service
	logger           *logrus.Logger
)

// InitAnalytics wires the analytics service and logger into the handler
// package. Must be called before the routes are served.
func InitAnalytics(service *analytics.Service, log *logrus.Logger) {
	analyticsService = service
	logger = log
}

// sessionKey resolves the cache key for a request: the authenticated user
// by default, overridable with an explicit session query parameter.
func sessionKey(c *fiber.Ctx) string {
	if session := c.Query("session"); session != "" {
		return session
	}
	claims, err := middleware.ExtractClaims(c)
	if err != nil || claims.UserID == "" {
		return "default"
	}
	return claims.UserID
}

// HandleRunAnalysis executes a full pipeline run and caches the bundle.
// An optional as_of query parameter anchors the expiry calculations, so a
// historical report can be reproduced.
// POST /api/v1/analytics/run
func HandleRunAnalysis(c *fiber.Ctx) error {
	runID := uuid.NewString()
	session := sessionKey(c)
	log := logger.WithFields(logrus.Fields{"run_id": runID, "session": session})

	var asOf time.Time
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := utils.ParseFlexibleDate(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid as_of date",
			})
		}
		asOf = parsed
	}

	ctx, cancel := context.WithTimeout(c.Context(), analysisTimeout)
	defer cancel()

	result, err := analyticsService.RunAsOf(ctx, session, asOf)
	if err != nil {
		if errors.Is(err, analytics.ErrNoData) {
			log.Warn("analysis aborted: no data and fallback disabled")
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"message": "No sales data available for analysis",
			})
		}
		log.Errorf("analysis run failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to run analysis",
		})
	}

	log.WithField("records", result.Metadata.TotalRecords).Info("analysis complete")
	return c.JSON(fiber.Map{"success": true, "data": result})
}

// HandleGetAnalysis returns the cached bundle for the session, if any.
// GET /api/v1/analytics/result
func HandleGetAnalysis(c *fiber.Ctx) error {
	session := sessionKey(c)
	result, ok := analyticsService.Cached(session)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "No analysis available for this session, run one first",
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": result})
}

// HandleEvictAnalysis drops the cached bundle for the session.
// DELETE /api/v1/analytics/result
func HandleEvictAnalysis(c *fiber.Ctx) error {
	analyticsService.Evict(sessionKey(c))
	return c.JSON(fiber.Map{"success": true})
}
