package handlers

import (
	"context"

	"app/models"

	"github.com/gofiber/fiber/v2"
)

// HandleGetDashboardSummary serves the flattened metric cards the web
// dashboard renders, running a fresh analysis when the cache is cold.
// GET /api/v1/analytics/dashboard
func HandleGetDashboardSummary(c *fiber.Ctx) error {
	session := sessionKey(c)

	ctx, cancel := context.WithTimeout(c.Context(), analysisTimeout)
	defer cancel()

	result, err := analyticsService.CachedOrRun(ctx, session)
	if err != nil {
		logger.Errorf("dashboard summary failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to build dashboard summary",
		})
	}

	metrics := result.Descriptive.BasicMetrics
	summary := models.DashboardSummary{
		Cards: []models.DashboardCard{
			{Label: "Total Revenue", Value: metrics.TotalRevenue},
			{Label: "Total Profit", Value: metrics.TotalProfit},
			{Label: "Transactions", Value: float64(metrics.TotalTransactions)},
			{Label: "Average Order Value", Value: metrics.AvgOrderValue},
			{Label: "Profit Margin %", Value: metrics.ProfitMargin},
		},
		TopProducts:     result.Descriptive.TopProducts.Products,
		Recommendations: result.Prescriptive.Recommendations,
		Currency:        result.Metadata.Currency,
	}

	return c.JSON(fiber.Map{"success": true, "data": summary})
}
