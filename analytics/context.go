package analytics

import (
	"fmt"
	"strings"

	"app/models"
	"app/utils"
)

// maxChatContextLen bounds the text block handed to the language model so
// a large catalog cannot blow up the prompt.
const maxChatContextLen = 8000

// BuildChatContext flattens an analysis bundle into the bounded text
// block the chatbot supplies as grounding context. The model's free-text
// answer is never parsed, only returned to the caller.
func BuildChatContext(result *models.AnalysisResult) string {
	if result == nil {
		return "No analysis data available"
	}

	var b strings.Builder
	metrics := result.Descriptive.BasicMetrics

	b.WriteString("BUSINESS OVERVIEW:\n")
	fmt.Fprintf(&b, "- Total Revenue: %s\n", utils.FormatCompactINR(metrics.TotalRevenue))
	fmt.Fprintf(&b, "- Total Transactions: %d\n", metrics.TotalTransactions)
	fmt.Fprintf(&b, "- Unique Products: %d\n", metrics.UniqueProducts)
	fmt.Fprintf(&b, "- Unique Customers: %d\n", metrics.UniqueCustomers)
	fmt.Fprintf(&b, "- Profit Margin: %.2f%%\n", metrics.ProfitMargin)
	fmt.Fprintf(&b, "- Sales Period: %s to %s\n", metrics.MinSaleDate, metrics.MaxSaleDate)
	fmt.Fprintf(&b, "- Highest Sale Amount: %s\n", utils.FormatCompactINR(metrics.MaxSaleAmount))
	fmt.Fprintf(&b, "- Lowest Sale Amount: %s\n", utils.FormatCompactINR(metrics.MinSaleAmount))

	b.WriteString("\nTOP SELLING PRODUCTS:\n")
	for _, p := range result.Descriptive.TopProducts.Products {
		fmt.Fprintf(&b, "- %s (%s): %s revenue, %d units\n",
			p.ProductName, p.Category, utils.FormatCompactINR(p.TotalRevenue), p.TotalUnitsSold)
	}

	b.WriteString("\nCATEGORY PERFORMANCE:\n")
	for _, c := range result.Descriptive.CategoryPerformance.Categories {
		fmt.Fprintf(&b, "- %s: %s revenue, %s profit\n",
			c.Category, utils.FormatCompactINR(c.Revenue), utils.FormatCompactINR(c.Profit))
	}

	b.WriteString("\nCUSTOMER SEGMENTS:\n")
	for _, segment := range []string{models.SegmentVIP, models.SegmentLoyal, models.SegmentAtRisk, models.SegmentRegular} {
		if count, ok := result.Descriptive.CustomerSegments.Counts[segment]; ok {
			fmt.Fprintf(&b, "- %s: %d\n", segment, count)
		}
	}

	if len(result.Descriptive.ExpiringProducts.Products) > 0 {
		b.WriteString("\nPRODUCTS EXPIRING SOON:\n")
		for _, p := range result.Descriptive.ExpiringProducts.Products {
			fmt.Fprintf(&b, "- %s: %d units, %d days left\n", p.ProductName, p.Units, p.DaysToExpiry)
		}
	}

	issues := result.Diagnostic.InventoryIssues
	b.WriteString("\nINVENTORY ISSUES:\n")
	fmt.Fprintf(&b, "- Understocked: %s\n", joinOrNone(issues.Understocked))
	fmt.Fprintf(&b, "- Overstocked: %s\n", joinOrNone(issues.Overstocked))

	if len(result.Diagnostic.DecliningProducts.Products) > 0 {
		b.WriteString("\nDECLINING PRODUCTS:\n")
		for _, p := range result.Diagnostic.DecliningProducts.Products {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", p.ProductName, p.ChangePct)
		}
	}

	forecast := result.Predictive.SalesForecast
	b.WriteString("\nSALES FORECAST (30 DAYS):\n")
	if forecast.Status == models.StatusOK && forecast.ForecastProjection != nil {
		fmt.Fprintf(&b, "- Total: %s\n", utils.FormatCompactINR(forecast.NextPeriodTotal))
		fmt.Fprintf(&b, "- Daily Average: %s\n", utils.FormatCompactINR(forecast.DailyAverage))
		fmt.Fprintf(&b, "- Trend: %s (confidence %.2f)\n", forecast.Trend, forecast.Confidence)
	} else {
		fmt.Fprintf(&b, "- Not available: %s\n", forecast.Status)
	}

	fmt.Fprintf(&b, "\nANALYSIS PERIOD: %s to %s (%d records, %s)\n",
		result.Metadata.AnalysisPeriod.Start, result.Metadata.AnalysisPeriod.End,
		result.Metadata.TotalRecords, result.Metadata.Currency)

	context := b.String()
	if len(context) > maxChatContextLen {
		context = context[:maxChatContextLen]
	}
	return context
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	const limit = 10
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}
