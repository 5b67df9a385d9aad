package analytics

import (
	"fmt"
	"math"
	"strings"

	"app/models"
)

// prescriptive evaluates a fixed ordered rule set against the three
// analyzer outputs and emits typed recommendations. A failure inside rule
// evaluation degrades to a single system recommendation instead of
// propagating.
func (e *Engine) prescriptive(
	records []models.DerivedRecord,
	descriptive models.DescriptiveResult,
	diagnostic models.DiagnosticResult,
	predictive models.PredictiveResult,
) (out models.PrescriptiveResult) {
	defer e.recoverSection("prescriptive", func() {
		rec := systemRecommendation("rule evaluation failed")
		out = models.PrescriptiveResult{
			Status:          models.StatusFailed,
			Recommendations: []models.Recommendation{rec},
			PrioritySummary: tallyPriorities([]models.Recommendation{rec}),
		}
	})

	out.Status = models.StatusOK
	recommendations := []models.Recommendation{}

	// Rule 1: profit margin below target.
	if descriptive.BasicMetrics.Status == models.StatusOK &&
		descriptive.BasicMetrics.TotalRevenue > 0 &&
		descriptive.BasicMetrics.ProfitMargin < e.cfg.TargetProfitMargin {
		recommendations = append(recommendations, models.Recommendation{
			Type:     models.RecRevenueOptimization,
			Priority: models.PriorityHigh,
			Title:    "Improve Profit Margins",
			Description: fmt.Sprintf("Current margin %.1f%% is below the target of %.0f%%",
				descriptive.BasicMetrics.ProfitMargin, e.cfg.TargetProfitMargin),
			Actions: []string{
				"Review pricing strategy for low-margin products",
				"Negotiate better supplier terms",
				"Focus marketing on high-margin products",
				"Implement cost reduction measures",
			},
			ExpectedImpact: "Increase profit margin by 5-8%",
			Timeline:       "2-3 months",
		})
	}

	// Rule 2: understocked products need restocking.
	if diagnostic.InventoryIssues.Status == models.StatusOK &&
		diagnostic.InventoryIssues.UnderstockedCount > 0 {
		understocked := diagnostic.InventoryIssues.Understocked
		sample := understocked
		if len(sample) > 5 {
			sample = sample[:5]
		}
		recommendations = append(recommendations, models.Recommendation{
			Type:     models.RecInventoryRestock,
			Priority: models.PriorityHigh,
			Title:    "Urgent Restocking Required",
			Description: fmt.Sprintf("%d products are below minimum stock",
				diagnostic.InventoryIssues.UnderstockedCount),
			Actions: []string{
				fmt.Sprintf("Immediately restock: %s", strings.Join(sample, ", ")),
				"Implement automatic reorder points",
				"Improve demand forecasting",
				"Establish safety stock buffers",
			},
			ExpectedImpact: "Prevent stockouts and lost sales",
			Timeline:       "1-2 weeks",
			ReorderPlan:    e.reorderPlan(records, understocked),
		})
	}

	// Rule 3: customers at risk of churning.
	if predictive.ChurnRisk.Status == models.StatusOK && predictive.ChurnRisk.AtRiskCount > 0 {
		recommendations = append(recommendations, models.Recommendation{
			Type:     models.RecCustomerRetention,
			Priority: models.PriorityMedium,
			Title:    "Customer Churn Prevention",
			Description: fmt.Sprintf("%d customers at risk of churning",
				predictive.ChurnRisk.AtRiskCount),
			Actions: []string{
				"Launch targeted retention campaigns",
				"Offer personalized discounts to at-risk customers",
				"Improve customer service touchpoints",
				"Implement loyalty reward programs",
			},
			ExpectedImpact: "Reduce churn rate by 30-40%",
			Timeline:       "1-2 months",
		})
	}

	// Rule 4: products with declining sales.
	if diagnostic.DecliningProducts.Status == models.StatusOK &&
		len(diagnostic.DecliningProducts.Products) > 0 {
		worst := make([]string, 0, 3)
		for _, p := range diagnostic.DecliningProducts.Products {
			worst = append(worst, p.ProductName)
			if len(worst) == 3 {
				break
			}
		}
		recommendations = append(recommendations, models.Recommendation{
			Type:     models.RecProductStrategy,
			Priority: models.PriorityMedium,
			Title:    "Address Declining Products",
			Description: fmt.Sprintf("%d products showing sales decline",
				len(diagnostic.DecliningProducts.Products)),
			Actions: []string{
				fmt.Sprintf("Review strategy for: %s", strings.Join(worst, ", ")),
				"Consider promotional campaigns",
				"Analyze competitor pricing",
				"Evaluate product discontinuation",
			},
			ExpectedImpact: "Stabilize or improve declining sales",
			Timeline:       "2-3 months",
		})
	}

	// Rule 5: products expiring soon need clearance.
	if descriptive.ExpiringProducts.Status == models.StatusOK &&
		len(descriptive.ExpiringProducts.Products) > 0 {
		recommendations = append(recommendations, models.Recommendation{
			Type:     models.RecInventoryClearance,
			Priority: models.PriorityHigh,
			Title:    "Handle Expiring Products",
			Description: fmt.Sprintf("%d products expiring within %d days",
				len(descriptive.ExpiringProducts.Products), e.cfg.ExpirySoonDays),
			Actions: []string{
				"Launch clearance sales for expiring products",
				"Offer bulk discounts to clear inventory",
				"Improve inventory rotation practices",
				"Negotiate supplier return agreements",
			},
			ExpectedImpact: "Minimize losses from expired products",
			Timeline:       "2-4 weeks",
		})
	}

	out.Recommendations = recommendations
	out.PrioritySummary = tallyPriorities(recommendations)
	return out
}

// reorderPlan attaches an EOQ-based suggested order quantity to each
// understocked product. Annual demand is extrapolated from the observed
// monthly average; products with no sales history or no unit price get
// the stock gap instead.
func (e *Engine) reorderPlan(records []models.DerivedRecord, understocked []string) []models.ReorderSuggestion {
	latest := latestRecordPerProduct(records)
	_, grouped := recordsByProduct(records)

	plan := make([]models.ReorderSuggestion, 0, len(understocked))
	for _, name := range understocked {
		snapshot, ok := latest[name]
		if !ok {
			continue
		}

		suggestion := models.ReorderSuggestion{
			ProductName:  name,
			CurrentStock: snapshot.CurrentStock,
			MinimumStock: snapshot.MinimumStock,
		}

		months, totals := monthlySeries(grouped[name], func(rec models.DerivedRecord) float64 { return float64(rec.QuantitySold) })
		var monthlyUnits float64
		for _, month := range months {
			monthlyUnits += totals[month]
		}
		if len(months) > 0 {
			monthlyUnits /= float64(len(months))
		}

		annualDemand := monthlyUnits * 12
		if annualDemand > 0 && snapshot.UnitPrice > 0 {
			eoq := math.Sqrt(2 * annualDemand * e.cfg.EOQOrderingCost / (snapshot.UnitPrice * e.cfg.EOQHoldingRate))
			suggestion.SuggestedOrderQty = int(math.Ceil(eoq))
		}
		if suggestion.SuggestedOrderQty <= 0 {
			suggestion.SuggestedOrderQty = snapshot.MinimumStock - snapshot.CurrentStock
		}
		plan = append(plan, suggestion)
	}
	return plan
}

func systemRecommendation(reason string) models.Recommendation {
	return models.Recommendation{
		Type:           models.RecSystem,
		Priority:       models.PriorityHigh,
		Title:          "Analysis System Error",
		Description:    fmt.Sprintf("Error generating recommendations: %s", reason),
		Actions:        []string{"Check data quality", "Verify system configuration"},
		ExpectedImpact: "Restore full analytics capability",
		Timeline:       "Immediate",
	}
}

func tallyPriorities(recommendations []models.Recommendation) models.PrioritySummary {
	summary := models.PrioritySummary{TotalActions: len(recommendations)}
	for _, rec := range recommendations {
		switch {
		case rec.Priority >= models.PriorityHigh:
			summary.HighPriority++
		case rec.Priority == models.PriorityMedium:
			summary.MediumPriority++
		default:
			summary.LowPriority++
		}
	}
	return summary
}
