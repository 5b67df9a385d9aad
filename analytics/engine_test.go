package analytics

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"app/config"
	"app/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEngine() *Engine {
	return NewEngine(config.Default(), testLogger())
}

// saleOn builds a derived record with the financial fields the normalizer
// would have produced at the default cost rate.
func saleOn(product, category string, amount float64, date time.Time, customer, currentStock, minimumStock int) models.DerivedRecord {
	d := models.DerivedRecord{SaleRecord: models.SaleRecord{
		ProductName:  product,
		Category:     category,
		Amount:       amount,
		QuantitySold: 1,
		SaleDate:     date,
		UnitPrice:    amount,
		CurrentStock: currentStock,
		MinimumStock: minimumStock,
	}}
	d.Cost = amount * 0.7
	d.Profit = amount - d.Cost
	if amount > 0 {
		d.ProfitMargin = d.Profit / amount * 100
	}
	d.CustomerID = customer
	return d
}

func day(offset int) time.Time {
	return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestUnderstockedProductIsFlagged(t *testing.T) {
	e := newTestEngine()

	records := make([]models.DerivedRecord, 0, 5)
	for i := 0; i < 5; i++ {
		records = append(records, saleOn("Widget", "Gadgets", 100, day(i), i+1, 5, 10))
	}

	result := e.Analyze(context.Background(), records, SourceDatabase)

	issues := result.Diagnostic.InventoryIssues
	assert.Equal(t, models.StatusOK, issues.Status)
	assert.Contains(t, issues.Understocked, "Widget")
	assert.Equal(t, 1, issues.UnderstockedCount)
	assert.Empty(t, issues.Overstocked)

	metrics := result.Descriptive.BasicMetrics
	assert.Equal(t, models.StatusOK, metrics.Status)
	assert.InDelta(t, 500, metrics.TotalRevenue, 0.001)
	assert.Equal(t, 5, metrics.TotalTransactions)
}

func TestOverstockedProductIsFlagged(t *testing.T) {
	e := newTestEngine()

	// 65 > 3 * 20, strictly above the multiplier
	records := []models.DerivedRecord{
		saleOn("Pallet", "Bulk", 100, day(0), 1, 65, 20),
	}

	issues := e.inventoryIssues(records)
	assert.Contains(t, issues.Overstocked, "Pallet")
	assert.Empty(t, issues.Understocked)

	// Exactly at the multiplier is not overstocked.
	records[0].CurrentStock = 60
	issues = e.inventoryIssues(records)
	assert.Empty(t, issues.Overstocked)
}

func TestZeroRevenueYieldsZeroMargin(t *testing.T) {
	e := newTestEngine()

	records := []models.DerivedRecord{
		saleOn("Freebie", "Promo", 0, day(0), 1, 10, 5),
	}

	metrics := e.basicMetrics(records)
	assert.Equal(t, models.StatusOK, metrics.Status)
	assert.Zero(t, metrics.TotalRevenue)
	assert.Zero(t, metrics.ProfitMargin)
}

func TestCategoryRevenueSumsToTotal(t *testing.T) {
	e := newTestEngine()

	records := []models.DerivedRecord{
		saleOn("A", "Alpha", 123.45, day(0), 1, 10, 5),
		saleOn("B", "Beta", 678.90, day(1), 2, 10, 5),
		saleOn("C", "Alpha", 11.11, day(2), 3, 10, 5),
	}

	result := e.Analyze(context.Background(), records, SourceDatabase)

	var sum float64
	for _, c := range result.Descriptive.CategoryPerformance.Categories {
		sum += c.Revenue
	}
	assert.InDelta(t, result.Descriptive.BasicMetrics.TotalRevenue, sum, 0.05)
}

func TestCustomerSegmentRules(t *testing.T) {
	e := newTestEngine()
	latest := day(100)

	var records []models.DerivedRecord
	// Customers 1-4 anchor the spend distribution; customer 5 is the big
	// recent spender that should clear the VIP quantile.
	for i, spend := range []float64{100, 200, 300, 400} {
		records = append(records, saleOn("A", "Alpha", spend, latest.AddDate(0, 0, -10), i+1, 10, 5))
	}
	records = append(records, saleOn("A", "Alpha", 1000, latest.AddDate(0, 0, -5), 5, 10, 5))
	// Customer 6 last bought 91 days before the latest sale.
	records = append(records, saleOn("A", "Alpha", 50, latest.AddDate(0, 0, -91), 6, 10, 5))
	// Anchor the dataset max date.
	records = append(records, saleOn("A", "Alpha", 10, latest, 7, 10, 5))

	segments := e.customerSegments(records)
	require.Equal(t, models.StatusOK, segments.Status)
	assert.Equal(t, 1, segments.Counts[models.SegmentVIP])
	assert.Equal(t, 1, segments.Counts[models.SegmentAtRisk])

	var total int
	for _, count := range segments.Counts {
		total += count
	}
	assert.Equal(t, 7, total)
}

func TestLoyalSegmentRequiresFrequency(t *testing.T) {
	e := newTestEngine()
	latest := day(100)

	var records []models.DerivedRecord
	// Customer 1: six small purchases inside the loyalty window.
	for i := 0; i < 6; i++ {
		records = append(records, saleOn("A", "Alpha", 10, latest.AddDate(0, 0, -i), 1, 10, 5))
	}
	// Customer 2 anchors the quantile above customer 1's spend.
	records = append(records, saleOn("A", "Alpha", 5000, latest, 2, 10, 5))

	segments := e.customerSegments(records)
	require.Equal(t, models.StatusOK, segments.Status)
	assert.Equal(t, 1, segments.Counts[models.SegmentLoyal])
}

func TestForecastInsufficientHistoryHasNoNumericFields(t *testing.T) {
	e := newTestEngine()

	daily := []models.DailyAggregate{
		{Date: day(0), TotalAmount: 100},
		{Date: day(1), TotalAmount: 110},
		{Date: day(2), TotalAmount: 120},
	}

	forecast := e.salesForecast(context.Background(), daily)
	assert.Equal(t, models.StatusInsufficientData, forecast.Status)
	assert.Nil(t, forecast.ForecastProjection)

	raw, err := json.Marshal(forecast)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "next_30_days_total")
	assert.NotContains(t, string(raw), "daily_average")
}

func TestForecastFitsLinearTrend(t *testing.T) {
	e := newTestEngine()

	daily := make([]models.DailyAggregate, 10)
	for i := range daily {
		daily[i] = models.DailyAggregate{Date: day(i), TotalAmount: float64(100 + 100*i)}
	}

	forecast := e.salesForecast(context.Background(), daily)
	require.Equal(t, models.StatusOK, forecast.Status)
	require.NotNil(t, forecast.ForecastProjection)
	assert.Equal(t, "increasing", forecast.Trend)
	assert.InDelta(t, 1.0, forecast.Confidence, 0.001)
	// alpha=100, beta=100: sum over the next 30 days past day index 9.
	assert.InDelta(t, 76500, forecast.NextPeriodTotal, 1)
	assert.InDelta(t, 2550, forecast.DailyAverage, 0.1)
}

func TestChurnRiskUsesDatasetRecency(t *testing.T) {
	e := newTestEngine()
	latest := day(100)

	records := []models.DerivedRecord{
		saleOn("A", "Alpha", 100, latest, 1, 10, 5),
		saleOn("A", "Alpha", 100, latest.AddDate(0, 0, -61), 2, 10, 5),
	}

	churn := e.churnRisk(records)
	require.Equal(t, models.StatusOK, churn.Status)
	assert.Equal(t, 1, churn.AtRiskCount)
	assert.Equal(t, []int{2}, churn.AtRiskCustomers)
	assert.InDelta(t, 50, churn.ChurnRate, 0.001)
}

func TestAnomaliesInsufficientHistory(t *testing.T) {
	e := newTestEngine()

	daily := make([]models.DailyAggregate, 10)
	for i := range daily {
		daily[i] = models.DailyAggregate{Date: day(i), TotalAmount: 100}
	}

	report := e.anomalies(context.Background(), daily)
	assert.Equal(t, models.StatusInsufficientData, report.Status)
	assert.Empty(t, report.Dates)
}

func TestAnomaliesFlagSpikeDay(t *testing.T) {
	e := newTestEngine()

	daily := make([]models.DailyAggregate, 30)
	for i := range daily {
		daily[i] = models.DailyAggregate{
			Date:              day(i),
			TotalAmount:       100 + float64(i%5),
			TotalQuantity:     5,
			DistinctCustomers: 3,
		}
	}
	spike := day(15)
	daily[15] = models.DailyAggregate{Date: spike, TotalAmount: 10000, TotalQuantity: 200, DistinctCustomers: 50}

	report := e.anomalies(context.Background(), daily)
	require.Equal(t, models.StatusOK, report.Status)
	// contamination 0.1 over 30 days flags exactly 3
	assert.Equal(t, 3, report.Count)
	assert.Contains(t, report.Dates, spike.Format("2006-01-02"))
}

func TestDecliningProductDetection(t *testing.T) {
	e := newTestEngine()

	var records []models.DerivedRecord
	for month, revenue := range map[time.Month]float64{
		time.January:  1000,
		time.February: 1000,
		time.March:    100,
		time.April:    100,
	} {
		records = append(records, saleOn("Fader", "Alpha",
			revenue, time.Date(2025, month, 15, 0, 0, 0, 0, time.UTC), 1, 10, 5))
	}
	// A stable product must not be flagged.
	for _, month := range []time.Month{time.January, time.February, time.March, time.April} {
		records = append(records, saleOn("Steady", "Alpha",
			500, time.Date(2025, month, 15, 0, 0, 0, 0, time.UTC), 2, 10, 5))
	}

	report := e.decliningProducts(records)
	require.Equal(t, models.StatusOK, report.Status)
	require.Len(t, report.Products, 1)
	assert.Equal(t, "Fader", report.Products[0].ProductName)
	assert.InDelta(t, -90, report.Products[0].ChangePct, 0.01)
}

func TestCorrelationMatrixShape(t *testing.T) {
	e := newTestEngine()

	records := []models.DerivedRecord{
		saleOn("A", "Alpha", 100, day(0), 1, 10, 5),
		saleOn("A", "Alpha", 200, day(1), 2, 10, 5),
		saleOn("A", "Alpha", 300, day(2), 3, 10, 5),
	}

	corr := e.correlations(records)
	require.Equal(t, models.StatusOK, corr.Status)
	require.Len(t, corr.Matrix, len(corr.Columns))
	for i, row := range corr.Matrix {
		require.Len(t, row, len(corr.Columns))
		assert.Equal(t, 1.0, row[i])
		for _, v := range row {
			assert.False(t, v < -1 || v > 1, "correlation out of range: %v", v)
		}
	}
}

func TestExpiringProductsTriggerClearance(t *testing.T) {
	e := newTestEngine()

	ten := 10
	rec := saleOn("Milk", "Grocery", 100, day(0), 1, 10, 5)
	rec.DaysToExpiry = &ten
	rec.ExpiringSoon = true
	rec.QuantitySold = 4
	records := []models.DerivedRecord{rec}

	result := e.Analyze(context.Background(), records, SourceDatabase)

	expiring := result.Descriptive.ExpiringProducts
	require.Equal(t, models.StatusOK, expiring.Status)
	require.Len(t, expiring.Products, 1)
	assert.Equal(t, "Milk", expiring.Products[0].ProductName)
	assert.Equal(t, 4, expiring.TotalUnits)

	var found bool
	for _, r := range result.Prescriptive.Recommendations {
		if r.Type == models.RecInventoryClearance {
			found = true
		}
	}
	assert.True(t, found, "expected an inventory clearance recommendation")
}

func TestRestockRecommendationCarriesReorderPlan(t *testing.T) {
	e := newTestEngine()

	var records []models.DerivedRecord
	for i := 0; i < 10; i++ {
		records = append(records, saleOn("Widget", "Gadgets", 100, day(i), i+1, 2, 10))
	}

	result := e.Analyze(context.Background(), records, SourceDatabase)

	var restock *models.Recommendation
	for i, r := range result.Prescriptive.Recommendations {
		if r.Type == models.RecInventoryRestock {
			restock = &result.Prescriptive.Recommendations[i]
		}
	}
	require.NotNil(t, restock, "expected a restock recommendation")
	require.Len(t, restock.ReorderPlan, 1)

	plan := restock.ReorderPlan[0]
	assert.Equal(t, "Widget", plan.ProductName)
	assert.Equal(t, 2, plan.CurrentStock)
	assert.Equal(t, 10, plan.MinimumStock)
	assert.Greater(t, plan.SuggestedOrderQty, 0)
}

func TestRecommendationPrioritiesWithinScale(t *testing.T) {
	e := newTestEngine()

	// Low-margin, understocked, churning data triggers several rules.
	latest := day(100)
	var records []models.DerivedRecord
	for i := 0; i < 10; i++ {
		rec := saleOn("Widget", "Gadgets", 100, latest.AddDate(0, 0, -i), i+1, 2, 10)
		rec.Profit = 5
		rec.ProfitMargin = 5
		records = append(records, rec)
	}
	records = append(records, saleOn("Widget", "Gadgets", 100, latest.AddDate(0, 0, -80), 99, 2, 10))

	result := e.Analyze(context.Background(), records, SourceDatabase)

	out := result.Prescriptive
	require.NotEmpty(t, out.Recommendations)
	for _, r := range out.Recommendations {
		assert.GreaterOrEqual(t, r.Priority, 1)
		assert.LessOrEqual(t, r.Priority, 5)
	}
	summary := out.PrioritySummary
	assert.Equal(t, len(out.Recommendations), summary.TotalActions)
	assert.Equal(t, summary.TotalActions, summary.HighPriority+summary.MediumPriority+summary.LowPriority)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	cfg := config.Default()
	e := NewEngine(cfg, testLogger())

	end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	records := Normalize(cfg, GenerateSyntheticSales(cfg, end), 1, end)

	first := e.Analyze(context.Background(), records, SourceSynthetic)
	second := e.Analyze(context.Background(), records, SourceSynthetic)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestAnalyzeEmptyInput(t *testing.T) {
	e := newTestEngine()

	result := e.Analyze(context.Background(), nil, SourceDatabase)

	assert.Equal(t, 0, result.Metadata.TotalRecords)
	assert.Equal(t, models.StatusOK, result.Descriptive.BasicMetrics.Status)
	assert.Zero(t, result.Descriptive.BasicMetrics.TotalRevenue)
	assert.Equal(t, models.StatusInsufficientData, result.Diagnostic.Anomalies.Status)
	assert.Equal(t, models.StatusInsufficientData, result.Predictive.SalesForecast.Status)
}
