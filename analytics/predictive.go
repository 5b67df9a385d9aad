package analytics

import (
	"context"
	"math"
	"sort"

	"app/models"

	"gonum.org/v1/gonum/stat"
)

// predictive produces the sales forecast, churn risk and per-product
// demand estimates.
func (e *Engine) predictive(ctx context.Context, records []models.DerivedRecord, daily []models.DailyAggregate) models.PredictiveResult {
	return models.PredictiveResult{
		SalesForecast:  e.salesForecast(ctx, daily),
		ChurnRisk:      e.churnRisk(records),
		DemandForecast: e.demandForecast(records),
	}
}

// salesForecast fits an ordinary least-squares trend over the daily
// aggregate and projects it forward. Below the minimum history it
// reports the insufficient-data marker with no numeric fields.
func (e *Engine) salesForecast(ctx context.Context, daily []models.DailyAggregate) (out models.SalesForecast) {
	defer e.recoverSection("sales_forecast", func() { out = models.SalesForecast{Status: models.StatusFailed} })

	if len(daily) < e.cfg.MinForecastDays {
		out.Status = models.StatusInsufficientData
		out.Reason = "insufficient history for forecasting"
		return out
	}
	if err := ctx.Err(); err != nil {
		out.Status = models.StatusFailed
		out.Reason = err.Error()
		return out
	}

	origin := daily[0].Date
	xs := make([]float64, len(daily))
	ys := make([]float64, len(daily))
	for i, day := range daily {
		xs[i] = day.Date.Sub(origin).Hours() / 24
		ys[i] = day.TotalAmount
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)

	lastDay := xs[len(xs)-1]
	var total float64
	for d := 1; d <= e.cfg.ForecastHorizonDays; d++ {
		total += alpha + beta*(lastDay+float64(d))
	}

	trend := "decreasing"
	if beta > 0 {
		trend = "increasing"
	}

	out.Status = models.StatusOK
	out.ForecastProjection = &models.ForecastProjection{
		NextPeriodTotal: round2(total),
		DailyAverage:    round2(total / float64(e.cfg.ForecastHorizonDays)),
		Trend:           trend,
		Confidence:      round3(clamp01(r2)),
	}
	return out
}

// churnRisk classifies customers by recency against the latest date in
// the dataset, not the wall clock.
func (e *Engine) churnRisk(records []models.DerivedRecord) (out models.ChurnRisk) {
	defer e.recoverSection("churn_prediction", func() { out = models.ChurnRisk{Status: models.StatusFailed, AtRiskCustomers: []int{}} })

	out.Status = models.StatusOK
	out.AtRiskCustomers = []int{}
	if len(records) == 0 {
		return out
	}

	lastPurchase := make(map[int]int64)
	for _, rec := range records {
		if ts := rec.SaleDate.Unix(); ts > lastPurchase[rec.CustomerID] {
			lastPurchase[rec.CustomerID] = ts
		}
	}

	latest := maxSaleDate(records).Unix()
	var atRisk []int
	for customer, ts := range lastPurchase {
		recencyDays := int((latest - ts) / 86400)
		if recencyDays > e.cfg.ChurnRecencyDays {
			atRisk = append(atRisk, customer)
		}
	}
	sort.Ints(atRisk)

	out.AtRiskCount = len(atRisk)
	if len(atRisk) > e.cfg.ChurnSampleLimit {
		atRisk = atRisk[:e.cfg.ChurnSampleLimit]
	}
	out.AtRiskCustomers = atRisk
	out.ChurnRate = round2(float64(out.AtRiskCount) / float64(len(lastPurchase)) * 100)
	return out
}

// demandForecast reports average monthly units sold for the products with
// the most transactions. Products with no monthly history are skipped.
func (e *Engine) demandForecast(records []models.DerivedRecord) (out models.DemandForecast) {
	defer e.recoverSection("demand_forecast", func() { out = models.DemandForecast{Status: models.StatusFailed} })

	out.Status = models.StatusOK
	out.Products = []models.ProductDemand{}

	names, grouped := recordsByProduct(records)
	sort.SliceStable(names, func(i, j int) bool {
		if len(grouped[names[i]]) != len(grouped[names[j]]) {
			return len(grouped[names[i]]) > len(grouped[names[j]])
		}
		return names[i] < names[j]
	})
	if len(names) > e.cfg.TopProductsN {
		names = names[:e.cfg.TopProductsN]
	}

	for _, name := range names {
		months, totals := monthlySeries(grouped[name], func(rec models.DerivedRecord) float64 { return float64(rec.QuantitySold) })
		if len(months) == 0 {
			continue
		}
		var sum float64
		for _, month := range months {
			sum += totals[month]
		}
		out.Products = append(out.Products, models.ProductDemand{
			ProductName:     name,
			AvgMonthlyUnits: round2(sum / float64(len(months))),
		})
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
