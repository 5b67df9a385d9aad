package analytics

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"app/models"

	"gonum.org/v1/gonum/stat"
)

// diagnostic runs anomaly detection, correlation, decline detection and
// inventory classification over the derived table.
func (e *Engine) diagnostic(ctx context.Context, records []models.DerivedRecord, daily []models.DailyAggregate) models.DiagnosticResult {
	return models.DiagnosticResult{
		Anomalies:         e.anomalies(ctx, daily),
		Correlations:      e.correlations(records),
		DecliningProducts: e.decliningProducts(records),
		InventoryIssues:   e.inventoryIssues(records),
	}
}

// anomalies flags unusual sales days with an isolation forest over one
// feature vector per day. Below the minimum history it reports an empty
// flagged list, not an error.
func (e *Engine) anomalies(ctx context.Context, daily []models.DailyAggregate) (out models.AnomalyReport) {
	defer e.recoverSection("anomalies", func() { out = models.AnomalyReport{Status: models.StatusFailed, Dates: []string{}} })

	out.Dates = []string{}
	if len(daily) < e.cfg.MinAnomalyDays {
		out.Status = models.StatusInsufficientData
		return out
	}
	if err := ctx.Err(); err != nil {
		out.Status = models.StatusFailed
		return out
	}
	out.Status = models.StatusOK

	features := make([][]float64, len(daily))
	for i, day := range daily {
		features[i] = []float64{day.TotalAmount, float64(day.TotalQuantity), float64(day.DistinctCustomers)}
	}

	rng := rand.New(rand.NewSource(e.cfg.Seed))
	forest := newIsolationForest(e.cfg.IsolationTrees, rng, features)
	scores := forest.scores(features)

	// The contamination rate fixes how many days get flagged: the top
	// fraction of anomaly scores.
	flagCount := int(math.Floor(e.cfg.Contamination * float64(len(daily))))
	if flagCount == 0 {
		return out
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })

	flagged := order[:flagCount]
	sort.Ints(flagged)
	for _, idx := range flagged {
		out.Dates = append(out.Dates, daily[idx].Date.Format("2006-01-02"))
	}
	out.Count = len(out.Dates)
	return out
}

// correlations builds a Pearson matrix over the numeric columns. With
// fewer than two columns the matrix is omitted entirely.
func (e *Engine) correlations(records []models.DerivedRecord) (out models.CorrelationMatrix) {
	defer e.recoverSection("correlations", func() { out = models.CorrelationMatrix{Status: models.StatusFailed} })

	columns := []string{"amount", "quantity_sold", "profit", "profit_margin"}
	series := map[string][]float64{}
	for _, rec := range records {
		series["amount"] = append(series["amount"], rec.Amount)
		series["quantity_sold"] = append(series["quantity_sold"], float64(rec.QuantitySold))
		series["profit"] = append(series["profit"], rec.Profit)
		series["profit_margin"] = append(series["profit_margin"], rec.ProfitMargin)
	}

	if len(records) == 0 || len(columns) < 2 {
		out.Status = models.StatusInsufficientData
		return out
	}
	out.Status = models.StatusOK
	out.Columns = columns

	out.Matrix = make([][]float64, len(columns))
	for i, a := range columns {
		out.Matrix[i] = make([]float64, len(columns))
		for j, b := range columns {
			if i == j {
				out.Matrix[i][j] = 1
				continue
			}
			r := stat.Correlation(series[a], series[b], nil)
			if math.IsNaN(r) {
				r = 0
			}
			out.Matrix[i][j] = round3(r)
		}
	}
	return out
}

// decliningProducts compares each product's two most recent months of
// revenue against its two earliest. Products with under three months of
// history are skipped, not flagged.
func (e *Engine) decliningProducts(records []models.DerivedRecord) (out models.DecliningReport) {
	defer e.recoverSection("declining_products", func() { out = models.DecliningReport{Status: models.StatusFailed} })

	out.Status = models.StatusOK
	out.Products = []models.DecliningProduct{}

	names, grouped := recordsByProduct(records)
	for _, name := range names {
		months, totals := monthlySeries(grouped[name], func(rec models.DerivedRecord) float64 { return rec.Amount })
		if len(months) < 3 {
			continue
		}

		earlier := (totals[months[0]] + totals[months[1]]) / 2
		recent := (totals[months[len(months)-2]] + totals[months[len(months)-1]]) / 2
		if earlier <= 0 {
			continue
		}

		changePct := (recent - earlier) / earlier * 100
		if changePct < e.cfg.DeclineThresholdPct {
			out.Products = append(out.Products, models.DecliningProduct{
				ProductName: name,
				ChangePct:   round2(changePct),
			})
		}
	}
	return out
}

// inventoryIssues classifies each product at most once: understocked
// below minimum, overstocked above the multiplier. The thresholds do not
// overlap, so the classes are mutually exclusive by construction.
func (e *Engine) inventoryIssues(records []models.DerivedRecord) (out models.InventoryIssues) {
	defer e.recoverSection("inventory_issues", func() {
		out = models.InventoryIssues{Status: models.StatusFailed, Understocked: []string{}, Overstocked: []string{}}
	})

	out.Status = models.StatusOK
	out.Understocked = []string{}
	out.Overstocked = []string{}

	latest := latestRecordPerProduct(records)
	names := make([]string, 0, len(latest))
	for name := range latest {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rec := latest[name]
		switch {
		case rec.CurrentStock < rec.MinimumStock:
			out.Understocked = append(out.Understocked, name)
		case float64(rec.CurrentStock) > e.cfg.OverstockMultiplier*float64(rec.MinimumStock):
			out.Overstocked = append(out.Overstocked, name)
		}
	}
	out.UnderstockedCount = len(out.Understocked)
	out.OverstockedCount = len(out.Overstocked)
	return out
}
