package analytics

import (
	"sort"

	"app/models"

	"gonum.org/v1/gonum/stat"
)

// descriptive aggregates the derived records. Every sub-metric computes
// independently and degrades to its own failed result rather than
// aborting the stage.
func (e *Engine) descriptive(records []models.DerivedRecord) models.DescriptiveResult {
	return models.DescriptiveResult{
		BasicMetrics:        e.basicMetrics(records),
		TopProducts:         e.topProducts(records),
		CategoryPerformance: e.categoryPerformance(records),
		MonthlyTrend:        e.monthlyTrend(records),
		CustomerSegments:    e.customerSegments(records),
		ExpiringProducts:    e.expiringProducts(records),
	}
}

func (e *Engine) basicMetrics(records []models.DerivedRecord) (out models.BasicMetrics) {
	defer e.recoverSection("basic_metrics", func() { out = models.BasicMetrics{Status: models.StatusFailed} })

	out.Status = models.StatusOK
	if len(records) == 0 {
		return out
	}

	products := make(map[string]struct{})
	customers := make(map[int]struct{})
	minAmount, maxAmount := records[0].Amount, records[0].Amount
	for _, rec := range records {
		out.TotalRevenue += rec.Amount
		out.TotalProfit += rec.Profit
		products[rec.ProductName] = struct{}{}
		customers[rec.CustomerID] = struct{}{}
		if rec.Amount < minAmount {
			minAmount = rec.Amount
		}
		if rec.Amount > maxAmount {
			maxAmount = rec.Amount
		}
	}

	out.TotalTransactions = len(records)
	out.UniqueProducts = len(products)
	out.UniqueCustomers = len(customers)
	out.AvgOrderValue = round2(out.TotalRevenue / float64(len(records)))
	// Margin is zero when revenue is zero, never a division error.
	if out.TotalRevenue > 0 {
		out.ProfitMargin = round2(out.TotalProfit / out.TotalRevenue * 100)
	}
	out.TotalRevenue = round2(out.TotalRevenue)
	out.TotalProfit = round2(out.TotalProfit)
	out.MinSaleAmount = round2(minAmount)
	out.MaxSaleAmount = round2(maxAmount)

	var minDate, maxDate = records[0].SaleDate, records[0].SaleDate
	for _, rec := range records {
		if rec.SaleDate.Before(minDate) {
			minDate = rec.SaleDate
		}
		if rec.SaleDate.After(maxDate) {
			maxDate = rec.SaleDate
		}
	}
	out.MinSaleDate = minDate.Format("2006-01-02")
	out.MaxSaleDate = maxDate.Format("2006-01-02")
	return out
}

func (e *Engine) topProducts(records []models.DerivedRecord) (out models.TopProducts) {
	defer e.recoverSection("top_products", func() { out = models.TopProducts{Status: models.StatusFailed} })

	out.Status = models.StatusOK
	out.Products = []models.ProductSummary{}

	names, grouped := recordsByProduct(records)
	latest := latestRecordPerProduct(records)

	summaries := make([]models.ProductSummary, 0, len(names))
	for _, name := range names {
		recs := grouped[name]
		var revenue float64
		var units int
		for _, rec := range recs {
			revenue += rec.Amount
			units += rec.QuantitySold
		}
		snapshot := latest[name]
		summaries = append(summaries, models.ProductSummary{
			ProductName:      name,
			Category:         snapshot.Category,
			TotalRevenue:     round2(revenue),
			AvgPrice:         round2(revenue / float64(len(recs))),
			TransactionCount: len(recs),
			TotalUnitsSold:   units,
			CurrentStock:     snapshot.CurrentStock,
			MinimumStock:     snapshot.MinimumStock,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalRevenue > summaries[j].TotalRevenue
	})
	if len(summaries) > e.cfg.TopProductsN {
		summaries = summaries[:e.cfg.TopProductsN]
	}
	out.Products = summaries
	return out
}

func (e *Engine) categoryPerformance(records []models.DerivedRecord) (out models.CategoryRollup) {
	defer e.recoverSection("category_performance", func() { out = models.CategoryRollup{Status: models.StatusFailed} })

	out.Status = models.StatusOK
	out.Categories = []models.CategoryPerformance{}

	type rollup struct {
		revenue  float64
		quantity int
		profit   float64
	}
	byCategory := make(map[string]*rollup)
	for _, rec := range records {
		r, ok := byCategory[rec.Category]
		if !ok {
			r = &rollup{}
			byCategory[rec.Category] = r
		}
		r.revenue += rec.Amount
		r.quantity += rec.QuantitySold
		r.profit += rec.Profit
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		r := byCategory[category]
		out.Categories = append(out.Categories, models.CategoryPerformance{
			Category:     category,
			Revenue:      round2(r.revenue),
			QuantitySold: r.quantity,
			Profit:       round2(r.profit),
		})
	}
	return out
}

func (e *Engine) monthlyTrend(records []models.DerivedRecord) (out models.MonthlyTrend) {
	defer e.recoverSection("monthly_trend", func() { out = models.MonthlyTrend{Status: models.StatusFailed} })

	out.Status = models.StatusOK
	out.Months = []models.MonthlyRevenue{}

	months, totals := monthlySeries(records, func(rec models.DerivedRecord) float64 { return rec.Amount })
	for _, month := range months {
		out.Months = append(out.Months, models.MonthlyRevenue{
			Month:   month,
			Revenue: round2(totals[month]),
		})
	}
	return out
}

// customerSegments applies a lightweight recency/frequency/monetary rule
// set in fixed order; the first matching rule wins.
func (e *Engine) customerSegments(records []models.DerivedRecord) (out models.CustomerSegments) {
	defer e.recoverSection("customer_segments", func() { out = models.CustomerSegments{Status: models.StatusFailed} })

	out.Status = models.StatusOK
	out.Counts = map[string]int{}
	if len(records) == 0 {
		return out
	}

	type customer struct {
		spend        float64
		frequency    int
		lastPurchase int64 // unix
	}
	byCustomer := make(map[int]*customer)
	for _, rec := range records {
		c, ok := byCustomer[rec.CustomerID]
		if !ok {
			c = &customer{}
			byCustomer[rec.CustomerID] = c
		}
		c.spend += rec.Amount
		c.frequency++
		if ts := rec.SaleDate.Unix(); ts > c.lastPurchase {
			c.lastPurchase = ts
		}
	}

	spends := make([]float64, 0, len(byCustomer))
	for _, c := range byCustomer {
		spends = append(spends, c.spend)
	}
	sort.Float64s(spends)
	vipThreshold := stat.Quantile(e.cfg.VIPSpendQuantile, stat.Empirical, spends, nil)

	latest := maxSaleDate(records).Unix()
	for _, c := range byCustomer {
		recencyDays := int((latest - c.lastPurchase) / 86400)
		switch {
		case c.spend > vipThreshold && recencyDays < e.cfg.VIPRecencyDays:
			out.Counts[models.SegmentVIP]++
		case c.frequency > e.cfg.LoyalMinFrequency && recencyDays < e.cfg.LoyalRecencyDays:
			out.Counts[models.SegmentLoyal]++
		case recencyDays > e.cfg.AtRiskRecencyDays:
			out.Counts[models.SegmentAtRisk]++
		default:
			out.Counts[models.SegmentRegular]++
		}
	}
	return out
}

func (e *Engine) expiringProducts(records []models.DerivedRecord) (out models.ExpiringReport) {
	defer e.recoverSection("expiring_products", func() { out = models.ExpiringReport{Status: models.StatusFailed} })

	out.Status = models.StatusOK
	out.Products = []models.ExpiringProduct{}

	type expiring struct {
		units int
		days  int
	}
	byProduct := make(map[string]*expiring)
	for _, rec := range records {
		if !rec.ExpiringSoon || rec.DaysToExpiry == nil {
			continue
		}
		p, ok := byProduct[rec.ProductName]
		if !ok {
			p = &expiring{days: *rec.DaysToExpiry}
			byProduct[rec.ProductName] = p
		}
		p.units += rec.QuantitySold
		out.TotalUnits += rec.QuantitySold
	}

	names := make([]string, 0, len(byProduct))
	for name := range byProduct {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := byProduct[name]
		out.Products = append(out.Products, models.ExpiringProduct{
			ProductName:  name,
			Units:        p.units,
			DaysToExpiry: p.days,
		})
	}
	return out
}
