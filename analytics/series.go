package analytics

import (
	"math"
	"sort"
	"time"

	"app/models"
)

// BuildDailyAggregates buckets records by calendar day. The result is
// sorted chronologically and contains no duplicate days.
func BuildDailyAggregates(records []models.DerivedRecord) []models.DailyAggregate {
	type bucket struct {
		amount    float64
		quantity  int
		customers map[int]struct{}
	}

	byDay := make(map[string]*bucket)
	for _, rec := range records {
		key := rec.SaleDate.Format("2006-01-02")
		b, ok := byDay[key]
		if !ok {
			b = &bucket{customers: make(map[int]struct{})}
			byDay[key] = b
		}
		b.amount += rec.Amount
		b.quantity += rec.QuantitySold
		b.customers[rec.CustomerID] = struct{}{}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	aggregates := make([]models.DailyAggregate, 0, len(days))
	for _, day := range days {
		b := byDay[day]
		date, _ := time.Parse("2006-01-02", day)
		aggregates = append(aggregates, models.DailyAggregate{
			Date:              date,
			TotalAmount:       round2(b.amount),
			TotalQuantity:     b.quantity,
			DistinctCustomers: len(b.customers),
		})
	}
	return aggregates
}

// monthlySeries sums a per-record value by calendar month (YYYY-MM keys)
// and returns the months in chronological order alongside the totals.
func monthlySeries(records []models.DerivedRecord, value func(models.DerivedRecord) float64) ([]string, map[string]float64) {
	totals := make(map[string]float64)
	for _, rec := range records {
		totals[rec.SaleDate.Format("2006-01")] += value(rec)
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)
	return months, totals
}

// recordsByProduct groups records by product name with a stable name order.
func recordsByProduct(records []models.DerivedRecord) ([]string, map[string][]models.DerivedRecord) {
	grouped := make(map[string][]models.DerivedRecord)
	for _, rec := range records {
		grouped[rec.ProductName] = append(grouped[rec.ProductName], rec)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, grouped
}

// latestRecordPerProduct picks each product's most recent sale, the row
// whose stock snapshot is treated as current.
func latestRecordPerProduct(records []models.DerivedRecord) map[string]models.DerivedRecord {
	latest := make(map[string]models.DerivedRecord)
	for _, rec := range records {
		prev, ok := latest[rec.ProductName]
		if !ok || rec.SaleDate.After(prev.SaleDate) {
			latest[rec.ProductName] = rec
		}
	}
	return latest
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
