package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"app/config"
	"app/models"
)

// catalogItem is one entry of the fixed fallback catalog.
type catalogItem struct {
	name     string
	price    float64
	supplier string
	maxStock int
	minStock int
	expiry   string
}

// syntheticCatalog is the fixed product catalog used when the sales store
// is empty. Prices are already in the reporting currency.
var syntheticCatalog = map[string][]catalogItem{
	"Electronics": {
		{"iPhone 15", 129900, "Apple Store India", 15, 5, "2027-12-31"},
		{"Samsung Galaxy S24", 79999, "Samsung India", 25, 10, "2027-12-31"},
		{"OnePlus 12", 64999, "OnePlus India", 30, 12, "2027-12-31"},
		{"Boat Airdopes", 2999, "Boat Lifestyle", 80, 30, "2027-12-31"},
	},
	"Fashion & Lifestyle": {
		{"Nike Air Force 1", 7995, "Nike India", 60, 25, "2027-12-31"},
		{"Adidas Ultraboost", 16999, "Adidas", 45, 18, "2027-12-31"},
		{"Levi's 511 Jeans", 3999, "Levi's", 70, 30, "2027-12-31"},
	},
	"Home & Kitchen": {
		{"Prestige Pressure Cooker", 2999, "Prestige", 60, 25, "2030-12-31"},
		{"Bajaj Mixer Grinder", 4999, "Bajaj", 45, 20, "2030-12-31"},
		{"Philips Air Fryer", 12999, "Philips India", 25, 10, "2030-12-31"},
	},
	"Grocery & Food": {
		{"Amul Butter 500g", 250, "Amul", 300, 120, "2026-12-31"},
		{"Tata Salt 1kg", 25, "Tata Consumer", 500, 200, "2027-12-31"},
		{"Maggi Noodles", 14, "Nestle", 800, 300, "2026-11-30"},
		{"Britannia Biscuits", 35, "Britannia", 400, 150, "2026-10-31"},
	},
	"Personal Care": {
		{"Himalaya Face Wash", 149, "Himalaya", 100, 40, "2027-06-30"},
		{"Lakme Lipstick", 599, "Lakme", 80, 32, "2028-12-31"},
		{"Dove Soap", 89, "HUL", 200, 80, "2027-12-31"},
	},
}

// categoryOrder fixes catalog iteration so the generator is reproducible.
var categoryOrder = []string{
	"Electronics",
	"Fashion & Lifestyle",
	"Home & Kitchen",
	"Grocery & Food",
	"Personal Care",
}

// seasonalFactor models category-agnostic retail seasonality: the festival
// window peaks sales, the monsoon window depresses them.
func seasonalFactor(month time.Month) float64 {
	switch {
	case month == time.October || month == time.November: // festival season
		return 1.6
	case month == time.December || month == time.January || month == time.February: // wedding season
		return 1.3
	case month >= time.June && month <= time.August: // monsoon
		return 0.8
	case month == time.April || month == time.May: // summer sales
		return 1.1
	default:
		return 1.0
	}
}

// GenerateSyntheticSales produces a full year of sales for the fixed
// catalog ending at `end`, driven by cfg.Seed so the fallback path is
// reproducible and testable.
func GenerateSyntheticSales(cfg config.Config, end time.Time) []models.SaleRecord {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := end.AddDate(0, 0, -365)

	var records []models.SaleRecord
	productID := 0
	for _, category := range categoryOrder {
		for _, item := range syntheticCatalog[category] {
			productID++
			expiry, err := time.Parse("2006-01-02", item.expiry)
			var expiryPtr *time.Time
			if err == nil {
				expiryPtr = &expiry
			}
			currentStock := item.minStock + rng.Intn(item.maxStock-item.minStock)

			numSales := 200 + rng.Intn(300)
			for i := 0; i < numSales; i++ {
				saleDate := start.AddDate(0, 0, rng.Intn(365))
				factor := seasonalFactor(saleDate.Month())

				quantity := int(float64(poisson(rng, 2)) * factor)
				if quantity < 1 {
					quantity = 1
				}
				amount := item.price * float64(quantity) * (0.95 + rng.Float64()*0.10)

				records = append(records, models.SaleRecord{
					SaleID:       int64(len(records) + 1),
					ProductID:    fmt.Sprintf("SKU-%04d", productID),
					ProductName:  item.name,
					Category:     category,
					SupplierName: item.supplier,
					QuantitySold: quantity,
					Amount:       math.Round(amount*100) / 100,
					SaleDate:     saleDate,
					UnitPrice:    item.price,
					CurrentStock: currentStock,
					MinimumStock: item.minStock,
					ExpiryDate:   expiryPtr,
				})
			}
		}
	}

	return records
}

// poisson draws from a Poisson distribution via Knuth's method. Fine for
// small lambda, which is all the generator needs.
func poisson(rng *rand.Rand, lambda float64) int {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}
