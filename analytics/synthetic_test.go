package analytics

import (
	"testing"
	"time"

	"app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSyntheticSalesIsDeterministic(t *testing.T) {
	cfg := config.Default()
	end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	first := GenerateSyntheticSales(cfg, end)
	second := GenerateSyntheticSales(cfg, end)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}

func TestGenerateSyntheticSalesShape(t *testing.T) {
	cfg := config.Default()
	end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -365)

	records := GenerateSyntheticSales(cfg, end)
	require.NotEmpty(t, records)

	products := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, rec := range records {
		products[rec.ProductName] = struct{}{}
		categories[rec.Category] = struct{}{}
		assert.Greater(t, rec.Amount, 0.0)
		assert.GreaterOrEqual(t, rec.QuantitySold, 1)
		assert.False(t, rec.SaleDate.Before(start), "sale before window: %s", rec.SaleDate)
		assert.False(t, rec.SaleDate.After(end), "sale after window: %s", rec.SaleDate)
		assert.NotEmpty(t, rec.SupplierName)
	}
	assert.Len(t, categories, len(categoryOrder))
	assert.Equal(t, 17, len(products))
}

func TestSeasonalFactor(t *testing.T) {
	assert.Equal(t, 1.6, seasonalFactor(time.October))
	assert.Equal(t, 1.6, seasonalFactor(time.November))
	assert.Equal(t, 1.3, seasonalFactor(time.December))
	assert.Equal(t, 1.3, seasonalFactor(time.January))
	assert.Equal(t, 0.8, seasonalFactor(time.July))
	assert.Equal(t, 1.1, seasonalFactor(time.April))
	assert.Equal(t, 1.0, seasonalFactor(time.March))
	assert.Equal(t, 1.0, seasonalFactor(time.September))
}
