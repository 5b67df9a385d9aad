package analytics

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"app/config"
	"app/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildChatContextNilResult(t *testing.T) {
	assert.Equal(t, "No analysis data available", BuildChatContext(nil))
}

func TestBuildChatContextSections(t *testing.T) {
	cfg := config.Default()
	e := NewEngine(cfg, testLogger())

	end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	records := Normalize(cfg, GenerateSyntheticSales(cfg, end), 1, end)
	result := e.Analyze(context.Background(), records, SourceSynthetic)

	text := BuildChatContext(result)
	for _, section := range []string{
		"BUSINESS OVERVIEW:",
		"TOP SELLING PRODUCTS:",
		"CATEGORY PERFORMANCE:",
		"CUSTOMER SEGMENTS:",
		"INVENTORY ISSUES:",
		"SALES FORECAST (30 DAYS):",
		"ANALYSIS PERIOD:",
	} {
		assert.Contains(t, text, section)
	}
	assert.Contains(t, text, "₹")
	assert.LessOrEqual(t, len(text), maxChatContextLen)
}

func TestBuildChatContextIsBounded(t *testing.T) {
	result := &models.AnalysisResult{}
	for i := 0; i < 500; i++ {
		result.Descriptive.TopProducts.Products = append(result.Descriptive.TopProducts.Products,
			models.ProductSummary{
				ProductName:  fmt.Sprintf("Product %d with a deliberately very long display name", i),
				Category:     "Catalog Stress",
				TotalRevenue: float64(i) * 1000,
			})
	}

	text := BuildChatContext(result)
	assert.LessOrEqual(t, len(text), maxChatContextLen)
}

func TestJoinOrNone(t *testing.T) {
	assert.Equal(t, "none", joinOrNone(nil))
	assert.Equal(t, "a, b", joinOrNone([]string{"a", "b"}))

	many := make([]string, 15)
	for i := range many {
		many[i] = fmt.Sprintf("p%d", i)
	}
	joined := joinOrNone(many)
	assert.Equal(t, 10, strings.Count(joined, "p"))
}
