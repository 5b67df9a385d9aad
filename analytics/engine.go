package analytics

import (
	"context"
	"time"

	"app/config"
	"app/models"

	"github.com/sirupsen/logrus"
)

// Engine runs the four analysis stages in dependency order over one batch
// of derived records. A failing section degrades to its empty result with
// a logged diagnostic; sibling sections and stages are unaffected.
type Engine struct {
	cfg config.Config
	log *logrus.Logger
}

func NewEngine(cfg config.Config, log *logrus.Logger) *Engine {
	return &Engine{cfg: cfg, log: log}
}

// Analyze executes descriptive, diagnostic, predictive and prescriptive
// analysis and assembles the result bundle. The bundle is complete on
// return and must not be mutated afterwards.
func (e *Engine) Analyze(ctx context.Context, records []models.DerivedRecord, source string) *models.AnalysisResult {
	result := &models.AnalysisResult{}

	daily := BuildDailyAggregates(records)

	result.Descriptive = e.descriptive(records)
	result.Diagnostic = e.diagnostic(ctx, records, daily)
	result.Predictive = e.predictive(ctx, records, daily)
	result.Prescriptive = e.prescriptive(records, result.Descriptive, result.Diagnostic, result.Predictive)
	result.Metadata = e.metadata(records, source)

	return result
}

func (e *Engine) metadata(records []models.DerivedRecord, source string) models.Metadata {
	meta := models.Metadata{
		TotalRecords: len(records),
		Currency:     e.cfg.Currency,
		Source:       source,
	}

	var min, max time.Time
	for _, rec := range records {
		if min.IsZero() || rec.SaleDate.Before(min) {
			min = rec.SaleDate
		}
		if max.IsZero() || rec.SaleDate.After(max) {
			max = rec.SaleDate
		}
	}
	if !min.IsZero() {
		meta.AnalysisPeriod = models.AnalysisPeriod{
			Start: min.Format("2006-01-02"),
			End:   max.Format("2006-01-02"),
		}
	}
	return meta
}

// recoverSection converts a panic inside one section computation into that
// section's empty result, keeping the rest of the run alive.
func (e *Engine) recoverSection(section string, fallback func()) {
	if r := recover(); r != nil {
		e.log.WithField("section", section).Errorf("section computation failed: %v", r)
		fallback()
	}
}

// maxSaleDate returns the latest sale date in the batch; recency windows
// are measured against it rather than the wall clock.
func maxSaleDate(records []models.DerivedRecord) time.Time {
	var max time.Time
	for _, rec := range records {
		if rec.SaleDate.After(max) {
			max = rec.SaleDate
		}
	}
	return max
}
