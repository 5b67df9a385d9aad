package models

// SectionStatus distinguishes a legitimately-zero section from one that
// could not be computed. Consumers must check it before reading values.
type SectionStatus string

const (
	StatusOK               SectionStatus = "ok"
	StatusInsufficientData SectionStatus = "insufficient_data"
	StatusFailed           SectionStatus = "failed"
)

// --- Descriptive ---

type BasicMetrics struct {
	Status            SectionStatus `json:"status"`
	TotalRevenue      float64       `json:"total_revenue"`
	TotalProfit       float64       `json:"total_profit"`
	TotalTransactions int           `json:"total_transactions"`
	UniqueProducts    int           `json:"unique_products"`
	UniqueCustomers   int           `json:"unique_customers"`
	AvgOrderValue     float64       `json:"avg_order_value"`
	ProfitMargin      float64       `json:"profit_margin"`
	MinSaleDate       string        `json:"min_sale_date"`
	MaxSaleDate       string        `json:"max_sale_date"`
	MinSaleAmount     float64       `json:"min_sale_amount"`
	MaxSaleAmount     float64       `json:"max_sale_amount"`
}

type ProductSummary struct {
	ProductName      string  `json:"product_name"`
	Category         string  `json:"category"`
	TotalRevenue     float64 `json:"total_revenue"`
	AvgPrice         float64 `json:"avg_price"`
	TransactionCount int     `json:"transaction_count"`
	TotalUnitsSold   int     `json:"total_units_sold"`
	CurrentStock     int     `json:"current_stock"`
	MinimumStock     int     `json:"minimum_stock"`
}

type TopProducts struct {
	Status   SectionStatus    `json:"status"`
	Products []ProductSummary `json:"products"`
}

type CategoryPerformance struct {
	Category     string  `json:"category"`
	Revenue      float64 `json:"revenue"`
	QuantitySold int     `json:"quantity_sold"`
	Profit       float64 `json:"profit"`
}

type CategoryRollup struct {
	Status     SectionStatus         `json:"status"`
	Categories []CategoryPerformance `json:"categories"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM, chronological
	Revenue float64 `json:"revenue"`
}

type MonthlyTrend struct {
	Status SectionStatus    `json:"status"`
	Months []MonthlyRevenue `json:"months"`
}

// Segment labels, in rule order: the first matching rule wins.
const (
	SegmentVIP     = "VIP"
	SegmentLoyal   = "Loyal"
	SegmentAtRisk  = "At Risk"
	SegmentRegular = "Regular"
)

type CustomerSegments struct {
	Status SectionStatus  `json:"status"`
	Counts map[string]int `json:"counts"`
}

type ExpiringProduct struct {
	ProductName  string `json:"product_name"`
	Units        int    `json:"units"`
	DaysToExpiry int    `json:"days_to_expiry"`
}

type ExpiringReport struct {
	Status     SectionStatus     `json:"status"`
	Products   []ExpiringProduct `json:"products"`
	TotalUnits int               `json:"total_units"`
}

type DescriptiveResult struct {
	BasicMetrics        BasicMetrics     `json:"basic_metrics"`
	TopProducts         TopProducts      `json:"top_products"`
	CategoryPerformance CategoryRollup   `json:"category_performance"`
	MonthlyTrend        MonthlyTrend     `json:"monthly_trend"`
	CustomerSegments    CustomerSegments `json:"customer_segments"`
	ExpiringProducts    ExpiringReport   `json:"expiring_products"`
}

// --- Diagnostic ---

type AnomalyReport struct {
	Status SectionStatus `json:"status"`
	Dates  []string      `json:"dates"` // flagged days, ISO calendar strings
	Count  int           `json:"count"`
}

type CorrelationMatrix struct {
	Status  SectionStatus `json:"status"`
	Columns []string      `json:"columns"`
	Matrix  [][]float64   `json:"matrix"`
}

type DecliningProduct struct {
	ProductName string  `json:"product_name"`
	ChangePct   float64 `json:"change_pct"`
}

type DecliningReport struct {
	Status   SectionStatus      `json:"status"`
	Products []DecliningProduct `json:"products"`
}

type InventoryIssues struct {
	Status            SectionStatus `json:"status"`
	Understocked      []string      `json:"understocked"`
	Overstocked       []string      `json:"overstocked"`
	UnderstockedCount int           `json:"understocked_count"`
	OverstockedCount  int           `json:"overstocked_count"`
}

type DiagnosticResult struct {
	Anomalies         AnomalyReport     `json:"anomalies"`
	Correlations      CorrelationMatrix `json:"correlations"`
	DecliningProducts DecliningReport   `json:"declining_products"`
	InventoryIssues   InventoryIssues   `json:"inventory_issues"`
}

// --- Predictive ---

// ForecastProjection carries the numeric forecast fields. It is embedded
// as a pointer so an insufficient-data forecast serializes with no
// numeric fields at all, never with misleading zeros.
type ForecastProjection struct {
	NextPeriodTotal float64 `json:"next_30_days_total"`
	DailyAverage    float64 `json:"daily_average"`
	Trend           string  `json:"trend"` // "increasing" or "decreasing"
	Confidence      float64 `json:"confidence"`
}

type SalesForecast struct {
	Status SectionStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	*ForecastProjection
}

type ChurnRisk struct {
	Status          SectionStatus `json:"status"`
	AtRiskCount     int           `json:"at_risk_count"`
	AtRiskCustomers []int         `json:"at_risk_customers"`
	ChurnRate       float64       `json:"churn_rate"` // percent of all customers
}

type ProductDemand struct {
	ProductName     string  `json:"product_name"`
	AvgMonthlyUnits float64 `json:"avg_monthly_units"`
}

type DemandForecast struct {
	Status   SectionStatus   `json:"status"`
	Products []ProductDemand `json:"products"`
}

type PredictiveResult struct {
	SalesForecast  SalesForecast  `json:"sales_forecast"`
	ChurnRisk      ChurnRisk      `json:"churn_prediction"`
	DemandForecast DemandForecast `json:"demand_forecast"`
}

// --- Prescriptive ---

// RecommendationType is a closed enum; every recommendation the engine
// can emit is one of these.
type RecommendationType string

const (
	RecRevenueOptimization RecommendationType = "revenue_optimization"
	RecInventoryRestock    RecommendationType = "inventory_restock"
	RecCustomerRetention   RecommendationType = "customer_retention"
	RecProductStrategy     RecommendationType = "product_strategy"
	RecInventoryClearance  RecommendationType = "inventory_clearance"
	RecSystem              RecommendationType = "system"
)

// Recommendation priorities map named urgency bands onto the 1-5 scale.
const (
	PriorityLow    = 2
	PriorityMedium = 3
	PriorityHigh   = 4
	PriorityUrgent = 5
)

// ReorderSuggestion is the typed payload of a restock recommendation: an
// EOQ-based order quantity for one understocked product.
type ReorderSuggestion struct {
	ProductName       string `json:"product_name"`
	CurrentStock      int    `json:"current_stock"`
	MinimumStock      int    `json:"minimum_stock"`
	SuggestedOrderQty int    `json:"suggested_order_qty"`
}

// Recommendation is immutable once produced by the prescriptive stage.
type Recommendation struct {
	Type           RecommendationType  `json:"type"`
	Priority       int                 `json:"priority"` // 1-5, 5 most urgent
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Actions        []string            `json:"actions"`
	ExpectedImpact string              `json:"expected_impact"`
	Timeline       string              `json:"timeline"`
	ReorderPlan    []ReorderSuggestion `json:"reorder_plan,omitempty"`
}

type PrioritySummary struct {
	HighPriority   int `json:"high_priority"` // priority 4-5
	MediumPriority int `json:"medium_priority"`
	LowPriority    int `json:"low_priority"`
	TotalActions   int `json:"total_actions"`
}

type PrescriptiveResult struct {
	Status          SectionStatus    `json:"status"`
	Recommendations []Recommendation `json:"recommendations"`
	PrioritySummary PrioritySummary  `json:"priority_summary"`
}

// --- Bundle ---

type AnalysisPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Metadata struct {
	TotalRecords   int            `json:"total_records"`
	AnalysisPeriod AnalysisPeriod `json:"analysis_period"`
	Currency       string         `json:"currency"`
	Source         string         `json:"source"` // "database" or "synthetic"
}

// AnalysisResult is the top-level bundle of one pipeline run. It is built
// once, never mutated afterwards, and handed to consumers read-only.
type AnalysisResult struct {
	Descriptive  DescriptiveResult  `json:"descriptive"`
	Diagnostic   DiagnosticResult   `json:"diagnostic"`
	Predictive   PredictiveResult   `json:"predictive"`
	Prescriptive PrescriptiveResult `json:"prescriptive"`
	Metadata     Metadata           `json:"metadata"`
}
