package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// --- Core Records ---

// SaleRecord is one sale event as read from the sales store. Rows whose
// sale date cannot be resolved are dropped by the loader, never defaulted.
type SaleRecord struct {
	SaleID       int64      `json:"sale_id"`
	ProductID    string     `json:"product_id"`
	ProductName  string     `json:"product_name"`
	Category     string     `json:"category"`
	SupplierName string     `json:"supplier_name"`
	QuantitySold int        `json:"quantity_sold"`
	Amount       float64    `json:"amount"`
	SaleDate     time.Time  `json:"sale_date"`
	UnitPrice    float64    `json:"unit_price"`
	CurrentStock int        `json:"current_stock"`
	MinimumStock int        `json:"minimum_stock"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
}

// DerivedRecord is a SaleRecord with calendar and financial fields added
// by the normalizer. Cost is a flat fraction of amount (a documented
// modeling assumption, not a COGS lookup). CustomerID is simulated
// deterministically because the sales store carries no customer identity.
type DerivedRecord struct {
	SaleRecord

	Month        int     `json:"month"`
	Quarter      int     `json:"quarter"`
	Weekday      string  `json:"weekday"`
	Cost         float64 `json:"cost"`
	Profit       float64 `json:"profit"`
	ProfitMargin float64 `json:"profit_margin"` // percent, 0 when amount is 0
	StockRatio   float64 `json:"stock_ratio"`
	DaysToExpiry *int    `json:"days_to_expiry,omitempty"`
	ExpiringSoon bool    `json:"is_expiring_soon"`
	CustomerID   int     `json:"customer_id"`
}

// DailyAggregate is one calendar day of sales, consumed by the diagnostic
// and predictive analyzers. Days are unique within a series.
type DailyAggregate struct {
	Date              time.Time `json:"date"`
	TotalAmount       float64   `json:"total_amount"`
	TotalQuantity     int       `json:"total_quantity"`
	DistinctCustomers int       `json:"distinct_customers"`
}
