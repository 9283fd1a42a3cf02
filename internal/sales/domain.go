package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record represents one sales transaction line of the dataset.
type Record struct {
	InvoiceDate time.Time       `json:"invoice_date"`
	HasDate     bool            `json:"-"`
	Region      string          `json:"region"`
	Retailer    string          `json:"retailer"`
	State       string          `json:"state"`
	City        string          `json:"city"`
	Product     string          `json:"product"`
	SalesMethod string          `json:"sales_method"`
	UnitsSold   int64           `json:"units_sold"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	Year        int             `json:"year,omitempty"`
	Month       MonthKey        `json:"-"`
	Extras      []string        `json:"-"`
}

// MonthKey is a calendar month usable as a chronological sort key.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month bucket of t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Label renders the month as "Jan '24".
func (m MonthKey) Label() string {
	if m.IsZero() {
		return ""
	}
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan '06")
}

// Before reports whether m is chronologically earlier than o.
func (m MonthKey) Before(o MonthKey) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m MonthKey) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Dataset is an immutable snapshot of a loaded source.
type Dataset struct {
	Source   string
	Identity string
	Schema   Schema
	Records  []Record
	LoadedAt time.Time
}

// SummaryRow is one aggregated output tuple.
type SummaryRow struct {
	Keys       []string        `json:"keys"`
	Period     MonthKey        `json:"-"`
	TotalSales decimal.Decimal `json:"total_sales"`
	UnitsSold  int64           `json:"units_sold"`
}

// KPIs are the headline totals over a filtered record set.
type KPIs struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalUnits    int64           `json:"total_units"`
	TotalOrders   int             `json:"total_orders"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// FilterOptions lists the values a caller can filter on.
type FilterOptions struct {
	Regions   []string   `json:"regions"`
	Retailers []string   `json:"retailers"`
	States    []string   `json:"states"`
	MinDate   *time.Time `json:"min_date,omitempty"`
	MaxDate   *time.Time `json:"max_date,omitempty"`
}

// ComputeKPIs sums the headline measures of records.
func ComputeKPIs(records []Record) KPIs {
	k := KPIs{TotalSales: decimal.Zero, AvgOrderValue: decimal.Zero}
	for _, r := range records {
		k.TotalSales = k.TotalSales.Add(r.TotalSales)
		k.TotalUnits += r.UnitsSold
	}
	k.TotalOrders = len(records)
	if k.TotalOrders > 0 {
		k.AvgOrderValue = k.TotalSales.Div(decimal.NewFromInt(int64(k.TotalOrders)))
	}
	return k
}
