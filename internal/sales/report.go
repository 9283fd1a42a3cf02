package sales

import (
	"errors"
	"sort"
)

// ErrUnknownReport is returned for a report name that is not defined.
var ErrUnknownReport = errors.New("unknown report")

// ReportName identifies one of the summary tables.
type ReportName string

const (
	ReportRetailer   ReportName = "retailer"
	ReportMonthly    ReportName = "monthly"
	ReportState      ReportName = "state"
	ReportProduct    ReportName = "product"
	ReportMethod     ReportName = "method"
	ReportRegionCity ReportName = "region-city"
)

// topProducts caps the product summary.
const topProducts = 10

// Report is one summary table. Available is false when the source lacks a
// column the table needs; Rows is then empty.
type Report struct {
	Name      ReportName   `json:"name"`
	Header    []string     `json:"header"`
	Available bool         `json:"available"`
	Rows      []SummaryRow `json:"rows"`
}

// ReportDefinition describes how a summary table is grouped, ordered and exported.
type ReportDefinition struct {
	Name     ReportName
	Keys     []Field
	Measures Measure
	Requires []Field
	Header   []string
	FileName string
	Limit    int
	order    func(rows []SummaryRow)
	cells    func(row SummaryRow) []string
}

var definitions = []ReportDefinition{
	{
		Name:     ReportRetailer,
		Keys:     []Field{FieldRetailer},
		Measures: MeasureTotalSales,
		Requires: []Field{FieldRetailer, FieldTotalSales},
		Header:   []string{"Retailer", "TotalSales"},
		FileName: "RetailerSales.csv",
		order:    bySalesDesc,
		cells:    keysAndSales,
	},
	{
		Name:     ReportMonthly,
		Keys:     []Field{FieldMonth},
		Measures: MeasureTotalSales,
		Requires: []Field{FieldInvoiceDate, FieldTotalSales},
		Header:   []string{"Month_Year", "TotalSales"},
		FileName: "MonthlySales.csv",
		order:    chronological,
		cells:    keysAndSales,
	},
	{
		Name:     ReportState,
		Keys:     []Field{FieldState},
		Measures: MeasureTotalSales | MeasureUnitsSold,
		Requires: []Field{FieldState, FieldTotalSales, FieldUnitsSold},
		Header:   []string{"State", "TotalSales", "UnitsSold"},
		FileName: "Sales_by_State.csv",
		order:    bySalesDesc,
		cells: func(row SummaryRow) []string {
			return append(keysAndSales(row), formatUnits(row.UnitsSold))
		},
	},
	{
		Name:     ReportProduct,
		Keys:     []Field{FieldProduct},
		Measures: MeasureTotalSales,
		Requires: []Field{FieldProduct, FieldTotalSales},
		Header:   []string{"Product", "TotalSales"},
		FileName: "TopProducts.csv",
		Limit:    topProducts,
		order:    bySalesDesc,
		cells:    keysAndSales,
	},
	{
		Name:     ReportMethod,
		Keys:     []Field{FieldSalesMethod},
		Measures: MeasureTotalSales,
		Requires: []Field{FieldSalesMethod, FieldTotalSales},
		Header:   []string{"SalesMethod", "TotalSales"},
		FileName: "SalesByMethod.csv",
		cells:    keysAndSales,
	},
	{
		Name:     ReportRegionCity,
		Keys:     []Field{FieldRegion, FieldCity},
		Measures: MeasureTotalSales,
		Requires: []Field{FieldRegion, FieldCity, FieldTotalSales},
		Header:   []string{"Region", "City", "TotalSales", "TotalSales (Formatted)"},
		FileName: "Sales_by_Region_City.csv",
		cells: func(row SummaryRow) []string {
			return append(keysAndSales(row), FormatSales(row.TotalSales))
		},
	},
}

// Definitions returns every report definition in display order.
func Definitions() []ReportDefinition {
	return append([]ReportDefinition(nil), definitions...)
}

// Definition looks up a report by name.
func Definition(name ReportName) (ReportDefinition, error) {
	for _, d := range definitions {
		if d.Name == name {
			return d, nil
		}
	}
	return ReportDefinition{}, ErrUnknownReport
}

// Build aggregates records into the table described by d.
func (d ReportDefinition) Build(schema Schema, records []Record) Report {
	report := Report{
		Name:   d.Name,
		Header: append([]string(nil), d.Header...),
		Rows:   []SummaryRow{},
	}
	if !schema.HasAll(d.Requires...) {
		return report
	}
	report.Available = true

	rows := AggregateBy(records, d.Keys, d.Measures)
	if d.order != nil {
		d.order(rows)
	}
	if d.Limit > 0 && len(rows) > d.Limit {
		rows = rows[:d.Limit]
	}
	report.Rows = rows
	return report
}

// BuildReport builds the named report over records.
func BuildReport(name ReportName, schema Schema, records []Record) (Report, error) {
	d, err := Definition(name)
	if err != nil {
		return Report{}, err
	}
	return d.Build(schema, records), nil
}

// RetailerSummary sums total sales per retailer, largest first.
func RetailerSummary(schema Schema, records []Record) Report {
	return mustBuild(ReportRetailer, schema, records)
}

// MonthlySummary sums total sales per month in calendar order.
func MonthlySummary(schema Schema, records []Record) Report {
	return mustBuild(ReportMonthly, schema, records)
}

// StateSummary sums total sales and units per state, largest sales first.
func StateSummary(schema Schema, records []Record) Report {
	return mustBuild(ReportState, schema, records)
}

// ProductSummary returns the ten products with the highest total sales.
func ProductSummary(schema Schema, records []Record) Report {
	return mustBuild(ReportProduct, schema, records)
}

// MethodSummary sums total sales per sales method.
func MethodSummary(schema Schema, records []Record) Report {
	return mustBuild(ReportMethod, schema, records)
}

// RegionCitySummary sums total sales per region and city.
func RegionCitySummary(schema Schema, records []Record) Report {
	return mustBuild(ReportRegionCity, schema, records)
}

func mustBuild(name ReportName, schema Schema, records []Record) Report {
	d, err := Definition(name)
	if err != nil {
		panic(err)
	}
	return d.Build(schema, records)
}

func bySalesDesc(rows []SummaryRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalSales.GreaterThan(rows[j].TotalSales)
	})
}

func chronological(rows []SummaryRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Period.Before(rows[j].Period)
	})
}
