package sales

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const legacyHeader = "Retailer,Invoice Date,Region,State,City,Product,Price per Unit,Units Sold,Total Sales,Sales Method"

var legacyRows = []string{
	"Foot Locker,2023-01-01,Northeast,New York,New York,Men's Street Footwear,50,1200,600000,In-store",
	"Foot Locker,2023-01-02,Northeast,New York,New York,Men's Athletic Footwear,50,1000,500000,In-store",
	"Walmart,2023-02-15,South,Texas,Houston,Women's Apparel,40,500,20000,Online",
	"Amazon,2024-01-10,West,California,San Francisco,Men's Apparel,45,300,13500,Outlet",
	"Amazon,not a date,West,California,Los Angeles,Women's Apparel,45,100,4500,Online",
	"West Gear,2024-02-01,West,Washington,Seattle,Men's Street Footwear,60,250,15000,Online",
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func legacyCSV(t *testing.T) string {
	t.Helper()
	return writeFile(t, "sales.csv", legacyHeader+"\n"+strings.Join(legacyRows, "\n")+"\n")
}

func legacyDataset(t *testing.T) *Dataset {
	t.Helper()
	rows := [][]string{strings.Split(legacyHeader, ",")}
	for _, line := range legacyRows {
		rows = append(rows, strings.Split(line, ","))
	}
	ds, err := FromRows(rows)
	require.NoError(t, err)
	return ds
}

// scenarioRecords is the three-record example: two retailers over two regions.
func scenarioRecords() []Record {
	return []Record{
		{Retailer: "A", Region: "West", TotalSales: decimal.NewFromInt(100)},
		{Retailer: "A", Region: "East", TotalSales: decimal.NewFromInt(50)},
		{Retailer: "B", Region: "West", TotalSales: decimal.NewFromInt(200)},
	}
}

func fullSchema() Schema {
	return NewSchema([]string{"InvoiceDate", "Region", "Retailer", "State", "City", "Product", "SalesMethod", "UnitsSold", "TotalSales"})
}

func dated(r Record, y int, m time.Month, d int) Record {
	r.InvoiceDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	r.HasDate = true
	r.Year = y
	r.Month = MonthOf(r.InvoiceDate)
	return r
}

func sumSales(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.TotalSales)
	}
	return total
}

func sumRows(rows []SummaryRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalSales)
	}
	return total
}
