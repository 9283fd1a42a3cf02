package sales

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// recordHeader is the canonical column order of raw record exports.
var recordHeader = []string{
	"InvoiceDate", "Region", "Retailer", "State", "City", "Product",
	"SalesMethod", "UnitsSold", "TotalSales", "Year", "Month_Year",
}

func keysAndSales(row SummaryRow) []string {
	out := make([]string, 0, len(row.Keys)+2)
	out = append(out, row.Keys...)
	return append(out, row.TotalSales.String())
}

func formatUnits(n int64) string {
	return strconv.FormatInt(n, 10)
}

// WriteCSV writes the report with its header row as UTF-8 CSV.
func (r Report) WriteCSV(w io.Writer) error {
	d, err := Definition(r.Name)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(r.Header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", r.Name, err)
	}
	for _, row := range r.Rows {
		if err := cw.Write(d.cells(row)); err != nil {
			return fmt.Errorf("failed to write %s row: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecordsCSV writes raw records, canonical columns first and the
// source's extra columns after them.
func WriteRecordsCSV(w io.Writer, schema Schema, records []Record) error {
	header := append([]string(nil), recordHeader...)
	for _, x := range schema.Extras {
		header = append(header, x.Name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write records header: %w", err)
	}

	line := make([]string, len(header))
	for _, r := range records {
		line = line[:0]
		year := ""
		if r.HasDate {
			year = strconv.Itoa(r.Year)
		}
		line = append(line,
			r.Value(FieldInvoiceDate),
			r.Region,
			r.Retailer,
			r.State,
			r.City,
			r.Product,
			r.SalesMethod,
			formatUnits(r.UnitsSold),
			r.TotalSales.String(),
			year,
			r.Value(FieldMonth),
		)
		for i := range schema.Extras {
			v := ""
			if i < len(r.Extras) {
				v = r.Extras[i]
			}
			line = append(line, v)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
