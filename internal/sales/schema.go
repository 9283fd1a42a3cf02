package sales

import (
	"strings"
)

// Field names a canonical column of a sales record.
type Field int

const (
	FieldInvoiceDate Field = iota
	FieldRegion
	FieldRetailer
	FieldState
	FieldCity
	FieldProduct
	FieldSalesMethod
	FieldUnitsSold
	FieldTotalSales
	// FieldMonth is derived from FieldInvoiceDate.
	FieldMonth
)

type column struct {
	canonical string
	legacy    string
}

var columns = map[Field]column{
	FieldInvoiceDate: {canonical: "InvoiceDate", legacy: "Invoice Date"},
	FieldRegion:      {canonical: "Region"},
	FieldRetailer:    {canonical: "Retailer"},
	FieldState:       {canonical: "State"},
	FieldCity:        {canonical: "City"},
	FieldProduct:     {canonical: "Product"},
	FieldSalesMethod: {canonical: "SalesMethod", legacy: "Sales Method"},
	FieldUnitsSold:   {canonical: "UnitsSold", legacy: "Units Sold"},
	FieldTotalSales:  {canonical: "TotalSales", legacy: "Total Sales"},
	FieldMonth:       {canonical: "Month_Year"},
}

// sourceFields are the fields read from the header, in export order.
var sourceFields = []Field{
	FieldInvoiceDate,
	FieldRegion,
	FieldRetailer,
	FieldState,
	FieldCity,
	FieldProduct,
	FieldSalesMethod,
	FieldUnitsSold,
	FieldTotalSales,
}

// String returns the canonical column name.
func (f Field) String() string {
	if c, ok := columns[f]; ok {
		return c.canonical
	}
	return "Unknown"
}

// ExtraColumn is a source column with no canonical meaning, kept for raw exports.
type ExtraColumn struct {
	Name  string
	Index int
}

// Schema maps canonical fields to column positions of one source layout.
// All spreadsheet naming conventions are resolved here.
type Schema struct {
	index  map[Field]int
	Extras []ExtraColumn
}

// NewSchema resolves a header row. A canonical column is preferred over its
// legacy spelling when both are present; the loser becomes an extra column.
func NewSchema(header []string) Schema {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	s := Schema{index: make(map[Field]int)}
	used := make(map[int]bool)
	for _, f := range sourceFields {
		c := columns[f]
		if i, ok := positions[c.canonical]; ok {
			s.index[f] = i
			used[i] = true
			continue
		}
		if c.legacy == "" {
			continue
		}
		if i, ok := positions[c.legacy]; ok {
			s.index[f] = i
			used[i] = true
		}
	}

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" || used[i] {
			continue
		}
		if columns[FieldMonth].canonical == name || name == "Year" {
			// derived at load time, a stale copy in the source is ignored
			continue
		}
		s.Extras = append(s.Extras, ExtraColumn{Name: name, Index: i})
	}

	return s
}

// Has reports whether the source provides f.
func (s Schema) Has(f Field) bool {
	if f == FieldMonth {
		f = FieldInvoiceDate
	}
	_, ok := s.index[f]
	return ok
}

// HasAll reports whether the source provides every field.
func (s Schema) HasAll(fields ...Field) bool {
	for _, f := range fields {
		if !s.Has(f) {
			return false
		}
	}
	return true
}

// Recognized returns how many canonical fields the header resolved.
func (s Schema) Recognized() int {
	return len(s.index)
}

func (s Schema) cell(row []string, f Field) string {
	i, ok := s.index[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Value returns the grouping value of f for r. Blank means the record has no
// value for the field.
func (r Record) Value(f Field) string {
	switch f {
	case FieldRegion:
		return r.Region
	case FieldRetailer:
		return r.Retailer
	case FieldState:
		return r.State
	case FieldCity:
		return r.City
	case FieldProduct:
		return r.Product
	case FieldSalesMethod:
		return r.SalesMethod
	case FieldMonth:
		if !r.HasDate {
			return ""
		}
		return r.Month.Label()
	case FieldInvoiceDate:
		if !r.HasDate {
			return ""
		}
		return r.InvoiceDate.Format(dateLayout)
	}
	return ""
}
