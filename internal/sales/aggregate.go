package sales

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Measure selects the numeric columns summed by an aggregation.
type Measure uint8

const (
	MeasureTotalSales Measure = 1 << iota
	MeasureUnitsSold
)

func (m Measure) has(x Measure) bool {
	return m&x != 0
}

// AggregateBy partitions records by the combined values of keys and sums the
// requested measures per group. Groups come out in first-seen order. A record
// with a blank value for any key is left out of the grouping.
func AggregateBy(records []Record, keys []Field, measures Measure) []SummaryRow {
	rows := make([]SummaryRow, 0)
	index := make(map[string]int)

	values := make([]string, len(keys))
	for _, r := range records {
		skip := false
		for i, k := range keys {
			values[i] = r.Value(k)
			if values[i] == "" {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		id := strings.Join(values, "\x1f")
		at, ok := index[id]
		if !ok {
			at = len(rows)
			index[id] = at
			row := SummaryRow{
				Keys:       append([]string(nil), values...),
				TotalSales: decimal.Zero,
			}
			for _, k := range keys {
				if k == FieldMonth {
					row.Period = r.Month
				}
			}
			rows = append(rows, row)
		}

		if measures.has(MeasureTotalSales) {
			rows[at].TotalSales = rows[at].TotalSales.Add(r.TotalSales)
		}
		if measures.has(MeasureUnitsSold) {
			rows[at].UnitsSold += r.UnitsSold
		}
	}
	return rows
}
